package routes

import (
	"github.com/MutheuMC/Interview-ACTSERV/src/controllers"
	"github.com/MutheuMC/Interview-ACTSERV/src/middleware"

	"github.com/gofiber/fiber/v2"
)

// FormRoutes กำหนด route สำหรับ form management
func FormRoutes(app *fiber.App) {
	forms := app.Group("/forms", middleware.AuthJWT)

	forms.Get("/", controllers.GetForms)
	forms.Get("/:id", controllers.GetFormByID)
	forms.Get("/:id/schema", controllers.GetFormSchema)

	// เฉพาะ admin
	forms.Post("/", middleware.RequireAdmin, controllers.CreateForm)
	forms.Put("/:id", middleware.RequireAdmin, controllers.UpdateForm)
	forms.Patch("/:id", middleware.RequireAdmin, controllers.UpdateForm)
	forms.Delete("/:id", middleware.RequireAdmin, controllers.DeleteForm)
	forms.Get("/:id/versions", middleware.RequireAdmin, controllers.GetFormVersions)
	forms.Post("/:id/duplicate", middleware.RequireAdmin, controllers.DuplicateForm)
	forms.Get("/:id/submissions", middleware.RequireAdmin, controllers.GetFormSubmissions)
	forms.Get("/:id/analytics", middleware.RequireAdmin, controllers.GetFormAnalytics)
}
