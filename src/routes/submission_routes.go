package routes

import (
	"github.com/MutheuMC/Interview-ACTSERV/src/controllers"
	"github.com/MutheuMC/Interview-ACTSERV/src/middleware"

	"github.com/gofiber/fiber/v2"
)

// SubmissionRoutes กำหนด route สำหรับ submissions และไฟล์แนบ
func SubmissionRoutes(app *fiber.App) {
	submissions := app.Group("/submissions", middleware.AuthJWT)

	submissions.Post("/", controllers.CreateSubmission)
	submissions.Get("/", controllers.GetSubmissions)
	submissions.Get("/:id", controllers.GetSubmissionByID)
	submissions.Post("/:id/submit", controllers.SubmitSubmission)
	submissions.Get("/:id/export", controllers.ExportSubmission)

	// เฉพาะ admin
	submissions.Post("/:id/review", middleware.RequireAdmin, controllers.ReviewSubmission)
	submissions.Get("/:id/notifications", middleware.RequireAdmin, controllers.GetSubmissionNotifications)

	// ไฟล์แนบ
	submissions.Post("/:id/files/:fieldName", controllers.UploadSubmissionFile)
	submissions.Get("/:id/files", controllers.GetSubmissionFiles)
}
