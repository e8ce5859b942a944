package routes

import (
	"github.com/MutheuMC/Interview-ACTSERV/src/controllers"
	"github.com/MutheuMC/Interview-ACTSERV/src/middleware"

	"github.com/gofiber/fiber/v2"
)

// AuthRoutes กำหนด route สำหรับ auth
func AuthRoutes(app *fiber.App) {
	auth := app.Group("/auth")

	auth.Post("/login", controllers.LoginUser) // 🔐 login
	auth.Get("/me", middleware.AuthJWT, controllers.GetMe)
}
