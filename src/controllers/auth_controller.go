package controllers

import (
	"github.com/MutheuMC/Interview-ACTSERV/src/middleware"
	"github.com/MutheuMC/Interview-ACTSERV/src/models"
	"github.com/MutheuMC/Interview-ACTSERV/src/services/auth"
	"github.com/MutheuMC/Interview-ACTSERV/src/utils"

	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// LoginUser - login ด้วย email + password
func LoginUser(c *fiber.Ctx) error {
	var req models.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.HandleError(c, fiber.StatusBadRequest, "Invalid request format")
	}
	if err := validate.Struct(&req); err != nil {
		return utils.HandleValidationError(c, err)
	}

	result, err := auth.Login(c.Context(), req.Email, req.Password)
	if err != nil {
		return utils.HandleError(c, fiber.StatusUnauthorized, "Invalid credentials")
	}

	return c.JSON(result)
}

// GetMe - ข้อมูลผู้ใช้จาก token
func GetMe(c *fiber.Ctx) error {
	userID, err := primitive.ObjectIDFromHex(middleware.UserID(c))
	if err != nil {
		return utils.HandleError(c, fiber.StatusUnauthorized, "Invalid token subject")
	}

	user, err := auth.GetUserByID(c.Context(), userID)
	if err != nil {
		return utils.HandleError(c, fiber.StatusNotFound, "User not found")
	}

	return c.JSON(user)
}
