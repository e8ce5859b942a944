package controllers

import (
	"errors"
	"log"
	"os"
	"path/filepath"

	"github.com/MutheuMC/Interview-ACTSERV/src/services/submissions"
	"github.com/MutheuMC/Interview-ACTSERV/src/services/uploads"
	"github.com/MutheuMC/Interview-ACTSERV/src/utils"

	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func uploadDir() string {
	if dir := os.Getenv("UPLOAD_DIR"); dir != "" {
		return dir
	}
	return "./uploads/submissions"
}

// UploadSubmissionFile godoc
// @Summary      Attach a file to a submission
// @Description  Gate-checks the file against the field it targets, then stores it
// @Tags         uploads
// @Accept       multipart/form-data
// @Produce      json
// @Param        id        path     string  true  "Submission ID"
// @Param        fieldName path     string  true  "Field name"
// @Param        file      formData file    true  "File to attach"
// @Success      201  {object}  models.FileUpload
// @Failure      400  {object}  models.ErrorResponse
// @Failure      404  {object}  models.ErrorResponse
// @Router       /submissions/{id}/files/{fieldName} [post]
func UploadSubmissionFile(c *fiber.Ctx) error {
	id, err := primitive.ObjectIDFromHex(c.Params("id"))
	if err != nil {
		return utils.HandleError(c, fiber.StatusBadRequest, "Invalid submission ID")
	}
	fieldName := c.Params("fieldName")

	submission, err := submissions.GetSubmissionByID(c.Context(), id)
	if err != nil {
		return utils.HandleError(c, submissionErrorStatus(err), err.Error())
	}
	if !canViewSubmission(c, submission) {
		return utils.HandleError(c, fiber.StatusForbidden, "You do not have access to this submission")
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		return utils.HandleError(c, fiber.StatusBadRequest, "Failed to upload file: "+err.Error())
	}

	upload, err := uploads.AttachFile(c.Context(), id, fieldName,
		fileHeader.Filename, fileHeader.Size, fileHeader.Header.Get("Content-Type"))
	if err != nil {
		var rej *uploads.RejectionError
		switch {
		case errors.As(err, &rej):
			return utils.HandleError(c, fiber.StatusBadRequest, rej.Message)
		case errors.Is(err, uploads.ErrResponseNotFound):
			return utils.HandleError(c, fiber.StatusNotFound, err.Error())
		case errors.Is(err, submissions.ErrSubmissionNotFound):
			return utils.HandleError(c, fiber.StatusNotFound, err.Error())
		default:
			return utils.HandleError(c, fiber.StatusInternalServerError, "Failed to attach file")
		}
	}

	dir := uploadDir()
	if err := os.MkdirAll(dir, 0755); err != nil {
		log.Println("Failed to create upload directory:", err)
	}

	if err := c.SaveFile(fileHeader, filepath.Join(dir, upload.StorageKey)); err != nil {
		// 🔥 เขียนไฟล์ไม่สำเร็จ ต้องลบ record ที่เพิ่งรับไว้
		if delErr := uploads.DeleteUpload(c.Context(), upload); delErr != nil {
			log.Println("Failed to remove upload record:", delErr)
		}
		return utils.HandleError(c, fiber.StatusInternalServerError, "Failed to store file")
	}

	return c.Status(fiber.StatusCreated).JSON(upload)
}

// GetSubmissionFiles godoc
// @Summary      List files attached to a submission
// @Tags         uploads
// @Produce      json
// @Param        id path string true "Submission ID"
// @Success      200  {array}   models.FileUpload
// @Failure      404  {object}  models.ErrorResponse
// @Router       /submissions/{id}/files [get]
func GetSubmissionFiles(c *fiber.Ctx) error {
	id, err := primitive.ObjectIDFromHex(c.Params("id"))
	if err != nil {
		return utils.HandleError(c, fiber.StatusBadRequest, "Invalid submission ID")
	}

	submission, err := submissions.GetSubmissionByID(c.Context(), id)
	if err != nil {
		return utils.HandleError(c, submissionErrorStatus(err), err.Error())
	}
	if !canViewSubmission(c, submission) {
		return utils.HandleError(c, fiber.StatusForbidden, "You do not have access to this submission")
	}

	files, err := uploads.ListSubmissionFiles(c.Context(), id)
	if err != nil {
		return utils.HandleError(c, fiber.StatusInternalServerError, "Failed to fetch files")
	}

	return c.JSON(files)
}
