package controllers

import (
	"errors"
	"strconv"

	"github.com/MutheuMC/Interview-ACTSERV/src/middleware"
	"github.com/MutheuMC/Interview-ACTSERV/src/models"
	"github.com/MutheuMC/Interview-ACTSERV/src/services/forms"
	"github.com/MutheuMC/Interview-ACTSERV/src/services/notifications"
	"github.com/MutheuMC/Interview-ACTSERV/src/services/submissions"
	"github.com/MutheuMC/Interview-ACTSERV/src/utils"

	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func submissionErrorStatus(err error) int {
	var verr *submissions.ValidationError
	switch {
	case errors.As(err, &verr),
		errors.Is(err, submissions.ErrFormInactive),
		errors.Is(err, submissions.ErrIllegalTransition),
		errors.Is(err, forms.ErrNoActiveVersion):
		return fiber.StatusBadRequest
	case errors.Is(err, submissions.ErrSubmissionNotFound), errors.Is(err, forms.ErrFormNotFound):
		return fiber.StatusNotFound
	default:
		return fiber.StatusInternalServerError
	}
}

func canViewSubmission(c *fiber.Ctx, sub *models.FormSubmission) bool {
	if middleware.IsAdmin(c) {
		return true
	}
	return sub.SubmittedBy.Hex() == middleware.UserID(c)
}

// CreateSubmission godoc
// @Summary      Submit a form
// @Description  Validate the payload against the form's current version and store it; validation stops at the first invalid field
// @Tags         submissions
// @Accept       json
// @Produce      json
// @Param        body body models.CreateSubmissionRequest true "Form ID, target status and answers"
// @Success      201  {object}  models.FormSubmission
// @Failure      400  {object}  models.ErrorResponse
// @Failure      404  {object}  models.ErrorResponse
// @Router       /submissions [post]
func CreateSubmission(c *fiber.Ctx) error {
	var req models.CreateSubmissionRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.HandleError(c, fiber.StatusBadRequest, "Invalid input: "+err.Error())
	}
	if err := validate.Struct(&req); err != nil {
		return utils.HandleValidationError(c, err)
	}

	formID, err := primitive.ObjectIDFromHex(req.FormID)
	if err != nil {
		return utils.HandleError(c, fiber.StatusBadRequest, "Invalid form ID")
	}

	submittedBy, err := primitive.ObjectIDFromHex(middleware.UserID(c))
	if err != nil {
		return utils.HandleError(c, fiber.StatusUnauthorized, "Invalid token subject")
	}

	submission, err := submissions.CreateSubmission(c.Context(), formID, submittedBy, &req)
	if err != nil {
		return utils.HandleError(c, submissionErrorStatus(err), err.Error())
	}

	return c.Status(fiber.StatusCreated).JSON(submission)
}

// GetSubmissions godoc
// @Summary      List submissions
// @Description  Paginated; non-admins only see their own submissions
// @Tags         submissions
// @Produce      json
// @Param        page    query  int     false  "Page number"
// @Param        limit   query  int     false  "Items per page"
// @Param        formId  query  string  false  "Filter by form"
// @Param        status  query  string  false  "Filter by status"
// @Success      200  {object}  models.PaginatedResponse
// @Failure      500  {object}  models.ErrorResponse
// @Router       /submissions [get]
func GetSubmissions(c *fiber.Ctx) error {
	params := models.DefaultPagination()
	params.Page, _ = strconv.Atoi(c.Query("page", strconv.Itoa(params.Page)))
	params.Limit, _ = strconv.Atoi(c.Query("limit", strconv.Itoa(params.Limit)))
	params.SortBy = c.Query("sortBy", params.SortBy)
	params.Order = c.Query("order", params.Order)

	var filter submissions.SubmissionFilter
	if formHex := c.Query("formId"); formHex != "" {
		formID, err := primitive.ObjectIDFromHex(formHex)
		if err != nil {
			return utils.HandleError(c, fiber.StatusBadRequest, "Invalid form ID")
		}
		filter.FormID = &formID
	}
	if status := c.Query("status"); status != "" {
		filter.Status = models.SubmissionStatus(status)
	}

	// คนทั่วไปเห็นเฉพาะของตัวเอง
	if !middleware.IsAdmin(c) {
		ownerID, err := primitive.ObjectIDFromHex(middleware.UserID(c))
		if err != nil {
			return utils.HandleError(c, fiber.StatusUnauthorized, "Invalid token subject")
		}
		filter.SubmittedBy = &ownerID
	}

	result, err := submissions.GetSubmissions(c.Context(), params, filter)
	if err != nil {
		return utils.HandleError(c, fiber.StatusInternalServerError, "Failed to fetch submissions")
	}

	return c.JSON(result)
}

// GetFormSubmissions godoc
// @Summary      List submissions of one form
// @Tags         forms
// @Produce      json
// @Param        id     path   string  true   "Form ID"
// @Param        page   query  int     false  "Page number"
// @Param        limit  query  int     false  "Items per page"
// @Param        status query  string  false  "Filter by status"
// @Success      200  {object}  models.PaginatedResponse
// @Failure      400  {object}  models.ErrorResponse
// @Router       /forms/{id}/submissions [get]
func GetFormSubmissions(c *fiber.Ctx) error {
	formID, err := primitive.ObjectIDFromHex(c.Params("id"))
	if err != nil {
		return utils.HandleError(c, fiber.StatusBadRequest, "Invalid form ID")
	}

	params := models.DefaultPagination()
	params.Page, _ = strconv.Atoi(c.Query("page", strconv.Itoa(params.Page)))
	params.Limit, _ = strconv.Atoi(c.Query("limit", strconv.Itoa(params.Limit)))
	params.SortBy = c.Query("sortBy", params.SortBy)
	params.Order = c.Query("order", params.Order)

	filter := submissions.SubmissionFilter{FormID: &formID}
	if status := c.Query("status"); status != "" {
		filter.Status = models.SubmissionStatus(status)
	}

	result, err := submissions.GetSubmissions(c.Context(), params, filter)
	if err != nil {
		return utils.HandleError(c, fiber.StatusInternalServerError, "Failed to fetch submissions")
	}

	return c.JSON(result)
}

// GetSubmissionByID godoc
// @Summary      Get one submission
// @Tags         submissions
// @Produce      json
// @Param        id path string true "Submission ID"
// @Success      200  {object}  models.FormSubmission
// @Failure      403  {object}  models.ErrorResponse
// @Failure      404  {object}  models.ErrorResponse
// @Router       /submissions/{id} [get]
func GetSubmissionByID(c *fiber.Ctx) error {
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

	return c.JSON(submission)
}

// SubmitSubmission godoc
// @Summary      Submit a draft
// @Description  Move a draft submission to submitted and trigger notifications
// @Tags         submissions
// @Produce      json
// @Param        id path string true "Submission ID"
// @Success      200  {object}  models.FormSubmission
// @Failure      400  {object}  models.ErrorResponse
// @Failure      404  {object}  models.ErrorResponse
// @Router       /submissions/{id}/submit [post]
func SubmitSubmission(c *fiber.Ctx) error {
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

	updated, err := submissions.SubmitSubmission(c.Context(), id)
	if err != nil {
		return utils.HandleError(c, submissionErrorStatus(err), err.Error())
	}

	return c.JSON(updated)
}

// ReviewSubmission godoc
// @Summary      Review a submission
// @Description  Move a submitted submission to under_review, approved or rejected
// @Tags         submissions
// @Accept       json
// @Produce      json
// @Param        id   path string               true "Submission ID"
// @Param        body body models.ReviewRequest true "Target status and notes"
// @Success      200  {object}  models.FormSubmission
// @Failure      400  {object}  models.ErrorResponse
// @Failure      404  {object}  models.ErrorResponse
// @Router       /submissions/{id}/review [post]
func ReviewSubmission(c *fiber.Ctx) error {
	id, err := primitive.ObjectIDFromHex(c.Params("id"))
	if err != nil {
		return utils.HandleError(c, fiber.StatusBadRequest, "Invalid submission ID")
	}

	var req models.ReviewRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.HandleError(c, fiber.StatusBadRequest, "Invalid input: "+err.Error())
	}
	if err := validate.Struct(&req); err != nil {
		return utils.HandleValidationError(c, err)
	}

	reviewerID, err := primitive.ObjectIDFromHex(middleware.UserID(c))
	if err != nil {
		return utils.HandleError(c, fiber.StatusUnauthorized, "Invalid token subject")
	}

	updated, err := submissions.ReviewSubmission(c.Context(), id, reviewerID, &req)
	if err != nil {
		return utils.HandleError(c, submissionErrorStatus(err), err.Error())
	}

	return c.JSON(updated)
}

// ExportSubmission godoc
// @Summary      Export a submission
// @Description  Full record: responses, version used for validation and attached files
// @Tags         submissions
// @Produce      json
// @Param        id path string true "Submission ID"
// @Success      200  {object}  models.SubmissionExport
// @Failure      404  {object}  models.ErrorResponse
// @Router       /submissions/{id}/export [get]
func ExportSubmission(c *fiber.Ctx) error {
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

	export, err := submissions.ExportSubmission(c.Context(), id)
	if err != nil {
		return utils.HandleError(c, submissionErrorStatus(err), err.Error())
	}

	return c.JSON(export)
}

// GetSubmissionNotifications godoc
// @Summary      Notification logs of a submission
// @Tags         submissions
// @Produce      json
// @Param        id path string true "Submission ID"
// @Success      200  {array}   models.NotificationLog
// @Failure      404  {object}  models.ErrorResponse
// @Router       /submissions/{id}/notifications [get]
func GetSubmissionNotifications(c *fiber.Ctx) error {
	id, err := primitive.ObjectIDFromHex(c.Params("id"))
	if err != nil {
		return utils.HandleError(c, fiber.StatusBadRequest, "Invalid submission ID")
	}

	logs, err := notifications.GetNotificationLogs(c.Context(), id)
	if err != nil {
		return utils.HandleError(c, fiber.StatusInternalServerError, "Failed to fetch notification logs")
	}

	return c.JSON(logs)
}
