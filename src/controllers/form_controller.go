package controllers

import (
	"errors"
	"strconv"

	"github.com/MutheuMC/Interview-ACTSERV/src/middleware"
	"github.com/MutheuMC/Interview-ACTSERV/src/models"
	"github.com/MutheuMC/Interview-ACTSERV/src/services/forms"
	"github.com/MutheuMC/Interview-ACTSERV/src/utils"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var validate = validator.New()

// formErrorStatus maps service errors onto HTTP statuses.
func formErrorStatus(err error) int {
	switch {
	case errors.Is(err, forms.ErrFormNotFound), errors.Is(err, forms.ErrVersionNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, forms.ErrDuplicateFormName), errors.Is(err, forms.ErrVersionConflict):
		return fiber.StatusConflict
	case errors.Is(err, forms.ErrInvalidDefinition), errors.Is(err, forms.ErrNoActiveVersion):
		return fiber.StatusBadRequest
	default:
		return fiber.StatusInternalServerError
	}
}

// CreateForm godoc
// @Summary      Create a new form
// @Description  Create a form with its field definitions; a first version is compiled when fields are given
// @Tags         forms
// @Accept       json
// @Produce      json
// @Param        body body models.CreateFormRequest true "Form and fields"
// @Success      201  {object}  models.FormDetail
// @Failure      400  {object}  models.ErrorResponse
// @Failure      409  {object}  models.ErrorResponse
// @Router       /forms [post]
func CreateForm(c *fiber.Ctx) error {
	var req models.CreateFormRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.HandleError(c, fiber.StatusBadRequest, "Invalid input: "+err.Error())
	}
	if err := validate.Struct(&req); err != nil {
		return utils.HandleValidationError(c, err)
	}

	createdBy, err := primitive.ObjectIDFromHex(middleware.UserID(c))
	if err != nil {
		return utils.HandleError(c, fiber.StatusUnauthorized, "Invalid token subject")
	}

	detail, err := forms.CreateForm(c.Context(), &req, createdBy)
	if err != nil {
		return utils.HandleError(c, formErrorStatus(err), err.Error())
	}

	return c.Status(fiber.StatusCreated).JSON(detail)
}

// GetForms godoc
// @Summary      List forms
// @Description  Paginated form list; non-admins only see active forms
// @Tags         forms
// @Produce      json
// @Param        page    query  int     false  "Page number"
// @Param        limit   query  int     false  "Items per page"
// @Param        search  query  string  false  "Search by name"
// @Param        sortBy  query  string  false  "Sort field"
// @Param        order   query  string  false  "asc or desc"
// @Success      200  {object}  models.PaginatedResponse
// @Failure      500  {object}  models.ErrorResponse
// @Router       /forms [get]
func GetForms(c *fiber.Ctx) error {
	params := models.DefaultPagination()
	params.Page, _ = strconv.Atoi(c.Query("page", strconv.Itoa(params.Page)))
	params.Limit, _ = strconv.Atoi(c.Query("limit", strconv.Itoa(params.Limit)))
	params.Search = c.Query("search", params.Search)
	params.SortBy = c.Query("sortBy", params.SortBy)
	params.Order = c.Query("order", params.Order)

	activeOnly := !middleware.IsAdmin(c) || c.Query("active") == "true"

	result, err := forms.GetForms(c.Context(), params, activeOnly)
	if err != nil {
		return utils.HandleError(c, fiber.StatusInternalServerError, "Failed to fetch forms")
	}

	return c.JSON(result)
}

// GetFormByID godoc
// @Summary      Get one form
// @Description  Form with its current version and field definitions
// @Tags         forms
// @Produce      json
// @Param        id path string true "Form ID"
// @Success      200  {object}  models.FormDetail
// @Failure      404  {object}  models.ErrorResponse
// @Router       /forms/{id} [get]
func GetFormByID(c *fiber.Ctx) error {
	formID, err := primitive.ObjectIDFromHex(c.Params("id"))
	if err != nil {
		return utils.HandleError(c, fiber.StatusBadRequest, "Invalid form ID")
	}

	detail, err := forms.GetFormByID(c.Context(), formID)
	if err != nil {
		return utils.HandleError(c, formErrorStatus(err), err.Error())
	}

	return c.JSON(detail)
}

// UpdateForm godoc
// @Summary      Update a form
// @Description  Update form metadata; sending fields compiles a new immutable version
// @Tags         forms
// @Accept       json
// @Produce      json
// @Param        id   path string                   true "Form ID"
// @Param        body body models.UpdateFormRequest true "Changes"
// @Success      200  {object}  models.FormDetail
// @Failure      400  {object}  models.ErrorResponse
// @Failure      404  {object}  models.ErrorResponse
// @Router       /forms/{id} [put]
func UpdateForm(c *fiber.Ctx) error {
	formID, err := primitive.ObjectIDFromHex(c.Params("id"))
	if err != nil {
		return utils.HandleError(c, fiber.StatusBadRequest, "Invalid form ID")
	}

	var req models.UpdateFormRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.HandleError(c, fiber.StatusBadRequest, "Invalid input: "+err.Error())
	}
	if err := validate.Struct(&req); err != nil {
		return utils.HandleValidationError(c, err)
	}

	detail, err := forms.UpdateForm(c.Context(), formID, &req)
	if err != nil {
		return utils.HandleError(c, formErrorStatus(err), err.Error())
	}

	return c.JSON(detail)
}

// DeleteForm godoc
// @Summary      Deactivate a form
// @Description  Soft delete: the form stops accepting submissions but history is kept
// @Tags         forms
// @Produce      json
// @Param        id path string true "Form ID"
// @Success      200  {object}  map[string]interface{}
// @Failure      404  {object}  models.ErrorResponse
// @Router       /forms/{id} [delete]
func DeleteForm(c *fiber.Ctx) error {
	formID, err := primitive.ObjectIDFromHex(c.Params("id"))
	if err != nil {
		return utils.HandleError(c, fiber.StatusBadRequest, "Invalid form ID")
	}

	if err := forms.SetFormActive(c.Context(), formID, false); err != nil {
		return utils.HandleError(c, formErrorStatus(err), err.Error())
	}

	return c.JSON(fiber.Map{"message": "Form deactivated successfully"})
}

// GetFormSchema godoc
// @Summary      Get the current compiled schema
// @Description  The frozen schema document of the form's current version
// @Tags         forms
// @Produce      json
// @Param        id path string true "Form ID"
// @Success      200  {object}  models.SchemaDocument
// @Failure      400  {object}  models.ErrorResponse
// @Failure      404  {object}  models.ErrorResponse
// @Router       /forms/{id}/schema [get]
func GetFormSchema(c *fiber.Ctx) error {
	formID, err := primitive.ObjectIDFromHex(c.Params("id"))
	if err != nil {
		return utils.HandleError(c, fiber.StatusBadRequest, "Invalid form ID")
	}

	schema, err := forms.GetCurrentSchema(c.Context(), formID)
	if err != nil {
		return utils.HandleError(c, formErrorStatus(err), err.Error())
	}

	return c.JSON(schema)
}

// GetFormVersions godoc
// @Summary      List form versions
// @Description  Every immutable version of the form, oldest first
// @Tags         forms
// @Produce      json
// @Param        id path string true "Form ID"
// @Success      200  {array}   models.FormVersion
// @Failure      404  {object}  models.ErrorResponse
// @Router       /forms/{id}/versions [get]
func GetFormVersions(c *fiber.Ctx) error {
	formID, err := primitive.ObjectIDFromHex(c.Params("id"))
	if err != nil {
		return utils.HandleError(c, fiber.StatusBadRequest, "Invalid form ID")
	}

	versions, err := forms.GetFormVersions(c.Context(), formID)
	if err != nil {
		return utils.HandleError(c, formErrorStatus(err), err.Error())
	}

	return c.JSON(versions)
}

// DuplicateForm godoc
// @Summary      Duplicate a form
// @Description  Copy a form and its current fields into a new inactive form
// @Tags         forms
// @Produce      json
// @Param        id path string true "Form ID"
// @Success      201  {object}  models.FormDetail
// @Failure      404  {object}  models.ErrorResponse
// @Router       /forms/{id}/duplicate [post]
func DuplicateForm(c *fiber.Ctx) error {
	formID, err := primitive.ObjectIDFromHex(c.Params("id"))
	if err != nil {
		return utils.HandleError(c, fiber.StatusBadRequest, "Invalid form ID")
	}

	createdBy, err := primitive.ObjectIDFromHex(middleware.UserID(c))
	if err != nil {
		return utils.HandleError(c, fiber.StatusUnauthorized, "Invalid token subject")
	}

	detail, err := forms.DuplicateForm(c.Context(), formID, createdBy)
	if err != nil {
		return utils.HandleError(c, formErrorStatus(err), err.Error())
	}

	return c.Status(fiber.StatusCreated).JSON(detail)
}

// GetFormAnalytics godoc
// @Summary      Form analytics
// @Description  Submission totals, status breakdown and 30-day volume
// @Tags         forms
// @Produce      json
// @Param        id path string true "Form ID"
// @Success      200  {object}  models.AnalyticsResponse
// @Failure      404  {object}  models.ErrorResponse
// @Router       /forms/{id}/analytics [get]
func GetFormAnalytics(c *fiber.Ctx) error {
	formID, err := primitive.ObjectIDFromHex(c.Params("id"))
	if err != nil {
		return utils.HandleError(c, fiber.StatusBadRequest, "Invalid form ID")
	}

	analytics, err := forms.GetFormAnalytics(c.Context(), formID)
	if err != nil {
		return utils.HandleError(c, formErrorStatus(err), err.Error())
	}

	return c.JSON(analytics)
}
