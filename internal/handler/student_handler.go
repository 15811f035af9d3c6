package handler

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/noah-isme/student-directory-api/internal/dto"
	"github.com/noah-isme/student-directory-api/internal/models"
	appErrors "github.com/noah-isme/student-directory-api/pkg/errors"
	"github.com/noah-isme/student-directory-api/pkg/response"
)

type studentService interface {
	ListAll(ctx context.Context) ([]models.Student, error)
	GetByEmail(ctx context.Context, email string) (*models.Student, error)
	DeleteByEmail(ctx context.Context, email string) error
	UpdateSpecialization(ctx context.Context, email string, specialization models.Specialization) (*models.Student, error)
	Create(ctx context.Context, candidate models.Student) (*models.Student, error)
}

type studentExporter interface {
	Render(ctx context.Context, format models.ExportFormat) (*models.ExportFile, error)
}

// StudentHandler exposes student endpoints.
type StudentHandler struct {
	students studentService
	exporter studentExporter
	validate *validator.Validate
}

// NewStudentHandler constructs StudentHandler.
func NewStudentHandler(students studentService, exporter studentExporter, validate *validator.Validate) *StudentHandler {
	if validate == nil {
		validate = dto.NewValidator()
	}
	return &StudentHandler{students: students, exporter: exporter, validate: validate}
}

// List godoc
// @Summary List students
// @Tags Students
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /students [get]
func (h *StudentHandler) List(c *gin.Context) {
	students, err := h.students.ListAll(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, students, map[string]interface{}{"count": len(students)})
}

// Get godoc
// @Summary Get student by email
// @Tags Students
// @Produce json
// @Param email path string true "Student email"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /students/{email} [get]
func (h *StudentHandler) Get(c *gin.Context) {
	student, err := h.students.GetByEmail(c.Request.Context(), emailParam(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, student)
}

// Create godoc
// @Summary Create student
// @Tags Students
// @Accept json
// @Produce json
// @Param payload body dto.CreateStudentRequest true "Student payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /students [post]
func (h *StudentHandler) Create(c *gin.Context) {
	var req dto.CreateStudentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	req.Normalize()
	if err := h.validate.Struct(req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, dto.FirstValidationMessage(err)))
		return
	}
	student, err := h.students.Create(c.Request.Context(), req.ToModel())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, student)
}

// UpdateSpecialization godoc
// @Summary Change a student's specialization
// @Tags Students
// @Accept json
// @Produce json
// @Param email path string true "Student email"
// @Param payload body dto.UpdateSpecializationRequest true "New specialization"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /students/{email}/specialization [patch]
func (h *StudentHandler) UpdateSpecialization(c *gin.Context) {
	var req dto.UpdateSpecializationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	specialization, err := models.ParseSpecialization(req.Specialization)
	if err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid specialization provided"))
		return
	}
	student, err := h.students.UpdateSpecialization(c.Request.Context(), emailParam(c), specialization)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, student)
}

// Delete godoc
// @Summary Delete student by email
// @Tags Students
// @Param email path string true "Student email"
// @Success 204
// @Failure 404 {object} response.Envelope
// @Router /students/{email} [delete]
func (h *StudentHandler) Delete(c *gin.Context) {
	if err := h.students.DeleteByEmail(c.Request.Context(), emailParam(c)); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// Export godoc
// @Summary Export the student directory
// @Tags Students
// @Produce text/csv
// @Produce application/pdf
// @Param format query string false "csv or pdf" default(csv)
// @Success 200 {file} file
// @Router /students/export [get]
func (h *StudentHandler) Export(c *gin.Context) {
	if h.exporter == nil {
		response.Error(c, appErrors.Clone(appErrors.ErrUnavailable, "export disabled"))
		return
	}
	format := models.ExportFormat(strings.ToLower(c.DefaultQuery("format", string(models.ExportFormatCSV))))
	file, err := h.exporter.Render(c.Request.Context(), format)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Attachment(c, file.Filename, file.ContentType, file.Data)
}

func emailParam(c *gin.Context) string {
	return strings.TrimSpace(c.Param("email"))
}
