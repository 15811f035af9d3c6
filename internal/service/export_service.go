package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/student-directory-api/internal/models"
	"github.com/noah-isme/student-directory-api/pkg/export"
	appErrors "github.com/noah-isme/student-directory-api/pkg/errors"
)

type studentLister interface {
	ListAll(ctx context.Context) ([]models.Student, error)
}

type csvRenderer interface {
	Render(data export.Dataset) ([]byte, error)
}

type pdfRenderer interface {
	Render(data export.Dataset, title string) ([]byte, error)
}

var exportHeaders = []string{"Email", "First Name", "Last Name", "Gender", "Specialization", "Country", "City", "Post Code", "Created At"}

// ExportService renders the student directory as CSV or PDF.
type ExportService struct {
	students studentLister
	csv      csvRenderer
	pdf      pdfRenderer
	logger   *zap.Logger
	now      func() time.Time
}

// NewExportService constructs an ExportService.
func NewExportService(students studentLister, logger *zap.Logger, csv csvRenderer, pdf pdfRenderer) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if csv == nil {
		csv = export.NewCSVExporter()
	}
	if pdf == nil {
		pdf = export.NewPDFExporter()
	}
	return &ExportService{students: students, csv: csv, pdf: pdf, logger: logger, now: time.Now}
}

// Render lists every student and encodes the result in format.
func (s *ExportService) Render(ctx context.Context, format models.ExportFormat) (*models.ExportFile, error) {
	if format != models.ExportFormatCSV && format != models.ExportFormatPDF {
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unsupported export format %q", format))
	}
	students, err := s.students.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	dataset := buildStudentDataset(students)
	stamp := s.now().UTC().Format("20060102T150405Z")

	var data []byte
	file := &models.ExportFile{Filename: fmt.Sprintf("students-%s.%s", stamp, format)}
	switch format {
	case models.ExportFormatCSV:
		data, err = s.csv.Render(dataset)
		file.ContentType = "text/csv"
	case models.ExportFormatPDF:
		data, err = s.pdf.Render(dataset, "Student Directory")
		file.ContentType = "application/pdf"
	}
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render export")
	}
	file.Data = data
	s.logger.Info("directory exported", zap.String("format", string(format)), zap.Int("rows", len(students)))
	return file, nil
}

func buildStudentDataset(students []models.Student) export.Dataset {
	rows := make([]map[string]string, 0, len(students))
	for _, st := range students {
		rows = append(rows, map[string]string{
			"Email":          st.Email,
			"First Name":     st.FirstName,
			"Last Name":      st.LastName,
			"Gender":         string(st.Gender),
			"Specialization": string(st.Specialization),
			"Country":        st.Address.Country,
			"City":           st.Address.City,
			"Post Code":      st.Address.PostCode,
			"Created At":     st.CreatedAt.UTC().Format(time.RFC3339),
		})
	}
	return export.Dataset{Headers: exportHeaders, Rows: rows}
}
