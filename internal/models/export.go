package models

// ExportFormat enumerates supported directory export formats.
type ExportFormat string

const (
	ExportFormatCSV ExportFormat = "csv"
	ExportFormatPDF ExportFormat = "pdf"
)

// ExportFile is a rendered directory export ready to be streamed.
type ExportFile struct {
	Filename    string
	ContentType string
	Data        []byte
}
