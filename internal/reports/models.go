package reports

import (
	"errors"
	"strings"
	"time"
)

const (
	FormatCSV  = "csv"
	FormatPDF  = "pdf"
	FormatXLSX = "xlsx"
)

var (
	ErrInvalidFormat   = errors.New("invalid report format")
	ErrArchiveDisabled = errors.New("report archive is not configured")
	ErrReportNotFound  = errors.New("report not found")
)

// Report — запись индекса архива. Сами байты лежат в blob-хранилище по ObjectKey.
type Report struct {
	ID        string    `json:"id"`
	Date      string    `json:"date"` // YYYY-MM-DD
	Format    string    `json:"format"`
	ObjectKey string    `json:"object_key"`
	SizeBytes int64     `json:"size_bytes"`
	CreatedAt time.Time `json:"created_at"`
}

// ReportDTO is the response representation of an archived report
type ReportDTO struct {
	ID          string    `json:"id"`
	Date        string    `json:"date"`
	Format      string    `json:"format"`
	DownloadURL string    `json:"download_url"`
	SizeBytes   int64     `json:"size_bytes"`
	CreatedAt   time.Time `json:"created_at"`
}

type ReportsResponse struct {
	Reports []ReportDTO `json:"reports"`
}

type ArchiveRequest struct {
	Format string `json:"format"`
}

// Rendered — готовый файл отчёта.
type Rendered struct {
	Date        string
	Format      string
	ContentType string
	Filename    string
	Data        []byte
}

// ParseFormat lowercases the format; empty means csv.
func ParseFormat(v string) (string, error) {
	f := strings.ToLower(strings.TrimSpace(v))
	if f == "" {
		return FormatCSV, nil
	}
	switch f {
	case FormatCSV, FormatPDF, FormatXLSX:
		return f, nil
	default:
		return "", ErrInvalidFormat
	}
}

func ContentType(format string) string {
	switch format {
	case FormatPDF:
		return "application/pdf"
	case FormatXLSX:
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	default:
		return "text/csv; charset=utf-8"
	}
}

func Filename(date, format string) string {
	return "vitalis_" + date + "." + format
}
