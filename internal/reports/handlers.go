package reports

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"github.com/fdg312/vitalis/internal/blob"
)

// Handlers handles HTTP requests for reports
type Handlers struct {
	service *Service
}

// NewHandlers creates new handlers
func NewHandlers(service *Service) *Handlers {
	return &Handlers{service: service}
}

// HandleToday handles GET /v1/reports/today?format=csv|pdf|xlsx
func (h *Handlers) HandleToday(w http.ResponseWriter, r *http.Request) {
	rendered, err := h.service.Today(r.Context(), r.URL.Query().Get("format"))
	if err != nil {
		if errors.Is(err, ErrInvalidFormat) {
			writeError(w, http.StatusBadRequest, "invalid_format", "Format must be 'csv', 'pdf' or 'xlsx'")
			return
		}
		writeError(w, http.StatusInternalServerError, "internal_error", err.Error())
		return
	}

	w.Header().Set("Content-Type", rendered.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%s", rendered.Filename))
	w.Header().Set("Content-Length", strconv.Itoa(len(rendered.Data)))
	w.Write(rendered.Data)
}

// HandleArchive handles POST /v1/reports/archive
func (h *Handlers) HandleArchive(w http.ResponseWriter, r *http.Request) {
	var req ArchiveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, http.StatusBadRequest, "invalid_request", "Invalid JSON")
		return
	}

	report, err := h.service.Archive(r.Context(), req.Format)
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidFormat):
			writeError(w, http.StatusBadRequest, "invalid_format", "Format must be 'csv', 'pdf' or 'xlsx'")
		case errors.Is(err, ErrArchiveDisabled):
			writeError(w, http.StatusServiceUnavailable, "archive_disabled", "Report archive is not configured")
		default:
			writeError(w, http.StatusInternalServerError, "internal_error", err.Error())
		}
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(h.toDTO(r, report))
}

// HandleList handles GET /v1/reports
func (h *Handlers) HandleList(w http.ResponseWriter, r *http.Request) {
	list, err := h.service.List(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", err.Error())
		return
	}

	dtos := make([]ReportDTO, len(list))
	for i, report := range list {
		dtos[i] = h.toDTO(r, report)
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(ReportsResponse{Reports: dtos})
}

// HandleDownload handles GET /v1/reports/{id}/file
func (h *Handlers) HandleDownload(w http.ResponseWriter, r *http.Request) {
	report, data, err := h.service.Open(r.Context(), r.PathValue("id"))
	if err != nil {
		writeServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", ContentType(report.Format))
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%s", Filename(report.Date, report.Format)))
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.Write(data)
}

// HandleDelete handles DELETE /v1/reports/{id}
func (h *Handlers) HandleDelete(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Delete(r.Context(), r.PathValue("id")); err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) toDTO(r *http.Request, report Report) ReportDTO {
	link, err := h.service.DownloadURL(r.Context(), report)
	switch {
	case errors.Is(err, blob.ErrPresignUnsupported):
		link = fileURL(r, report.ID)
	case err != nil:
		h.service.logf("WARN reports: download url id=%s: %v", report.ID, err)
		link = ""
	}
	return ReportDTO{
		ID:          report.ID,
		Date:        report.Date,
		Format:      report.Format,
		DownloadURL: link,
		SizeBytes:   report.SizeBytes,
		CreatedAt:   report.CreatedAt,
	}
}

// fileURL — абсолютная ссылка на HandleDownload для хранилищ без presign.
func fileURL(r *http.Request, id string) string {
	scheme := "http"
	if r.TLS != nil || r.Header.Get("X-Forwarded-Proto") == "https" {
		scheme = "https"
	}
	return scheme + "://" + r.Host + "/v1/reports/" + url.PathEscape(id) + "/file"
}

func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrReportNotFound):
		writeError(w, http.StatusNotFound, "report_not_found", "Report not found")
	case errors.Is(err, ErrArchiveDisabled):
		writeError(w, http.StatusServiceUnavailable, "archive_disabled", "Report archive is not configured")
	default:
		writeError(w, http.StatusInternalServerError, "internal_error", err.Error())
	}
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"error": map[string]string{
			"code":    code,
			"message": message,
		},
	})
}
