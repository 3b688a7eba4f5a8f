package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"path"

	"github.com/BerylCAtieno/file-forensics-api/internal/models"
	"github.com/BerylCAtieno/file-forensics-api/internal/services"
	"github.com/BerylCAtieno/file-forensics-api/internal/utils"
	"github.com/gorilla/mux"
)

type ReportHandler struct {
	service     services.ReportService
	logger      *utils.Logger
	maxFileSize int64
}

func NewReportHandler(service services.ReportService, maxFileSize int64, logger *utils.Logger) *ReportHandler {
	return &ReportHandler{
		service:     service,
		logger:      logger,
		maxFileSize: maxFileSize,
	}
}

// Extract accepts a multipart upload in field "file". Extraction problems are reported
// inside the body with status 200; only unreadable requests get an error status.
func (h *ReportHandler) Extract(w http.ResponseWriter, r *http.Request) {
	if r.ContentLength > h.maxFileSize+1<<20 {
		h.respondError(w, r, utils.NewRequestTooLargeError("File size exceeds upload limit"))
		return
	}

	// Leave headroom for the multipart envelope
	r.Body = http.MaxBytesReader(w, r.Body, h.maxFileSize+1<<20)

	if err := r.ParseMultipartForm(32 << 20); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			h.respondError(w, r, utils.NewRequestTooLargeError("File size exceeds upload limit"))
			return
		}
		h.respondError(w, r, utils.NewBadRequestError("Invalid form data"))
		return
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile("file")
	if err != nil {
		h.respondError(w, r, utils.NewBadRequestError("No file provided"))
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, h.maxFileSize+1))
	if err != nil {
		h.respondError(w, r, utils.NewInternalError("Failed to read file"))
		return
	}
	if int64(len(data)) > h.maxFileSize {
		h.respondError(w, r, utils.NewRequestTooLargeError("File size exceeds upload limit"))
		return
	}

	h.logger.Info("File upload received",
		"request_id", utils.RequestIDFrom(r.Context()),
		"filename", header.Filename,
		"size", len(data))

	report, err := h.service.Extract(r.Context(), &models.UploadRequest{
		File:     data,
		Filename: header.Filename,
	})
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	h.respondJSON(w, http.StatusOK, report)
}

func (h *ReportHandler) GetReport(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if id == "" {
		h.respondError(w, r, utils.NewBadRequestError("Report ID is required"))
		return
	}

	report, err := h.service.GetReport(r.Context(), id)
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	h.respondJSON(w, http.StatusOK, report)
}

func (h *ReportHandler) GetArtifact(w http.ResponseWriter, r *http.Request) {
	key := mux.Vars(r)["key"]
	if key == "" {
		h.respondError(w, r, utils.NewBadRequestError("Artifact key is required"))
		return
	}

	data, err := h.service.GetArtifact(r.Context(), key)
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	contentType := "application/octet-stream"
	if path.Ext(key) == ".png" {
		contentType = "image/png"
	}
	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

// MethodNotAllowed answers requests whose path is known but whose method is not.
func MethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusMethodNotAllowed)
	json.NewEncoder(w).Encode(map[string]string{"error": "Method not allowed"})
}

func (h *ReportHandler) respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error("Failed to encode JSON response", "error", err)
	}
}

func (h *ReportHandler) respondError(w http.ResponseWriter, r *http.Request, err error) {
	var status int
	var message string

	var appErr *utils.AppError
	if errors.As(err, &appErr) {
		status = appErr.StatusCode
		message = appErr.Message
	} else {
		status = http.StatusInternalServerError
		message = "Internal server error"
	}

	h.logger.Error("Request error",
		"request_id", utils.RequestIDFrom(r.Context()),
		"path", r.URL.Path,
		"status", status,
		"error", message)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}
