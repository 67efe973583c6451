// src/handlers/dataset_handler.go
package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/Amonint/Proyecto-Cooperativa-grupo3/src/config"
	"github.com/Amonint/Proyecto-Cooperativa-grupo3/src/logger"
	"github.com/Amonint/Proyecto-Cooperativa-grupo3/src/security/validation"
	"github.com/Amonint/Proyecto-Cooperativa-grupo3/src/services"
	"github.com/Amonint/Proyecto-Cooperativa-grupo3/src/utils"
	"github.com/go-chi/chi/v5"
)

type DatasetHandler struct {
	datasetService services.DatasetService
}

func NewDatasetHandler(service services.DatasetService) *DatasetHandler {
	return &DatasetHandler{
		datasetService: service,
	}
}

// HandleUpload receives one monthly extract as multipart form data. The
// uploaded file replaces any dataset already stored under the same period.
func (h *DatasetHandler) HandleUpload(w http.ResponseWriter, r *http.Request) {
	ctxLogger := logger.FromContext(r.Context())

	if err := r.ParseMultipartForm(config.Cfg.MaxUploadSizeBytes); err != nil {
		ctxLogger.Warn("Failed to parse multipart form or request too large", "error", err, "limit", config.Cfg.MaxUploadSizeBytes)
		utils.SendJSONError(w, fmt.Sprintf("Failed to parse upload or file too large (max %d MB)", config.Cfg.MaxUploadSizeBytes/(1024*1024)), http.StatusBadRequest)
		return
	}

	period := r.FormValue("period")
	if period == "" {
		ctxLogger.Warn("Upload request missing 'period' field")
		utils.SendJSONError(w, "Period is required.", http.StatusBadRequest)
		return
	}
	ctxLogger.Info("Received extract upload", "period", period)

	file, fileHeader, err := r.FormFile("file")
	if err != nil {
		ctxLogger.Warn("Failed to retrieve file from request", "error", err)
		utils.SendJSONError(w, "Failed to retrieve file from request. Ensure 'file' field is used.", http.StatusBadRequest)
		return
	}
	defer file.Close()

	if fileHeader.Size > config.Cfg.MaxUploadSizeBytes {
		ctxLogger.Warn("Uploaded file header reports size too large", "fileSize", fileHeader.Size, "limit", config.Cfg.MaxUploadSizeBytes)
		utils.SendJSONError(w, fmt.Sprintf("File too large, max %d MB (header check)", config.Cfg.MaxUploadSizeBytes/(1024*1024)), http.StatusBadRequest)
		return
	}

	clientContentType := fileHeader.Header.Get("Content-Type")
	if err := validation.ValidateClientContentType(clientContentType); err != nil {
		ctxLogger.Warn("Invalid client-declared file type", "contentType", clientContentType, "error", err)
		utils.SendJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}

	detectedContentType, err := validation.ValidateFileContentByMagicBytes(file)
	if err != nil {
		ctxLogger.Warn("Server-side file content validation failed", "filename", fileHeader.Filename, "error", err)
		utils.SendJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}
	ctxLogger.Info("File content validated by magic bytes", "filename", fileHeader.Filename, "clientType", clientContentType, "detectedType", detectedContentType)

	report, err := h.datasetService.ProcessUpload(file, period, fileHeader.Filename, fileHeader.Size)
	if err != nil {
		switch {
		case errors.Is(err, validation.ErrValidationFailed):
			ctxLogger.Warn("Upload rejected by period validation", "period", period, "error", err)
			utils.SendJSONError(w, err.Error(), http.StatusBadRequest)
		case errors.Is(err, services.ErrParsingFailed):
			ctxLogger.Warn("Uploaded extract failed to parse", "filename", fileHeader.Filename, "error", err)
			utils.SendJSONError(w, err.Error(), http.StatusUnprocessableEntity)
		default:
			ctxLogger.Error("Error processing extract upload", "filename", fileHeader.Filename, "error", err)
			utils.SendJSONError(w, "Error processing uploaded extract", http.StatusInternalServerError)
		}
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(report); err != nil {
		ctxLogger.Error("Error encoding JSON response for upload report", "error", err)
	}
}

// HandleGetPeriods lists the loaded periods with their validation roll-up,
// in storage order.
func (h *DatasetHandler) HandleGetPeriods(w http.ResponseWriter, r *http.Request) {
	status := h.datasetService.Status()

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(status.Periods); err != nil {
		logger.FromContext(r.Context()).Error("Error encoding JSON response for periods", "error", err)
	}
}

// HandleGetValidation returns the full validation report for one period.
func (h *DatasetHandler) HandleGetValidation(w http.ResponseWriter, r *http.Request) {
	period := chi.URLParam(r, "period")

	report, err := h.datasetService.Validation(period)
	if err != nil {
		if errors.Is(err, services.ErrPeriodNotFound) {
			utils.SendJSONError(w, err.Error(), http.StatusNotFound)
			return
		}
		logger.FromContext(r.Context()).Error("Error computing validation report", "period", period, "error", err)
		utils.SendJSONError(w, "Error computing validation report", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(report); err != nil {
		logger.FromContext(r.Context()).Error("Error encoding JSON response for validation report", "period", period, "error", err)
	}
}

// HandleGetStatus returns the validation roll-up across all loaded periods.
func (h *DatasetHandler) HandleGetStatus(w http.ResponseWriter, r *http.Request) {
	status := h.datasetService.Status()

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(status); err != nil {
		logger.FromContext(r.Context()).Error("Error encoding JSON response for dataset status", "error", err)
	}
}
