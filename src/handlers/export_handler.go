// src/handlers/export_handler.go
package handlers

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/Amonint/Proyecto-Cooperativa-grupo3/src/logger"
	"github.com/Amonint/Proyecto-Cooperativa-grupo3/src/models"
	"github.com/Amonint/Proyecto-Cooperativa-grupo3/src/services"
	"github.com/Amonint/Proyecto-Cooperativa-grupo3/src/utils"
	"github.com/go-chi/chi/v5"
)

const (
	csvContentType  = "text/csv; charset=utf-8"
	xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

var errUnknownReport = errors.New("unknown report kind")

type ExportHandler struct {
	indicatorService services.IndicatorService
	exportService    services.ExportService
}

func NewExportHandler(indicatorService services.IndicatorService, exportService services.ExportService) *ExportHandler {
	return &ExportHandler{
		indicatorService: indicatorService,
		exportService:    exportService,
	}
}

// table resolves the {report} route parameter into a computed report table.
// The query parameters mirror the corresponding JSON endpoints.
func (h *ExportHandler) table(r *http.Request) (models.ReportTable, error) {
	kind := chi.URLParam(r, "report")
	switch kind {
	case "comparison":
		base := queryParam(r, "base")
		other := queryParam(r, "other")
		if base == "" || other == "" {
			return models.ReportTable{}, fmt.Errorf("%w: base and other query parameters are required", services.ErrNoPeriodsRequested)
		}
		comparison, err := h.indicatorService.Comparison(base, other)
		if err != nil {
			return models.ReportTable{}, err
		}
		return h.exportService.ComparisonTable(comparison), nil
	case "quarter":
		months := splitMonths(queryParam(r, "months"))
		report, err := h.indicatorService.QuarterReport(months)
		if err != nil {
			return models.ReportTable{}, err
		}
		return h.exportService.QuarterTable(report), nil
	case "evolution":
		return h.exportService.EvolutionTable(h.indicatorService.AnnualEvolution()), nil
	default:
		return models.ReportTable{}, fmt.Errorf("%w: %s", errUnknownReport, kind)
	}
}

func (h *ExportHandler) resolveTable(w http.ResponseWriter, r *http.Request) (models.ReportTable, bool) {
	table, err := h.table(r)
	if err != nil {
		switch {
		case errors.Is(err, errUnknownReport):
			utils.SendJSONError(w, err.Error(), http.StatusNotFound)
		case errors.Is(err, services.ErrNoPeriodsRequested):
			utils.SendJSONError(w, err.Error(), http.StatusBadRequest)
		case errors.Is(err, services.ErrPeriodNotFound):
			utils.SendJSONError(w, err.Error(), http.StatusNotFound)
		default:
			logger.FromContext(r.Context()).Error("Error computing report for export", "error", err)
			utils.SendJSONError(w, "Error computing report for export", http.StatusInternalServerError)
		}
		return models.ReportTable{}, false
	}
	return table, true
}

// writeAttachment serves the rendered bytes with ETag revalidation, so a
// dashboard polling the same unchanged report gets 304s instead of files.
func (h *ExportHandler) writeAttachment(w http.ResponseWriter, r *http.Request, table models.ReportTable, body []byte, contentType, filename string) {
	ctxLogger := logger.FromContext(r.Context())

	currentETag, etagErr := utils.GenerateETag(table)
	if etagErr != nil {
		ctxLogger.Error("Failed to generate ETag for export", "report", table.Name, "error", etagErr)
	}

	w.Header().Set("Cache-Control", "no-cache, private")

	if etagErr == nil && currentETag != "" {
		quotedETag := fmt.Sprintf("\"%s\"", currentETag)
		w.Header().Set("ETag", quotedETag)
		clientETag := r.Header.Get("If-None-Match")
		for _, cETag := range strings.Split(clientETag, ",") {
			if strings.TrimSpace(cETag) == quotedETag {
				ctxLogger.Info("ETag match for export", "report", table.Name, "etag", currentETag)
				w.WriteHeader(http.StatusNotModified)
				return
			}
		}
	}

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	if _, err := w.Write(body); err != nil {
		ctxLogger.Error("Error writing export response", "report", table.Name, "error", err)
	}
}

func (h *ExportHandler) HandleExportCSV(w http.ResponseWriter, r *http.Request) {
	table, ok := h.resolveTable(w, r)
	if !ok {
		return
	}

	var buf bytes.Buffer
	if err := h.exportService.WriteCSV(&buf, table); err != nil {
		logger.FromContext(r.Context()).Error("Error rendering CSV export", "report", table.Name, "error", err)
		utils.SendJSONError(w, "Error rendering CSV export", http.StatusInternalServerError)
		return
	}

	filename := chi.URLParam(r, "report") + ".csv"
	h.writeAttachment(w, r, table, buf.Bytes(), csvContentType, filename)
}

func (h *ExportHandler) HandleExportXLSX(w http.ResponseWriter, r *http.Request) {
	table, ok := h.resolveTable(w, r)
	if !ok {
		return
	}

	var buf bytes.Buffer
	if err := h.exportService.WriteXLSX(&buf, table); err != nil {
		logger.FromContext(r.Context()).Error("Error rendering XLSX export", "report", table.Name, "error", err)
		utils.SendJSONError(w, "Error rendering XLSX export", http.StatusInternalServerError)
		return
	}

	filename := chi.URLParam(r, "report") + ".xlsx"
	h.writeAttachment(w, r, table, buf.Bytes(), xlsxContentType, filename)
}
