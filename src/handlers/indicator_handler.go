// src/handlers/indicator_handler.go
package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/Amonint/Proyecto-Cooperativa-grupo3/src/config"
	"github.com/Amonint/Proyecto-Cooperativa-grupo3/src/logger"
	"github.com/Amonint/Proyecto-Cooperativa-grupo3/src/services"
	"github.com/Amonint/Proyecto-Cooperativa-grupo3/src/utils"
)

type IndicatorHandler struct {
	indicatorService services.IndicatorService
}

func NewIndicatorHandler(service services.IndicatorService) *IndicatorHandler {
	return &IndicatorHandler{
		indicatorService: service,
	}
}

func queryParam(r *http.Request, name string) string {
	return strings.TrimSpace(r.URL.Query().Get(name))
}

// splitMonths parses a comma-separated months parameter, preserving the
// caller's order and dropping empty entries.
func splitMonths(raw string) []string {
	parts := strings.Split(raw, ",")
	months := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			months = append(months, trimmed)
		}
	}
	return months
}

func (h *IndicatorHandler) reportError(w http.ResponseWriter, r *http.Request, err error, message string) {
	if errors.Is(err, services.ErrPeriodNotFound) {
		utils.SendJSONError(w, err.Error(), http.StatusNotFound)
		return
	}
	logger.FromContext(r.Context()).Error(message, "error", err)
	utils.SendJSONError(w, message, http.StatusInternalServerError)
}

func writeJSON(w http.ResponseWriter, r *http.Request, payload any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		logger.ErrorFromContext(r.Context(), "Error encoding JSON response", "error", err)
	}
}

// HandleGetSummary returns the dashboard indicator trio for one reference
// period. It always answers 200: an unusable dataset yields zero indicators.
func (h *IndicatorHandler) HandleGetSummary(w http.ResponseWriter, r *http.Request) {
	period := queryParam(r, "period")
	if period == "" {
		period = config.Cfg.ReferencePeriod
	}
	logger.InfoFromContext(r.Context(), "Handling indicator summary", "period", period)

	writeJSON(w, r, h.indicatorService.Summarize(period))
}

func (h *IndicatorHandler) HandleGetROA(w http.ResponseWriter, r *http.Request) {
	period := queryParam(r, "period")
	if period == "" {
		utils.SendJSONError(w, "period query parameter is required", http.StatusBadRequest)
		return
	}

	report, err := h.indicatorService.ROAReport(period)
	if err != nil {
		h.reportError(w, r, err, "Error computing ROA report")
		return
	}
	writeJSON(w, r, report)
}

func (h *IndicatorHandler) HandleGetEfficiency(w http.ResponseWriter, r *http.Request) {
	period := queryParam(r, "period")
	if period == "" {
		utils.SendJSONError(w, "period query parameter is required", http.StatusBadRequest)
		return
	}

	report, err := h.indicatorService.EfficiencyReport(period)
	if err != nil {
		h.reportError(w, r, err, "Error computing efficiency report")
		return
	}
	writeJSON(w, r, report)
}

func (h *IndicatorHandler) HandleGetSolvency(w http.ResponseWriter, r *http.Request) {
	period := queryParam(r, "period")
	if period == "" {
		utils.SendJSONError(w, "period query parameter is required", http.StatusBadRequest)
		return
	}

	report, err := h.indicatorService.SolvencyReport(period)
	if err != nil {
		h.reportError(w, r, err, "Error computing solvency report")
		return
	}
	writeJSON(w, r, report)
}

func (h *IndicatorHandler) HandleGetComparison(w http.ResponseWriter, r *http.Request) {
	base := queryParam(r, "base")
	other := queryParam(r, "other")
	if base == "" || other == "" {
		utils.SendJSONError(w, "base and other query parameters are required", http.StatusBadRequest)
		return
	}

	comparison, err := h.indicatorService.Comparison(base, other)
	if err != nil {
		h.reportError(w, r, err, "Error computing period comparison")
		return
	}
	writeJSON(w, r, comparison)
}

// HandleGetQuarter composes the requested months into a quarterly view.
// Months with no loaded extract are reported as data gaps, not errors.
func (h *IndicatorHandler) HandleGetQuarter(w http.ResponseWriter, r *http.Request) {
	months := splitMonths(queryParam(r, "months"))
	if len(months) == 0 {
		utils.SendJSONError(w, "months query parameter is required (comma-separated)", http.StatusBadRequest)
		return
	}

	report, err := h.indicatorService.QuarterReport(months)
	if err != nil {
		if errors.Is(err, services.ErrNoPeriodsRequested) {
			utils.SendJSONError(w, err.Error(), http.StatusBadRequest)
			return
		}
		h.reportError(w, r, err, "Error computing quarter report")
		return
	}
	writeJSON(w, r, report)
}

func (h *IndicatorHandler) HandleGetEvolution(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, h.indicatorService.AnnualEvolution())
}
