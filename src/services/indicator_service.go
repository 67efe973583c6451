// src/services/indicator_service.go
package services

import (
	"fmt"
	"strings"

	"github.com/Amonint/Proyecto-Cooperativa-grupo3/src/logger"
	"github.com/Amonint/Proyecto-Cooperativa-grupo3/src/models"
	"github.com/Amonint/Proyecto-Cooperativa-grupo3/src/processors"
	"github.com/Amonint/Proyecto-Cooperativa-grupo3/src/utils"
	"github.com/patrickmn/go-cache"
)

const (
	ckIndicatorSummary = "agg_indicator_summary_%s"
	ckPeriodComparison = "res_period_comparison_%s_%s"
	ckQuarterReport    = "res_quarter_report_%s"
	ckAnnualEvolution  = "agg_annual_evolution"

	// Ratio percentages are rounded for presentation; sums and means are not.
	ratioPrecision = 2
)

type indicatorServiceImpl struct {
	datasetService DatasetService
	metrics        processors.MetricsProcessor
	periods        processors.PeriodProcessor
	reportCache    *cache.Cache
}

// NewIndicatorService wires the indicator computations over the dataset
// registry. Multi-period and summary reports are cached; single-period
// detail reports are cheap enough to recompute per request.
func NewIndicatorService(
	datasetService DatasetService,
	metrics processors.MetricsProcessor,
	periods processors.PeriodProcessor,
	reportCache *cache.Cache,
) IndicatorService {
	return &indicatorServiceImpl{
		datasetService: datasetService,
		metrics:        metrics,
		periods:        periods,
		reportCache:    reportCache,
	}
}

func (s *indicatorServiceImpl) Summarize(referencePeriod string) models.IndicatorSummary {
	summary := models.IndicatorSummary{ReferencePeriod: referencePeriod}

	cacheKey := fmt.Sprintf(ckIndicatorSummary, referencePeriod)
	if cached, found := s.reportCache.Get(cacheKey); found {
		return cached.(models.IndicatorSummary)
	}

	dataset, err := s.datasetService.Dataset(referencePeriod)
	if err != nil {
		logger.L.Info("Summary period not loaded, returning zero indicators", "period", referencePeriod)
		return summary
	}
	if len(dataset.Rows) == 0 {
		logger.L.Info("Summary dataset has no rows, returning zero indicators", "period", referencePeriod)
		return summary
	}
	report, err := s.datasetService.Validation(referencePeriod)
	if err != nil || !report.Valid {
		logger.L.Warn("Summary dataset failed validation, returning zero indicators", "period", referencePeriod)
		return summary
	}

	summary.ROA = utils.RoundFloat(s.metrics.ROA(dataset, processors.DefaultAssetSelector), ratioPrecision)
	summary.Efficiency = utils.RoundFloat(s.metrics.OperatingEfficiency(dataset), ratioPrecision)
	summary.Solvency = utils.RoundFloat(s.metrics.EquitySolvency(dataset, processors.DefaultAssetSelector), ratioPrecision)

	s.reportCache.Set(cacheKey, summary, cache.DefaultExpiration)
	return summary
}

func (s *indicatorServiceImpl) ROAReport(period string) (models.ROAReport, error) {
	dataset, err := s.datasetService.Dataset(period)
	if err != nil {
		return models.ROAReport{}, err
	}
	m := s.metrics.Compute(dataset, processors.DefaultAssetSelector)
	return models.ROAReport{
		Period:    m.Period,
		Income:    m.Income,
		Expense:   m.Expense,
		NetResult: m.NetResult,
		Assets:    m.Assets,
		ROA:       utils.RoundFloat(processors.SafePercent(m.NetResult, m.Assets), ratioPrecision),
	}, nil
}

func (s *indicatorServiceImpl) EfficiencyReport(period string) (models.EfficiencyReport, error) {
	dataset, err := s.datasetService.Dataset(period)
	if err != nil {
		return models.EfficiencyReport{}, err
	}
	return models.EfficiencyReport{
		Period:           period,
		Income:           s.metrics.Income(dataset),
		OperatingExpense: s.metrics.OperatingExpense(dataset),
		Efficiency:       utils.RoundFloat(s.metrics.OperatingEfficiency(dataset), ratioPrecision),
	}, nil
}

func (s *indicatorServiceImpl) SolvencyReport(period string) (models.SolvencyReport, error) {
	dataset, err := s.datasetService.Dataset(period)
	if err != nil {
		return models.SolvencyReport{}, err
	}
	return models.SolvencyReport{
		Period:   period,
		Equity:   s.metrics.Equity(dataset),
		Assets:   s.metrics.Assets(dataset, processors.DefaultAssetSelector),
		Solvency: utils.RoundFloat(s.metrics.EquitySolvency(dataset, processors.DefaultAssetSelector), ratioPrecision),
	}, nil
}

func (s *indicatorServiceImpl) Comparison(basePeriod, otherPeriod string) (models.PeriodComparison, error) {
	cacheKey := fmt.Sprintf(ckPeriodComparison, basePeriod, otherPeriod)
	if cached, found := s.reportCache.Get(cacheKey); found {
		return cached.(models.PeriodComparison), nil
	}

	baseDataset, err := s.datasetService.Dataset(basePeriod)
	if err != nil {
		return models.PeriodComparison{}, err
	}
	otherDataset, err := s.datasetService.Dataset(otherPeriod)
	if err != nil {
		return models.PeriodComparison{}, err
	}

	comparison := s.periods.Compare(
		s.metrics.Compute(baseDataset, processors.DefaultAssetSelector),
		s.metrics.Compute(otherDataset, processors.DefaultAssetSelector),
	)
	comparison.CombinedROA = utils.RoundFloat(comparison.CombinedROA, ratioPrecision)

	s.reportCache.Set(cacheKey, comparison, cache.DefaultExpiration)
	return comparison, nil
}

func (s *indicatorServiceImpl) QuarterReport(requested []string) (models.QuarterReport, error) {
	if len(requested) == 0 {
		return models.QuarterReport{}, ErrNoPeriodsRequested
	}

	cacheKey := fmt.Sprintf(ckQuarterReport, strings.Join(requested, "_"))
	if cached, found := s.reportCache.Get(cacheKey); found {
		return cached.(models.QuarterReport), nil
	}

	present := make([]models.PeriodMetrics, 0, len(requested))
	missing := []string{}
	for _, period := range requested {
		dataset, err := s.datasetService.Dataset(period)
		if err != nil {
			missing = append(missing, period)
			continue
		}
		present = append(present, s.metrics.Compute(dataset, processors.DefaultAssetSelector))
	}
	if len(missing) > 0 {
		logger.L.Warn("Quarter window has no extract for some periods", "requested", requested, "missing", missing)
	}

	report := s.periods.Quarter(present, missing)
	report.BlendedROA = utils.RoundFloat(report.BlendedROA, ratioPrecision)
	for i := range report.ROASeries {
		report.ROASeries[i].ROA = utils.RoundFloat(report.ROASeries[i].ROA, ratioPrecision)
	}

	s.reportCache.Set(cacheKey, report, cache.DefaultExpiration)
	return report, nil
}

func (s *indicatorServiceImpl) AnnualEvolution() models.AnnualEvolution {
	if cached, found := s.reportCache.Get(ckAnnualEvolution); found {
		return cached.(models.AnnualEvolution)
	}

	ordered := make([]models.PeriodMetrics, 0)
	for _, period := range s.datasetService.Periods() {
		dataset, err := s.datasetService.Dataset(period)
		if err != nil {
			continue
		}
		// The annual view classifies assets by group code, not account code.
		ordered = append(ordered, s.metrics.Compute(dataset, processors.GroupAssetSelector))
	}

	evolution := s.periods.Evolution(ordered)
	evolution.FinalROA = utils.RoundFloat(evolution.FinalROA, ratioPrecision)
	for i := range evolution.Steps {
		evolution.Steps[i].CumulativeROA = utils.RoundFloat(evolution.Steps[i].CumulativeROA, ratioPrecision)
		evolution.Steps[i].NetMargin = utils.RoundFloat(evolution.Steps[i].NetMargin, ratioPrecision)
	}

	s.reportCache.Set(ckAnnualEvolution, evolution, cache.DefaultExpiration)
	return evolution
}
