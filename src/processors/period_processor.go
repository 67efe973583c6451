// src/processors/period_processor.go
package processors

import (
	"github.com/Amonint/Proyecto-Cooperativa-grupo3/src/models"
)

// PeriodProcessor combines per-period aggregates into windowed results.
// Periods are always taken in the order supplied by the caller; nothing in
// here sorts them. All composed ratios share the SafeRatio zero-denominator
// policy of the single-period functions.
type PeriodProcessor interface {
	Compare(base, other models.PeriodMetrics) models.PeriodComparison
	Quarter(ordered []models.PeriodMetrics, missingPeriods []string) models.QuarterReport
	Evolution(ordered []models.PeriodMetrics) models.AnnualEvolution
}

// periodProcessorImpl implements the PeriodProcessor interface.
type periodProcessorImpl struct{}

// NewPeriodProcessor creates a new instance of PeriodProcessor.
func NewPeriodProcessor() PeriodProcessor {
	return &periodProcessorImpl{}
}

// reduction holds the window-level aggregates every composed shape derives
// from: summed net result over the arithmetic mean of per-period assets.
type reduction struct {
	totalIncome  float64
	totalExpense float64
	totalNet     float64
	sumAssets    float64
	meanAssets   float64
	count        int
}

func reduce(ordered []models.PeriodMetrics) reduction {
	var r reduction
	for _, m := range ordered {
		r.totalIncome += m.Income
		r.totalExpense += m.Expense
		r.totalNet += m.NetResult
		r.sumAssets += m.Assets
		r.count++
	}
	r.meanAssets = SafeRatio(r.sumAssets, float64(r.count))
	return r
}

// Compare composes two periods: combined net result is the sum of both,
// combined assets the arithmetic mean (average-assets convention), and the
// combined ROA relates the two.
func (p *periodProcessorImpl) Compare(base, other models.PeriodMetrics) models.PeriodComparison {
	ordered := []models.PeriodMetrics{base, other}
	r := reduce(ordered)
	return models.PeriodComparison{
		Rows:              ordered,
		CombinedNetResult: r.totalNet,
		CombinedAssets:    r.meanAssets,
		CombinedROA:       SafePercent(r.totalNet, r.meanAssets),
	}
}

// Quarter composes the supplied periods into detail rows, an aligned
// per-period ROA series, and a blended ROA over the whole window. Requested
// periods that had no dataset arrive through missingPeriods and stay out of
// the blend.
func (p *periodProcessorImpl) Quarter(ordered []models.PeriodMetrics, missingPeriods []string) models.QuarterReport {
	r := reduce(ordered)
	series := make([]models.PeriodRatio, 0, len(ordered))
	for _, m := range ordered {
		series = append(series, models.PeriodRatio{
			Period: m.Period,
			ROA:    SafePercent(m.NetResult, m.Assets),
		})
	}
	if missingPeriods == nil {
		missingPeriods = []string{}
	}
	return models.QuarterReport{
		Rows:           ordered,
		ROASeries:      series,
		BlendedROA:     SafePercent(r.totalNet, r.meanAssets),
		MissingPeriods: missingPeriods,
	}
}

// Evolution folds the supplied periods cumulatively, recording after each
// step a to-date ROA snapshot: cumulative net result over the running mean
// of the assets seen so far. The final annual ROA divides the total net
// result by the simple mean of all per-period assets values.
func (p *periodProcessorImpl) Evolution(ordered []models.PeriodMetrics) models.AnnualEvolution {
	steps := make([]models.EvolutionStep, 0, len(ordered))

	var cumIncome, cumExpense, cumNet, cumAssets float64
	for i, m := range ordered {
		cumIncome += m.Income
		cumExpense += m.Expense
		cumNet += m.NetResult
		cumAssets += m.Assets
		runningMeanAssets := cumAssets / float64(i+1)
		steps = append(steps, models.EvolutionStep{
			Period:              m.Period,
			Income:              m.Income,
			Expense:             m.Expense,
			NetResult:           m.NetResult,
			Assets:              m.Assets,
			CumulativeIncome:    cumIncome,
			CumulativeExpense:   cumExpense,
			CumulativeNetResult: cumNet,
			CumulativeAssets:    cumAssets,
			CumulativeROA:       SafePercent(cumNet, runningMeanAssets),
			NetMargin:           SafePercent(m.NetResult, m.Income),
			NetResultMillions:   m.NetResult / 1e6,
		})
	}

	r := reduce(ordered)
	return models.AnnualEvolution{
		Steps:          steps,
		TotalIncome:    r.totalIncome,
		TotalExpense:   r.totalExpense,
		TotalNetResult: r.totalNet,
		MeanAssets:     r.meanAssets,
		FinalROA:       SafePercent(r.totalNet, r.meanAssets),
	}
}
