// src/processors/metrics_processor.go
package processors

import (
	"github.com/Amonint/Proyecto-Cooperativa-grupo3/src/models"
)

// OperatingExpenseCode is the account code of the operating-expense group in
// the cooperative's chart of accounts.
const OperatingExpenseCode = 45

// AssetSelector picks the rows that count as assets for a computation.
// The monthly statements classify assets by account code while the annual
// aggregation classifies them by group code; the two hierarchies are kept
// separate on purpose.
type AssetSelector struct {
	Column string
	Match  int
}

var (
	// DefaultAssetSelector matches the monthly statements (account_code == 1).
	DefaultAssetSelector = AssetSelector{Column: models.ColumnAccountCode, Match: 1}
	// GroupAssetSelector matches the annual aggregation (group == 1).
	GroupAssetSelector = AssetSelector{Column: models.ColumnGroup, Match: 1}
)

// SafeRatio divides numerator by denominator, yielding 0 when the denominator
// is zero. Every ratio in the engine goes through here: the dashboard always
// renders a number, never a division error.
func SafeRatio(numerator, denominator float64) float64 {
	if denominator == 0 {
		return 0
	}
	return numerator / denominator
}

// SafePercent is SafeRatio expressed as a percentage.
func SafePercent(numerator, denominator float64) float64 {
	return SafeRatio(numerator, denominator) * 100
}

// MetricsProcessor computes the single-period aggregates and ratios over one
// accounting dataset. All methods are pure; rows whose amount failed numeric
// coercion are excluded from every sum.
type MetricsProcessor interface {
	Income(d models.AccountingDataset) float64
	Expense(d models.AccountingDataset) float64
	NetResult(d models.AccountingDataset) float64
	Assets(d models.AccountingDataset, sel AssetSelector) float64
	OperatingExpense(d models.AccountingDataset) float64
	Equity(d models.AccountingDataset) float64
	ROA(d models.AccountingDataset, sel AssetSelector) float64
	OperatingEfficiency(d models.AccountingDataset) float64
	EquitySolvency(d models.AccountingDataset, sel AssetSelector) float64
	NetMargin(d models.AccountingDataset) float64
	Compute(d models.AccountingDataset, sel AssetSelector) models.PeriodMetrics
}

// metricsProcessorImpl implements the MetricsProcessor interface.
type metricsProcessorImpl struct{}

// NewMetricsProcessor creates a new instance of MetricsProcessor.
func NewMetricsProcessor() MetricsProcessor {
	return &metricsProcessorImpl{}
}

func sumByType(d models.AccountingDataset, typeCode int) float64 {
	var total float64
	for _, row := range d.Rows {
		if !row.HasAmount {
			continue
		}
		if row.Type == typeCode {
			total += row.Amount
		}
	}
	return total
}

func sumByAccountCode(d models.AccountingDataset, code int) float64 {
	var total float64
	for _, row := range d.Rows {
		if !row.HasAmount {
			continue
		}
		if row.AccountCode == code {
			total += row.Amount
		}
	}
	return total
}

func sumByGroup(d models.AccountingDataset, code int) float64 {
	var total float64
	for _, row := range d.Rows {
		if !row.HasAmount {
			continue
		}
		if row.Group == code {
			total += row.Amount
		}
	}
	return total
}

func (p *metricsProcessorImpl) Income(d models.AccountingDataset) float64 {
	return sumByType(d, models.TypeIncome)
}

func (p *metricsProcessorImpl) Expense(d models.AccountingDataset) float64 {
	return sumByType(d, models.TypeExpense)
}

func (p *metricsProcessorImpl) NetResult(d models.AccountingDataset) float64 {
	return p.Income(d) - p.Expense(d)
}

// Assets sums the rows picked by the selector. Unknown selector columns
// select nothing, which degrades the dependent ratios to 0.
func (p *metricsProcessorImpl) Assets(d models.AccountingDataset, sel AssetSelector) float64 {
	switch sel.Column {
	case models.ColumnAccountCode:
		return sumByAccountCode(d, sel.Match)
	case models.ColumnGroup:
		return sumByGroup(d, sel.Match)
	case models.ColumnType:
		return sumByType(d, sel.Match)
	}
	return 0
}

func (p *metricsProcessorImpl) OperatingExpense(d models.AccountingDataset) float64 {
	return sumByAccountCode(d, OperatingExpenseCode)
}

func (p *metricsProcessorImpl) Equity(d models.AccountingDataset) float64 {
	return sumByType(d, models.TypeEquity)
}

func (p *metricsProcessorImpl) ROA(d models.AccountingDataset, sel AssetSelector) float64 {
	return SafePercent(p.NetResult(d), p.Assets(d, sel))
}

func (p *metricsProcessorImpl) OperatingEfficiency(d models.AccountingDataset) float64 {
	income := p.Income(d)
	return SafePercent(income-p.OperatingExpense(d), income)
}

func (p *metricsProcessorImpl) EquitySolvency(d models.AccountingDataset, sel AssetSelector) float64 {
	return SafePercent(p.Equity(d), p.Assets(d, sel))
}

func (p *metricsProcessorImpl) NetMargin(d models.AccountingDataset) float64 {
	return SafePercent(p.NetResult(d), p.Income(d))
}

// Compute bundles all plain aggregates of one period in a single pass.
func (p *metricsProcessorImpl) Compute(d models.AccountingDataset, sel AssetSelector) models.PeriodMetrics {
	income := p.Income(d)
	expense := p.Expense(d)
	return models.PeriodMetrics{
		Period:           d.Period,
		Income:           income,
		Expense:          expense,
		NetResult:        income - expense,
		Assets:           p.Assets(d, sel),
		OperatingExpense: p.OperatingExpense(d),
		Equity:           p.Equity(d),
	}
}
