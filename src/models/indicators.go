// src/models/indicators.go
package models

// ValidationReport is the outcome of validating one period's dataset.
// Errors and Warnings keep the order in which the findings were recorded.
// A structural failure (missing required column) short-circuits the semantic
// checks, so such reports always carry empty warnings.
type ValidationReport struct {
	Period       string   `json:"period"`
	Valid        bool     `json:"valid"`
	Errors       []string `json:"errors"`
	Warnings     []string `json:"warnings"`
	RowCount     int      `json:"rowCount"`
	ExcludedRows int      `json:"excludedRows"`
}

// PeriodMetrics bundles the single-period aggregates every multi-period
// operation is built from. Ratio columns are reported separately per
// operation; detail rows carry only the plain aggregates.
type PeriodMetrics struct {
	Period           string  `json:"period"`
	Income           float64 `json:"income"`
	Expense          float64 `json:"expense"`
	NetResult        float64 `json:"netResult"`
	Assets           float64 `json:"assets"`
	OperatingExpense float64 `json:"operatingExpense"`
	Equity           float64 `json:"equity"`
}

// PeriodRatio is one entry of a per-period ratio series (ring/pie charts).
type PeriodRatio struct {
	Period string  `json:"period"`
	ROA    float64 `json:"roa"`
}

// ROAReport is the single-period profitability detail.
type ROAReport struct {
	Period    string  `json:"period"`
	Income    float64 `json:"income"`
	Expense   float64 `json:"expense"`
	NetResult float64 `json:"netResult"`
	Assets    float64 `json:"assets"`
	ROA       float64 `json:"roa"`
}

// EfficiencyReport is the single-period operating-efficiency detail.
type EfficiencyReport struct {
	Period           string  `json:"period"`
	Income           float64 `json:"income"`
	OperatingExpense float64 `json:"operatingExpense"`
	Efficiency       float64 `json:"efficiency"`
}

// SolvencyReport is the single-period equity-solvency detail.
type SolvencyReport struct {
	Period   string  `json:"period"`
	Equity   float64 `json:"equity"`
	Assets   float64 `json:"assets"`
	Solvency float64 `json:"solvency"`
}

// PeriodComparison is the two-period composition: per-period detail rows in
// caller order plus the combined aggregates (summed net result over mean
// assets, the average-assets ROA convention).
type PeriodComparison struct {
	Rows              []PeriodMetrics `json:"rows"`
	CombinedNetResult float64         `json:"combinedNetResult"`
	CombinedAssets    float64         `json:"combinedAssets"`
	CombinedROA       float64         `json:"combinedRoa"`
}

// QuarterReport is the three-period composition: detail rows and an aligned
// per-period ROA series, plus the blended quarterly ROA. Requested months
// with no loaded dataset are listed in MissingPeriods and excluded from the
// blend; they are never substituted with a neighboring month's data.
type QuarterReport struct {
	Rows           []PeriodMetrics `json:"rows"`
	ROASeries      []PeriodRatio   `json:"roaSeries"`
	BlendedROA     float64         `json:"blendedRoa"`
	MissingPeriods []string        `json:"missingPeriods"`
}

// EvolutionStep is one period folded into the cumulative annual composition.
// CumulativeROA is the to-date snapshot after this step: cumulative net
// result over the running mean of assets seen so far.
type EvolutionStep struct {
	Period              string  `json:"period"`
	Income              float64 `json:"income"`
	Expense             float64 `json:"expense"`
	NetResult           float64 `json:"netResult"`
	Assets              float64 `json:"assets"`
	CumulativeIncome    float64 `json:"cumulativeIncome"`
	CumulativeExpense   float64 `json:"cumulativeExpense"`
	CumulativeNetResult float64 `json:"cumulativeNetResult"`
	CumulativeAssets    float64 `json:"cumulativeAssets"`
	CumulativeROA       float64 `json:"cumulativeRoa"`
	NetMargin           float64 `json:"netMargin"`
	NetResultMillions   float64 `json:"netResultMillions"`
}

// AnnualEvolution is the cumulative composition over all loaded periods.
// FinalROA divides the total net result by the simple mean of the per-period
// assets values, not by the last cumulative running mean.
type AnnualEvolution struct {
	Steps          []EvolutionStep `json:"steps"`
	TotalIncome    float64         `json:"totalIncome"`
	TotalExpense   float64         `json:"totalExpense"`
	TotalNetResult float64         `json:"totalNetResult"`
	MeanAssets     float64         `json:"meanAssets"`
	FinalROA       float64         `json:"finalRoa"`
}

// IndicatorSummary holds the top-level dashboard figures for one reference
// period. Any internal failure yields a zero-filled summary with the
// requested period echoed; downstream consumers have no error path.
type IndicatorSummary struct {
	ROA             float64 `json:"roa"`
	Efficiency      float64 `json:"efficiency"`
	Solvency        float64 `json:"solvency"`
	ReferencePeriod string  `json:"referencePeriod"`
}

// DatasetPeriodStatus is the per-period line of the validation roll-up.
type DatasetPeriodStatus struct {
	Period       string `json:"period"`
	Valid        bool   `json:"valid"`
	ErrorCount   int    `json:"errorCount"`
	WarningCount int    `json:"warningCount"`
	RowCount     int    `json:"rowCount"`
}

// DatasetStatus summarizes validation across all loaded periods for the
// dashboard banner.
type DatasetStatus struct {
	Periods      []DatasetPeriodStatus `json:"periods"`
	ValidCount   int                   `json:"validCount"`
	WarnedCount  int                   `json:"warnedCount"`
	ErroredCount int                   `json:"erroredCount"`
	Message      string                `json:"message"`
}

// ReportTable is the export shape of any multi-period result: a header row
// plus one row per period, column order exactly as computed.
type ReportTable struct {
	Name    string     `json:"name"`
	Headers []string   `json:"headers"`
	Rows    [][]string `json:"rows"`
}
