// src/processors/validation_processor.go
package processors

import (
	"fmt"
	"math"

	"github.com/Amonint/Proyecto-Cooperativa-grupo3/src/models"
)

// MaxPlausibleAmount is the absolute value beyond which an amount is flagged
// as a probable data-entry error. Advisory only, never blocks computation.
const MaxPlausibleAmount = 1e12

// requiredColumns must all be present for a dataset to be structurally valid.
var requiredColumns = []string{
	models.ColumnAccountCode,
	models.ColumnType,
	models.ColumnAmount,
}

// ValidationProcessor checks the structural and semantic integrity of a
// dataset before it is trusted by the metric functions.
type ValidationProcessor interface {
	Validate(d models.AccountingDataset) models.ValidationReport
}

// validationProcessorImpl implements the ValidationProcessor interface.
type validationProcessorImpl struct{}

// NewValidationProcessor creates a new instance of ValidationProcessor.
func NewValidationProcessor() ValidationProcessor {
	return &validationProcessorImpl{}
}

// Validate produces a fresh report for the dataset. A missing required column
// is fatal and short-circuits the row checks, so structural failures always
// carry empty warnings. Coercion failures, implausible magnitudes and unknown
// type codes are warnings; Valid is true iff no error was recorded.
func (p *validationProcessorImpl) Validate(d models.AccountingDataset) models.ValidationReport {
	report := models.ValidationReport{
		Period:   d.Period,
		Errors:   []string{},
		Warnings: []string{},
		RowCount: len(d.Rows),
	}

	for _, column := range requiredColumns {
		if !d.HasColumn(column) {
			report.Errors = append(report.Errors, fmt.Sprintf("required column %q is missing", column))
		}
	}
	if len(report.Errors) > 0 {
		return report
	}

	for i, row := range d.Rows {
		if !row.HasAmount {
			report.Warnings = append(report.Warnings,
				fmt.Sprintf("row %d: amount %q is not numeric; row excluded from aggregation", i+1, row.AmountRaw))
			report.ExcludedRows++
			continue
		}
		if math.Abs(row.Amount) > MaxPlausibleAmount {
			report.Warnings = append(report.Warnings,
				fmt.Sprintf("row %d: amount %.2f exceeds the plausibility threshold", i+1, row.Amount))
		}
		if row.Type < models.TypeAsset || row.Type > models.TypeIncome {
			report.Warnings = append(report.Warnings,
				fmt.Sprintf("row %d: type code %d is outside the known categories 1-5", i+1, row.Type))
		}
	}

	report.Valid = len(report.Errors) == 0
	return report
}
