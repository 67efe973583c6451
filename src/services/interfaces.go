// src/services/interfaces.go
package services

import (
	"errors"
	"io"

	"github.com/Amonint/Proyecto-Cooperativa-grupo3/src/models"
)

// Define common service errors
var (
	ErrParsingFailed      = errors.New("csv parsing failed")
	ErrPeriodNotFound     = errors.New("period dataset not found")
	ErrNoPeriodsRequested = errors.New("no periods requested")
)

// DatasetService owns the in-memory registry of per-period accounting
// datasets: the load boundary of the engine. Datasets are immutable once
// stored; an upload for an existing period replaces the whole dataset.
type DatasetService interface {
	// LoadFromDir reads every *.csv extract in dir (period label = file
	// stem) and stores it. Configured periods load first, in order; extra
	// files follow in directory order. Returns how many datasets loaded.
	LoadFromDir(dir string) (int, error)
	// ProcessUpload parses, validates and stores one uploaded extract.
	ProcessUpload(fileReader io.Reader, period string, filename string, filesize int64) (models.ValidationReport, error)
	// Dataset returns the stored dataset for a period, or ErrPeriodNotFound.
	Dataset(period string) (models.AccountingDataset, error)
	// Periods returns the loaded period labels in storage order.
	Periods() []string
	// Validation returns the (cached) validation report for a period.
	Validation(period string) (models.ValidationReport, error)
	// Status rolls validation up across all loaded periods.
	Status() models.DatasetStatus
}

// IndicatorService computes the dashboard figures over the stored datasets.
// Summarize never fails: any internal problem yields a zero-filled summary.
// The report operations return ErrPeriodNotFound for unknown periods.
type IndicatorService interface {
	Summarize(referencePeriod string) models.IndicatorSummary
	ROAReport(period string) (models.ROAReport, error)
	EfficiencyReport(period string) (models.EfficiencyReport, error)
	SolvencyReport(period string) (models.SolvencyReport, error)
	Comparison(basePeriod, otherPeriod string) (models.PeriodComparison, error)
	QuarterReport(periods []string) (models.QuarterReport, error)
	AnnualEvolution() models.AnnualEvolution
}

// ExportService serializes multi-period report tables for download. Cell
// values pass through the formula-injection sanitizer; column order is
// exactly the computed order.
type ExportService interface {
	ComparisonTable(c models.PeriodComparison) models.ReportTable
	QuarterTable(q models.QuarterReport) models.ReportTable
	EvolutionTable(e models.AnnualEvolution) models.ReportTable
	WriteCSV(w io.Writer, table models.ReportTable) error
	WriteXLSX(w io.Writer, table models.ReportTable) error
}
