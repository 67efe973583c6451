// src/services/dataset_service.go
package services

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/Amonint/Proyecto-Cooperativa-grupo3/src/logger"
	"github.com/Amonint/Proyecto-Cooperativa-grupo3/src/models"
	"github.com/Amonint/Proyecto-Cooperativa-grupo3/src/parsers/extracto"
	"github.com/Amonint/Proyecto-Cooperativa-grupo3/src/processors"
	"github.com/Amonint/Proyecto-Cooperativa-grupo3/src/security/validation"
	"github.com/patrickmn/go-cache"
)

const ckValidationReport = "res_validation_report_%s"

type datasetServiceImpl struct {
	parser      *extracto.Parser
	validator   processors.ValidationProcessor
	reportCache *cache.Cache
	periodOrder []string

	mu       sync.RWMutex
	datasets map[string]models.AccountingDataset
	order    []string
}

// NewDatasetService creates the in-memory dataset registry. periodOrder is
// the caller-supplied display order; it decides which extract files load
// first and is never re-sorted by anything downstream.
func NewDatasetService(
	parser *extracto.Parser,
	validator processors.ValidationProcessor,
	reportCache *cache.Cache,
	periodOrder []string,
) DatasetService {
	return &datasetServiceImpl{
		parser:      parser,
		validator:   validator,
		reportCache: reportCache,
		periodOrder: periodOrder,
		datasets:    make(map[string]models.AccountingDataset),
	}
}

func (s *datasetServiceImpl) LoadFromDir(dir string) (int, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return 0, fmt.Errorf("reading extract directory %s: %w", dir, err)
	}

	// Index the CSV files by their period stem, case-insensitively.
	filesByStem := make(map[string]string)
	var stems []string
	for _, entry := range entries {
		if entry.IsDir() || !strings.EqualFold(filepath.Ext(entry.Name()), ".csv") {
			continue
		}
		stem := strings.TrimSuffix(entry.Name(), filepath.Ext(entry.Name()))
		filesByStem[strings.ToLower(stem)] = filepath.Join(dir, entry.Name())
		stems = append(stems, stem)
	}

	loaded := 0
	seen := make(map[string]bool)

	// Configured periods first, in the caller-supplied order.
	for _, period := range s.periodOrder {
		path, ok := filesByStem[strings.ToLower(period)]
		if !ok {
			continue
		}
		seen[strings.ToLower(period)] = true
		if err := s.loadFile(path, period); err != nil {
			logger.L.Warn("Skipping extract that failed to load", "period", period, "path", path, "error", err)
			continue
		}
		loaded++
	}

	// Any remaining files follow in directory order.
	for _, stem := range stems {
		if seen[strings.ToLower(stem)] {
			continue
		}
		path := filesByStem[strings.ToLower(stem)]
		if err := s.loadFile(path, stem); err != nil {
			logger.L.Warn("Skipping extract that failed to load", "period", stem, "path", path, "error", err)
			continue
		}
		loaded++
	}

	logger.L.Info("Extract directory loaded", "dir", dir, "datasets", loaded)
	return loaded, nil
}

func (s *datasetServiceImpl) loadFile(path, period string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("opening extract %s: %w", path, err)
	}
	defer f.Close()

	dataset, err := s.parser.Parse(f, period)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrParsingFailed, err)
	}
	s.store(dataset)
	return nil
}

// store registers a dataset, appending new periods to the storage order and
// replacing existing ones in place. Any cached report may span this period,
// so the whole report cache is dropped.
func (s *datasetServiceImpl) store(dataset models.AccountingDataset) {
	s.mu.Lock()
	if _, exists := s.datasets[dataset.Period]; !exists {
		s.order = append(s.order, dataset.Period)
	}
	s.datasets[dataset.Period] = dataset
	s.mu.Unlock()

	s.reportCache.Flush()
}

func (s *datasetServiceImpl) ProcessUpload(fileReader io.Reader, period string, filename string, filesize int64) (models.ValidationReport, error) {
	startTime := time.Now()

	cleanPeriod := validation.SanitizePeriodLabel(period)
	if err := validation.ValidatePeriodLabel(cleanPeriod); err != nil {
		return models.ValidationReport{}, err
	}
	if err := validation.CheckXSSPatterns(cleanPeriod, "period", filename); err != nil {
		return models.ValidationReport{}, err
	}
	// Period labels end up as cells in exported spreadsheets.
	if err := validation.CheckFormulaInjection(cleanPeriod, "period", filename); err != nil {
		return models.ValidationReport{}, err
	}
	logger.L.Info("ProcessUpload START", "period", cleanPeriod, "filename", filename, "size", filesize)

	dataset, err := s.parser.Parse(fileReader, cleanPeriod)
	if err != nil {
		return models.ValidationReport{}, fmt.Errorf("%w: %v", ErrParsingFailed, err)
	}

	report := s.validator.Validate(dataset)
	s.store(dataset)
	s.reportCache.Set(fmt.Sprintf(ckValidationReport, cleanPeriod), report, cache.DefaultExpiration)

	logger.L.Info("ProcessUpload END",
		"period", cleanPeriod, "valid", report.Valid,
		"warnings", len(report.Warnings), "duration", time.Since(startTime))
	return report, nil
}

func (s *datasetServiceImpl) Dataset(period string) (models.AccountingDataset, error) {
	s.mu.RLock()
	dataset, ok := s.datasets[period]
	s.mu.RUnlock()
	if !ok {
		return models.AccountingDataset{}, fmt.Errorf("%w: %s", ErrPeriodNotFound, period)
	}
	return dataset, nil
}

func (s *datasetServiceImpl) Periods() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	periods := make([]string, len(s.order))
	copy(periods, s.order)
	return periods
}

func (s *datasetServiceImpl) Validation(period string) (models.ValidationReport, error) {
	cacheKey := fmt.Sprintf(ckValidationReport, period)
	if cached, found := s.reportCache.Get(cacheKey); found {
		return cached.(models.ValidationReport), nil
	}

	dataset, err := s.Dataset(period)
	if err != nil {
		return models.ValidationReport{}, err
	}
	report := s.validator.Validate(dataset)
	s.reportCache.Set(cacheKey, report, cache.DefaultExpiration)
	return report, nil
}

// Status rolls validation up across all loaded periods. The categories are
// mutually exclusive: a dataset is counted as errored, warned, or fully
// valid, in that precedence.
func (s *datasetServiceImpl) Status() models.DatasetStatus {
	status := models.DatasetStatus{Periods: []models.DatasetPeriodStatus{}}
	for _, period := range s.Periods() {
		report, err := s.Validation(period)
		if err != nil {
			continue
		}
		status.Periods = append(status.Periods, models.DatasetPeriodStatus{
			Period:       period,
			Valid:        report.Valid,
			ErrorCount:   len(report.Errors),
			WarningCount: len(report.Warnings),
			RowCount:     report.RowCount,
		})
		switch {
		case !report.Valid:
			status.ErroredCount++
		case len(report.Warnings) > 0:
			status.WarnedCount++
		default:
			status.ValidCount++
		}
	}
	status.Message = fmt.Sprintf("%d extractos cargados: %d válidos, %d con advertencias, %d con errores",
		len(status.Periods), status.ValidCount, status.WarnedCount, status.ErroredCount)
	return status
}
