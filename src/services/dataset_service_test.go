// src/services/dataset_service_test.go
package services

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/Amonint/Proyecto-Cooperativa-grupo3/src/logger"
	"github.com/Amonint/Proyecto-Cooperativa-grupo3/src/parsers/extracto"
	"github.com/Amonint/Proyecto-Cooperativa-grupo3/src/processors"
	"github.com/Amonint/Proyecto-Cooperativa-grupo3/src/security/validation"
	"github.com/patrickmn/go-cache"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	logger.InitLogger("error")
	os.Exit(m.Run())
}

const testAmountHeader = "PADRE JULIAN LORENTE LTDA"

// extractCSV renders a minimal extract with the canonical headers.
func extractCSV(rows ...string) string {
	return "CODIGO_CONTABLE,TIPO,GRUPO," + testAmountHeader + "\n" + strings.Join(rows, "\n") + "\n"
}

// referenceCSV is the minimal monthly extract: income 1000, expense 600,
// assets 2000, equity 800.
func referenceCSV() string {
	return extractCSV(
		"51,5,5,1000",
		"41,4,4,600",
		"1,1,1,2000",
		"31,3,3,800",
	)
}

func newTestDatasetService(periodOrder ...string) DatasetService {
	parser := extracto.NewParser(testAmountHeader)
	validator := processors.NewValidationProcessor()
	reportCache := cache.New(time.Minute, time.Minute)
	return NewDatasetService(parser, validator, reportCache, periodOrder)
}

// newTestStack wires a dataset and indicator service over one shared cache,
// mirroring the production wiring.
func newTestStack(periodOrder ...string) (DatasetService, IndicatorService) {
	parser := extracto.NewParser(testAmountHeader)
	reportCache := cache.New(time.Minute, time.Minute)
	datasetService := NewDatasetService(parser, processors.NewValidationProcessor(), reportCache, periodOrder)
	indicatorService := NewIndicatorService(datasetService, processors.NewMetricsProcessor(), processors.NewPeriodProcessor(), reportCache)
	return datasetService, indicatorService
}

func mustUpload(t *testing.T, svc DatasetService, period, csvText string) {
	t.Helper()
	_, err := svc.ProcessUpload(strings.NewReader(csvText), period, period+".csv", int64(len(csvText)))
	require.NoError(t, err)
}

func writeExtractFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}

func TestLoadFromDirFollowsConfiguredOrder(t *testing.T) {
	dir := t.TempDir()
	writeExtractFile(t, dir, "Enero.csv", referenceCSV())
	writeExtractFile(t, dir, "Febrero.csv", referenceCSV())
	writeExtractFile(t, dir, "Extra.csv", referenceCSV())

	svc := newTestDatasetService("Febrero", "Enero")
	loaded, err := svc.LoadFromDir(dir)
	require.NoError(t, err)
	assert.Equal(t, 3, loaded)

	// Configured periods first, unconfigured files after in directory order.
	assert.Equal(t, []string{"Febrero", "Enero", "Extra"}, svc.Periods())
}

func TestLoadFromDirMatchesStemsCaseInsensitively(t *testing.T) {
	dir := t.TempDir()
	writeExtractFile(t, dir, "enero.csv", referenceCSV())

	svc := newTestDatasetService("Enero")
	loaded, err := svc.LoadFromDir(dir)
	require.NoError(t, err)
	assert.Equal(t, 1, loaded)
	// The configured label wins over the file's spelling.
	assert.Equal(t, []string{"Enero"}, svc.Periods())
}

func TestLoadFromDirIgnoresOtherFiles(t *testing.T) {
	dir := t.TempDir()
	writeExtractFile(t, dir, "Enero.csv", referenceCSV())
	writeExtractFile(t, dir, "notas.txt", "no es un extracto")
	require.NoError(t, os.Mkdir(filepath.Join(dir, "viejo"), 0o755))

	svc := newTestDatasetService("Enero")
	loaded, err := svc.LoadFromDir(dir)
	require.NoError(t, err)
	assert.Equal(t, 1, loaded)
}

func TestLoadFromDirMissingDirectory(t *testing.T) {
	svc := newTestDatasetService("Enero")
	loaded, err := svc.LoadFromDir(filepath.Join(t.TempDir(), "no-existe"))
	require.Error(t, err)
	assert.Zero(t, loaded)
}

func TestProcessUploadStoresDataset(t *testing.T) {
	svc := newTestDatasetService()
	mustUpload(t, svc, "Noviembre", referenceCSV())

	dataset, err := svc.Dataset("Noviembre")
	require.NoError(t, err)
	assert.Len(t, dataset.Rows, 4)
	assert.Equal(t, []string{"Noviembre"}, svc.Periods())
}

func TestProcessUploadReplacesExistingPeriod(t *testing.T) {
	svc := newTestDatasetService()
	mustUpload(t, svc, "Enero", referenceCSV())
	mustUpload(t, svc, "Enero", extractCSV("51,5,5,250"))

	assert.Equal(t, []string{"Enero"}, svc.Periods())

	dataset, err := svc.Dataset("Enero")
	require.NoError(t, err)
	require.Len(t, dataset.Rows, 1)

	// The cached validation report must track the replacement.
	report, err := svc.Validation("Enero")
	require.NoError(t, err)
	assert.Equal(t, 1, report.RowCount)
}

func TestProcessUploadSanitizesPeriodLabel(t *testing.T) {
	svc := newTestDatasetService()
	_, err := svc.ProcessUpload(strings.NewReader(referenceCSV()), "  Enero  ", "enero.csv", 10)
	require.NoError(t, err)

	assert.Equal(t, []string{"Enero"}, svc.Periods())
}

func TestProcessUploadRejectsBadPeriodLabels(t *testing.T) {
	svc := newTestDatasetService()
	for _, period := range []string{"", "   ", "=SUM(A1)", "Enero;DROP", strings.Repeat("E", 60)} {
		_, err := svc.ProcessUpload(strings.NewReader(referenceCSV()), period, "x.csv", 10)
		require.Error(t, err, "period %q should be rejected", period)
		assert.True(t, errors.Is(err, validation.ErrValidationFailed), "period %q", period)
	}
	assert.Empty(t, svc.Periods())
}

func TestProcessUploadWrapsParseFailures(t *testing.T) {
	svc := newTestDatasetService()
	_, err := svc.ProcessUpload(strings.NewReader("\"CODIGO_CONTABLE,TIPO\n51,5\n"), "Enero", "roto.csv", 10)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrParsingFailed))
	assert.Empty(t, svc.Periods())
}

func TestDatasetUnknownPeriod(t *testing.T) {
	svc := newTestDatasetService()
	_, err := svc.Dataset("Marzo")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrPeriodNotFound))

	_, err = svc.Validation("Marzo")
	assert.True(t, errors.Is(err, ErrPeriodNotFound))
}

func TestStatusRollsUpValidation(t *testing.T) {
	svc := newTestDatasetService()
	mustUpload(t, svc, "Enero", referenceCSV())
	mustUpload(t, svc, "Febrero", extractCSV("51,5,5,1000", "41,4,4,no disponible"))
	// Missing the TIPO column entirely: structural error.
	mustUpload(t, svc, "Marzo", "CODIGO_CONTABLE,"+testAmountHeader+"\n1,100\n")

	status := svc.Status()
	require.Len(t, status.Periods, 3)
	assert.Equal(t, 1, status.ValidCount)
	assert.Equal(t, 1, status.WarnedCount)
	assert.Equal(t, 1, status.ErroredCount)
	assert.Contains(t, status.Message, "3 extractos")

	assert.Equal(t, "Enero", status.Periods[0].Period)
	assert.True(t, status.Periods[0].Valid)
	assert.Zero(t, status.Periods[0].WarningCount)

	assert.True(t, status.Periods[1].Valid)
	assert.Equal(t, 1, status.Periods[1].WarningCount)

	assert.False(t, status.Periods[2].Valid)
	assert.Equal(t, 1, status.Periods[2].ErrorCount)
}
