// src/processors/period_processor_test.go
package processors

import (
	"testing"

	"github.com/Amonint/Proyecto-Cooperativa-grupo3/src/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func metrics(period string, income, expense, assets float64) models.PeriodMetrics {
	return models.PeriodMetrics{
		Period:    period,
		Income:    income,
		Expense:   expense,
		NetResult: income - expense,
		Assets:    assets,
	}
}

func TestCompareCombinesNetAndMeanAssets(t *testing.T) {
	p := NewPeriodProcessor()
	// Net results 400 and 100.
	base := metrics("Octubre", 1000, 600, 2000)
	other := metrics("Noviembre", 500, 400, 1000)

	c := p.Compare(base, other)

	require.Len(t, c.Rows, 2)
	assert.Equal(t, "Octubre", c.Rows[0].Period)
	assert.Equal(t, "Noviembre", c.Rows[1].Period)
	assert.InDelta(t, 500, c.CombinedNetResult, floatTolerance)
	assert.InDelta(t, 1500, c.CombinedAssets, floatTolerance)
	assert.InDelta(t, 500.0/1500.0*100, c.CombinedROA, floatTolerance)
}

func TestComparePreservesCallerOrder(t *testing.T) {
	p := NewPeriodProcessor()
	// Reversed call: the rows must follow the arguments, not the calendar.
	c := p.Compare(metrics("Noviembre", 500, 400, 1000), metrics("Octubre", 1000, 600, 2000))

	assert.Equal(t, "Noviembre", c.Rows[0].Period)
	assert.Equal(t, "Octubre", c.Rows[1].Period)
}

func TestCompareZeroAssets(t *testing.T) {
	p := NewPeriodProcessor()
	c := p.Compare(metrics("Octubre", 1000, 600, 0), metrics("Noviembre", 500, 400, 0))

	assert.InDelta(t, 500, c.CombinedNetResult, floatTolerance)
	assert.Zero(t, c.CombinedAssets)
	assert.Zero(t, c.CombinedROA)
}

func TestQuarterSeriesAndBlend(t *testing.T) {
	p := NewPeriodProcessor()
	ordered := []models.PeriodMetrics{
		// Net results 400, 100 and 500; per-period ROAs 20, 10 and 20.
		metrics("Octubre", 1000, 600, 2000),
		metrics("Noviembre", 500, 400, 1000),
		metrics("Diciembre", 800, 300, 2500),
	}

	q := p.Quarter(ordered, nil)

	require.Len(t, q.Rows, 3)
	require.Len(t, q.ROASeries, 3)
	assert.Equal(t, "Octubre", q.ROASeries[0].Period)
	assert.InDelta(t, 20.0, q.ROASeries[0].ROA, floatTolerance)
	assert.InDelta(t, 10.0, q.ROASeries[1].ROA, floatTolerance)
	assert.InDelta(t, 20.0, q.ROASeries[2].ROA, floatTolerance)

	// Blend: total net 1000 over mean assets (5500/3).
	assert.InDelta(t, 1000.0/(5500.0/3.0)*100, q.BlendedROA, floatTolerance)
	assert.NotNil(t, q.MissingPeriods)
	assert.Empty(t, q.MissingPeriods)
}

func TestQuarterReportsMissingPeriods(t *testing.T) {
	p := NewPeriodProcessor()
	ordered := []models.PeriodMetrics{
		metrics("Octubre", 1000, 600, 2000),
		metrics("Noviembre", 500, 400, 1000),
	}

	q := p.Quarter(ordered, []string{"Diciembre"})

	assert.Equal(t, []string{"Diciembre"}, q.MissingPeriods)
	// The blend covers only the loaded periods.
	assert.InDelta(t, 500.0/1500.0*100, q.BlendedROA, floatTolerance)
}

func TestQuarterZeroAssetsPeriod(t *testing.T) {
	p := NewPeriodProcessor()
	q := p.Quarter([]models.PeriodMetrics{metrics("Octubre", 1000, 600, 0)}, nil)

	require.Len(t, q.ROASeries, 1)
	assert.Zero(t, q.ROASeries[0].ROA)
}

func TestEvolutionCumulativeSnapshots(t *testing.T) {
	p := NewPeriodProcessor()
	ordered := []models.PeriodMetrics{
		// Net results 400, 100 and 500.
		metrics("Enero", 1000, 600, 2000),
		metrics("Febrero", 500, 400, 1000),
		metrics("Marzo", 800, 300, 3000),
	}

	e := p.Evolution(ordered)
	require.Len(t, e.Steps, 3)

	first := e.Steps[0]
	assert.Equal(t, "Enero", first.Period)
	assert.InDelta(t, 400, first.CumulativeNetResult, floatTolerance)
	assert.InDelta(t, 2000, first.CumulativeAssets, floatTolerance)
	assert.InDelta(t, 20.0, first.CumulativeROA, floatTolerance)
	assert.InDelta(t, 40.0, first.NetMargin, floatTolerance)

	second := e.Steps[1]
	assert.InDelta(t, 500, second.CumulativeNetResult, floatTolerance)
	assert.InDelta(t, 3000, second.CumulativeAssets, floatTolerance)
	// Snapshot over the running mean of assets: 500 / (3000/2).
	assert.InDelta(t, 500.0/1500.0*100, second.CumulativeROA, floatTolerance)

	third := e.Steps[2]
	assert.InDelta(t, 1000, third.CumulativeNetResult, floatTolerance)
	assert.InDelta(t, 1000.0/2000.0*100, third.CumulativeROA, floatTolerance)

	assert.InDelta(t, 2300, e.TotalIncome, floatTolerance)
	assert.InDelta(t, 1300, e.TotalExpense, floatTolerance)
	assert.InDelta(t, 1000, e.TotalNetResult, floatTolerance)
	assert.InDelta(t, 2000, e.MeanAssets, floatTolerance)
	// Final annual ROA: total net over the simple mean of per-period assets.
	assert.InDelta(t, 50.0, e.FinalROA, floatTolerance)
}

func TestEvolutionNetResultMillions(t *testing.T) {
	p := NewPeriodProcessor()
	e := p.Evolution([]models.PeriodMetrics{metrics("Enero", 3_500_000, 1_500_000, 10_000_000)})

	require.Len(t, e.Steps, 1)
	assert.InDelta(t, 2.0, e.Steps[0].NetResultMillions, floatTolerance)
}

func TestEvolutionEmpty(t *testing.T) {
	p := NewPeriodProcessor()
	e := p.Evolution(nil)

	assert.Empty(t, e.Steps)
	assert.Zero(t, e.TotalNetResult)
	assert.Zero(t, e.MeanAssets)
	assert.Zero(t, e.FinalROA)
}

func TestEvolutionZeroAssets(t *testing.T) {
	p := NewPeriodProcessor()
	e := p.Evolution([]models.PeriodMetrics{
		metrics("Enero", 1000, 600, 0),
		metrics("Febrero", 500, 400, 0),
	})

	for _, step := range e.Steps {
		assert.Zero(t, step.CumulativeROA)
	}
	assert.Zero(t, e.FinalROA)
}

func TestEvolutionPreservesCallerOrder(t *testing.T) {
	p := NewPeriodProcessor()
	// Out of calendar order on purpose.
	e := p.Evolution([]models.PeriodMetrics{
		metrics("Noviembre", 500, 400, 1000),
		metrics("Enero", 1000, 600, 2000),
	})

	require.Len(t, e.Steps, 2)
	assert.Equal(t, "Noviembre", e.Steps[0].Period)
	assert.Equal(t, "Enero", e.Steps[1].Period)
}
