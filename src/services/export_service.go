// src/services/export_service.go
package services

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/Amonint/Proyecto-Cooperativa-grupo3/src/models"
	"github.com/Amonint/Proyecto-Cooperativa-grupo3/src/security/validation"
	"github.com/xuri/excelize/v2"
)

type exportServiceImpl struct{}

// NewExportService creates the report exporter. Tables carry their columns
// in the order the engine computed them; the exporter never reorders.
func NewExportService() ExportService {
	return &exportServiceImpl{}
}

func formatCell(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

// sanitizeRow neutralizes spreadsheet formula injection on every cell before
// it reaches a file a spreadsheet application will open.
func sanitizeRow(cells []string) []string {
	out := make([]string, len(cells))
	for i, cell := range cells {
		out[i] = validation.SanitizeForFormulaInjection(cell)
	}
	return out
}

func (s *exportServiceImpl) ComparisonTable(c models.PeriodComparison) models.ReportTable {
	table := models.ReportTable{
		Name:    "Comparativo ROA",
		Headers: []string{"Mes", "Ingresos Totales", "Gastos Totales", "Utilidad Neta", "Activo Promedio"},
		Rows:    [][]string{},
	}
	for _, row := range c.Rows {
		table.Rows = append(table.Rows, sanitizeRow([]string{
			row.Period,
			formatCell(row.Income),
			formatCell(row.Expense),
			formatCell(row.NetResult),
			formatCell(row.Assets),
		}))
	}
	return table
}

func (s *exportServiceImpl) QuarterTable(q models.QuarterReport) models.ReportTable {
	table := models.ReportTable{
		Name:    "ROA Trimestral",
		Headers: []string{"Mes", "Ingresos Totales", "Gastos Totales", "Utilidad Neta", "Activo Promedio", "ROA (%)"},
		Rows:    [][]string{},
	}
	for i, row := range q.Rows {
		roa := ""
		if i < len(q.ROASeries) {
			roa = formatCell(q.ROASeries[i].ROA)
		}
		table.Rows = append(table.Rows, sanitizeRow([]string{
			row.Period,
			formatCell(row.Income),
			formatCell(row.Expense),
			formatCell(row.NetResult),
			formatCell(row.Assets),
			roa,
		}))
	}
	return table
}

func (s *exportServiceImpl) EvolutionTable(e models.AnnualEvolution) models.ReportTable {
	table := models.ReportTable{
		Name:    "Evolucion Anual",
		Headers: []string{"Mes", "Ingresos", "Gastos", "Utilidad Neta", "Activos", "ROA Acumulado (%)", "Margen Neto (%)"},
		Rows:    [][]string{},
	}
	for _, step := range e.Steps {
		table.Rows = append(table.Rows, sanitizeRow([]string{
			step.Period,
			formatCell(step.Income),
			formatCell(step.Expense),
			formatCell(step.NetResult),
			formatCell(step.Assets),
			formatCell(step.CumulativeROA),
			formatCell(step.NetMargin),
		}))
	}
	return table
}

func (s *exportServiceImpl) WriteCSV(w io.Writer, table models.ReportTable) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(table.Headers); err != nil {
		return fmt.Errorf("writing csv header: %w", err)
	}
	for _, row := range table.Rows {
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("writing csv row: %w", err)
		}
	}
	writer.Flush()
	return writer.Error()
}

func (s *exportServiceImpl) WriteXLSX(w io.Writer, table models.ReportTable) error {
	f := excelize.NewFile()
	defer f.Close()

	sheet := sheetName(table.Name)
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return fmt.Errorf("renaming xlsx sheet: %w", err)
	}

	header := make([]interface{}, len(table.Headers))
	for i, h := range table.Headers {
		header[i] = h
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return fmt.Errorf("writing xlsx header: %w", err)
	}

	for i, row := range table.Rows {
		cells := make([]interface{}, len(row))
		for j, cell := range row {
			cells[j] = cell
		}
		cellRef, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return fmt.Errorf("computing xlsx cell name: %w", err)
		}
		if err := f.SetSheetRow(sheet, cellRef, &cells); err != nil {
			return fmt.Errorf("writing xlsx row: %w", err)
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("writing xlsx file: %w", err)
	}
	return nil
}

// sheetName keeps sheet names inside the 31-character spreadsheet limit.
func sheetName(name string) string {
	if name == "" {
		return "Reporte"
	}
	if len(name) > 31 {
		return name[:31]
	}
	return name
}
