// src/parsers/extracto/parser.go
package extracto

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/Amonint/Proyecto-Cooperativa-grupo3/src/models"
	"github.com/shopspring/decimal"
)

// headerAliases maps the raw Spanish extract headers onto canonical column
// identifiers. The monetary column is named after the cooperative itself and
// therefore configurable rather than aliased here.
var headerAliases = map[string]string{
	"CODIGO_CONTABLE": models.ColumnAccountCode,
	"CODIGO CONTABLE": models.ColumnAccountCode,
	"TIPO":            models.ColumnType,
	"GRUPO":           models.ColumnGroup,
}

// Parser reads one monthly ledger extract (CSV) into an AccountingDataset.
type Parser struct {
	amountColumn string
}

// NewParser creates a parser that treats the given header as the monetary
// column of the extracts.
func NewParser(amountColumn string) *Parser {
	return &Parser{amountColumn: amountColumn}
}

// normalizeAmountString prepares a raw amount cell for numeric parsing:
// surrounding whitespace and quotes are trimmed and thousands-separator
// commas stripped, so "1,234.56" parses as 1234.56.
func normalizeAmountString(s string) string {
	cleaned := strings.TrimSpace(s)
	cleaned = strings.Trim(cleaned, "\"")
	cleaned = strings.ReplaceAll(cleaned, ",", "")
	return cleaned
}

// parseIntField reads an integer classification code. Unparseable cells
// yield 0, which the validator surfaces as an out-of-range type code where
// it matters.
func parseIntField(s string) int {
	value, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0
	}
	return value
}

// Parse reads the extract for one period. The dataset records which
// canonical columns the file actually carried; spreadsheet padding columns
// (empty or "Unnamed: N" headers) are dropped. Amounts that fail numeric
// coercion keep their raw text with HasAmount=false so the validator can
// report them; such rows never enter an aggregation.
func (p *Parser) Parse(file io.Reader, period string) (models.AccountingDataset, error) {
	dataset := models.AccountingDataset{
		Period:  period,
		Columns: make(map[string]bool),
	}

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1 // Allow variable number of fields per record

	header, err := reader.Read()
	if err != nil {
		return dataset, fmt.Errorf("extract parser: failed to read CSV header: %w", err)
	}

	columnIndex := make(map[string]int)
	for i, rawName := range header {
		name := strings.TrimSpace(rawName)
		if name == "" || strings.HasPrefix(name, "Unnamed:") {
			continue
		}
		if canonical, ok := headerAliases[strings.ToUpper(name)]; ok {
			columnIndex[canonical] = i
			continue
		}
		if strings.EqualFold(name, p.amountColumn) {
			columnIndex[models.ColumnAmount] = i
		}
	}
	for canonical := range columnIndex {
		dataset.Columns[canonical] = true
	}

	records, err := reader.ReadAll()
	if err != nil {
		return dataset, fmt.Errorf("extract parser: failed to read CSV records: %w", err)
	}

	rows := make([]models.Row, 0, len(records))
	for _, record := range records {
		var row models.Row
		if idx, ok := columnIndex[models.ColumnAccountCode]; ok && idx < len(record) {
			row.AccountCode = parseIntField(record[idx])
		}
		if idx, ok := columnIndex[models.ColumnType]; ok && idx < len(record) {
			row.Type = parseIntField(record[idx])
		}
		if idx, ok := columnIndex[models.ColumnGroup]; ok && idx < len(record) {
			row.Group = parseIntField(record[idx])
		}
		if idx, ok := columnIndex[models.ColumnAmount]; ok && idx < len(record) {
			row.AmountRaw = record[idx]
			if value, err := decimal.NewFromString(normalizeAmountString(record[idx])); err == nil {
				row.Amount, _ = value.Float64()
				row.HasAmount = true
			}
		}
		rows = append(rows, row)
	}
	dataset.Rows = rows

	return dataset, nil
}
