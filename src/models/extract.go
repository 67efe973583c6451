// src/models/extract.go
package models

// Canonical column identifiers for accounting extracts. Parsers map the raw
// source headers onto these names; the engine never sees raw headers.
const (
	ColumnAccountCode = "account_code"
	ColumnType        = "type"
	ColumnAmount      = "amount"
	ColumnGroup       = "group"
)

// Account category codes carried in the `type` column of the extracts.
const (
	TypeAsset     = 1
	TypeLiability = 2
	TypeEquity    = 3
	TypeExpense   = 4
	TypeIncome    = 5
)

// Row is one accounting line item from a period extract. Amounts that failed
// numeric coercion keep their raw text in AmountRaw with HasAmount=false;
// such rows are excluded from every aggregation.
type Row struct {
	AccountCode int     `json:"accountCode"`
	Type        int     `json:"type"`
	Group       int     `json:"group"`
	Amount      float64 `json:"amount"`
	AmountRaw   string  `json:"-"`
	HasAmount   bool    `json:"-"`
}

// AccountingDataset is one period's ledger extract. It is constructed once by
// a parser and never mutated afterwards; engine calls borrow it by value.
// Columns records which canonical columns the source table actually carried,
// so the validator can distinguish "column missing" from "all values zero".
type AccountingDataset struct {
	Period  string
	Columns map[string]bool
	Rows    []Row
}

// HasColumn reports whether the source table carried the canonical column.
func (d AccountingDataset) HasColumn(name string) bool {
	return d.Columns[name]
}
