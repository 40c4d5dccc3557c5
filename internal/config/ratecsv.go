package config

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/quotedesk/loan-quoter/internal/calculation"
	"github.com/quotedesk/loan-quoter/internal/domain"
)

// Rate table CSV errors
var (
	ErrEmptyCSV       = errors.New("rate table CSV is empty")
	ErrMissingColumns = errors.New("missing required columns")
	ErrNoDataRows     = errors.New("rate table CSV contains no data rows")
)

// requiredRateColumns must be present in a rate table CSV.
var requiredRateColumns = []string{"product_code", "rate", "min_loan", "max_loan", "max_ltv"}

// rateColumnAliases maps alternative header names to the standard names.
var rateColumnAliases = map[string]string{
	"code":         "product_code",
	"product":      "product_code",
	"product code": "product_code",
	"name":         "product_name",
	"product name": "product_name",

	"coupon":        "rate",
	"margin":        "rate",
	"interest rate": "rate",

	"min loan": "min_loan",
	"minimum":  "min_loan",
	"max loan": "max_loan",
	"maximum":  "max_loan",

	"min ltv": "min_ltv",
	"max ltv": "max_ltv",
	"ltv":     "max_ltv",

	"min icr": "min_icr",
	"icr":     "min_icr",

	"term":        "term_months",
	"term months": "term_months",

	"max rolled": "max_rolled_months",
	"min rolled": "min_rolled_months",
	"max defer":  "max_defer_int",
	"min defer":  "min_defer_int",

	"admin":       "admin_fee",
	"exit":        "exit_fee",
	"floor":       "floor_rate",
	"revert":      "revert_index",
	"margin over": "revert_margin",
	"fee":         "product_fee",
}

// LoadRateTableCSV parses a rate table CSV into rate records. Unknown
// columns are ignored; rows with malformed numbers fail the load with the
// offending row number.
func LoadRateTableCSV(r io.Reader) ([]domain.RateRecord, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err == io.EOF {
		return nil, ErrEmptyCSV
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV header: %w", err)
	}

	columns := make(map[string]int, len(header))
	for i, name := range header {
		columns[normalizeRateColumn(name)] = i
	}
	var missing []string
	for _, required := range requiredRateColumns {
		if _, ok := columns[required]; !ok {
			missing = append(missing, required)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrMissingColumns, strings.Join(missing, ", "))
	}

	var records []domain.RateRecord
	rowNum := 1
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		rowNum++
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", rowNum, err)
		}
		record, err := parseRateRow(columns, row)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", rowNum, err)
		}
		records = append(records, *record)
	}
	if len(records) == 0 {
		return nil, ErrNoDataRows
	}
	return records, nil
}

func normalizeRateColumn(name string) string {
	n := strings.ToLower(strings.TrimSpace(name))
	n = strings.ReplaceAll(n, "-", "_")
	if mapped, ok := rateColumnAliases[n]; ok {
		return mapped
	}
	return n
}

func parseRateRow(columns map[string]int, row []string) (*domain.RateRecord, error) {
	cell := func(name string) string {
		idx, ok := columns[name]
		if !ok || idx >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[idx])
	}
	amount := func(name string) (decimal.Decimal, error) {
		raw := cell(name)
		if raw == "" {
			return decimal.Zero, nil
		}
		d, ok := calculation.ParseAmount(raw)
		if !ok {
			return decimal.Zero, fmt.Errorf("column %s: invalid number %q", name, raw)
		}
		return d, nil
	}
	months := func(name string) (int, error) {
		raw := cell(name)
		if raw == "" {
			return 0, nil
		}
		n, err := strconv.Atoi(raw)
		if err != nil {
			return 0, fmt.Errorf("column %s: invalid month count %q", name, raw)
		}
		return n, nil
	}

	record := &domain.RateRecord{
		ProductCode: cell("product_code"),
		ProductName: cell("product_name"),
		RevertIndex: domain.RevertIndex(cell("revert_index")),
	}

	var err error
	numeric := []struct {
		name string
		dst  *decimal.Decimal
	}{
		{"rate", &record.Rate},
		{"min_loan", &record.MinLoan},
		{"max_loan", &record.MaxLoan},
		{"min_ltv", &record.MinLTV},
		{"max_ltv", &record.MaxLTV},
		{"min_icr", &record.MinICR},
		{"min_defer_int", &record.MinDeferInt},
		{"max_defer_int", &record.MaxDeferInt},
		{"admin_fee", &record.AdminFee},
		{"exit_fee", &record.ExitFee},
		{"product_fee", &record.ProductFee},
		{"revert_margin", &record.RevertMargin},
		{"erc_1", &record.ERC1},
		{"erc_2", &record.ERC2},
		{"erc_3", &record.ERC3},
		{"erc_4", &record.ERC4},
		{"erc_5", &record.ERC5},
	}
	for _, col := range numeric {
		if *col.dst, err = amount(col.name); err != nil {
			return nil, err
		}
	}

	if record.TermMonths, err = months("term_months"); err != nil {
		return nil, err
	}
	if record.MinRolledMonths, err = months("min_rolled_months"); err != nil {
		return nil, err
	}
	if record.MaxRolledMonths, err = months("max_rolled_months"); err != nil {
		return nil, err
	}

	if raw := cell("floor_rate"); raw != "" {
		floor, ok := calculation.ParseAmount(raw)
		if !ok {
			return nil, fmt.Errorf("column floor_rate: invalid number %q", raw)
		}
		record.FloorRate = &floor
	}

	if err := validateRateRecord(record); err != nil {
		return nil, err
	}
	return record, nil
}
