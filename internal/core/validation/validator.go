// Package validation enforces the sales source schema on a raw frame.
package validation

import (
	"strconv"
	"strings"

	"github.com/SscSPs/sales_dashboard/internal/apperrors"
	"github.com/SscSPs/sales_dashboard/internal/core/domain"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

// amountTolerance is the largest accepted gap between total_amount and quantity*unit_price
// when strict integrity is on.
var amountTolerance = decimal.New(1, -2)

var (
	validate    = validator.New()
	categoryTag = oneOfTag(domain.Categories)
	regionTag   = oneOfTag(domain.Regions)
)

// oneOfTag renders a validator oneof tag, quoting values that contain spaces.
func oneOfTag[T ~string](values []T) string {
	parts := make([]string, len(values))
	for i, v := range values {
		s := string(v)
		if strings.ContainsAny(s, " \t") {
			s = "'" + s + "'"
		}
		parts[i] = s
	}
	return "oneof=" + strings.Join(parts, " ")
}

// Option configures Validate.
type Option func(*options)

type options struct {
	strict bool
}

// WithStrictIntegrity also rejects non-positive unit prices and rows whose
// total_amount differs from quantity*unit_price by more than one cent.
func WithStrictIntegrity() Option {
	return func(o *options) {
		o.strict = true
	}
}

// rule is one table-wide check. Rules run in order and the first failure is returned.
type rule func(*domain.Frame) error

// Validate checks the frame against the source schema. It never mutates the frame.
func Validate(frame *domain.Frame, opts ...Option) error {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	rules := []rule{
		checkColumns,
		checkCriticalFields,
		checkPositiveAmounts,
		checkQuantities,
		checkCategories,
		checkRegions,
	}
	if o.strict {
		rules = append(rules, checkPositivePrices, checkLineTotals)
	}

	for _, r := range rules {
		if err := r(frame); err != nil {
			return err
		}
	}
	return nil
}

// CheckColumns reports every required column missing from the header.
func CheckColumns(frame *domain.Frame) error {
	return checkColumns(frame)
}

func checkColumns(frame *domain.Frame) error {
	var missing []string
	for _, col := range domain.RequiredColumns {
		if !frame.HasColumn(col) {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return apperrors.NewListError(apperrors.KindMissingColumns, "The data file is missing required columns", missing)
	}
	return nil
}

func checkCriticalFields(frame *domain.Frame) error {
	critical := []struct {
		column string
		what   string
	}{
		{domain.ColumnTotalAmount, "transaction amounts"},
		{domain.ColumnOrderID, "order IDs"},
	}
	for _, c := range critical {
		for i := 0; i < frame.Len(); i++ {
			if strings.TrimSpace(frame.Cell(i, c.column)) == "" {
				err := apperrors.NewDataError(apperrors.KindNullCriticalField,
					"The data contains missing %s (first at row %d)", c.what, i+1)
				err.Values = []string{c.column}
				err.Row = i + 1
				return err
			}
		}
	}
	return nil
}

func checkPositiveAmounts(frame *domain.Frame) error {
	for i := 0; i < frame.Len(); i++ {
		amount, err := ParseDecimal(frame, i, domain.ColumnTotalAmount)
		if err != nil {
			return err
		}
		if !amount.IsPositive() {
			de := apperrors.NewDataError(apperrors.KindNonPositiveAmount,
				"The data contains non-positive transaction amounts (row %d: %s)", i+1, amount.String())
			de.Row = i + 1
			return de
		}
	}
	return nil
}

func checkQuantities(frame *domain.Frame) error {
	for i := 0; i < frame.Len(); i++ {
		qty, err := ParseQuantity(frame, i)
		if err != nil {
			return err
		}
		if qty < 1 {
			de := apperrors.NewDataError(apperrors.KindInvalidQuantity,
				"The data contains invalid quantities, which must be at least 1 (row %d: %d)", i+1, qty)
			de.Row = i + 1
			return de
		}
	}
	return nil
}

func checkCategories(frame *domain.Frame) error {
	invalid := invalidValues(frame, domain.ColumnCategory, categoryTag)
	if len(invalid) > 0 {
		return apperrors.NewListError(apperrors.KindInvalidCategory, "The data contains invalid categories", invalid)
	}
	return nil
}

func checkRegions(frame *domain.Frame) error {
	invalid := invalidValues(frame, domain.ColumnRegion, regionTag)
	if len(invalid) > 0 {
		return apperrors.NewListError(apperrors.KindInvalidRegion, "The data contains invalid regions", invalid)
	}
	return nil
}

// invalidValues returns the distinct values of column failing tag, in first-seen order.
func invalidValues(frame *domain.Frame, column, tag string) []string {
	seen := make(map[string]bool)
	var invalid []string
	for i := 0; i < frame.Len(); i++ {
		v := frame.Cell(i, column)
		if seen[v] {
			continue
		}
		seen[v] = true
		if validate.Var(v, tag) != nil {
			invalid = append(invalid, v)
		}
	}
	return invalid
}

func checkPositivePrices(frame *domain.Frame) error {
	for i := 0; i < frame.Len(); i++ {
		price, err := ParseDecimal(frame, i, domain.ColumnUnitPrice)
		if err != nil {
			return err
		}
		if !price.IsPositive() {
			de := apperrors.NewDataError(apperrors.KindNonPositivePrice,
				"The data contains non-positive unit prices (row %d: %s)", i+1, price.String())
			de.Row = i + 1
			return de
		}
	}
	return nil
}

func checkLineTotals(frame *domain.Frame) error {
	for i := 0; i < frame.Len(); i++ {
		qty, err := ParseQuantity(frame, i)
		if err != nil {
			return err
		}
		price, err := ParseDecimal(frame, i, domain.ColumnUnitPrice)
		if err != nil {
			return err
		}
		total, err := ParseDecimal(frame, i, domain.ColumnTotalAmount)
		if err != nil {
			return err
		}
		expected := price.Mul(decimal.NewFromInt(qty))
		if total.Sub(expected).Abs().GreaterThan(amountTolerance) {
			de := apperrors.NewDataError(apperrors.KindAmountMismatch,
				"The data contains totals that do not match quantity times unit price (row %d: %s, expected %s)",
				i+1, total.String(), expected.String())
			de.Row = i + 1
			return de
		}
	}
	return nil
}

// ParseDecimal reads a decimal cell. Malformed values fail with MalformedNumber.
func ParseDecimal(frame *domain.Frame, i int, column string) (decimal.Decimal, error) {
	raw := strings.TrimSpace(frame.Cell(i, column))
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, malformed(i, column, raw, err)
	}
	return d, nil
}

// ParseQuantity reads the quantity cell as an integer literal.
func ParseQuantity(frame *domain.Frame, i int) (int64, error) {
	raw := strings.TrimSpace(frame.Cell(i, domain.ColumnQuantity))
	qty, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, malformed(i, domain.ColumnQuantity, raw, err)
	}
	return qty, nil
}

func malformed(i int, column, raw string, cause error) error {
	de := apperrors.NewDataError(apperrors.KindMalformedNumber,
		"The value %q in column %s (row %d) is not a valid number", raw, column, i+1)
	de.Values = []string{raw}
	de.Row = i + 1
	de.Err = cause
	return de
}
