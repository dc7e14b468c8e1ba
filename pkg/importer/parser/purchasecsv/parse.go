// Package purchasecsv reads purchase CSV files.
//
// A file has a header row naming its columns. The columns "Order Number",
// "Vendor" and "Date" are required, all others are optional. Each data row
// describes one purchase with at most one line item and one budget allocation.
package purchasecsv

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/purchase-zero/backend/pkg/models"
	"golang.org/x/exp/slices"
)

// Column names after normalization
const (
	OrderNumber   = "order number"
	InvoiceNumber = "invoice number"
	Vendor        = "vendor"
	Date          = "date"
	Description   = "description"
	Quantity      = "quantity"
	UnitPrice     = "unit price"
	BudgetCode    = "budget code"
	Amount        = "amount"
)

// Required columns
var Required = []string{OrderNumber, Vendor, Date}

// DateFormats are tried in order when parsing dates. Months and days
// may have one or two digits.
var DateFormats = []string{"2006-1-2", "1/2/2006", "1-2-2006", "2006/1/2"}

// Row is one data row of the file with all values trimmed.
type Row struct {
	Number int   // 1-based number of the data row, the header is not counted
	Line   int   // Line of the file the row starts on
	Err    error // Set if the row could not be read. All other fields are empty then.

	OrderNumber   string
	InvoiceNumber string
	Vendor        string
	Date          string
	Description   string
	Quantity      string
	UnitPrice     string
	BudgetCode    string
	Amount        string

	// Columns that exist in the header
	HasDescription bool
	HasBudgetCode  bool
}

// Missing returns the required fields that are empty.
func (r Row) Missing() []string {
	var missing []string
	for _, f := range []struct {
		name  string
		value string
	}{
		{OrderNumber, r.OrderNumber},
		{Vendor, r.Vendor},
		{Date, r.Date},
	} {
		if f.value == "" {
			missing = append(missing, f.name)
		}
	}

	return missing
}

// NormalizeHeader normalizes a column name: trimmed, lower case,
// with underscores and dashes replaced by spaces.
func NormalizeHeader(name string) string {
	name = strings.TrimPrefix(name, "\ufeff")
	name = strings.ToLower(strings.TrimSpace(name))
	name = strings.NewReplacer("_", " ", "-", " ").Replace(name)
	return strings.Join(strings.Fields(name), " ")
}

// Parse reads all rows of the file.
//
// An error is only returned if the header cannot be read or misses
// required columns. Rows that cannot be read are returned with Err set.
func Parse(f io.Reader) ([]Row, error) {
	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("%w: the file is empty", models.ErrImportHeader)
	}
	if err != nil {
		return nil, fmt.Errorf("could not read the CSV header: %w", err)
	}

	columns := make(map[string]int, len(header))
	for i, name := range header {
		name = NormalizeHeader(name)
		if _, ok := columns[name]; !ok {
			columns[name] = i
		}
	}

	var missing []string
	for _, name := range Required {
		if _, ok := columns[name]; !ok {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: %s", models.ErrImportHeader, strings.Join(missing, ", "))
	}

	value := func(record []string, column string) string {
		i, ok := columns[column]
		if !ok || i >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[i])
	}

	_, hasDescription := columns[Description]
	_, hasBudgetCode := columns[BudgetCode]

	var rows []Row
	for number := 1; ; number++ {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}

		if err != nil {
			var line int
			var parseErr *csv.ParseError
			if errors.As(err, &parseErr) {
				line = parseErr.StartLine
			}

			rows = append(rows, Row{Number: number, Line: line, Err: fmt.Errorf("could not read line %d of the CSV: %w", line, err)})

			// Errors other than malformed records cannot be recovered from
			if parseErr == nil {
				break
			}
			continue
		}

		line, _ := reader.FieldPos(0)

		// Skip blank lines with only separators
		if slices.IndexFunc(record, func(s string) bool { return strings.TrimSpace(s) != "" }) == -1 {
			number--
			continue
		}

		rows = append(rows, Row{
			Number:         number,
			Line:           line,
			OrderNumber:    value(record, OrderNumber),
			InvoiceNumber:  value(record, InvoiceNumber),
			Vendor:         value(record, Vendor),
			Date:           value(record, Date),
			Description:    value(record, Description),
			Quantity:       value(record, Quantity),
			UnitPrice:      value(record, UnitPrice),
			BudgetCode:     value(record, BudgetCode),
			Amount:         value(record, Amount),
			HasDescription: hasDescription,
			HasBudgetCode:  hasBudgetCode,
		})
	}

	return rows, nil
}

// ParseDate parses the date with the first matching format of DateFormats
// and returns it formatted as models.DateFormat.
func ParseDate(s string) (string, bool) {
	for _, layout := range DateFormats {
		date, err := time.Parse(layout, s)
		if err == nil {
			return date.Format(models.DateFormat), true
		}
	}

	return "", false
}
