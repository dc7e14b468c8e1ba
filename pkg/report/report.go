// Package report renders purchase, vendor and budget reports as CSV and XLSX.
//
// A Document is a list of tables. Cells are plain values: strings, ints,
// Money and Percent. The writers format them for their output.
package report

import (
	"fmt"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Document is a report consisting of one or more tables.
type Document struct {
	Title    string // Written before the first table, if set
	Subtitle string // Written next to the title
	Tables   []Table
}

// Table is a titled table with a header row.
type Table struct {
	Title  string
	Header []string
	Rows   [][]any
}

// Money is a currency amount.
type Money decimal.Decimal

// Percent is a percentage, 25 is 25%.
type Percent decimal.Decimal

var printer = message.NewPrinter(language.AmericanEnglish)

// Currency formats the amount as US dollars with two decimals
// and thousands separators.
func Currency(d decimal.Decimal) string {
	d = d.Round(2)
	if d.IsNegative() {
		return "-" + Currency(d.Neg())
	}

	fixed := d.StringFixed(2)
	return "$" + printer.Sprintf("%d", d.IntPart()) + fixed[len(fixed)-3:]
}

func (m Money) String() string {
	return Currency(decimal.Decimal(m))
}

func (p Percent) String() string {
	return fmt.Sprintf("%s%%", decimal.Decimal(p).StringFixed(1))
}

// text formats a cell for text output.
func text(v any) string {
	switch v := v.(type) {
	case string:
		return v
	case fmt.Stringer:
		return v.String()
	default:
		return fmt.Sprint(v)
	}
}
