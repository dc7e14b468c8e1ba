package report

import (
	"fmt"
	"io"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

const (
	defaultSheet = "Sheet1"
	maxSheetName = 31
	currencyFmt  = `"$"#,##0.00`
	percentFmt   = `0.0"%"`
	columnWidth  = 18
)

// WriteXLSX writes the document as an Excel workbook with one sheet per table.
// Sheets are named after the table titles, or the document title for
// untitled tables.
func WriteXLSX(w io.Writer, doc Document) error {
	f := excelize.NewFile()
	defer f.Close()

	styles, err := newStyles(f)
	if err != nil {
		return err
	}

	for i, table := range doc.Tables {
		name := sheetName(doc, table, i)

		if i == 0 {
			if err := f.SetSheetName(defaultSheet, name); err != nil {
				return err
			}
		} else if _, err := f.NewSheet(name); err != nil {
			return err
		}

		if err := writeSheet(f, name, table, styles); err != nil {
			return fmt.Errorf("writing sheet %s: %w", name, err)
		}
	}

	return f.Write(w)
}

type sheetStyles struct {
	header   int
	currency int
	percent  int
}

func newStyles(f *excelize.File) (sheetStyles, error) {
	var s sheetStyles
	var err error

	s.header, err = f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return s, err
	}

	currency := currencyFmt
	s.currency, err = f.NewStyle(&excelize.Style{CustomNumFmt: &currency})
	if err != nil {
		return s, err
	}

	percent := percentFmt
	s.percent, err = f.NewStyle(&excelize.Style{CustomNumFmt: &percent})
	return s, err
}

func sheetName(doc Document, table Table, i int) string {
	name := table.Title
	if name == "" {
		name = doc.Title
	}

	if name == "" {
		name = fmt.Sprintf("Sheet%d", i+1)
	}

	if len(name) > maxSheetName {
		name = name[:maxSheetName]
	}

	return name
}

func writeSheet(f *excelize.File, sheet string, table Table, styles sheetStyles) error {
	header := make([]any, 0, len(table.Header))
	for _, h := range table.Header {
		header = append(header, h)
	}

	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return err
	}

	if len(table.Header) > 0 {
		last, err := excelize.CoordinatesToCellName(len(table.Header), 1)
		if err != nil {
			return err
		}

		if err := f.SetCellStyle(sheet, "A1", last, styles.header); err != nil {
			return err
		}

		lastCol, _, err := excelize.SplitCellName(last)
		if err != nil {
			return err
		}

		if err := f.SetColWidth(sheet, "A", lastCol, columnWidth); err != nil {
			return err
		}
	}

	for r, row := range table.Rows {
		for c, value := range row {
			cell, err := excelize.CoordinatesToCellName(c+1, r+2)
			if err != nil {
				return err
			}

			style := 0
			switch v := value.(type) {
			case Money:
				value = decimal.Decimal(v).Round(2).InexactFloat64()
				style = styles.currency
			case Percent:
				value = decimal.Decimal(v).Round(1).InexactFloat64()
				style = styles.percent
			}

			if err := f.SetCellValue(sheet, cell, value); err != nil {
				return err
			}

			if style != 0 {
				if err := f.SetCellStyle(sheet, cell, cell, style); err != nil {
					return err
				}
			}
		}
	}

	return nil
}
