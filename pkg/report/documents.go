package report

import (
	"fmt"

	"github.com/purchase-zero/backend/pkg/controllers"
	"github.com/purchase-zero/backend/pkg/models"
	"github.com/shopspring/decimal"
)

// Total is the label of total rows.
const Total = "TOTAL"

// Purchases is the list of purchases with their totals and receiving status.
func Purchases(purchases []models.Purchase) Document {
	table := Table{
		Header: []string{"Order Number", "Date", "Vendor", "Invoice Number", "Total Amount", "Status"},
		Rows:   make([][]any, 0, len(purchases)),
	}

	for _, p := range purchases {
		table.Rows = append(table.Rows, []any{
			p.OrderNumber,
			p.Date,
			p.VendorName,
			p.InvoiceNumber,
			Money(p.Total()),
			string(p.ReceivingStatus()),
		})
	}

	return Document{Tables: []Table{table}}
}

// Vendors is the list of vendors with their contact data.
func Vendors(vendors []models.Vendor) Document {
	table := Table{
		Header: []string{"Name", "Contact", "Phone", "Email", "Address"},
		Rows:   make([][]any, 0, len(vendors)),
	}

	for _, v := range vendors {
		table.Rows = append(table.Rows, []any{v.Name, v.Contact, v.Phone, v.Email, v.Address})
	}

	return Document{Tables: []Table{table}}
}

// Budgets is the budget report of a fiscal year: the usage of every budget
// followed by the spending per month, both with a total row.
func Budgets(year int, usage []controllers.BudgetUsage, months []controllers.MonthlySpending) Document {
	summary := Table{
		Title:  "Budget Summary",
		Header: []string{"Budget", "Amount", "Spent", "Remaining", "Percent Used"},
		Rows:   make([][]any, 0, len(usage)+1),
	}

	amount, spent := decimal.Zero, decimal.Zero
	for _, u := range usage {
		summary.Rows = append(summary.Rows, []any{u.Name, Money(u.Amount), Money(u.Spent), Money(u.Remaining), Percent(u.Percent)})

		amount = amount.Add(u.Amount)
		spent = spent.Add(u.Spent)
	}

	percent := decimal.Zero
	if amount.IsPositive() {
		percent = spent.Div(amount).Mul(decimal.NewFromInt(100))
	}
	summary.Rows = append(summary.Rows, []any{Total, Money(amount), Money(spent), Money(amount.Sub(spent)), Percent(percent)})

	monthly := Table{
		Title:  "Monthly Breakdown",
		Header: []string{"Month", "Amount"},
		Rows:   make([][]any, 0, len(months)+1),
	}

	total := decimal.Zero
	for _, m := range months {
		monthly.Rows = append(monthly.Rows, []any{m.Name, Money(m.Amount)})
		total = total.Add(m.Amount)
	}
	monthly.Rows = append(monthly.Rows, []any{Total, Money(total)})

	return Document{
		Title:    "Budget Report",
		Subtitle: fmt.Sprintf("Fiscal Year: %d", year),
		Tables:   []Table{summary, monthly},
	}
}

// VendorSpending is the vendor report of a year with a total row.
func VendorSpending(year int, spending []controllers.VendorSpending) Document {
	table := Table{
		Title:  "Vendor Spending Summary",
		Header: []string{"Vendor", "Total Spent", "Number of Orders", "Avg Order Value"},
		Rows:   make([][]any, 0, len(spending)+1),
	}

	total, orders := decimal.Zero, 0
	for _, v := range spending {
		table.Rows = append(table.Rows, []any{v.Name, Money(v.Total), v.Count, Money(v.Average)})

		total = total.Add(v.Total)
		orders += v.Count
	}

	average := decimal.Zero
	if orders > 0 {
		average = total.Div(decimal.NewFromInt(int64(orders)))
	}
	table.Rows = append(table.Rows, []any{Total, Money(total), orders, Money(average)})

	return Document{
		Title:    "Vendor Spending Report",
		Subtitle: fmt.Sprintf("Year: %d", year),
		Tables:   []Table{table},
	}
}
