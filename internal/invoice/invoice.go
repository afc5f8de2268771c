// Package invoice turns a finalized order snapshot into a printable invoice.
//
// Generation is split in two stages: Build produces a structured Document
// (resolved parties, formatted rows) from the order, and Renderer turns a
// Document into a self-contained HTML page. Layout rules live in Build so
// they can be tested without markup snapshots.
package invoice

import (
	"time"

	"github.com/okhld/orderdesk/internal/domain/order"
)

// fallbackValue substitutes for billing fields that resolve to nothing.
const fallbackValue = "N/A"

// Party is a resolved bill-to or ship-to block.
type Party struct {
	Name    string
	Phone   string
	Address string
}

// Line is one formatted line-item row.
type Line struct {
	Name      string
	Quantity  int
	UnitPrice string
	Total     string
}

// TotalRow is one row of the totals block. Negative rows render with a
// leading minus; the Emphasis flag marks the grand-total row.
type TotalRow struct {
	Label    string
	Amount   string
	Negative bool
	Emphasis bool
}

// Document is the structured, render-ready representation of an invoice.
type Document struct {
	InvoiceCode string
	OrderDate   string
	GeneratedAt string
	PaymentType string
	BillTo      Party
	ShipTo      Party
	Lines       []Line
	Totals      []TotalRow
}

// Build produces a Document from a finalized order. It is pure: identical
// input and generatedAt yield an identical document. A nil order means there
// is nothing to render and Build returns nil rather than an error.
func Build(o *order.FinalizedOrder, generatedAt time.Time) *Document {
	if o == nil {
		return nil
	}

	billTo := resolveBillTo(o)

	doc := &Document{
		InvoiceCode: o.InvoiceCode,
		OrderDate:   o.CreatedAt.Format("02-01-2006"),
		GeneratedAt: generatedAt.Format("January 2, 2006 3:04 PM"),
		PaymentType: string(o.PaymentType),
		BillTo:      billTo,
		ShipTo:      resolveShipTo(o, billTo),
		Lines:       buildLines(o),
		Totals:      buildTotals(o),
	}
	return doc
}

// resolveBillTo applies the fallback chain for each billing field: the
// customer field, else the denormalized user name on the order, else "N/A".
func resolveBillTo(o *order.FinalizedOrder) Party {
	return Party{
		Name:    firstNonEmpty(o.Customer.Name, o.UserName, fallbackValue),
		Phone:   firstNonEmpty(o.Customer.Phone, fallbackValue),
		Address: firstNonEmpty(o.Customer.Address, fallbackValue),
	}
}

// resolveShipTo renders the structured shipping address verbatim when
// present; guest orders ship to the billing address, so the resolved bill-to
// values are mirrored.
func resolveShipTo(o *order.FinalizedOrder, billTo Party) Party {
	addr := o.ShippingAddr
	if addr == nil {
		return billTo
	}

	name := joinNonEmpty(" ", addr.FirstName, addr.LastName)
	street := joinNonEmpty(", ", addr.Address, addr.City, addr.Zip)
	return Party{
		Name:    firstNonEmpty(name, fallbackValue),
		Phone:   firstNonEmpty(addr.Phone, fallbackValue),
		Address: firstNonEmpty(street, fallbackValue),
	}
}

func buildLines(o *order.FinalizedOrder) []Line {
	lines := make([]Line, len(o.LineItems))
	for i, li := range o.LineItems {
		name := li.Name
		if li.IsBundle {
			name += " (Bundle)"
		}
		lines[i] = Line{
			Name:      name,
			Quantity:  li.Quantity,
			UnitPrice: FormatMoney(li.UnitPrice),
			Total:     FormatMoney(li.Subtotal()),
		}
	}
	return lines
}

// buildTotals assembles the totals block in its fixed order. The discount
// row is omitted entirely when the discount is zero or below.
func buildTotals(o *order.FinalizedOrder) []TotalRow {
	rows := []TotalRow{
		{Label: "Subtotal", Amount: FormatMoney(o.ItemSubtotal)},
		{Label: "Delivery Cost", Amount: FormatMoney(o.ShippingCharge)},
	}
	if o.Discount.IsPositive() {
		rows = append(rows, TotalRow{
			Label:    "Discount",
			Amount:   "-" + FormatMoney(o.Discount),
			Negative: true,
		})
	}
	rows = append(rows,
		TotalRow{Label: "PAID", Amount: FormatMoney(o.PaidTotal())},
		TotalRow{Label: "Due Amount", Amount: FormatMoney(o.DueTotal())},
		TotalRow{Label: "Total", Amount: FormatMoney(o.TotalAmount), Emphasis: true},
	)
	return rows
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func joinNonEmpty(sep string, values ...string) string {
	out := ""
	for _, v := range values {
		if v == "" {
			continue
		}
		if out != "" {
			out += sep
		}
		out += v
	}
	return out
}
