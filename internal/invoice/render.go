package invoice

import (
	"html/template"
	"strings"

	"github.com/go-faster/errors"
)

// RendererConfig holds the presentation settings shared by every invoice.
type RendererConfig struct {
	// ShopName appears in the document header next to the logo.
	ShopName string
	// LogoURL is the single external asset reference embedded in the page.
	// When empty the logo image is omitted.
	LogoURL string
}

// Renderer turns invoice documents into self-contained printable HTML. It
// performs no network or storage access and is safe for concurrent use.
type Renderer struct {
	cfg  RendererConfig
	tmpl *template.Template
}

// NewRenderer parses the embedded page template with the given settings.
func NewRenderer(cfg RendererConfig) (*Renderer, error) {
	tmpl, err := template.New("invoice").Parse(pageTemplate)
	if err != nil {
		return nil, errors.Wrap(err, "parse invoice template")
	}
	return &Renderer{cfg: cfg, tmpl: tmpl}, nil
}

// Render produces the complete HTML page for the document. A nil document
// means there is nothing to render; the empty string is returned without an
// error and the caller must not hand it to the print sink.
func (r *Renderer) Render(doc *Document) (string, error) {
	if doc == nil {
		return "", nil
	}

	var b strings.Builder
	data := struct {
		*Document
		ShopName string
		LogoURL  string
	}{Document: doc, ShopName: r.cfg.ShopName, LogoURL: r.cfg.LogoURL}

	if err := r.tmpl.Execute(&b, data); err != nil {
		return "", errors.Wrap(err, "execute invoice template")
	}
	return b.String(), nil
}

// pageTemplate is a single continuous page with inline styles only. The
// print media block suppresses interactive chrome and tightens margins.
const pageTemplate = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>Invoice {{.InvoiceCode}}</title>
<style>
body { font-family: Arial, Helvetica, sans-serif; color: #1f2430; margin: 0; padding: 32px; }
.invoice { max-width: 800px; margin: 0 auto; }
.header { display: flex; justify-content: space-between; align-items: center; border-bottom: 2px solid #1f2430; padding-bottom: 16px; }
.header img { max-height: 56px; }
.header h1 { font-size: 22px; margin: 0; }
.meta { margin: 16px 0; font-size: 13px; }
.meta div { margin: 2px 0; }
.parties { display: flex; gap: 48px; margin: 16px 0; font-size: 13px; }
.parties h3 { font-size: 13px; text-transform: uppercase; margin: 0 0 6px; }
table.items { width: 100%; border-collapse: collapse; margin: 16px 0; font-size: 13px; }
table.items th { text-align: left; border-bottom: 1px solid #1f2430; padding: 6px 8px; }
table.items td { border-bottom: 1px solid #d8dce4; padding: 6px 8px; }
table.items td.num, table.items th.num { text-align: right; }
table.totals { margin-left: auto; font-size: 13px; border-collapse: collapse; }
table.totals td { padding: 4px 8px; }
table.totals td.amount { text-align: right; min-width: 96px; }
tr.grand td { border-top: 2px solid #1f2430; font-weight: bold; font-size: 15px; }
tr.negative td.amount { color: #b00020; }
.footer { margin-top: 24px; font-size: 11px; color: #6b7280; }
.toolbar { margin: 0 0 16px; }
@media print {
	body { padding: 8px; }
	.toolbar { display: none; }
}
</style>
</head>
<body>
<div class="invoice">
<div class="toolbar"><button onclick="window.print()">Print</button></div>
<div class="header">
<h1>{{.ShopName}}</h1>
{{if .LogoURL}}<img src="{{.LogoURL}}" alt="logo">{{end}}
</div>
<div class="meta">
<div><strong>Invoice:</strong> {{.InvoiceCode}}</div>
<div><strong>Order date:</strong> {{.OrderDate}}</div>
<div><strong>Payment:</strong> {{.PaymentType}}</div>
</div>
<div class="parties">
<div>
<h3>Bill To</h3>
<div>{{.BillTo.Name}}</div>
<div>{{.BillTo.Phone}}</div>
<div>{{.BillTo.Address}}</div>
</div>
<div>
<h3>Ship To</h3>
<div>{{.ShipTo.Name}}</div>
<div>{{.ShipTo.Phone}}</div>
<div>{{.ShipTo.Address}}</div>
</div>
</div>
<table class="items">
<tr><th>Item</th><th class="num">Qty</th><th class="num">Unit Price</th><th class="num">Total</th></tr>
{{range .Lines}}<tr><td>{{.Name}}</td><td class="num">{{.Quantity}}</td><td class="num">{{.UnitPrice}}</td><td class="num">{{.Total}}</td></tr>
{{end}}</table>
<table class="totals">
{{range .Totals}}<tr class="{{if .Emphasis}}grand{{else if .Negative}}negative{{end}}"><td>{{.Label}}</td><td class="amount">{{.Amount}}</td></tr>
{{end}}</table>
<div class="footer">Generated at {{.GeneratedAt}}</div>
</div>
</body>
</html>
`
