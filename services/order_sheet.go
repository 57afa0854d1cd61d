package services

import (
	"bytes"
	"html/template"
	"strconv"
	"strings"
	"time"

	"yumzy-partner/models"
)

const CurrencySymbol = "৳"

// FormatPrice renders a price with at least one decimal place: 250 -> ৳250.0.
func FormatPrice(v float64) string {
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return CurrencySymbol + s
}

var sheetTemplate = template.Must(template.New("sheet").Funcs(template.FuncMap{
	"price": FormatPrice,
	"lines": func(s string) []string { return strings.Split(s, "\n") },
}).Parse(`<html>
<head>
<style>
body { font-family: sans-serif; margin: 20px; }
.header { text-align: center; border-bottom: 2px solid #333; padding-bottom: 10px; margin-bottom: 20px; }
h1 { margin: 0; }
h2, h3, h4 { margin-top: 20px; margin-bottom: 10px; }
table { width: 100%; border-collapse: collapse; }
th, td { border: 1px solid #ddd; padding: 6px; text-align: left; }
th { background-color: #f2f2f2; }
.summary-tables { display: flex; justify-content: space-between; gap: 20px; }
.summary-tables table { width: 48%; }
.orders-container { display: flex; flex-wrap: wrap; justify-content: space-between; margin-top: 20px; }
.order-card { box-sizing: border-box; width: 30%; margin-bottom: 20px; border: 1px solid #ccc; border-radius: 8px; padding: 10px; page-break-inside: avoid; }
.order-card .info { margin-bottom: 10px; line-height: 1.4; }
.order-card .items ul { padding-left: 20px; margin: 0; }
.order-card .total { font-weight: bold; text-align: right; }
</style>
</head>
<body>
<div class="header">
<h1>Yumzy Order Production Sheet</h1>
<h2>Category: {{.Category}}</h2>
<p>Date: {{.Date}} | Location Filter: {{.Location}}</p>
</div>
<h3>Total Items to Prepare</h3>
<div class="summary-tables">
<table class="summary-left">
<tr><th>Item Name</th><th>Qty</th></tr>
{{- range .Left}}
<tr><td>{{.Name}}</td><td>{{.Quantity}}</td></tr>
{{- end}}
</table>
<table class="summary-right">
<tr><th>Item Name</th><th>Qty</th></tr>
{{- range .Right}}
<tr><td>{{.Name}}</td><td>{{.Quantity}}</td></tr>
{{- end}}
</table>
</div>
<hr>
<h2>Individual Orders ({{len .Orders}})</h2>
<div class="orders-container">
{{- range .Orders}}
<div class="order-card">
<div class="info">
<strong>{{.UserName}}</strong><br/>
Contact: {{.UserPhone}}<br/>
{{range $i, $l := lines .FullAddress}}{{if $i}}<br/>{{end}}{{$l}}{{end}}
</div>
<div class="items">
<strong>Items:</strong>
<ul>
{{- range .Items}}
<li>{{.ItemName}} x {{.Quantity}}</li>
{{- end}}
</ul>
</div>
<div class="total">Total: {{price .TotalPrice}}</div>
</div>
{{- end}}
</div>
</body>
</html>
`))

type sheetData struct {
	Category    string
	Date        string
	Location    string
	Left, Right []models.ItemSummary
	Orders      []models.Order
}

// RenderProductionSheet renders the printable kitchen sheet for one category
// board. Values are HTML-escaped.
func RenderProductionSheet(board OrderBoard, now time.Time) ([]byte, error) {
	loc := board.Location
	if loc == "" || loc == models.AllLocations {
		loc = "All Locations"
	}
	left, right := SplitSummary(board.Summary)
	data := sheetData{
		Category: strings.TrimPrefix(board.Category, models.PreOrderPrefix),
		Date:     now.Format("02-Jan-2006"),
		Location: loc,
		Left:     left,
		Right:    right,
		Orders:   board.Orders,
	}
	var buf bytes.Buffer
	if err := sheetTemplate.Execute(&buf, data); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
