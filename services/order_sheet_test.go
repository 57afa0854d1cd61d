package services

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"yumzy-partner/models"

	"github.com/PuerkitoBio/goquery"
)

func TestRenderProductionSheet(t *testing.T) {
	orders := []models.Order{
		{ID: "o1", UserName: "Rafi", UserPhone: "017", FullAddress: FullAddress("12", "Hall B"), TotalPrice: 250,
			Items: []models.OrderItem{{ItemName: "Biryani", Quantity: 2}}},
		{ID: "o2", UserName: "<b>Nila</b>", UserPhone: "018", FullAddress: FullAddress("7", "Hall B"), TotalPrice: 99.5,
			Items: []models.OrderItem{{ItemName: "Lassi", Quantity: 1}, {ItemName: "Tea", Quantity: 4}}},
	}
	board := BuildOrderBoard("Pre-order Lunch", []string{"Hall B"}, orders, "All")
	html, err := RenderProductionSheet(board, time.Date(2026, 3, 5, 10, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("RenderProductionSheet: %v", err)
	}
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(html))
	if err != nil {
		t.Fatalf("parse html: %v", err)
	}

	if got := doc.Find(".header h2").Text(); got != "Category: Lunch" {
		t.Errorf("category header = %q", got)
	}
	if got := doc.Find(".header p").Text(); got != "Date: 05-Mar-2026 | Location Filter: All Locations" {
		t.Errorf("subheader = %q", got)
	}
	// three summary rows split 2/1 plus a header row per table
	if n := doc.Find("table.summary-left tr").Length(); n != 3 {
		t.Errorf("left rows = %d, want 3", n)
	}
	if n := doc.Find("table.summary-right tr").Length(); n != 2 {
		t.Errorf("right rows = %d, want 2", n)
	}
	if got := doc.Find("table.summary-right td").First().Text(); got != "Tea" {
		t.Errorf("right first item = %q", got)
	}
	if n := doc.Find(".order-card").Length(); n != 2 {
		t.Errorf("order cards = %d, want 2", n)
	}
	if got := strings.TrimSpace(doc.Find(".order-card .total").Last().Text()); got != "Total: ৳99.5" {
		t.Errorf("total = %q", got)
	}
	if got := doc.Find(".order-card strong").Eq(2).Text(); got != "<b>Nila</b>" {
		t.Errorf("escaped name = %q", got)
	}
	if n := doc.Find(".order-card").First().Find(".info br").Length(); n != 3 {
		t.Errorf("info line breaks = %d, want 3", n)
	}
}

func TestRenderProductionSheetLocation(t *testing.T) {
	board := BuildOrderBoard("Pre-order Dinner", nil, nil, "Hall A")
	html, err := RenderProductionSheet(board, time.Now())
	if err != nil {
		t.Fatalf("RenderProductionSheet: %v", err)
	}
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(html))
	if err != nil {
		t.Fatalf("parse html: %v", err)
	}
	if !strings.HasSuffix(doc.Find(".header p").Text(), "Location Filter: Hall A") {
		t.Errorf("subheader = %q", doc.Find(".header p").Text())
	}
	if got := doc.Find("h2").Last().Text(); got != "Individual Orders (0)" {
		t.Errorf("orders heading = %q", got)
	}
}

func TestFormatPrice(t *testing.T) {
	tests := map[float64]string{250: "৳250.0", 99.5: "৳99.5", 0: "৳0.0", 12.25: "৳12.25"}
	for in, want := range tests {
		if got := FormatPrice(in); got != want {
			t.Errorf("FormatPrice(%v) = %q, want %q", in, got, want)
		}
	}
}
