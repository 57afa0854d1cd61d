package bot

import (
	"testing"

	"yumzy-partner/services"
)

func TestParseCallback(t *testing.T) {
	tests := []struct {
		data string
		want callback
		ok   bool
	}{
		{"cat:c1", callback{action: "cat", id: "c1"}, true},
		{"orders:c1", callback{action: "orders", id: "c1"}, true},
		{"msg:c1", callback{action: "msg", id: "c1"}, true},
		{"bulk:c1:Accepted", callback{action: "bulk", id: "c1", status: "Accepted"}, true},
		{"bulk:c1:Pending", callback{}, false},
		{"order_status:o1:Rejected", callback{action: "order_status", id: "o1", status: "Rejected"}, true},
		{"cat:", callback{}, false},
		{"lang:uz", callback{}, false},
		{"", callback{}, false},
	}
	for _, tt := range tests {
		got, ok := parseCallback(tt.data)
		if got != tt.want || ok != tt.ok {
			t.Errorf("parseCallback(%q) = %+v, %v; want %+v, %v", tt.data, got, ok, tt.want, tt.ok)
		}
	}
}

func TestCardMarkup(t *testing.T) {
	if kb := cardMarkup(services.OrderCardContent{Text: "x"}); kb != nil {
		t.Errorf("no buttons should give nil markup, got %+v", kb)
	}
	kb := cardMarkup(services.OrderCardContent{Buttons: [][]services.OrderCardButton{
		{{Text: "Accept", CallbackData: "a"}, {Text: "Reject", CallbackData: "r"}},
		{{Text: "Back", CallbackData: "b"}},
	}})
	if kb == nil || len(kb.InlineKeyboard) != 2 || len(kb.InlineKeyboard[0]) != 2 {
		t.Fatalf("markup = %+v", kb)
	}
	if d := kb.InlineKeyboard[0][1].CallbackData; d == nil || *d != "r" {
		t.Errorf("second button data = %v", d)
	}
}

func TestCategoriesContent(t *testing.T) {
	empty := categoriesContent(nil)
	if len(empty.Buttons) != 0 {
		t.Errorf("empty list should have no buttons")
	}
	var c services.CategoryWithCount
	c.ID, c.Name, c.StartTime, c.EndTime = "c1", "Lunch", "11am", "1pm"
	c.OrderCount = 3
	got := categoriesContent([]services.CategoryWithCount{c})
	if len(got.Buttons) != 1 {
		t.Fatalf("buttons = %+v", got.Buttons)
	}
	btn := got.Buttons[0][0]
	if btn.Text != "Lunch (11am-1pm) • 3 new" || btn.CallbackData != "cat:c1" {
		t.Errorf("button = %+v", btn)
	}
}

func TestAwaitingMessage(t *testing.T) {
	b := &Bot{awaitingMsg: make(map[int64]string)}
	if _, ok := b.takeAwaitingMessage(1); ok {
		t.Fatal("nothing should be pending")
	}
	b.setAwaitingMessage(1, "c1")
	id, ok := b.takeAwaitingMessage(1)
	if !ok || id != "c1" {
		t.Errorf("take = %q, %v", id, ok)
	}
	if _, ok := b.takeAwaitingMessage(1); ok {
		t.Error("pending message should be consumed")
	}
}
