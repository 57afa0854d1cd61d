package migrations

import (
	"strings"
	"testing"
)

func TestNames(t *testing.T) {
	names, err := Names()
	if err != nil {
		t.Fatalf("Names: %v", err)
	}
	want := []string{"001_init.sql", "002_order_events.sql", "003_partner_ops.sql"}
	if len(names) != len(want) {
		t.Fatalf("names = %v, want %v", names, want)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Errorf("names[%d] = %q, want %q", i, names[i], want[i])
		}
	}
	trigger, err := files.ReadFile("002_order_events.sql")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(trigger), "pg_notify('order_events'") {
		t.Error("order events migration must notify on the order_events channel")
	}
}

func TestLinkCodesAreIndexedByLookupKey(t *testing.T) {
	ops, err := files.ReadFile("003_partner_ops.sql")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(ops), "ON telegram_link_codes(lookup_key)") {
		t.Error("link code redemption needs an index on lookup_key")
	}
}
