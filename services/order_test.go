package services

import (
	"context"
	"errors"
	"testing"

	"yumzy-partner/db"
	"yumzy-partner/models"
)

func TestUpdateOrderStatusRejectsUnknownStatus(t *testing.T) {
	ctx := context.Background()
	for _, status := range []string{"", models.OrderStatusPending, "Delivered", "accepted"} {
		if _, err := UpdateOrderStatus(ctx, "r1", "o1", status); !errors.Is(err, ErrInvalid) {
			t.Errorf("UpdateOrderStatus(%q) err = %v, want ErrInvalid", status, err)
		}
		if _, err := UpdateOrdersStatus(ctx, "r1", []string{"o1"}, status); !errors.Is(err, ErrInvalid) {
			t.Errorf("UpdateOrdersStatus(%q) err = %v, want ErrInvalid", status, err)
		}
	}
}

func TestUpdateOrdersStatusEmptyIsNoop(t *testing.T) {
	got, err := UpdateOrdersStatus(context.Background(), "r1", nil, models.OrderStatusAccepted)
	if err != nil {
		t.Fatalf("UpdateOrdersStatus: %v", err)
	}
	if got != nil {
		t.Errorf("updated = %v, want nil", got)
	}
}

type recordingNotifier struct {
	single []string
	bulk   [][]string
}

func (r *recordingNotifier) NotifyStatus(_ context.Context, _, orderID, _, _ string) (bool, error) {
	r.single = append(r.single, orderID)
	return true, nil
}

func (r *recordingNotifier) NotifyBulk(_ context.Context, ids []string, _, _ string) (int, error) {
	r.bulk = append(r.bulk, ids)
	return len(ids), nil
}

func TestDecideOrdersEmptySendsNothing(t *testing.T) {
	n := &recordingNotifier{}
	updated, err := DecideOrders(context.Background(), n, "r1", []string{}, models.OrderStatusRejected)
	if err != nil {
		t.Fatalf("DecideOrders: %v", err)
	}
	if len(updated) != 0 || len(n.bulk) != 0 {
		t.Errorf("updated = %v, bulk calls = %d; want none", updated, len(n.bulk))
	}
}

func TestOrderScoping_Integration(t *testing.T) {
	requireDB(t)
	ctx := context.Background()
	seed := []string{
		`INSERT INTO partners (id, email) VALUES ('scope-a', 'scope-a@yumzy.local'), ('scope-b', 'scope-b@yumzy.local') ON CONFLICT DO NOTHING`,
		`INSERT INTO restaurants (owner_id, name) VALUES ('scope-a', 'A'), ('scope-b', 'B') ON CONFLICT DO NOTHING`,
		`INSERT INTO orders (id, restaurant_id, order_status, order_type, pre_order_category)
		 VALUES ('scope-o1', 'scope-a', 'Pending', 'PreOrder', 'Pre-order Lunch'),
		        ('scope-o2', 'scope-b', 'Pending', 'PreOrder', 'Pre-order Lunch')
		 ON CONFLICT (id) DO UPDATE SET order_status = 'Pending'`,
	}
	for _, q := range seed {
		if _, err := db.Pool.Exec(ctx, q); err != nil {
			t.Fatalf("seed: %v", err)
		}
	}
	defer func() {
		_, _ = db.Pool.Exec(ctx, `DELETE FROM orders WHERE id IN ('scope-o1', 'scope-o2')`)
		_, _ = db.Pool.Exec(ctx, `DELETE FROM partners WHERE id IN ('scope-a', 'scope-b')`)
	}()

	if _, err := UpdateOrderStatus(ctx, "scope-a", "scope-o2", models.OrderStatusAccepted); !errors.Is(err, ErrForbidden) {
		t.Errorf("foreign single update err = %v, want ErrForbidden", err)
	}
	updated, err := UpdateOrdersStatus(ctx, "scope-a", []string{"scope-o1", "scope-o2"}, models.OrderStatusAccepted)
	if err != nil {
		t.Fatalf("UpdateOrdersStatus: %v", err)
	}
	if len(updated) != 1 || updated[0] != "scope-o1" {
		t.Errorf("updated = %v, want [scope-o1]", updated)
	}
	o, err := GetOrder(ctx, "scope-b", "scope-o2")
	if err != nil {
		t.Fatalf("GetOrder: %v", err)
	}
	if o.OrderStatus != models.OrderStatusPending {
		t.Errorf("foreign order status = %q, want Pending", o.OrderStatus)
	}
}
