package domain

import (
	"testing"

	"github.com/shopspring/decimal"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func item(unit, discount string, qty int) LineItem {
	return LineItem{
		ProductID:      "p-" + unit,
		UnitPrice:      dec(unit),
		DiscountPrice:  dec(discount),
		Quantity:       qty,
		AvailableStock: 100,
	}
}

func TestEffectiveUnitPrice(t *testing.T) {
	t.Run("no discount -> base price", func(t *testing.T) {
		li := item("20", "0", 1)
		if !li.EffectiveUnitPrice().Equal(dec("20")) {
			t.Fatalf("got %s", li.EffectiveUnitPrice())
		}
	})

	t.Run("valid discount -> discount price", func(t *testing.T) {
		li := item("15", "10", 1)
		if !li.EffectiveUnitPrice().Equal(dec("10")) {
			t.Fatalf("got %s", li.EffectiveUnitPrice())
		}
	})

	t.Run("discount equal to price -> base price", func(t *testing.T) {
		li := item("15", "15", 1)
		if !li.EffectiveUnitPrice().Equal(dec("15")) {
			t.Fatalf("got %s", li.EffectiveUnitPrice())
		}
	})

	t.Run("discount above price -> base price", func(t *testing.T) {
		li := item("15", "18", 1)
		if !li.EffectiveUnitPrice().Equal(dec("15")) {
			t.Fatalf("got %s", li.EffectiveUnitPrice())
		}
	})

	t.Run("effective never exceeds base", func(t *testing.T) {
		for _, li := range []LineItem{item("20", "0", 1), item("20", "5", 1), item("20", "20", 1), item("20", "25", 1)} {
			if li.EffectiveUnitPrice().GreaterThan(li.UnitPrice) {
				t.Fatalf("effective %s > unit %s", li.EffectiveUnitPrice(), li.UnitPrice)
			}
		}
	})
}

func TestCompute(t *testing.T) {
	rates := DefaultRates()

	t.Run("mixed cart below threshold", func(t *testing.T) {
		// 2*20 + 3*10 = 70; shipping charged; tax 3.5; total 83.5
		items := []LineItem{
			item("20", "0", 2),
			item("15", "10", 3),
		}

		b := Compute(items, rates)
		if !b.Subtotal.Equal(dec("70")) {
			t.Fatalf("subtotal: got %s", b.Subtotal)
		}
		if !b.Tax.Equal(dec("3.5")) {
			t.Fatalf("tax: got %s", b.Tax)
		}
		if !b.Shipping.Equal(dec("10")) {
			t.Fatalf("shipping: got %s", b.Shipping)
		}
		if !b.Total.Equal(dec("83.5")) {
			t.Fatalf("total: got %s", b.Total)
		}
	})

	t.Run("above threshold -> free shipping", func(t *testing.T) {
		// subtotal 120 -> shipping 0, total = 120 * 1.05
		b := Compute([]LineItem{item("60", "0", 2)}, rates)
		if !b.Shipping.Equal(decimal.Zero) {
			t.Fatalf("shipping: got %s", b.Shipping)
		}
		if !b.Total.Equal(dec("126")) {
			t.Fatalf("total: got %s", b.Total)
		}
	})

	t.Run("exactly at threshold -> shipping still charged", func(t *testing.T) {
		b := Compute([]LineItem{item("100", "0", 1)}, rates)
		if !b.Shipping.Equal(dec("10")) {
			t.Fatalf("boundary must be exclusive, shipping: got %s", b.Shipping)
		}
	})

	t.Run("empty cart", func(t *testing.T) {
		b := Compute(nil, rates)
		if !b.Subtotal.Equal(decimal.Zero) || !b.Tax.Equal(decimal.Zero) {
			t.Fatalf("got subtotal=%s tax=%s", b.Subtotal, b.Tax)
		}
		// 0 <= threshold, so the general formula charges shipping.
		if !b.Shipping.Equal(dec("10")) {
			t.Fatalf("shipping: got %s", b.Shipping)
		}
		if !b.Total.Equal(dec("10")) {
			t.Fatalf("total: got %s", b.Total)
		}
	})

	t.Run("total matches components", func(t *testing.T) {
		items := []LineItem{
			item("19.99", "17.49", 3),
			item("4.33", "0", 7),
			item("0.07", "0.05", 11),
		}
		b := Compute(items, rates)

		sum := b.Subtotal.Add(b.Tax).Add(b.Shipping)
		if b.Total.Sub(sum).Abs().GreaterThan(dec("0.01")) {
			t.Fatalf("total %s vs components %s", b.Total, sum)
		}
	})

	t.Run("deterministic for an unchanged snapshot", func(t *testing.T) {
		items := []LineItem{item("19.99", "17.49", 3), item("4.33", "0", 7)}
		first := Compute(items, rates)
		second := Compute(items, rates)
		if !first.Subtotal.Equal(second.Subtotal) || !first.Tax.Equal(second.Tax) ||
			!first.Shipping.Equal(second.Shipping) || !first.Total.Equal(second.Total) {
			t.Fatalf("recompute diverged: %+v vs %+v", first, second)
		}
	})
}

func TestSnapshotItem(t *testing.T) {
	s := Snapshot{Items: []LineItem{item("20", "0", 2)}}

	if _, ok := s.Item("p-20"); !ok {
		t.Fatal("expected item present")
	}
	if _, ok := s.Item("missing"); ok {
		t.Fatal("expected item absent")
	}
}
