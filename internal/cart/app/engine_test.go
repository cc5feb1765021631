package app_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"

	"github.com/dwikikusuma/storefront/internal/cart/app"
	"github.com/dwikikusuma/storefront/internal/cart/domain"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/goleak"
	"golang.org/x/sync/errgroup"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type fakeStore struct {
	mu          sync.Mutex
	items       []domain.LineItem
	getCalls    int
	setCalls    int
	addCalls    int
	removeCalls int
	clearCalls  int
	setErr      error

	// When non-nil, SetItemQuantity signals entered and waits on release.
	entered chan struct{}
	release chan struct{}
}

func (f *fakeStore) GetCart(ctx context.Context, userID string) ([]domain.LineItem, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.getCalls++
	out := make([]domain.LineItem, len(f.items))
	copy(out, f.items)
	return out, nil
}

func (f *fakeStore) AddItem(ctx context.Context, userID, productID string, quantity int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.addCalls++
	return nil
}

func (f *fakeStore) SetItemQuantity(ctx context.Context, userID, productID string, quantity int) error {
	f.mu.Lock()
	f.setCalls++
	entered, release := f.entered, f.release
	f.mu.Unlock()

	if entered != nil {
		entered <- struct{}{}
		<-release
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.setErr != nil {
		return f.setErr
	}
	for i := range f.items {
		if f.items[i].ProductID == productID {
			f.items[i].Quantity = quantity
		}
	}
	return nil
}

func (f *fakeStore) RemoveItem(ctx context.Context, userID, productID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.removeCalls++
	kept := f.items[:0]
	for _, li := range f.items {
		if li.ProductID != productID {
			kept = append(kept, li)
		}
	}
	f.items = kept
	return nil
}

func (f *fakeStore) ClearCart(ctx context.Context, userID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.clearCalls++
	f.items = nil
	return nil
}

func (f *fakeStore) mutationCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.setCalls + f.addCalls + f.removeCalls + f.clearCalls
}

func line(productID string, unit string, qty, stock int) domain.LineItem {
	return domain.LineItem{
		ProductID:      productID,
		UnitPrice:      decimal.RequireFromString(unit),
		Quantity:       qty,
		AvailableStock: stock,
	}
}

func newEngine(t *testing.T, store app.CartStore) *app.Engine {
	t.Helper()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	return app.NewEngine(store, domain.DefaultRates(), log)
}

func hydrated(t *testing.T, store *fakeStore) (*app.Engine, string) {
	t.Helper()
	eng := newEngine(t, store)
	userID := uuid.NewString()
	if _, err := eng.Hydrate(context.Background(), userID); err != nil {
		t.Fatalf("Hydrate failed: %v", err)
	}
	return eng, userID
}

func TestRequestQuantityChange_Validation(t *testing.T) {
	ctx := context.Background()

	t.Run("quantity below one -> rejected, no network call", func(t *testing.T) {
		store := &fakeStore{items: []domain.LineItem{line("p1", "20", 2, 5)}}
		eng, userID := hydrated(t, store)

		before := eng.Snapshot(userID)
		err := eng.RequestQuantityChange(ctx, userID, "p1", 0)
		if !errors.Is(err, app.ErrInvalidQuantity) {
			t.Fatalf("expected ErrInvalidQuantity, got %v", err)
		}
		if store.mutationCalls() != 0 {
			t.Fatalf("expected no mutation calls, got %d", store.mutationCalls())
		}
		after := eng.Snapshot(userID)
		if len(after.Items) != len(before.Items) || after.Items[0].Quantity != before.Items[0].Quantity {
			t.Fatal("snapshot changed on rejected mutation")
		}
	})

	t.Run("quantity above stock -> rejected", func(t *testing.T) {
		store := &fakeStore{items: []domain.LineItem{line("p1", "20", 2, 5)}}
		eng, userID := hydrated(t, store)

		if err := eng.RequestQuantityChange(ctx, userID, "p1", 6); !errors.Is(err, app.ErrInvalidQuantity) {
			t.Fatalf("expected ErrInvalidQuantity, got %v", err)
		}
		if store.mutationCalls() != 0 {
			t.Fatalf("expected no mutation calls, got %d", store.mutationCalls())
		}
	})

	t.Run("unknown product -> rejected", func(t *testing.T) {
		store := &fakeStore{items: []domain.LineItem{line("p1", "20", 2, 5)}}
		eng, userID := hydrated(t, store)

		if err := eng.RequestQuantityChange(ctx, userID, "nope", 1); !errors.Is(err, app.ErrInvalidQuantity) {
			t.Fatalf("expected ErrInvalidQuantity, got %v", err)
		}
	})
}

func TestRequestAdd_AuthRequired(t *testing.T) {
	store := &fakeStore{}
	eng := newEngine(t, store)

	err := eng.RequestAdd(context.Background(), "", "p1", 1)
	if !errors.Is(err, app.ErrAuthRequired) {
		t.Fatalf("expected ErrAuthRequired, got %v", err)
	}
	if store.mutationCalls() != 0 || store.getCalls != 0 {
		t.Fatal("anonymous add must not reach the network")
	}
}

func TestRequestQuantityChange_SuccessReplacesSnapshot(t *testing.T) {
	store := &fakeStore{items: []domain.LineItem{line("p1", "20", 2, 5)}}
	eng, userID := hydrated(t, store)

	if err := eng.RequestQuantityChange(context.Background(), userID, "p1", 4); err != nil {
		t.Fatalf("RequestQuantityChange failed: %v", err)
	}

	snap := eng.Snapshot(userID)
	li, ok := snap.Item("p1")
	if !ok || li.Quantity != 4 {
		t.Fatalf("expected server-confirmed quantity 4, got %+v", snap.Items)
	}
	if eng.Updating(userID, "p1") {
		t.Fatal("line stuck in updating after success")
	}
}

func TestRequestQuantityChange_RemoteFailureKeepsSnapshot(t *testing.T) {
	store := &fakeStore{
		items:  []domain.LineItem{line("p1", "20", 2, 5)},
		setErr: errors.New("boom"),
	}
	eng, userID := hydrated(t, store)

	err := eng.RequestQuantityChange(context.Background(), userID, "p1", 3)
	if !errors.Is(err, app.ErrRemoteFailure) {
		t.Fatalf("expected ErrRemoteFailure, got %v", err)
	}

	li, _ := eng.Snapshot(userID).Item("p1")
	if li.Quantity != 2 {
		t.Fatalf("snapshot must stay at prior quantity 2, got %d", li.Quantity)
	}
	if eng.Updating(userID, "p1") {
		t.Fatal("line stuck in updating after failure")
	}
}

func TestRequestQuantityChange_InFlightExclusivity(t *testing.T) {
	store := &fakeStore{
		items:   []domain.LineItem{line("p1", "20", 2, 5)},
		entered: make(chan struct{}),
		release: make(chan struct{}),
	}
	eng, userID := hydrated(t, store)

	g := new(errgroup.Group)
	g.Go(func() error {
		return eng.RequestQuantityChange(context.Background(), userID, "p1", 3)
	})

	// Wait until the first mutation is inside the store call.
	<-store.entered

	if !eng.Updating(userID, "p1") {
		t.Fatal("expected line to be marked updating")
	}

	err := eng.RequestQuantityChange(context.Background(), userID, "p1", 4)
	if !errors.Is(err, app.ErrMutationInProgress) {
		t.Fatalf("expected ErrMutationInProgress, got %v", err)
	}

	close(store.release)
	if err := g.Wait(); err != nil {
		t.Fatalf("first mutation failed: %v", err)
	}

	// Only the first change may be applied.
	li, _ := eng.Snapshot(userID).Item("p1")
	if li.Quantity != 3 {
		t.Fatalf("expected quantity 3 from the single accepted mutation, got %d", li.Quantity)
	}

	store.mu.Lock()
	setCalls := store.setCalls
	store.mu.Unlock()
	if setCalls != 1 {
		t.Fatalf("expected exactly 1 store call, got %d", setCalls)
	}
}

func TestMutations_IndependentAcrossProducts(t *testing.T) {
	store := &fakeStore{items: []domain.LineItem{
		line("p1", "20", 2, 5),
		line("p2", "15", 1, 5),
	}}
	eng, userID := hydrated(t, store)

	g := new(errgroup.Group)
	g.Go(func() error { return eng.RequestQuantityChange(context.Background(), userID, "p1", 3) })
	g.Go(func() error { return eng.RequestQuantityChange(context.Background(), userID, "p2", 2) })
	if err := g.Wait(); err != nil {
		t.Fatalf("independent mutations must not conflict: %v", err)
	}

	snap := eng.Snapshot(userID)
	p1, _ := snap.Item("p1")
	p2, _ := snap.Item("p2")
	if p1.Quantity != 3 || p2.Quantity != 2 {
		t.Fatalf("got p1=%d p2=%d", p1.Quantity, p2.Quantity)
	}
}

func TestForget_CompletionIsNoOp(t *testing.T) {
	store := &fakeStore{
		items:   []domain.LineItem{line("p1", "20", 2, 5)},
		entered: make(chan struct{}),
		release: make(chan struct{}),
	}
	eng, userID := hydrated(t, store)

	g := new(errgroup.Group)
	g.Go(func() error {
		return eng.RequestQuantityChange(context.Background(), userID, "p1", 3)
	})

	<-store.entered
	eng.Forget(userID)
	close(store.release)

	if err := g.Wait(); err != nil {
		t.Fatalf("late completion must not fail: %v", err)
	}
	if n := len(eng.Snapshot(userID).Items); n != 0 {
		t.Fatalf("state resurrected after Forget: %d items", n)
	}
}

func TestClear(t *testing.T) {
	store := &fakeStore{items: []domain.LineItem{line("p1", "20", 2, 5)}}
	eng, userID := hydrated(t, store)

	if err := eng.Clear(context.Background(), userID); err != nil {
		t.Fatalf("Clear failed: %v", err)
	}
	if n := len(eng.Snapshot(userID).Items); n != 0 {
		t.Fatalf("expected empty snapshot, got %d items", n)
	}

	b := eng.Breakdown(userID)
	if !b.Subtotal.IsZero() {
		t.Fatalf("expected zero subtotal, got %s", b.Subtotal)
	}
}

func TestBreakdown(t *testing.T) {
	store := &fakeStore{items: []domain.LineItem{
		{ProductID: "p1", UnitPrice: decimal.RequireFromString("20"), Quantity: 2, AvailableStock: 9},
		{ProductID: "p2", UnitPrice: decimal.RequireFromString("15"), DiscountPrice: decimal.RequireFromString("10"), Quantity: 3, AvailableStock: 9},
	}}
	eng, userID := hydrated(t, store)

	b := eng.Breakdown(userID)
	if got := b.Total.String(); got != "83.5" {
		t.Fatalf("total: got %s", got)
	}
}
