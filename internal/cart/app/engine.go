package app

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/dwikikusuma/storefront/internal/cart/domain"
)

// Engine owns the per-user cart snapshots and serializes mutations against
// the remote store. It never applies a change locally before the server
// confirms it: on success the snapshot is replaced wholesale with the
// refetched server cart, on failure it is left untouched.
type Engine struct {
	store CartStore
	rates domain.Rates
	log   *slog.Logger

	mu    sync.Mutex
	carts map[string]*cartState
}

// cartState tracks one user's snapshot and the set of product IDs with a
// mutation in flight. Per line the only transient state is "updating"; there
// is no queue.
type cartState struct {
	snapshot domain.Snapshot
	inFlight map[string]struct{}
}

func NewEngine(store CartStore, rates domain.Rates, log *slog.Logger) *Engine {
	return &Engine{
		store: store,
		rates: rates,
		log:   log,
		carts: make(map[string]*cartState),
	}
}

// Refresh fetches the authoritative cart and replaces the local snapshot.
// Used on login and after every confirmed mutation.
func (e *Engine) Refresh(ctx context.Context, userID string) (domain.Snapshot, error) {
	if userID == "" {
		return domain.Snapshot{}, ErrAuthRequired
	}

	items, err := e.store.GetCart(ctx, userID)
	if err != nil {
		return domain.Snapshot{}, fmt.Errorf("%w: %v", ErrRemoteFailure, err)
	}

	snap := domain.Snapshot{Items: items, FetchedAt: time.Now()}

	e.mu.Lock()
	defer e.mu.Unlock()
	state, ok := e.carts[userID]
	if !ok {
		// Refresh completing after Forget must not resurrect state.
		return snap, nil
	}
	state.snapshot = snap
	return snap, nil
}

// Hydrate ensures a state container exists for the user, fetching the remote
// cart if none is held yet. Called on session start.
func (e *Engine) Hydrate(ctx context.Context, userID string) (domain.Snapshot, error) {
	if userID == "" {
		return domain.Snapshot{}, ErrAuthRequired
	}

	e.mu.Lock()
	if state, ok := e.carts[userID]; ok {
		snap := state.snapshot
		e.mu.Unlock()
		return snap, nil
	}
	e.carts[userID] = &cartState{inFlight: make(map[string]struct{})}
	e.mu.Unlock()

	snap, err := e.Refresh(ctx, userID)
	if err != nil {
		// Do not keep an unhydrated container around: validation against an
		// empty snapshot would mask the remote failure.
		e.Forget(userID)
		return domain.Snapshot{}, err
	}
	return snap, nil
}

// ensureHydrated fetches the cart for a session that has no local state yet,
// for example after a restart. Validation needs a held snapshot to check
// stock against.
func (e *Engine) ensureHydrated(ctx context.Context, userID string) error {
	e.mu.Lock()
	_, ok := e.carts[userID]
	e.mu.Unlock()
	if ok {
		return nil
	}
	_, err := e.Hydrate(ctx, userID)
	return err
}

// Snapshot returns the currently held snapshot without touching the network.
func (e *Engine) Snapshot(userID string) domain.Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()
	if state, ok := e.carts[userID]; ok {
		return state.snapshot
	}
	return domain.Snapshot{}
}

// Breakdown recomputes the monetary breakdown from the held snapshot.
func (e *Engine) Breakdown(userID string) domain.Breakdown {
	snap := e.Snapshot(userID)
	return domain.Compute(snap.Items, e.rates)
}

// Updating reports whether a mutation for the given line is in flight, so a
// caller can disable the control for that line.
func (e *Engine) Updating(userID, productID string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	state, ok := e.carts[userID]
	if !ok {
		return false
	}
	_, inFlight := state.inFlight[productID]
	return inFlight
}

// RequestQuantityChange validates the new quantity against the held line,
// acquires the per-line in-flight slot and applies the change remotely.
// Validation failures and in-flight conflicts are rejected synchronously with
// no network call.
func (e *Engine) RequestQuantityChange(ctx context.Context, userID, productID string, quantity int) error {
	if userID == "" {
		return ErrAuthRequired
	}
	if err := e.ensureHydrated(ctx, userID); err != nil {
		return err
	}

	e.mu.Lock()
	state, ok := e.carts[userID]
	if !ok {
		e.mu.Unlock()
		return ErrAuthRequired
	}

	line, held := state.snapshot.Item(productID)
	if !held {
		e.mu.Unlock()
		return fmt.Errorf("%w: product %s not in cart", ErrInvalidQuantity, productID)
	}
	if quantity < 1 {
		e.mu.Unlock()
		return fmt.Errorf("%w: quantity %d below 1", ErrInvalidQuantity, quantity)
	}
	if quantity > line.AvailableStock {
		e.mu.Unlock()
		return fmt.Errorf("%w: quantity %d exceeds stock %d", ErrInvalidQuantity, quantity, line.AvailableStock)
	}
	if _, inFlight := state.inFlight[productID]; inFlight {
		e.mu.Unlock()
		return ErrMutationInProgress
	}
	state.inFlight[productID] = struct{}{}
	e.mu.Unlock()

	err := e.store.SetItemQuantity(ctx, userID, productID, quantity)
	return e.finish(ctx, userID, productID, "set_quantity", err)
}

// RequestRemoval removes a line after server confirmation, under the same
// per-line exclusivity as quantity changes. Presence is not checked locally;
// the server owns line presence and a stale snapshot must not block removal.
func (e *Engine) RequestRemoval(ctx context.Context, userID, productID string) error {
	if userID == "" {
		return ErrAuthRequired
	}
	if err := e.ensureHydrated(ctx, userID); err != nil {
		return err
	}

	e.mu.Lock()
	state, ok := e.carts[userID]
	if !ok {
		e.mu.Unlock()
		return ErrAuthRequired
	}
	if _, inFlight := state.inFlight[productID]; inFlight {
		e.mu.Unlock()
		return ErrMutationInProgress
	}
	state.inFlight[productID] = struct{}{}
	e.mu.Unlock()

	err := e.store.RemoveItem(ctx, userID, productID)
	return e.finish(ctx, userID, productID, "remove", err)
}

// RequestAdd puts a product into the remote cart. Anonymous callers are
// rejected before any network call.
func (e *Engine) RequestAdd(ctx context.Context, userID, productID string, quantity int) error {
	if userID == "" {
		return ErrAuthRequired
	}
	if quantity < 1 {
		return fmt.Errorf("%w: quantity %d below 1", ErrInvalidQuantity, quantity)
	}

	e.mu.Lock()
	state, ok := e.carts[userID]
	if !ok {
		state = &cartState{inFlight: make(map[string]struct{})}
		e.carts[userID] = state
	}
	if _, inFlight := state.inFlight[productID]; inFlight {
		e.mu.Unlock()
		return ErrMutationInProgress
	}
	state.inFlight[productID] = struct{}{}
	e.mu.Unlock()

	err := e.store.AddItem(ctx, userID, productID, quantity)
	return e.finish(ctx, userID, productID, "add", err)
}

// Clear empties the remote cart and resets the local snapshot on success.
func (e *Engine) Clear(ctx context.Context, userID string) error {
	if userID == "" {
		return ErrAuthRequired
	}

	if err := e.store.ClearCart(ctx, userID); err != nil {
		return fmt.Errorf("%w: %v", ErrRemoteFailure, err)
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if state, ok := e.carts[userID]; ok {
		state.snapshot = domain.Snapshot{FetchedAt: time.Now()}
	}
	return nil
}

// Forget drops all local state for the user (logout). In-flight mutations
// that complete afterwards become no-ops.
func (e *Engine) Forget(userID string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	delete(e.carts, userID)
}

// finish releases the in-flight slot and, when the mutation succeeded,
// replaces the snapshot with the refetched server cart. The refetch happens
// before the slot is released so a burst of requests cannot observe the
// pre-mutation snapshot between confirmation and refresh.
func (e *Engine) finish(ctx context.Context, userID, productID, op string, mutErr error) error {
	var snap domain.Snapshot
	var fetchErr error

	if mutErr == nil {
		var items []domain.LineItem
		items, fetchErr = e.store.GetCart(ctx, userID)
		if fetchErr == nil {
			snap = domain.Snapshot{Items: items, FetchedAt: time.Now()}
		}
	}

	e.mu.Lock()
	state, held := e.carts[userID]
	if held {
		delete(state.inFlight, productID)
		if mutErr == nil && fetchErr == nil {
			state.snapshot = snap
		}
	}
	e.mu.Unlock()

	if mutErr != nil {
		e.log.Warn("cart mutation failed",
			slog.String("op", op),
			slog.String("product_id", productID),
			slog.Any("err", mutErr),
		)
		return fmt.Errorf("%w: %v", ErrRemoteFailure, mutErr)
	}
	if fetchErr != nil {
		// The mutation itself was confirmed; the stale snapshot stays until
		// the next refresh.
		e.log.Warn("cart refetch after mutation failed",
			slog.String("op", op),
			slog.Any("err", fetchErr),
		)
		return fmt.Errorf("%w: %v", ErrRemoteFailure, fetchErr)
	}
	return nil
}
