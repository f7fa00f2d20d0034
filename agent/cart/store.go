package cart

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	contractx "github.com/tanpawarit/Cartive-Conversational-Shopping-Agent/agent/contract"
)

// DemoUserID is the fixed identity cart-mutation actions act on; there is no
// multi-tenant auth in this design.
const DemoUserID = 1

// Option customizes Store.
type Option func(*Store)

func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		if now != nil {
			s.now = now
		}
	}
}

// Store is the session-scoped cart state of record, keyed by user id. The
// upstream cart API does not durably persist mutations, so upstream calls
// are advisory: every mutation must succeed locally regardless of upstream
// outcome. A single mutex serializes all operations, including those of
// concurrent sessions acting on the demo identity.
type Store struct {
	mu     sync.Mutex
	api    contractx.CartAPI
	byUser map[int]contractx.Cart
	now    func() time.Time
}

func NewStore(api contractx.CartAPI, opts ...Option) *Store {
	s := &Store{
		api:    api,
		byUser: make(map[int]contractx.Cart),
		now:    time.Now,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// Initialize loads the user's cart upstream on first access, falling back to
// an empty local cart when the upstream is unavailable. It never fails.
func (s *Store) Initialize(ctx context.Context, userID int) contractx.Cart {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.userCartLocked(ctx, userID)
}

// UserCart returns the cached cart for the user, fetching or synthesizing
// one on first access. It never fails.
func (s *Store) UserCart(ctx context.Context, userID int) contractx.Cart {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.userCartLocked(ctx, userID)
}

// Cart returns the demo identity's cart.
func (s *Store) Cart(ctx context.Context) contractx.Cart {
	return s.UserCart(ctx, DemoUserID)
}

// AddToCart merges the line into the demo user's cart, summing quantity when
// the product is already present.
func (s *Store) AddToCart(ctx context.Context, payload contractx.AddToCartPayload) (contractx.Cart, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cart := s.userCartLocked(ctx, DemoUserID)

	merged := false
	for i := range cart.Products {
		if cart.Products[i].ProductID == payload.ProductID {
			cart.Products[i].Quantity += payload.Quantity
			merged = true
			break
		}
	}
	if !merged {
		cart.Products = append(cart.Products, contractx.CartLine{
			ProductID: payload.ProductID,
			Quantity:  payload.Quantity,
		})
	}

	s.persistLocked(DemoUserID, cart)
	s.syncUpstream(ctx, cart)
	return cloneCart(s.byUser[DemoUserID]), nil
}

// RemoveFromCart drops the product's line from the demo user's cart.
func (s *Store) RemoveFromCart(ctx context.Context, payload contractx.RemoveFromCartPayload) (contractx.Cart, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cart := s.userCartLocked(ctx, DemoUserID)

	kept := cart.Products[:0]
	for _, line := range cart.Products {
		if line.ProductID != payload.ProductID {
			kept = append(kept, line)
		}
	}
	cart.Products = kept

	s.persistLocked(DemoUserID, cart)
	s.syncUpstream(ctx, cart)
	return cloneCart(s.byUser[DemoUserID]), nil
}

// CreateCart attempts the upstream create and falls back to a local cart
// with a timestamp-derived id. The result is always stored keyed by userId.
func (s *Store) CreateCart(ctx context.Context, payload contractx.CreateCartPayload) (contractx.Cart, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cart := contractx.Cart{
		UserID:   payload.UserID,
		Date:     s.now().UTC().Format(time.RFC3339),
		Products: append([]contractx.CartLine(nil), payload.Products...),
	}

	created, err := s.api.CreateCart(ctx, cart)
	if err != nil {
		log.Warn().Err(err).Int("userId", payload.UserID).Msg("upstream cart create failed; keeping local cart")
		cart.ID = s.timestampID()
		s.byUser[payload.UserID] = cart
		return cloneCart(cart), nil
	}

	s.byUser[payload.UserID] = created
	return cloneCart(created), nil
}

// UpdateCart replaces the products of the cart identified by cartId. There
// is no cartId index; lookup is a linear scan over the store.
func (s *Store) UpdateCart(ctx context.Context, payload contractx.UpdateCartPayload) (contractx.Cart, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	userID, cart, ok := s.findByCartIDLocked(payload.CartID)
	if !ok {
		return contractx.Cart{}, fmt.Errorf("%w: cart id=%d", contractx.ErrNotFound, payload.CartID)
	}

	cart.Products = append([]contractx.CartLine(nil), payload.Products...)
	cart.Date = s.now().UTC().Format(time.RFC3339)

	if _, err := s.api.UpdateCart(ctx, payload.CartID, cart.Products); err != nil {
		log.Warn().Err(err).Int("cartId", payload.CartID).Msg("upstream cart update failed; local cart remains authoritative")
	}

	s.byUser[userID] = cart
	return cloneCart(cart), nil
}

// DeleteCart removes the cart identified by cartId. A missing cart is
// reported as an unsuccessful result, not an error; an upstream failure
// still removes the cart locally and reports success.
func (s *Store) DeleteCart(ctx context.Context, payload contractx.DeleteCartPayload) (contractx.DeleteCartResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	userID, _, ok := s.findByCartIDLocked(payload.CartID)
	if !ok {
		return contractx.DeleteCartResult{
			Success: false,
			Message: fmt.Sprintf("Cart with ID %d not found", payload.CartID),
		}, nil
	}

	result, err := s.api.DeleteCart(ctx, payload.CartID)
	if err != nil {
		log.Warn().Err(err).Int("cartId", payload.CartID).Msg("upstream cart delete failed; removing local cart")
		delete(s.byUser, userID)
		return contractx.DeleteCartResult{
			Success: true,
			Message: "Cart deleted from local store",
		}, nil
	}

	if result.Success {
		delete(s.byUser, userID)
	}
	return result, nil
}

func (s *Store) userCartLocked(ctx context.Context, userID int) contractx.Cart {
	if cart, ok := s.byUser[userID]; ok {
		return cloneCart(cart)
	}

	cart, err := s.api.UserCart(ctx, userID)
	if err != nil {
		log.Warn().Err(err).Int("userId", userID).Msg("upstream cart fetch failed; starting with an empty cart")
		cart = contractx.Cart{
			ID:       s.timestampID(),
			UserID:   userID,
			Date:     s.now().UTC().Format(time.RFC3339),
			Products: []contractx.CartLine{},
		}
	}
	if cart.Products == nil {
		cart.Products = []contractx.CartLine{}
	}

	s.byUser[userID] = cart
	return cloneCart(cart)
}

func (s *Store) persistLocked(userID int, cart contractx.Cart) {
	cart.Date = s.now().UTC().Format(time.RFC3339)
	s.byUser[userID] = cart
}

// syncUpstream mirrors the local cart upstream as advisory telemetry.
func (s *Store) syncUpstream(ctx context.Context, cart contractx.Cart) {
	if _, err := s.api.CreateCart(ctx, cart); err != nil {
		log.Warn().Err(err).Int("userId", cart.UserID).Msg("upstream cart sync failed; local cart remains authoritative")
	}
}

func (s *Store) findByCartIDLocked(cartID int) (int, contractx.Cart, bool) {
	for userID, cart := range s.byUser {
		if cart.ID == cartID {
			return userID, cart, true
		}
	}
	return 0, contractx.Cart{}, false
}

func (s *Store) timestampID() int {
	return int(s.now().UnixMilli())
}

func cloneCart(cart contractx.Cart) contractx.Cart {
	cart.Products = append(make([]contractx.CartLine, 0, len(cart.Products)), cart.Products...)
	return cart
}
