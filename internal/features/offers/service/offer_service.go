package service

import (
	"context"
	"errors"
	"time"

	catalog "podstore/internal/features/catalog/ports"
	"podstore/internal/features/offers/domain"
	"podstore/internal/features/offers/ports"

	"github.com/google/uuid"
)

var (
	// ErrOfferNotApplicable is returned when the offer exists but cannot be
	// redeemed against the given cart.
	ErrOfferNotApplicable = errors.New("offer not applicable")
	// ErrInvalidOffer is returned when an admin upsert fails validation.
	ErrInvalidOffer = errors.New("invalid offer")
)

// CartLine is one cart item as seen by offer evaluation.
type CartLine struct {
	ProductID string  `json:"productId"`
	Price     float64 `json:"price"`
	Quantity  int     `json:"quantity"`
}

// Application is the outcome of applying an offer to a cart.
type Application struct {
	Offer      *domain.Offer `json:"offer"`
	CartTotal  float64       `json:"cartTotal"`
	Discount   float64       `json:"discount"`
	FinalTotal float64       `json:"finalTotal"`
}

// OfferService evaluates and manages offers.
type OfferService struct {
	offers   ports.OfferRepository
	products catalog.ProductRepository
	now      func() time.Time
}

// NewOfferService creates an OfferService.
func NewOfferService(offers ports.OfferRepository, products catalog.ProductRepository) *OfferService {
	return &OfferService{
		offers:   offers,
		products: products,
		now:      time.Now,
	}
}

// ListActive returns redeemable offers for the storefront.
func (s *OfferService) ListActive(ctx context.Context) ([]domain.Offer, error) {
	offers, err := s.offers.ListActive(ctx)
	if err != nil {
		return nil, err
	}
	now := s.now()
	live := offers[:0]
	for _, offer := range offers {
		if offer.Live(now) {
			live = append(live, offer)
		}
	}
	return live, nil
}

// Get returns one offer by id.
func (s *OfferService) Get(ctx context.Context, id string) (*domain.Offer, error) {
	return s.offers.GetByID(ctx, id)
}

// Apply evaluates the offer against the cart and returns the discount and
// final total. It does not consume a redemption; RecordUsage does that
// once the order is actually placed.
func (s *OfferService) Apply(ctx context.Context, offerID string, lines []CartLine) (*Application, error) {
	offer, err := s.offers.GetByID(ctx, offerID)
	if err != nil {
		return nil, err
	}
	if !offer.Live(s.now()) {
		return nil, ErrOfferNotApplicable
	}

	cartTotal := 0.0
	for _, line := range lines {
		cartTotal += line.Price * float64(line.Quantity)
	}
	if cartTotal < offer.MinOrderValue {
		return nil, ErrOfferNotApplicable
	}

	eligible, err := s.eligibleAmount(ctx, offer, lines, cartTotal)
	if err != nil {
		return nil, err
	}

	discount := offer.Discount(eligible, cartTotal)
	if discount <= 0 {
		return nil, ErrOfferNotApplicable
	}

	return &Application{
		Offer:      offer,
		CartTotal:  cartTotal,
		Discount:   discount,
		FinalTotal: cartTotal - discount,
	}, nil
}

// eligibleAmount computes the slice of the cart the offer's scope covers.
func (s *OfferService) eligibleAmount(ctx context.Context, offer *domain.Offer, lines []CartLine, cartTotal float64) (float64, error) {
	switch offer.Scope {
	case domain.ScopeSitewide:
		return cartTotal, nil

	case domain.ScopeProduct:
		allowed := make(map[string]bool, len(offer.ProductIDs))
		for _, id := range offer.ProductIDs {
			allowed[id] = true
		}
		eligible := 0.0
		for _, line := range lines {
			if allowed[line.ProductID] {
				eligible += line.Price * float64(line.Quantity)
			}
		}
		return eligible, nil

	case domain.ScopeCategory:
		ids := make([]string, len(lines))
		for i, line := range lines {
			ids[i] = line.ProductID
		}
		products, err := s.products.GetByIDs(ctx, ids)
		if err != nil {
			return 0, err
		}
		categories := make(map[string]string, len(products))
		for _, p := range products {
			categories[p.ID] = p.Category
		}
		eligible := 0.0
		for _, line := range lines {
			if categories[line.ProductID] == offer.Category {
				eligible += line.Price * float64(line.Quantity)
			}
		}
		return eligible, nil
	}
	return 0, ErrOfferNotApplicable
}

// RecordUsage consumes one redemption of the offer.
func (s *OfferService) RecordUsage(ctx context.Context, offerID string) error {
	return s.offers.IncrementUsage(ctx, offerID)
}

// ListAll returns every offer for the admin panel.
func (s *OfferService) ListAll(ctx context.Context) ([]domain.Offer, error) {
	return s.offers.ListAll(ctx)
}

// Save validates and upserts an offer from the admin panel.
func (s *OfferService) Save(ctx context.Context, offer *domain.Offer) error {
	if offer.Title == "" || !offer.Type.Valid() || !offer.Scope.Valid() {
		return ErrInvalidOffer
	}
	if offer.Value <= 0 || (offer.Type == domain.OfferPercentage && offer.Value > 100) {
		return ErrInvalidOffer
	}
	if !offer.ValidTo.After(offer.ValidFrom) {
		return ErrInvalidOffer
	}
	if offer.ID == "" {
		offer.ID = uuid.NewString()
	}
	return s.offers.Upsert(ctx, offer)
}

// Delete removes an offer.
func (s *OfferService) Delete(ctx context.Context, id string) error {
	return s.offers.Delete(ctx, id)
}
