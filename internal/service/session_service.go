package service

import (
	"context"
	"fmt"

	"github.com/balazs-web/smoky-fish-sub000/internal/basket"
	"github.com/balazs-web/smoky-fish-sub000/internal/checkout"
	"github.com/balazs-web/smoky-fish-sub000/internal/customerrors"
	"github.com/balazs-web/smoky-fish-sub000/internal/models"
	"github.com/balazs-web/smoky-fish-sub000/internal/ports"
)

// SessionService exposes the basket aggregate and the checkout step machine
// over a session store. Every mutation is load-mutate-save, so a session
// rehydrates from whatever medium backs the store before its first use
type SessionService struct {
	store   ports.SessionStore
	catalog ports.Catalog
	pricing basket.Pricing
}

func NewSessionService(store ports.SessionStore, catalog ports.Catalog, pricing basket.Pricing) *SessionService {
	return &SessionService{
		store:   store,
		catalog: catalog,
		pricing: pricing,
	}
}

// Session returns the current session state, a fresh one when none is stored
func (s *SessionService) Session(ctx context.Context, sessionID string) (checkout.Session, error) {
	session, found, err := s.store.Load(ctx, sessionID)
	if err != nil {
		return checkout.Session{}, fmt.Errorf("error loading session: %w", err)
	}
	if !found {
		return checkout.NewSession(), nil
	}
	return session, nil
}

// Quote prices the session's basket with the configured shipping rule
func (s *SessionService) Quote(session checkout.Session) basket.Quote {
	return s.pricing.Quote(session.Basket.TotalPrice())
}

// AddItem resolves the product (and variant) in the catalog and merges it
// into the session basket
func (s *SessionService) AddItem(ctx context.Context, sessionID, productID string, qty int, variantID string) (checkout.Session, error) {
	product, err := s.catalog.Product(ctx, productID)
	if err != nil {
		return checkout.Session{}, err
	}

	var variant *models.Variant
	if variantID != "" {
		for i := range product.Variants {
			if product.Variants[i].ID == variantID {
				variant = &product.Variants[i]
				break
			}
		}
		if variant == nil {
			return checkout.Session{}, customerrors.NewValidationError(
				fmt.Sprintf("product %q has no variant %q", productID, variantID))
		}
		if !variant.Available {
			return checkout.Session{}, customerrors.NewValidationError(
				fmt.Sprintf("variant %q is currently not available", variant.Name))
		}
	}

	return s.mutate(ctx, sessionID, func(session *checkout.Session) error {
		session.Basket.AddItem(product, qty, variant)
		return nil
	})
}

// UpdateQuantity sets a line's quantity; zero or below removes the line
func (s *SessionService) UpdateQuantity(ctx context.Context, sessionID, productID string, qty int, variantID string) (checkout.Session, error) {
	return s.mutate(ctx, sessionID, func(session *checkout.Session) error {
		session.Basket.UpdateQuantity(productID, qty, variantID)
		return nil
	})
}

// RemoveItem drops a line from the basket
func (s *SessionService) RemoveItem(ctx context.Context, sessionID, productID, variantID string) (checkout.Session, error) {
	return s.mutate(ctx, sessionID, func(session *checkout.Session) error {
		session.Basket.RemoveItem(productID, variantID)
		return nil
	})
}

// ClearBasket empties the basket without touching the checkout step
func (s *SessionService) ClearBasket(ctx context.Context, sessionID string) (checkout.Session, error) {
	return s.mutate(ctx, sessionID, func(session *checkout.Session) error {
		session.Basket.Clear()
		return nil
	})
}

// Transition moves the checkout flow along a declared edge, guards included
func (s *SessionService) Transition(ctx context.Context, sessionID string, to checkout.Step) (checkout.Session, error) {
	return s.mutate(ctx, sessionID, func(session *checkout.Session) error {
		if err := session.Transition(to); err != nil {
			return customerrors.NewValidationError(err.Error())
		}
		return nil
	})
}

// Complete clears the basket and parks the session on the success step,
// called after the submission service accepted the order
func (s *SessionService) Complete(ctx context.Context, sessionID string) (checkout.Session, error) {
	return s.mutate(ctx, sessionID, func(session *checkout.Session) error {
		session.Complete()
		return nil
	})
}

// Reset returns the machine to the basket step for the next purchase
func (s *SessionService) Reset(ctx context.Context, sessionID string) (checkout.Session, error) {
	return s.mutate(ctx, sessionID, func(session *checkout.Session) error {
		session.Reset()
		return nil
	})
}

// mutate is the shared load-mutate-save cycle of every session operation.
// When fn fails nothing is written back
func (s *SessionService) mutate(ctx context.Context, sessionID string, fn func(*checkout.Session) error) (checkout.Session, error) {
	session, err := s.Session(ctx, sessionID)
	if err != nil {
		return checkout.Session{}, err
	}

	if err = fn(&session); err != nil {
		return checkout.Session{}, err
	}

	if err = s.store.Save(ctx, sessionID, session); err != nil {
		return checkout.Session{}, fmt.Errorf("error saving session: %w", err)
	}

	return session, nil
}
