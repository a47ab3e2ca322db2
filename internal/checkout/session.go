package checkout

import (
	"fmt"

	"github.com/balazs-web/smoky-fish-sub000/internal/basket"
)

// Session is the per-customer checkout state: the basket plus the position in
// the step flow. It rehydrates from a SessionStore between requests so nothing
// is lost across page loads
type Session struct {
	Basket          basket.Basket `json:"basket"`
	Step            Step          `json:"step"`
	ShippingVisited bool          `json:"shipping_visited"`
}

// NewSession starts a fresh session at the basket step
func NewSession() Session {
	return Session{Step: StepBasket}
}

// CurrentStep returns the step, defaulting empty (zero-value) sessions to basket
func (s *Session) CurrentStep() Step {
	if s.Step == "" {
		return StepBasket
	}
	return s.Step
}

// Transition moves the session to a neighbouring step if the declared edge
// exists and its guard passes. No state changes on failure
func (s *Session) Transition(to Step) error {
	from := s.CurrentStep()

	edges, ok := transitions[from]
	if !ok {
		return fmt.Errorf("no transitions out of step %q", from)
	}
	guard, ok := edges[to]
	if !ok {
		return fmt.Errorf("transition %q -> %q is not allowed", from, to)
	}
	if guard != nil {
		if err := guard(s); err != nil {
			return err
		}
	}

	s.Step = to
	if to == StepShipping {
		s.ShippingVisited = true
	}
	return nil
}

// Complete is called after a successful submission: the basket is cleared
// and the session parks on the terminal success step
func (s *Session) Complete() {
	s.Basket.Clear()
	s.Step = StepSuccess
}

// Reset returns the session to the basket step for the next purchase.
// This is the only way out of success
func (s *Session) Reset() {
	s.Step = StepBasket
	s.ShippingVisited = false
}
