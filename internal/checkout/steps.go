package checkout

import "fmt"

// Step is one screen of the checkout flow. The flow is linear,
// basket → shipping → billing → success, with backward edges allowed
// until the terminal success step
type Step string

const (
	StepBasket   Step = "basket"
	StepShipping Step = "shipping"
	StepBilling  Step = "billing"
	StepSuccess  Step = "success"
)

// ParseStep maps a wire value onto a known step
func ParseStep(s string) (Step, error) {
	switch Step(s) {
	case StepBasket, StepShipping, StepBilling, StepSuccess:
		return Step(s), nil
	}
	return "", fmt.Errorf("unknown checkout step %q", s)
}

type guardFunc func(s *Session) error

// transitions declares every allowed edge and its guard. An edge absent from
// the table is illegal; success has no outgoing edges, only Reset leaves it.
// Success itself is never a transition target — it is entered via Complete
var transitions = map[Step]map[Step]guardFunc{
	StepBasket: {
		StepShipping: guardNonEmptyBasket,
	},
	StepShipping: {
		StepBilling: guardShippingVisited,
		StepBasket:  nil,
	},
	StepBilling: {
		StepShipping: nil,
		StepBasket:   nil,
	},
}

func guardNonEmptyBasket(s *Session) error {
	if s.Basket.ItemCount() == 0 {
		return fmt.Errorf("cannot enter shipping with an empty basket")
	}
	return nil
}

func guardShippingVisited(s *Session) error {
	if !s.ShippingVisited {
		return fmt.Errorf("cannot enter billing without passing through shipping")
	}
	return nil
}
