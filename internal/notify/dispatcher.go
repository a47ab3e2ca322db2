package notify

import (
	"context"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/balazs-web/smoky-fish-sub000/internal/models"
	"github.com/balazs-web/smoky-fish-sub000/internal/ports"
	"github.com/balazs-web/smoky-fish-sub000/pkg/logger"
	"github.com/balazs-web/smoky-fish-sub000/pkg/retry"
)

// DefaultRetryPolicy is 3 attempts with a linearly growing pause:
// 1s after the first failure, 2s after the second
var DefaultRetryPolicy = retry.Policy{
	Attempts: 3,
	Delay:    retry.Linear(time.Second),
}

// Dispatcher sends the two transactional mails of an order: the customer
// confirmation and the operator alert. The two sends are concurrent and
// independent; each one retries on its own and reports only a boolean.
// Exhausted retries never escape as errors
type Dispatcher struct {
	transport     Transport
	branding      ports.Branding
	operatorEmail string
	policy        retry.Policy
}

func NewDispatcher(transport Transport, branding ports.Branding, operatorEmail string, policy retry.Policy) *Dispatcher {
	return &Dispatcher{
		transport:     transport,
		branding:      branding,
		operatorEmail: operatorEmail,
		policy:        policy,
	}
}

// DispatchOrderNotifications renders and sends both messages, returning once
// both have settled (sent or exhausted retries)
func (d *Dispatcher) DispatchOrderNotifications(ctx context.Context, orderID string, sub models.Submission) models.EmailResults {
	siteName := d.branding.SiteName(ctx)

	var results models.EmailResults

	var eg errgroup.Group
	eg.Go(func() error {
		msg, err := renderCustomerMessage(siteName, orderID, sub)
		if err != nil {
			logger.GetOrCreateLoggerFromCtx(ctx).Error(ctx, "error rendering customer mail",
				zap.String("order_id", orderID), zap.Error(err))
			return nil
		}
		results.CustomerEmailSent = d.send(ctx, orderID, "customer", msg)
		return nil
	})
	eg.Go(func() error {
		msg, err := renderOperatorMessage(siteName, orderID, d.operatorEmail, sub)
		if err != nil {
			logger.GetOrCreateLoggerFromCtx(ctx).Error(ctx, "error rendering operator mail",
				zap.String("order_id", orderID), zap.Error(err))
			return nil
		}
		results.ManagerEmailSent = d.send(ctx, orderID, "operator", msg)
		return nil
	})
	// goroutines above always return nil, failures only flip the booleans
	_ = eg.Wait()

	return results
}

// send runs one message through the retry loop. Every attempt goes through
// Transport.Send, which opens and closes its own connection
func (d *Dispatcher) send(ctx context.Context, orderID, recipient string, msg Message) bool {
	err := d.policy.Do(ctx, func(ctx context.Context) error {
		return d.transport.Send(ctx, msg)
	})
	if err != nil {
		logger.GetOrCreateLoggerFromCtx(ctx).Warn(ctx, "mail delivery failed",
			zap.String("order_id", orderID),
			zap.String("recipient", recipient),
			zap.Error(err))
		return false
	}

	return true
}
