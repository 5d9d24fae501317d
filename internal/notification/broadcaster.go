package notification

import (
	"context"
	"time"

	"pulperia-be/internal/logger"
	"pulperia-be/internal/metrics"
	"pulperia-be/internal/order"
	"pulperia-be/internal/pulperia"

	"go.uber.org/zap"
)

// Sender pushes a payload to every live channel of a user. Delivery is fire
// and forget: a user without channels, or a channel that rejects the write,
// is not an error at this level.
type Sender interface {
	Send(userID string, v any)
}

// Broadcaster fans a committed order mutation out to its two audiences. It
// only reads the order; persistence already happened in the caller.
type Broadcaster struct {
	pulperias pulperia.Repository
	sender    Sender
}

var _ order.Notifier = (*Broadcaster)(nil)

func NewBroadcaster(pulperias pulperia.Repository, sender Sender) *Broadcaster {
	return &Broadcaster{pulperias: pulperias, sender: sender}
}

func (b *Broadcaster) OrderChanged(ctx context.Context, o *order.Order, event order.Event) {
	timer := metrics.StartTimer()
	log := logger.FromCtx(ctx).With(
		zap.String("order_id", o.OrderID),
		zap.String("event", string(event)),
	)

	pulperiaName := pulperia.DefaultName
	ownerID := ""
	p, err := b.pulperias.GetByID(ctx, o.PulperiaID)
	if err != nil {
		// Owner audience is skipped, the customer side still runs.
		log.Warn("pulperia lookup failed, skipping owner audience",
			zap.String("pulperia_id", o.PulperiaID),
			zap.Error(err),
		)
	} else {
		pulperiaName = p.Name
		ownerID = p.OwnerUserID
	}

	now := time.Now().UTC()

	if ownerID != "" {
		b.sender.Send(ownerID, ComposeOwner(o, pulperiaName, event, now))
	}
	if o.CustomerUserID != "" {
		b.sender.Send(o.CustomerUserID, ComposeCustomer(o, pulperiaName, event, now))
	}

	log.Debug("order broadcast fanned out", zap.Duration("took", timer.Duration()))
}
