package event

import (
	"context"
	"log/slog"
	"strconv"
	"time"

	"github.com/Wishlist-Squad/Wishlist/pkg/kafka"
	"github.com/Wishlist-Squad/Wishlist/pkg/logger"
)

// Kafka topic for console audit events.
const TopicConsoleActions = "wishlist.console.actions"

const (
	EventTypeConsoleAction = "wishlist.console.action"
	AggregateTypeWishlist  = "wishlist"
	SourceConsole          = "wishlist-console"
)

// Outcome is how a console action ended.
type Outcome string

const (
	OutcomeSuccess Outcome = "success"
	OutcomeFailure Outcome = "failure"
	OutcomeInvalid Outcome = "invalid"
	OutcomePending Outcome = "pending"
)

// ActionData is the payload of a wishlist.console.action event.
type ActionData struct {
	Action     string  `json:"action"`
	Outcome    Outcome `json:"outcome"`
	WishlistID int64   `json:"wishlist_id,omitempty"`
	ItemID     int64   `json:"item_id,omitempty"`
	StatusCode int     `json:"status_code,omitempty"`
}

// ActionRecorder records console actions. Implementations must not fail the
// action they record.
type ActionRecorder interface {
	RecordAction(ctx context.Context, data ActionData)
}

// Publisher publishes event envelopes; *kafka.Producer satisfies it.
type Publisher interface {
	Publish(ctx context.Context, topic string, event *kafka.Event) error
}

// Producer records actions on Kafka.
type Producer struct {
	publisher Publisher
	logger    *slog.Logger
	timeout   time.Duration
}

var _ ActionRecorder = (*Producer)(nil)

// NewProducer creates a Kafka-backed action recorder.
func NewProducer(publisher Publisher, logger *slog.Logger) *Producer {
	return &Producer{publisher: publisher, logger: logger, timeout: 5 * time.Second}
}

// RecordAction publishes data keyed by wishlist id, falling back to the
// session id. Failures are logged and swallowed.
func (p *Producer) RecordAction(ctx context.Context, data ActionData) {
	session := logger.SessionIDFromContext(ctx)
	key := session
	if data.WishlistID > 0 {
		key = strconv.FormatInt(data.WishlistID, 10)
	}

	ev, err := kafka.NewEvent(EventTypeConsoleAction, data,
		kafka.WithAggregate(AggregateTypeWishlist, key),
		kafka.WithSource(SourceConsole),
		kafka.WithCorrelationID(logger.CorrelationIDFromContext(ctx)),
		kafka.WithMetadata("session_id", session),
	)
	if err != nil {
		p.logger.ErrorContext(ctx, "failed to build console action event",
			slog.String("action", data.Action),
			slog.String("error", err.Error()),
		)
		return
	}

	pubCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), p.timeout)
	defer cancel()
	if err := p.publisher.Publish(pubCtx, TopicConsoleActions, ev); err != nil {
		p.logger.WarnContext(ctx, "console action event dropped",
			slog.String("action", data.Action),
			slog.String("outcome", string(data.Outcome)),
			slog.String("error", err.Error()),
		)
	}
}

// Nop discards every action.
type Nop struct{}

var _ ActionRecorder = Nop{}

// RecordAction implements ActionRecorder.
func (Nop) RecordAction(context.Context, ActionData) {}
