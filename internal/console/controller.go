// Package console implements the wishlist form controller: every console
// button is an action that validates the typed ids, makes at most one call to
// the wishlist service and returns the next view state.
package console

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/Wishlist-Squad/Wishlist/internal/client"
	"github.com/Wishlist-Squad/Wishlist/internal/domain"
	"github.com/Wishlist-Squad/Wishlist/internal/event"
	"github.com/Wishlist-Squad/Wishlist/internal/guard"
	"github.com/Wishlist-Squad/Wishlist/pkg/logger"
	"github.com/Wishlist-Squad/Wishlist/pkg/tracing"
	"github.com/Wishlist-Squad/Wishlist/pkg/validator"
)

const tracerName = "github.com/Wishlist-Squad/Wishlist/internal/console"

// Result is the outcome of one action.
type Result struct {
	State   domain.ViewState
	Outcome event.Outcome
	// StatusCode is the wishlist service status of a failed call.
	StatusCode int

	wishlistID int64
	itemID     int64
}

// Controller runs console actions against the wishlist service.
type Controller struct {
	api    client.WishlistAPI
	guard  guard.Guard
	events event.ActionRecorder
	logger *slog.Logger
	tracer trace.Tracer
}

// NewController creates a controller. A nil recorder disables action events.
func NewController(api client.WishlistAPI, g guard.Guard, events event.ActionRecorder, logger *slog.Logger) *Controller {
	if events == nil {
		events = event.Nop{}
	}
	return &Controller{
		api:    api,
		guard:  g,
		events: events,
		logger: logger,
		tracer: tracing.Tracer(tracerName),
	}
}

// Dispatch runs action for session on state. While the same action is in
// flight for the session, Dispatch makes no call and returns the state with a
// please-wait flash and OutcomePending. Clear actions bypass the guard.
// Callers always supply a session; the HTTP layer mints one per cookieless
// request.
func (c *Controller) Dispatch(ctx context.Context, session string, action domain.Action, state domain.ViewState) Result {
	if action.IsLocal() {
		return c.run(ctx, action, state)
	}

	ctx, span := c.tracer.Start(ctx, "console."+action.String(),
		trace.WithAttributes(attribute.String("console.action", action.String())),
	)
	defer span.End()

	log := logger.WithContext(ctx, c.logger)

	release, ok, err := c.guard.Acquire(ctx, guard.Key(session, action.String()))
	switch {
	case err != nil:
		// The action still runs; only duplicate suppression is lost.
		log.WarnContext(ctx, "pending guard unavailable",
			slog.String("action", action.String()),
			slog.String("error", err.Error()),
		)
	case !ok:
		state.Flash = fmt.Sprintf(msgPending, action)
		res := Result{State: state, Outcome: event.OutcomePending}
		c.finish(ctx, span, action, res)
		return res
	default:
		defer release()
	}

	res := c.run(ctx, action, state)
	c.finish(ctx, span, action, res)

	log.InfoContext(ctx, "console action",
		slog.String("action", action.String()),
		slog.String("outcome", string(res.Outcome)),
		slog.Int("status_code", res.StatusCode),
	)
	return res
}

func (c *Controller) finish(ctx context.Context, span trace.Span, action domain.Action, res Result) {
	span.SetAttributes(attribute.String("console.outcome", string(res.Outcome)))
	if res.StatusCode > 0 {
		span.SetAttributes(attribute.Int("console.status_code", res.StatusCode))
	}
	actionsTotal.WithLabelValues(action.String(), string(res.Outcome)).Inc()
	c.events.RecordAction(ctx, event.ActionData{
		Action:     action.String(),
		Outcome:    res.Outcome,
		WishlistID: res.wishlistID,
		ItemID:     res.itemID,
		StatusCode: res.StatusCode,
	})
}

func (c *Controller) run(ctx context.Context, action domain.Action, state domain.ViewState) Result {
	switch action {
	case domain.ActionCreate:
		return c.CreateWishlist(ctx, state)
	case domain.ActionUpdate:
		return c.UpdateWishlist(ctx, state)
	case domain.ActionRetrieve:
		return c.RetrieveWishlist(ctx, state)
	case domain.ActionDelete:
		return c.DeleteWishlist(ctx, state)
	case domain.ActionSearch:
		return c.SearchWishlists(ctx, state)
	case domain.ActionClear:
		return c.ClearWishlist(state)
	case domain.ActionCreateItem:
		return c.CreateItem(ctx, state)
	case domain.ActionRetrieveItem:
		return c.RetrieveItem(ctx, state)
	case domain.ActionSearchItems:
		return c.SearchItems(ctx, state)
	case domain.ActionDeleteItem:
		return c.DeleteItem(ctx, state)
	case domain.ActionPurchaseItem:
		return c.PurchaseItem(ctx, state)
	case domain.ActionClearItem:
		return c.ClearItem(state)
	default:
		state.Flash = fmt.Sprintf("Unknown action %q", action)
		return Result{State: state, Outcome: event.OutcomeInvalid}
	}
}

// invalid reports the first failed check of in, in field order. It returns
// false when in is valid.
func invalid(in any, state *domain.ViewState, res *Result) bool {
	err := validator.Validate(in)
	if err == nil {
		return false
	}
	var vErr *validator.ValidationError
	if errors.As(err, &vErr) {
		state.Flash = vErr.First()
	} else {
		state.Flash = err.Error()
	}
	res.State = *state
	res.Outcome = event.OutcomeInvalid
	return true
}

// failed projects a service error onto the flash with hint in front of the
// service's message.
func failed(err error, hint string, state domain.ViewState, res Result) Result {
	apiErr := client.AsAPIError(err)
	state.Flash = hint + apiErr.Message
	res.State = state
	res.Outcome = event.OutcomeFailure
	res.StatusCode = apiErr.StatusCode
	return res
}

// masked reports a failed delete with the fixed generic message.
func masked(err error, state domain.ViewState, res Result) Result {
	res = failed(err, "", state, res)
	res.State.Flash = msgServerError
	return res
}

func succeeded(state domain.ViewState, res Result) Result {
	res.State = state
	res.Outcome = event.OutcomeSuccess
	return res
}

func id(s string) int64 {
	n, _ := validator.ParsePositiveInt(s)
	return n
}
