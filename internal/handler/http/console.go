package http

import (
	"bytes"
	"context"
	"embed"
	"html/template"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/Wishlist-Squad/Wishlist/internal/console"
	"github.com/Wishlist-Squad/Wishlist/internal/domain"
	"github.com/Wishlist-Squad/Wishlist/internal/event"
	apperrors "github.com/Wishlist-Squad/Wishlist/pkg/errors"
	"github.com/Wishlist-Squad/Wishlist/pkg/httputil"
	"github.com/Wishlist-Squad/Wishlist/pkg/logger"
)

const msgTooManyRequests = "Too many requests, please slow down"

//go:embed templates/*.html
var templateFS embed.FS

var pageTemplate = template.Must(
	template.New("console.html").Funcs(template.FuncMap{
		"label": actionLabel,
	}).ParseFS(templateFS, "templates/console.html"),
)

// Dispatcher runs one console action; *console.Controller satisfies it.
type Dispatcher interface {
	Dispatch(ctx context.Context, session string, action domain.Action, state domain.ViewState) console.Result
}

// ConsoleHandler serves the console page and the JSON action API.
type ConsoleHandler struct {
	actions Dispatcher
	logger  *slog.Logger
}

// NewConsoleHandler creates a new console HTTP handler.
func NewConsoleHandler(actions Dispatcher, logger *slog.Logger) *ConsoleHandler {
	return &ConsoleHandler{
		actions: actions,
		logger:  logger,
	}
}

type page struct {
	State           domain.ViewState
	WishlistActions []domain.Action
	ItemActions     []domain.Action

	Fields map[string]string
}

// Index handles GET /
func (h *ConsoleHandler) Index(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, http.StatusOK, domain.ViewState{})
}

// SubmitForm handles POST /actions/{action}
func (h *ConsoleHandler) SubmitForm(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, httputil.MaxBodyBytes)
	if err := r.ParseForm(); err != nil {
		httputil.WriteError(w, r, apperrors.InvalidInput("malformed form body"), h.logger)
		return
	}
	state := stateFromForm(r)

	action, err := domain.ParseAction(chi.URLParam(r, "action"))
	if err != nil {
		state.Flash = err.Error()
		h.render(w, r, http.StatusNotFound, state)
		return
	}

	res := h.actions.Dispatch(r.Context(), logger.SessionIDFromContext(r.Context()), action, state)
	h.render(w, r, http.StatusOK, res.State)
}

// TooManyRequests re-renders the page with the posted fields kept when a
// browser exceeds the action rate limit.
func (h *ConsoleHandler) TooManyRequests(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, httputil.MaxBodyBytes)
	var state domain.ViewState
	if err := r.ParseForm(); err == nil {
		state = stateFromForm(r)
	}
	state.Flash = msgTooManyRequests
	h.render(w, r, http.StatusTooManyRequests, state)
}

// SubmitJSON handles POST /api/v1/actions/{action}
func (h *ConsoleHandler) SubmitJSON(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "action")
	action, err := domain.ParseAction(name)
	if err != nil {
		httputil.WriteError(w, r, apperrors.NotFound("action", name), h.logger)
		return
	}

	var state domain.ViewState
	if err := httputil.DecodeJSON(r, &state); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	res := h.actions.Dispatch(r.Context(), logger.SessionIDFromContext(r.Context()), action, state)

	if res.Outcome == event.OutcomePending {
		conflict := apperrors.Conflict(res.State.Flash)
		httputil.WriteJSON(w, conflict.Status, httputil.Response{
			Data: res.State,
			Error: &httputil.ErrorResponse{
				Code:      conflict.Code,
				Message:   conflict.Message,
				RequestID: logger.CorrelationIDFromContext(r.Context()),
			},
		})
		return
	}
	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: res.State})
}

func (h *ConsoleHandler) render(w http.ResponseWriter, r *http.Request, status int, state domain.ViewState) {
	p := page{State: state, Fields: fieldNames}
	for _, a := range domain.Actions() {
		if a.IsItem() {
			p.ItemActions = append(p.ItemActions, a)
		} else {
			p.WishlistActions = append(p.WishlistActions, a)
		}
	}

	var buf bytes.Buffer
	if err := pageTemplate.Execute(&buf, p); err != nil {
		httputil.WriteError(w, r, apperrors.Internal(err), h.logger)
		return
	}

	noStore(w)
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

var fieldNames = map[string]string{
	"WishlistID":         fieldWishlistID,
	"WishlistName":       fieldWishlistName,
	"WishlistCustomerID": fieldWishlistCustomerID,
	"ItemID":             fieldItemID,
	"ItemWishlistID":     fieldItemWishlistID,
	"ProductID":          fieldProductID,
	"ProductName":        fieldProductName,
	"ItemPurchased":      fieldItemPurchased,
}

var actionLabels = map[domain.Action]string{
	domain.ActionCreate:       "Create",
	domain.ActionUpdate:       "Update",
	domain.ActionRetrieve:     "Retrieve",
	domain.ActionDelete:       "Delete",
	domain.ActionSearch:       "Search",
	domain.ActionClear:        "Clear",
	domain.ActionCreateItem:   "Add Item",
	domain.ActionRetrieveItem: "Retrieve Item",
	domain.ActionSearchItems:  "List Items",
	domain.ActionDeleteItem:   "Delete Item",
	domain.ActionPurchaseItem: "Purchase Item",
	domain.ActionClearItem:    "Clear Item",
}

func actionLabel(a domain.Action) string {
	if l, ok := actionLabels[a]; ok {
		return l
	}
	return a.String()
}
