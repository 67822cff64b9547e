package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/Wishlist-Squad/Wishlist/internal/domain"
	"github.com/Wishlist-Squad/Wishlist/pkg/httpclient"
	"github.com/Wishlist-Squad/Wishlist/pkg/logger"
	"github.com/Wishlist-Squad/Wishlist/pkg/middleware"
	"github.com/Wishlist-Squad/Wishlist/pkg/tracing"
)

const tracerName = "github.com/Wishlist-Squad/Wishlist/internal/client"

var backendRequestDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Name:    "console_backend_request_duration_seconds",
		Help:    "Duration of calls from the console to the wishlist service",
		Buckets: prometheus.DefBuckets,
	},
	[]string{"operation", "status"},
)

// WishlistAPI is the REST contract of the wishlist service.
type WishlistAPI interface {
	CreateWishlist(ctx context.Context, req domain.WishlistRequest) (*domain.Wishlist, error)
	UpdateWishlist(ctx context.Context, id int64, req domain.WishlistRequest) (*domain.Wishlist, error)
	GetWishlist(ctx context.Context, id int64) (*domain.Wishlist, error)
	DeleteWishlist(ctx context.Context, id int64) error
	ListWishlists(ctx context.Context, customerID *int64) ([]domain.Wishlist, error)

	CreateItem(ctx context.Context, wishlistID int64, req domain.ItemRequest) (*domain.Item, error)
	GetItem(ctx context.Context, wishlistID, itemID int64) (*domain.Item, error)
	ListItems(ctx context.Context, wishlistID int64) ([]domain.Item, error)
	DeleteItem(ctx context.Context, wishlistID, itemID int64) error
	PurchaseItem(ctx context.Context, wishlistID, itemID int64) (*domain.Item, error)
}

// HTTPDoer executes HTTP requests. httpclient.Client and
// httpclient.CircuitBreakerClient both satisfy it.
type HTTPDoer interface {
	Do(ctx context.Context, req *http.Request) (*http.Response, error)
}

// Getter issues plain GET requests. *httpclient.Client satisfies it.
type Getter interface {
	Get(ctx context.Context, url string) (*http.Response, error)
}

// Client calls the wishlist service over HTTP.
type Client struct {
	doer    HTTPDoer
	ready   Getter
	baseURL string
	logger  *slog.Logger
	tracer  trace.Tracer
}

var _ WishlistAPI = (*Client)(nil)

// Option configures a Client.
type Option func(*Client)

// WithReadiness sends Ping through g instead of the request doer. Health
// checks then never count against, or wait on, the doer's circuit breaker.
func WithReadiness(g Getter) Option {
	return func(c *Client) { c.ready = g }
}

// New creates a client for the service rooted at baseURL.
func New(baseURL string, doer HTTPDoer, logger *slog.Logger, opts ...Option) *Client {
	c := &Client{
		doer:    doer,
		ready:   doerGetter{doer},
		baseURL: strings.TrimRight(baseURL, "/"),
		logger:  logger,
		tracer:  tracing.Tracer(tracerName),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type doerGetter struct{ doer HTTPDoer }

func (d doerGetter) Get(ctx context.Context, url string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("create GET request: %w", err)
	}
	return d.doer.Do(ctx, req)
}

// CreateWishlist calls POST /wishlists.
func (c *Client) CreateWishlist(ctx context.Context, req domain.WishlistRequest) (*domain.Wishlist, error) {
	var out domain.Wishlist
	if err := c.call(ctx, "create_wishlist", http.MethodPost, "/wishlists", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateWishlist calls PUT /wishlists/{id}.
func (c *Client) UpdateWishlist(ctx context.Context, id int64, req domain.WishlistRequest) (*domain.Wishlist, error) {
	var out domain.Wishlist
	if err := c.call(ctx, "update_wishlist", http.MethodPut, wishlistPath(id), req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetWishlist calls GET /wishlists/{id}.
func (c *Client) GetWishlist(ctx context.Context, id int64) (*domain.Wishlist, error) {
	var out domain.Wishlist
	if err := c.call(ctx, "get_wishlist", http.MethodGet, wishlistPath(id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteWishlist calls DELETE /wishlists/{id}.
func (c *Client) DeleteWishlist(ctx context.Context, id int64) error {
	return c.call(ctx, "delete_wishlist", http.MethodDelete, wishlistPath(id), nil, nil)
}

// ListWishlists calls GET /wishlists, filtered by customer when customerID is set.
func (c *Client) ListWishlists(ctx context.Context, customerID *int64) ([]domain.Wishlist, error) {
	path := "/wishlists"
	if customerID != nil {
		path += "?" + url.Values{"customer_id": {strconv.FormatInt(*customerID, 10)}}.Encode()
	}
	var out []domain.Wishlist
	if err := c.call(ctx, "list_wishlists", http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// CreateItem calls POST /wishlists/{wid}/items.
func (c *Client) CreateItem(ctx context.Context, wishlistID int64, req domain.ItemRequest) (*domain.Item, error) {
	var out domain.Item
	if err := c.call(ctx, "create_item", http.MethodPost, wishlistPath(wishlistID)+"/items", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetItem calls GET /wishlists/{wid}/items/{iid}.
func (c *Client) GetItem(ctx context.Context, wishlistID, itemID int64) (*domain.Item, error) {
	var out domain.Item
	if err := c.call(ctx, "get_item", http.MethodGet, itemPath(wishlistID, itemID), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ListItems calls GET /wishlists/{wid}/items.
func (c *Client) ListItems(ctx context.Context, wishlistID int64) ([]domain.Item, error) {
	var out []domain.Item
	if err := c.call(ctx, "list_items", http.MethodGet, wishlistPath(wishlistID)+"/items", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// DeleteItem calls DELETE /wishlists/{wid}/items/{iid}.
func (c *Client) DeleteItem(ctx context.Context, wishlistID, itemID int64) error {
	return c.call(ctx, "delete_item", http.MethodDelete, itemPath(wishlistID, itemID), nil, nil)
}

// PurchaseItem calls PUT /wishlists/{wid}/items/{iid}/purchase with no body.
func (c *Client) PurchaseItem(ctx context.Context, wishlistID, itemID int64) (*domain.Item, error) {
	var out domain.Item
	if err := c.call(ctx, "purchase_item", http.MethodPut, itemPath(wishlistID, itemID)+"/purchase", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Ping reports whether the service answers at all. Any response below 500
// counts as reachable.
func (c *Client) Ping(ctx context.Context) error {
	resp, err := c.ready.Get(ctx, c.baseURL+"/")
	if err != nil {
		return fmt.Errorf("ping wishlist service: %w", err)
	}
	drain(resp.Body)
	if resp.StatusCode >= http.StatusInternalServerError {
		return fmt.Errorf("ping wishlist service: status %d", resp.StatusCode)
	}
	return nil
}

func wishlistPath(id int64) string {
	return "/wishlists/" + strconv.FormatInt(id, 10)
}

func itemPath(wishlistID, itemID int64) string {
	return wishlistPath(wishlistID) + "/items/" + strconv.FormatInt(itemID, 10)
}

// call sends one request and decodes a 2xx body into out when out is non-nil.
// Every failure is returned as an *APIError.
func (c *Client) call(ctx context.Context, op, method, path string, in, out any) (err error) {
	ctx, span := c.tracer.Start(ctx, "wishlist-service."+op,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("http.method", method),
			attribute.String("http.url", c.baseURL+path),
		),
	)
	defer span.End()

	start := time.Now()
	status := "error"
	defer func() {
		backendRequestDuration.WithLabelValues(op, status).Observe(time.Since(start).Seconds())
		if err != nil {
			tracing.RecordError(span, err)
		}
	}()

	var body io.Reader = http.NoBody
	if in != nil {
		raw, mErr := json.Marshal(in)
		if mErr != nil {
			return AsAPIError(fmt.Errorf("marshal %s request: %w", op, mErr))
		}
		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return AsAPIError(fmt.Errorf("create %s request: %w", op, err))
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if id := logger.CorrelationIDFromContext(ctx); id != "" {
		req.Header.Set(middleware.CorrelationHeader, id)
	}
	tracing.InjectHeaders(ctx, req.Header)

	resp, err := c.doer.Do(ctx, req)
	if err != nil {
		apiErr := AsAPIError(err)
		if apiErr.StatusCode > 0 {
			status = strconv.Itoa(apiErr.StatusCode)
		}
		c.logger.WarnContext(ctx, "wishlist service call failed",
			slog.String("operation", op),
			slog.Int("status", apiErr.StatusCode),
			slog.String("error", err.Error()),
		)
		return apiErr
	}
	status = strconv.Itoa(resp.StatusCode)
	span.SetAttributes(attribute.Int("http.status_code", resp.StatusCode))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := AsAPIError(httpclient.ReadStatusError(resp))
		level := slog.LevelWarn
		if httpclient.IsClientError(apiErr.StatusCode) {
			level = slog.LevelInfo
		}
		c.logger.Log(ctx, level, "wishlist service rejected request",
			slog.String("operation", op),
			slog.Int("status", apiErr.StatusCode),
			slog.String("message", apiErr.Message),
		)
		return apiErr
	}
	defer drain(resp.Body)

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &APIError{
			StatusCode: http.StatusBadGateway,
			Message:    "invalid response from wishlist service",
			Err:        fmt.Errorf("decode %s response: %w", op, err),
		}
	}
	return nil
}

func drain(body io.ReadCloser) {
	_, _ = io.Copy(io.Discard, io.LimitReader(body, 64<<10))
	_ = body.Close()
}
