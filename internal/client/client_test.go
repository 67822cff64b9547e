package client

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/sony/gobreaker/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Wishlist-Squad/Wishlist/internal/domain"
	"github.com/Wishlist-Squad/Wishlist/internal/fakeapi"
	"github.com/Wishlist-Squad/Wishlist/pkg/httpclient"
	"github.com/Wishlist-Squad/Wishlist/pkg/logger"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

func newFakeClient(t *testing.T) (*Client, *fakeapi.Server) {
	t.Helper()
	fake := fakeapi.New()
	srv := httptest.NewServer(fake.Handler())
	t.Cleanup(srv.Close)

	cb := httpclient.NewCircuitBreakerClient(
		httpclient.New(httpclient.DefaultConfig()),
		httpclient.DefaultCircuitBreakerConfig("client-test-"+t.Name()),
		testLogger(),
	)
	return New(srv.URL+"/", cb, testLogger()), fake
}

func TestClient_WishlistRoundTrip(t *testing.T) {
	c, fake := newFakeClient(t)
	ctx := context.Background()

	created, err := c.CreateWishlist(ctx, domain.NewWishlistRequest("Birthday", 42))
	require.NoError(t, err)
	assert.Equal(t, int64(1), created.ID)

	updated, err := c.UpdateWishlist(ctx, created.ID, domain.NewWishlistRequest("Birthday 2", 42))
	require.NoError(t, err)
	assert.Equal(t, "Birthday 2", updated.Name)

	got, err := c.GetWishlist(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, updated, got)

	customer := int64(42)
	list, err := c.ListWishlists(ctx, &customer)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	require.NoError(t, c.DeleteWishlist(ctx, created.ID))
	assert.Equal(t, 5, fake.Requests())
}

func TestClient_ItemRoundTrip(t *testing.T) {
	c, fake := newFakeClient(t)
	ctx := context.Background()
	wl := fake.Seed(domain.Wishlist{Name: "Home", CustomerID: 3})

	item, err := c.CreateItem(ctx, wl.ID, domain.ItemRequest{WishlistID: wl.ID, ItemID: 1001, Name: "Lamp"})
	require.NoError(t, err)

	got, err := c.GetItem(ctx, wl.ID, item.ID)
	require.NoError(t, err)
	assert.Equal(t, item, got)

	purchased, err := c.PurchaseItem(ctx, wl.ID, item.ID)
	require.NoError(t, err)
	assert.True(t, purchased.Purchased)

	items, err := c.ListItems(ctx, wl.ID)
	require.NoError(t, err)
	assert.Equal(t, []domain.Item{*purchased}, items)

	require.NoError(t, c.DeleteItem(ctx, wl.ID, item.ID))
}

func TestClient_NotFoundCarriesServerMessage(t *testing.T) {
	c, _ := newFakeClient(t)

	_, err := c.GetWishlist(context.Background(), 99)
	require.Error(t, err)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusNotFound, apiErr.StatusCode)
	assert.Equal(t, "Wishlist with id '99' was not found.", apiErr.Message)
}

func TestClient_ServerErrorCarriesServerMessage(t *testing.T) {
	c, fake := newFakeClient(t)
	fake.FailWith(http.StatusInternalServerError, "database exploded")

	_, err := c.ListWishlists(context.Background(), nil)
	apiErr := AsAPIError(err)
	require.NotNil(t, apiErr)
	assert.Equal(t, http.StatusInternalServerError, apiErr.StatusCode)
	assert.Equal(t, "database exploded", apiErr.Message)
}

type recordingDoer struct {
	req  *http.Request
	body string
	resp *http.Response
	err  error
}

func (d *recordingDoer) Do(_ context.Context, req *http.Request) (*http.Response, error) {
	d.req = req
	if req.Body != nil {
		raw, _ := io.ReadAll(req.Body)
		d.body = string(raw)
	}
	return d.resp, d.err
}

func jsonResponse(status int, body string) *http.Response {
	return &http.Response{
		StatusCode: status,
		Header:     http.Header{"Content-Type": {"application/json"}},
		Body:       io.NopCloser(strings.NewReader(body)),
	}
}

func TestClient_RequestShape(t *testing.T) {
	doer := &recordingDoer{resp: jsonResponse(http.StatusCreated, `{"id":7,"name":"Birthday","customer_id":42,"products":[]}`)}
	c := New("http://wishlists.local", doer, testLogger())

	ctx := logger.WithCorrelationID(context.Background(), "corr-1")
	_, err := c.CreateWishlist(ctx, domain.NewWishlistRequest("Birthday", 42))
	require.NoError(t, err)

	require.NotNil(t, doer.req)
	assert.Equal(t, http.MethodPost, doer.req.Method)
	assert.Equal(t, "http://wishlists.local/wishlists", doer.req.URL.String())
	assert.Equal(t, "application/json", doer.req.Header.Get("Content-Type"))
	assert.Equal(t, "application/json", doer.req.Header.Get("Accept"))
	assert.Equal(t, "corr-1", doer.req.Header.Get("X-Correlation-ID"))
	assert.JSONEq(t, `{"name":"Birthday","customer_id":42,"products":[]}`, doer.body)
}

func TestClient_PurchaseSendsNoBody(t *testing.T) {
	doer := &recordingDoer{resp: jsonResponse(http.StatusOK, `{"id":9,"wishlist_id":5,"item_id":1,"name":"x","purchased":true}`)}
	c := New("http://wishlists.local", doer, testLogger())

	_, err := c.PurchaseItem(context.Background(), 5, 9)
	require.NoError(t, err)

	assert.Equal(t, http.MethodPut, doer.req.Method)
	assert.Equal(t, "/wishlists/5/items/9/purchase", doer.req.URL.Path)
	assert.Empty(t, doer.req.Header.Get("Content-Type"))
	assert.Empty(t, doer.body)
}

func TestClient_ListWishlistsOmitsBlankFilter(t *testing.T) {
	doer := &recordingDoer{resp: jsonResponse(http.StatusOK, `[]`)}
	c := New("http://wishlists.local", doer, testLogger())

	list, err := c.ListWishlists(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, list)
	assert.Empty(t, doer.req.URL.RawQuery)

	doer.resp = jsonResponse(http.StatusOK, `[]`)
	id := int64(42)
	_, err = c.ListWishlists(context.Background(), &id)
	require.NoError(t, err)
	assert.Equal(t, "customer_id=42", doer.req.URL.RawQuery)
}

func TestClient_NonJSONErrorBody(t *testing.T) {
	doer := &recordingDoer{resp: &http.Response{
		StatusCode: http.StatusBadRequest,
		Body:       io.NopCloser(bytes.NewBufferString("<html>bad</html>")),
	}}
	c := New("http://wishlists.local", doer, testLogger())

	_, err := c.GetWishlist(context.Background(), 1)
	apiErr := AsAPIError(err)
	assert.Equal(t, http.StatusBadRequest, apiErr.StatusCode)
	assert.Equal(t, "Bad Request", apiErr.Message)
}

func TestClient_InvalidSuccessBody(t *testing.T) {
	doer := &recordingDoer{resp: jsonResponse(http.StatusOK, `not json`)}
	c := New("http://wishlists.local", doer, testLogger())

	_, err := c.GetWishlist(context.Background(), 1)
	apiErr := AsAPIError(err)
	assert.Equal(t, http.StatusBadGateway, apiErr.StatusCode)
	assert.Equal(t, "invalid response from wishlist service", apiErr.Message)
}

func TestClient_TransportFailure(t *testing.T) {
	doer := &recordingDoer{err: errors.New("dial tcp: connection refused")}
	c := New("http://wishlists.local", doer, testLogger())

	err := c.DeleteWishlist(context.Background(), 1)
	apiErr := AsAPIError(err)
	assert.Equal(t, http.StatusBadGateway, apiErr.StatusCode)
	assert.Equal(t, "wishlist service is unreachable", apiErr.Message)
}

func TestClient_BreakerOpen(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	t.Cleanup(srv.Close)

	cbCfg := httpclient.DefaultCircuitBreakerConfig("client-test-open")
	cbCfg.MinRequests = 1
	cbCfg.FailureRatio = 0.5
	cbCfg.Timeout = time.Minute
	cb := httpclient.NewCircuitBreakerClient(httpclient.New(httpclient.DefaultConfig()), cbCfg, testLogger())
	c := New(srv.URL, cb, testLogger())

	_, err := c.GetWishlist(context.Background(), 1)
	assert.Equal(t, http.StatusServiceUnavailable, AsAPIError(err).StatusCode)

	_, err = c.GetWishlist(context.Background(), 1)
	apiErr := AsAPIError(err)
	assert.Equal(t, http.StatusServiceUnavailable, apiErr.StatusCode)
	assert.Equal(t, "wishlist service is temporarily unavailable", apiErr.Message)
}

func TestClient_Ping(t *testing.T) {
	c, _ := newFakeClient(t)
	assert.NoError(t, c.Ping(context.Background()))

	down := New("http://wishlists.local", &recordingDoer{err: errors.New("refused")}, testLogger())
	assert.Error(t, down.Ping(context.Background()))

	broken := New("http://wishlists.local", &recordingDoer{resp: jsonResponse(http.StatusBadGateway, `{}`)}, testLogger())
	assert.Error(t, broken.Ping(context.Background()))
}

func TestClient_PingBypassesBreaker(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	t.Cleanup(srv.Close)

	plain := httpclient.New(httpclient.DefaultConfig())
	cbCfg := httpclient.DefaultCircuitBreakerConfig("ping-" + t.Name())
	cbCfg.MinRequests = 1
	cb := httpclient.NewCircuitBreakerClient(plain, cbCfg, testLogger())
	c := New(srv.URL, cb, testLogger(), WithReadiness(plain))

	for i := 0; i < 5; i++ {
		assert.Error(t, c.Ping(context.Background()))
	}
	assert.Equal(t, int32(5), hits.Load())
	assert.Equal(t, gobreaker.StateClosed, cb.State())
}

func TestClient_RejectionLogLevel(t *testing.T) {
	tests := []struct {
		status int
		level  string
	}{
		{http.StatusNotFound, "INFO"},
		{http.StatusUnprocessableEntity, "INFO"},
		{http.StatusInternalServerError, "WARN"},
	}
	for _, tc := range tests {
		t.Run(http.StatusText(tc.status), func(t *testing.T) {
			var buf bytes.Buffer
			doer := &recordingDoer{resp: jsonResponse(tc.status, `{"message":"nope"}`)}
			c := New("http://wishlists.local", doer, slog.New(slog.NewJSONHandler(&buf, nil)))

			_, err := c.GetWishlist(context.Background(), 1)
			require.Error(t, err)
			assert.Contains(t, buf.String(), `"level":"`+tc.level+`"`)
			assert.Contains(t, buf.String(), "wishlist service rejected request")
		})
	}
}

func TestAsAPIError(t *testing.T) {
	assert.Nil(t, AsAPIError(nil))

	original := &APIError{StatusCode: 404, Message: "gone"}
	assert.Same(t, original, AsAPIError(original))

	assert.Equal(t, http.StatusGatewayTimeout, AsAPIError(context.DeadlineExceeded).StatusCode)

	wrapped := AsAPIError(&httpclient.StatusError{StatusCode: 500, Body: []byte(`{"message":"boom"}`)})
	assert.Equal(t, "boom", wrapped.Message)
	assert.Equal(t, "wishlist service: status 500: boom", wrapped.Error())
}
