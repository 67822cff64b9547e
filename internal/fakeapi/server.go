// Package fakeapi is an in-memory wishlist service speaking the REST contract
// the console consumes. It backs the console tests and local development.
package fakeapi

import (
	"encoding/json"
	"fmt"
	"mime"
	"net/http"
	"sort"
	"strconv"
	"sync"
	"sync/atomic"

	"github.com/go-chi/chi/v5"

	"github.com/Wishlist-Squad/Wishlist/internal/domain"
)

type failure struct {
	status  int
	message string
}

// Server stores wishlists in memory. The zero value is not usable; call New.
type Server struct {
	mu        sync.Mutex
	wishlists map[int64]*domain.Wishlist
	nextID    int64
	nextItem  int64
	fail      *failure

	requests atomic.Int64
}

// New creates an empty fake service.
func New() *Server {
	return &Server{wishlists: make(map[int64]*domain.Wishlist)}
}

// Requests returns how many wishlist API requests the server has received.
func (s *Server) Requests() int {
	return int(s.requests.Load())
}

// FailWith makes every following API request answer status with message.
func (s *Server) FailWith(status int, message string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fail = &failure{status: status, message: message}
}

// Recover undoes FailWith.
func (s *Server) Recover() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fail = nil
}

// Seed stores w with a fresh id, assigning ids to its products, and returns
// the stored copy.
func (s *Server) Seed(w domain.Wishlist) domain.Wishlist {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextID++
	w.ID = s.nextID
	products := make([]domain.Item, 0, len(w.Products))
	for _, it := range w.Products {
		s.nextItem++
		it.ID = s.nextItem
		it.WishlistID = w.ID
		products = append(products, it)
	}
	w.Products = products
	s.wishlists[w.ID] = &w
	return clone(&w)
}

// Handler returns the HTTP surface of the fake service.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"name": "Wishlist REST API Service", "version": "1.0"})
	})

	r.Route("/wishlists", func(r chi.Router) {
		r.Use(s.count, s.injectFailure)

		r.Get("/", s.listWishlists)
		r.Post("/", s.createWishlist)
		r.Get("/{wid}", s.getWishlist)
		r.Put("/{wid}", s.updateWishlist)
		r.Delete("/{wid}", s.deleteWishlist)

		r.Get("/{wid}/items", s.listItems)
		r.Post("/{wid}/items", s.createItem)
		r.Get("/{wid}/items/{iid}", s.getItem)
		r.Delete("/{wid}/items/{iid}", s.deleteItem)
		r.Put("/{wid}/items/{iid}/purchase", s.purchaseItem)
	})
	return r
}

func (s *Server) count(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.requests.Add(1)
		next.ServeHTTP(w, r)
	})
}

func (s *Server) injectFailure(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		f := s.fail
		s.mu.Unlock()
		if f != nil {
			writeError(w, f.status, f.message)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) listWishlists(w http.ResponseWriter, r *http.Request) {
	var customerID int64
	if raw := r.URL.Query().Get("customer_id"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			writeError(w, http.StatusBadRequest, "customer_id must be an integer")
			return
		}
		customerID = id
	}

	s.mu.Lock()
	out := make([]domain.Wishlist, 0, len(s.wishlists))
	for _, wl := range s.wishlists {
		if customerID != 0 && wl.CustomerID != customerID {
			continue
		}
		out = append(out, clone(wl))
	}
	s.mu.Unlock()

	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) createWishlist(w http.ResponseWriter, r *http.Request) {
	var req domain.WishlistRequest
	if !decode(w, r, &req) {
		return
	}
	if msg := validateWishlist(req); msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	stored := s.Seed(domain.Wishlist{Name: req.Name, CustomerID: req.CustomerID})
	w.Header().Set("Location", fmt.Sprintf("/wishlists/%d", stored.ID))
	writeJSON(w, http.StatusCreated, stored)
}

func (s *Server) getWishlist(w http.ResponseWriter, r *http.Request) {
	s.withWishlist(w, r, func(wl *domain.Wishlist) {
		writeJSON(w, http.StatusOK, clone(wl))
	})
}

func (s *Server) updateWishlist(w http.ResponseWriter, r *http.Request) {
	var req domain.WishlistRequest
	if !decode(w, r, &req) {
		return
	}
	if msg := validateWishlist(req); msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}
	s.withWishlist(w, r, func(wl *domain.Wishlist) {
		wl.Name = req.Name
		wl.CustomerID = req.CustomerID
		writeJSON(w, http.StatusOK, clone(wl))
	})
}

func (s *Server) deleteWishlist(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "wid")
	if !ok {
		return
	}
	s.mu.Lock()
	delete(s.wishlists, id)
	s.mu.Unlock()
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) listItems(w http.ResponseWriter, r *http.Request) {
	s.withWishlist(w, r, func(wl *domain.Wishlist) {
		writeJSON(w, http.StatusOK, clone(wl).Products)
	})
}

func (s *Server) createItem(w http.ResponseWriter, r *http.Request) {
	var req domain.ItemRequest
	if !decode(w, r, &req) {
		return
	}
	if req.ItemID <= 0 || req.Name == "" {
		writeError(w, http.StatusBadRequest, "Invalid Item: missing item_id or name")
		return
	}
	s.withWishlist(w, r, func(wl *domain.Wishlist) {
		s.nextItem++
		it := domain.Item{ID: s.nextItem, WishlistID: wl.ID, ItemID: req.ItemID, Name: req.Name, Purchased: req.Purchased}
		wl.Products = append(wl.Products, it)
		w.Header().Set("Location", fmt.Sprintf("/wishlists/%d/items/%d", wl.ID, it.ID))
		writeJSON(w, http.StatusCreated, it)
	})
}

func (s *Server) getItem(w http.ResponseWriter, r *http.Request) {
	s.withItem(w, r, func(_ *domain.Wishlist, i int, wl []domain.Item) {
		writeJSON(w, http.StatusOK, wl[i])
	})
}

func (s *Server) deleteItem(w http.ResponseWriter, r *http.Request) {
	wid, ok := pathID(w, r, "wid")
	if !ok {
		return
	}
	iid, ok := pathID(w, r, "iid")
	if !ok {
		return
	}

	s.mu.Lock()
	if wl, found := s.wishlists[wid]; found {
		for i := range wl.Products {
			if wl.Products[i].ID == iid {
				wl.Products = append(wl.Products[:i], wl.Products[i+1:]...)
				break
			}
		}
	}
	s.mu.Unlock()
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) purchaseItem(w http.ResponseWriter, r *http.Request) {
	s.withItem(w, r, func(_ *domain.Wishlist, i int, items []domain.Item) {
		items[i].Purchased = true
		writeJSON(w, http.StatusOK, items[i])
	})
}

// withWishlist runs fn under the store lock with the wishlist named by {wid},
// or answers 404.
func (s *Server) withWishlist(w http.ResponseWriter, r *http.Request, fn func(*domain.Wishlist)) {
	id, ok := pathID(w, r, "wid")
	if !ok {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	wl, found := s.wishlists[id]
	if !found {
		writeError(w, http.StatusNotFound, fmt.Sprintf("Wishlist with id '%d' was not found.", id))
		return
	}
	fn(wl)
}

func (s *Server) withItem(w http.ResponseWriter, r *http.Request, fn func(*domain.Wishlist, int, []domain.Item)) {
	iid, ok := pathID(w, r, "iid")
	if !ok {
		return
	}
	s.withWishlist(w, r, func(wl *domain.Wishlist) {
		for i := range wl.Products {
			if wl.Products[i].ID == iid {
				fn(wl, i, wl.Products)
				return
			}
		}
		writeError(w, http.StatusNotFound, fmt.Sprintf("Item with id '%d' was not found in wishlist '%d'.", iid, wl.ID))
	})
}

func validateWishlist(req domain.WishlistRequest) string {
	switch {
	case req.Name == "":
		return "Invalid Wishlist: missing name"
	case req.CustomerID <= 0:
		return "Invalid Wishlist: missing customer_id"
	}
	return ""
}

func pathID(w http.ResponseWriter, r *http.Request, param string) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, param), 10, 64)
	if err != nil || id <= 0 {
		writeError(w, http.StatusNotFound, "The requested URL was not found on the server.")
		return 0, false
	}
	return id, true
}

func decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType != "application/json" {
		writeError(w, http.StatusUnsupportedMediaType, "Content-Type must be application/json")
		return false
	}
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return false
	}
	return true
}

func clone(w *domain.Wishlist) domain.Wishlist {
	out := *w
	out.Products = append(make([]domain.Item, 0, len(w.Products)), w.Products...)
	return out
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]any{
		"status":  status,
		"error":   http.StatusText(status),
		"message": message,
	})
}
