package http

import (
	"net/http"
	"strings"

	"github.com/Wishlist-Squad/Wishlist/pkg/httputil"
)

// ContentTypeJSON rejects request bodies that are declared as anything other
// than application/json.
func ContentTypeJSON(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ct := r.Header.Get("Content-Type")
		if ct != "" && !strings.HasPrefix(ct, "application/json") {
			httputil.WriteJSON(w, http.StatusUnsupportedMediaType, httputil.Response{
				Error: &httputil.ErrorResponse{
					Code:    "UNSUPPORTED_MEDIA_TYPE",
					Message: "Content-Type must be application/json",
				},
			})
			return
		}
		next.ServeHTTP(w, r)
	})
}

// noStore keeps browsers from caching pages that carry form state.
func noStore(w http.ResponseWriter) {
	w.Header().Set("Cache-Control", "no-store")
}
