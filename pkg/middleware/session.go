package middleware

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/Wishlist-Squad/Wishlist/pkg/logger"
)

// SessionHeader lets API clients pin a session without cookies.
const SessionHeader = "X-Session-ID"

// Session assigns every request a console session ID. The header wins over
// the cookie; when neither carries a valid UUID a new session is issued and
// the cookie is set on the response. The ID is stored with logger.WithSessionID.
func Session(cookieName string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := validSessionID(r.Header.Get(SessionHeader))
			if id == "" {
				if c, err := r.Cookie(cookieName); err == nil {
					id = validSessionID(c.Value)
				}
			}
			if id == "" {
				id = uuid.NewString()
				http.SetCookie(w, &http.Cookie{
					Name:     cookieName,
					Value:    id,
					Path:     "/",
					HttpOnly: true,
					SameSite: http.SameSiteLaxMode,
				})
			}

			ctx := logger.WithSessionID(r.Context(), id)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func validSessionID(raw string) string {
	if raw == "" {
		return ""
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return ""
	}
	return id.String()
}
