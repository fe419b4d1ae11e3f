package auth

import (
	"net/http"
)

// Middleware decorates requests with the caller's Identity.
type Middleware struct {
	Signer  Signer
	Cookies Cookies
	Users   *Users
}

// identify resolves a valid token to an existing user, or nil.
func (m Middleware) identify(r *http.Request) *Identity {
	tok := m.Cookies.BearerOrCookie(r)
	if tok == "" {
		return nil
	}
	id, err := m.Signer.Parse(tok)
	if err != nil {
		return nil
	}
	// Ensure user still exists
	if _, err := m.Users.FindByID(r.Context(), id.ID); err != nil {
		return nil
	}
	return id
}

// Optional attaches the Identity when a valid token is present. It never 401s.
func (m Middleware) Optional(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if id := m.identify(r); id != nil {
			r = r.WithContext(WithIdentity(r.Context(), id))
		}
		next.ServeHTTP(w, r)
	})
}

// Require rejects requests without a valid token.
func (m Middleware) Require(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := m.identify(r)
		if id == nil {
			http.Error(w, `{"error":"Unauthorized"}`, http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), id)))
	})
}
