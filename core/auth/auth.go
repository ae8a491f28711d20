package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"institute/api/web"
	"institute/api/weberr"
	"institute/core/claims"

	"github.com/alexedwards/scs/v2"
)

const (
	userIDKey    = "user_id"
	studentIDKey = "student_id"
	roleKey      = "role"
)

// Sessions loads the caller's session from a bearer token or the session
// cookie and, when a login is recorded there, places claims on the context.
// Handlers that mutate the session commit it themselves before responding
// so the token can travel in the response body as well as the cookie.
func Sessions(s *scs.SessionManager) web.Middleware {
	m := func(handler web.Handler) web.Handler {
		h := func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
			token := bearerToken(r)
			if token == "" {
				if cookie, err := r.Cookie(s.Cookie.Name); err == nil {
					token = cookie.Value
				}
			}

			ctx, err := s.Load(ctx, token)
			if err != nil {
				return fmt.Errorf("loading session: %w", err)
			}

			if uid := s.GetString(ctx, userIDKey); uid != "" {
				ctx = claims.Set(ctx, claims.Claims{
					UserID:    uid,
					StudentID: s.GetString(ctx, studentIDKey),
					Role:      s.GetString(ctx, roleKey),
				})
			}

			return handler(ctx, w, r)
		}
		return h
	}
	return m
}

// Authenticate rejects requests that carry no login claims.
func Authenticate(s *scs.SessionManager) web.Middleware {
	m := func(handler web.Handler) web.Handler {
		h := func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
			if _, err := claims.Get(ctx); err != nil {
				return weberr.NotAuthorized(errors.New("user not authenticated"))
			}

			return handler(ctx, w, r)
		}
		return h
	}
	return m
}

// Admin rejects requests from anyone but administrators.
func Admin(s *scs.SessionManager) web.Middleware {
	m := func(handler web.Handler) web.Handler {
		h := func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
			if !claims.IsAdmin(ctx) {
				return weberr.NotAuthorized(errors.New("admin role required"))
			}

			return handler(ctx, w, r)
		}
		return h
	}
	return m
}

func bearerToken(r *http.Request) string {
	h := r.Header.Get("Authorization")
	if h == "" {
		return ""
	}

	parts := strings.SplitN(h, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}

	return parts[1]
}
