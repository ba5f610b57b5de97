package main

import (
	"context"
	"encoding/base64"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"gigbay/internal/policy"

	"github.com/golang-jwt/jwt/v5"
)

type subjectKey string

const subjectCtx subjectKey = "subject"

// SubjectMiddleware resolves the caller into a policy subject and stores it
// in the request context. It never rejects: a missing, malformed, or invalid
// token leaves the subject anonymous so handlers can validate the payload
// first and let the access policy report the credential problem afterwards.
func (app *application) SubjectMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sub := policy.Anonymous()

		if token := bearerToken(r); token != "" {
			if resolved, ok := app.resolveSubject(r.Context(), token); ok {
				sub = resolved
			}
		}

		ctx := context.WithValue(r.Context(), subjectCtx, sub)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func bearerToken(r *http.Request) string {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return ""
	}

	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		return ""
	}
	return parts[1]
}

func (app *application) resolveSubject(ctx context.Context, token string) (policy.Subject, bool) {
	jwtToken, err := app.authenticator.ValidateAccessToken(token)
	if err != nil {
		return policy.Subject{}, false
	}

	claims, ok := jwtToken.Claims.(jwt.MapClaims)
	if !ok {
		return policy.Subject{}, false
	}

	userID, err := strconv.ParseInt(fmt.Sprintf("%.f", claims["sub"]), 10, 64)
	if err != nil {
		return policy.Subject{}, false
	}

	// The role claim is advisory; the stored role wins, so a role change
	// takes effect without waiting for token expiry.
	user, err := app.store.Users.GetByID(ctx, userID)
	if err != nil {
		return policy.Subject{}, false
	}

	return policy.User(user.ID, policy.Role(user.Role)), true
}

func subjectFromContext(r *http.Request) policy.Subject {
	sub, ok := r.Context().Value(subjectCtx).(policy.Subject)
	if !ok {
		return policy.Anonymous()
	}
	return sub
}

func (app *application) BasicAuthMiddleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				app.unauthorizedBasicErrorResponse(w, r, fmt.Errorf("authorization header is missing"))
				return
			}

			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || parts[0] != "Basic" {
				app.unauthorizedBasicErrorResponse(w, r, fmt.Errorf("authorization header is malformed"))
				return
			}

			decoded, err := base64.StdEncoding.DecodeString(parts[1])
			if err != nil {
				app.unauthorizedBasicErrorResponse(w, r, err)
				return
			}

			username := app.config.auth.basic.user
			pass := app.config.auth.basic.pass

			creds := strings.SplitN(string(decoded), ":", 2)
			if len(creds) != 2 || creds[0] != username || creds[1] != pass {
				app.unauthorizedBasicErrorResponse(w, r, fmt.Errorf("invalid credentials"))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func (app *application) RateLimiterMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if app.config.rateLimiter.Enabled {
			if allow, retryAfter := app.rateLimiter.Allow(r.RemoteAddr); !allow {
				app.rateLimitExceededResponse(w, r, retryAfter.String())
				return
			}
		}

		next.ServeHTTP(w, r)
	})
}
