package rest

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"acme-explorer-service/internal/domain/entity"
)

type actorKey struct{}

// Claims is the bearer token payload: the actor id in sub plus its role
type Claims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// Authenticator verifies HS256 bearer tokens and turns them into actors
type Authenticator struct {
	secret []byte
}

// NewAuthenticator creates an authenticator for secret
func NewAuthenticator(secret string) *Authenticator {
	return &Authenticator{secret: []byte(secret)}
}

// IssueToken signs a token for actor valid for ttl
func (a *Authenticator) IssueToken(actor entity.Actor, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		Role: string(actor.Role),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   actor.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(a.secret)
}

// ParseToken verifies a raw token and returns the actor it names
func (a *Authenticator) ParseToken(raw string) (entity.Actor, error) {
	var claims Claims
	_, err := jwt.ParseWithClaims(raw, &claims, func(t *jwt.Token) (interface{}, error) {
		return a.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return entity.Actor{}, fmt.Errorf("%w: %v", entity.ErrUnauthorized, err)
	}

	if claims.Subject == "" {
		return entity.Actor{}, fmt.Errorf("%w: token has no subject", entity.ErrUnauthorized)
	}
	role, ok := entity.ParseRole(claims.Role)
	if !ok {
		return entity.Actor{}, fmt.Errorf("%w: unknown role %q", entity.ErrUnauthorized, claims.Role)
	}
	return entity.Actor{ID: claims.Subject, Role: role}, nil
}

func bearerToken(r *http.Request) (string, bool) {
	h := r.Header.Get("Authorization")
	scheme, token, ok := strings.Cut(h, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(token) == "" {
		return "", false
	}
	return strings.TrimSpace(token), true
}

// RequireActor rejects requests without a valid bearer token with 401
func (a *Authenticator) RequireActor(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, ok := bearerToken(r)
		if !ok {
			writeError(w, r, fmt.Errorf("%w: missing bearer token", entity.ErrUnauthorized), nil)
			return
		}
		actor, err := a.ParseToken(raw)
		if err != nil {
			writeError(w, r, err, nil)
			return
		}
		next.ServeHTTP(w, r.WithContext(withActor(r.Context(), actor)))
	})
}

// OptionalActor attaches an actor when a valid token is present and lets
// anonymous requests through. An invalid token is still rejected.
func (a *Authenticator) OptionalActor(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, ok := bearerToken(r)
		if !ok {
			next.ServeHTTP(w, r)
			return
		}
		actor, err := a.ParseToken(raw)
		if err != nil {
			writeError(w, r, err, nil)
			return
		}
		next.ServeHTTP(w, r.WithContext(withActor(r.Context(), actor)))
	})
}

func withActor(ctx context.Context, actor entity.Actor) context.Context {
	return context.WithValue(ctx, actorKey{}, actor)
}

// ActorFromContext returns the authenticated actor, if any
func ActorFromContext(ctx context.Context) (entity.Actor, bool) {
	actor, ok := ctx.Value(actorKey{}).(entity.Actor)
	return actor, ok
}

// mustActor is used behind RequireActor where the actor is always present
func mustActor(r *http.Request) (entity.Actor, error) {
	actor, ok := ActorFromContext(r.Context())
	if !ok {
		return entity.Actor{}, fmt.Errorf("%w: no actor in request context", entity.ErrUnauthorized)
	}
	return actor, nil
}
