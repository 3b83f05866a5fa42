package embed

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func TestEmbedMiddleware_NoTokenPassesThrough(t *testing.T) {
	mw := NewMiddleware([]byte("test-secret"))
	var seen bool
	handler := mw.Wrap(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, seen = IdentityFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodPost, "/api/v1/simulations", nil)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	if seen {
		t.Fatalf("expected no identity without a token")
	}
}

func TestEmbedMiddleware_InvalidTokenRejected(t *testing.T) {
	mw := NewMiddleware([]byte("test-secret"))
	handler := mw.Wrap(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	token := mustToken(t, []byte("other-secret"), "partner-a")
	req := httptest.NewRequest(http.MethodPost, "/api/v1/simulations", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", resp.Code)
	}
}

func TestEmbedMiddleware_QueryTokenSetsIdentity(t *testing.T) {
	secret := []byte("test-secret")
	mw := NewMiddleware(secret)
	var identity Identity
	handler := mw.Wrap(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		identity, _ = IdentityFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/availability?embed_token="+mustToken(t, secret, "partner-a"), nil)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	if identity.PartnerID != "partner-a" || identity.CustomerName != "Ana Silva" || identity.Subject != "customer-1" {
		t.Fatalf("unexpected identity: %+v", identity)
	}
}

func TestNilMiddlewareDisabled(t *testing.T) {
	if NewMiddleware(nil) != nil {
		t.Fatalf("expected nil middleware without a secret")
	}
	var mw *Middleware
	handler := mw.Wrap(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer garbage")
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusNoContent {
		t.Fatalf("expected pass-through, got %d", resp.Code)
	}
}

func TestParseJWTRequiresPartner(t *testing.T) {
	secret := []byte("test-secret")
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{})
	signed, err := token.SignedString(secret)
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	if _, err := ParseJWT(signed, secret); !errors.Is(err, ErrMissingPartner) {
		t.Fatalf("expected ErrMissingPartner, got %v", err)
	}
}

func TestParseJWTRejectsExpired(t *testing.T) {
	secret := []byte("test-secret")
	signed, err := SignJWT(Claims{
		PartnerID:        "partner-1",
		RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour))},
	}, secret)
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	if _, err := ParseJWT(signed, secret); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
	if _, err := ParseJWT(signed, []byte("other")); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken for wrong secret, got %v", err)
	}
}

func mustToken(t *testing.T, secret []byte, partnerID string) string {
	t.Helper()
	signed, err := SignJWT(Claims{
		PartnerID:    partnerID,
		CustomerName: "Ana Silva",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "customer-1",
			IssuedAt:  jwt.NewNumericDate(time.Now().Add(-time.Minute)),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}, secret)
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return signed
}
