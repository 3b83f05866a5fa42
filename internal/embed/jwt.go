package embed

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	// ErrInvalidToken is returned for tokens that fail signature or time checks.
	ErrInvalidToken = errors.New("embed: invalid token")
	// ErrMissingPartner is returned when a token names no partner.
	ErrMissingPartner = errors.New("embed: missing partner_id")
)

const clockSkew = 30 * time.Second

// Claims are carried by partner embed tokens. They prefill who a
// simulation is prepared for; they grant no privileges.
type Claims struct {
	PartnerID     string `json:"partner_id"`
	CustomerName  string `json:"customer_name,omitempty"`
	CustomerEmail string `json:"customer_email,omitempty"`
	CustomerPhone string `json:"customer_phone,omitempty"`
	jwt.RegisteredClaims
}

// Identity converts the claims into the request identity.
func (c Claims) Identity() Identity {
	return Identity{
		PartnerID:     c.PartnerID,
		Subject:       c.Subject,
		CustomerName:  c.CustomerName,
		CustomerEmail: c.CustomerEmail,
		CustomerPhone: c.CustomerPhone,
	}
}

// ParseJWT validates an HS256 embed token.
func ParseJWT(tokenString string, secret []byte) (*Claims, error) {
	if len(secret) == 0 {
		return nil, errors.New("embed: empty secret")
	}
	if tokenString == "" {
		return nil, fmt.Errorf("%w: empty", ErrInvalidToken)
	}

	claims := &Claims{}
	_, err := jwt.ParseWithClaims(tokenString, claims,
		func(*jwt.Token) (any, error) { return secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithLeeway(clockSkew),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}
	if claims.PartnerID == "" {
		return nil, ErrMissingPartner
	}
	return claims, nil
}

// SignJWT issues an HS256 embed token. Partner sites normally mint their own;
// this is used by tooling and tests.
func SignJWT(claims Claims, secret []byte) (string, error) {
	if len(secret) == 0 {
		return "", errors.New("embed: empty secret")
	}
	if claims.PartnerID == "" {
		return "", ErrMissingPartner
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
}
