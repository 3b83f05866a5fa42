package leads

import (
	"context"
	"encoding/json"
	"net/mail"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Lead is a contact request left by a visitor, optionally with the result
// of the simulation they ran.
type Lead struct {
	ID              string
	Name            string
	Email           string
	Phone           string
	Message         string
	Source          string
	PartnerID       string
	SimulationType  string
	CurrentProvider string
	BestProvider    string
	BestSavings     *decimal.Decimal
	Summary         json.RawMessage
	CreatedAt       time.Time
}

// Normalize trims contact fields.
func (l *Lead) Normalize() {
	l.Name = strings.TrimSpace(l.Name)
	l.Email = strings.TrimSpace(l.Email)
	l.Phone = strings.TrimSpace(l.Phone)
	l.Message = strings.TrimSpace(l.Message)
}

// Validate checks the contact data.
func (l Lead) Validate() error {
	if strings.TrimSpace(l.Name) == "" {
		return ErrEmptyName
	}
	email := strings.TrimSpace(l.Email)
	if email == "" && strings.TrimSpace(l.Phone) == "" {
		return ErrMissingContact
	}
	if email != "" {
		if _, err := mail.ParseAddress(email); err != nil {
			return ErrInvalidEmail
		}
	}
	return nil
}

// Repository persists leads.
type Repository interface {
	Save(ctx context.Context, lead Lead) error
	Get(ctx context.Context, id string) (*Lead, error)
}
