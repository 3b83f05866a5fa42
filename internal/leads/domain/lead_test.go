package leads

import (
	"errors"
	"testing"
)

func TestLeadValidate(t *testing.T) {
	cases := []struct {
		name string
		lead Lead
		want error
	}{
		{name: "ok email", lead: Lead{Name: "Ana", Email: "ana@example.com"}},
		{name: "ok phone", lead: Lead{Name: "Ana", Phone: "912345678"}},
		{name: "no name", lead: Lead{Email: "ana@example.com"}, want: ErrEmptyName},
		{name: "no contact", lead: Lead{Name: "Ana"}, want: ErrMissingContact},
		{name: "bad email", lead: Lead{Name: "Ana", Email: "not-an-email"}, want: ErrInvalidEmail},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.lead.Validate()
			if tc.want == nil && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if tc.want != nil && !errors.Is(err, tc.want) {
				t.Fatalf("error got=%v want=%v", err, tc.want)
			}
		})
	}
}

func TestLeadNormalize(t *testing.T) {
	l := Lead{Name: "  Ana  ", Email: " ana@example.com "}
	l.Normalize()
	if l.Name != "Ana" || l.Email != "ana@example.com" {
		t.Fatalf("unexpected lead: %+v", l)
	}
}
