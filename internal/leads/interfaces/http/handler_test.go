package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"energy-simulator/internal/audit"
	"energy-simulator/internal/embed"
	leadapp "energy-simulator/internal/leads/application"
	"energy-simulator/internal/leads/infrastructure/memory"
)

type auditSink struct {
	entries []audit.Entry
}

func (a *auditSink) Log(_ context.Context, entry audit.Entry) error {
	a.entries = append(a.entries, entry)
	return nil
}

func newHandler(t *testing.T, sink audit.Logger) (*Handler, *memory.LeadRepository) {
	t.Helper()
	repo := memory.NewLeadRepository()
	svc, err := leadapp.NewService(repo, leadapp.WithIDGenerator(func() string { return "lead-1" }))
	if err != nil {
		t.Fatalf("service: %v", err)
	}
	h, err := NewHandler(svc, sink, nil)
	if err != nil {
		t.Fatalf("handler: %v", err)
	}
	return h, repo
}

func TestCreateLead(t *testing.T) {
	sink := &auditSink{}
	h, repo := newHandler(t, sink)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/leads", strings.NewReader(`{"message":"call me","source":"widget"}`))
	req = req.WithContext(embed.WithIdentity(req.Context(), embed.Identity{
		PartnerID:     "partner-1",
		CustomerName:  "Ana",
		CustomerEmail: "ana@example.com",
	}))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("status got=%d want=%d body=%s", rec.Code, http.StatusCreated, rec.Body.String())
	}
	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body["lead_id"] != "lead-1" {
		t.Fatalf("lead id got=%s", body["lead_id"])
	}
	stored, err := repo.Get(context.Background(), "lead-1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if stored.Name != "Ana" || stored.PartnerID != "partner-1" || stored.Source != "widget" {
		t.Fatalf("unexpected lead: %+v", stored)
	}
	if len(sink.entries) != 1 || sink.entries[0].Action != audit.ActionLead {
		t.Fatalf("unexpected audit entries: %+v", sink.entries)
	}
}

func TestCreateLeadErrors(t *testing.T) {
	cases := []struct {
		name   string
		method string
		path   string
		body   string
		want   int
	}{
		{name: "method", method: http.MethodGet, path: "/api/v1/leads", want: http.StatusMethodNotAllowed},
		{name: "path", method: http.MethodPost, path: "/api/v1/leads/x", body: `{}`, want: http.StatusNotFound},
		{name: "json", method: http.MethodPost, path: "/api/v1/leads", body: `{`, want: http.StatusBadRequest},
		{name: "contact", method: http.MethodPost, path: "/api/v1/leads", body: `{"name":"Ana"}`, want: http.StatusBadRequest},
		{name: "input", method: http.MethodPost, path: "/api/v1/leads", body: `{"name":"Ana","phone":"1","input":{"type":"water"}}`, want: http.StatusBadRequest},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			h, _ := newHandler(t, nil)
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, httptest.NewRequest(tc.method, tc.path, strings.NewReader(tc.body)))
			if rec.Code != tc.want {
				t.Fatalf("status got=%d want=%d", rec.Code, tc.want)
			}
		})
	}
}
