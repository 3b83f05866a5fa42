package http

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"time"

	"energy-simulator/internal/audit"
	"energy-simulator/internal/embed"
	leadapp "energy-simulator/internal/leads/application"
	leads "energy-simulator/internal/leads/domain"
	simulation "energy-simulator/internal/simulation/domain"
	simhttp "energy-simulator/internal/simulation/interfaces/http"
)

// LeadRequest is the body of a contact request.
type LeadRequest struct {
	Name    string                `json:"name"`
	Email   string                `json:"email"`
	Phone   string                `json:"phone"`
	Message string                `json:"message"`
	Source  string                `json:"source"`
	Input   *simhttp.InputRequest `json:"input,omitempty"`
}

// Handler provides the lead endpoint.
type Handler struct {
	service     *leadapp.Service
	auditLogger audit.Logger
	logger      *log.Logger
}

// NewHandler constructs a handler.
func NewHandler(service *leadapp.Service, auditLogger audit.Logger, logger *log.Logger) (*Handler, error) {
	if service == nil {
		return nil, errors.New("leads handler: nil service")
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Handler{service: service, auditLogger: auditLogger, logger: logger}, nil
}

// ServeHTTP handles /api/v1/leads.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/api/v1/leads" {
		w.WriteHeader(http.StatusNotFound)
		return
	}
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	raw, err := io.ReadAll(http.MaxBytesReader(w, r.Body, 1<<20))
	if err != nil {
		http.Error(w, "invalid body", http.StatusBadRequest)
		return
	}
	var req LeadRequest
	if err := json.NewDecoder(bytes.NewReader(raw)).Decode(&req); err != nil {
		http.Error(w, "invalid json", http.StatusBadRequest)
		return
	}

	identity, _ := embed.IdentityFromContext(r.Context())
	sub := leadapp.Submission{
		Name:      firstNonEmpty(req.Name, identity.CustomerName),
		Email:     firstNonEmpty(req.Email, identity.CustomerEmail),
		Phone:     firstNonEmpty(req.Phone, identity.CustomerPhone),
		Message:   req.Message,
		Source:    req.Source,
		PartnerID: identity.PartnerID,
	}
	if req.Input != nil {
		in, err := req.Input.ToInput()
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		sub.Input = &in
	}

	lead, err := h.service.Submit(r.Context(), sub)
	if err != nil {
		switch {
		case errors.Is(err, leads.ErrEmptyName),
			errors.Is(err, leads.ErrMissingContact),
			errors.Is(err, leads.ErrInvalidEmail),
			errors.Is(err, simulation.ErrInvalidInput):
			http.Error(w, err.Error(), http.StatusBadRequest)
		default:
			h.logger.Printf("lead submit error: %v", err)
			http.Error(w, "internal error", http.StatusInternalServerError)
		}
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	_ = json.NewEncoder(w).Encode(map[string]string{"lead_id": lead.ID})

	h.logAudit(r, identity, lead, raw)
}

func (h *Handler) logAudit(r *http.Request, identity embed.Identity, lead *leads.Lead, payload []byte) {
	if h.auditLogger == nil {
		return
	}
	metadata, _ := json.Marshal(map[string]any{
		"source":        lead.Source,
		"best_provider": lead.BestProvider,
	})
	if err := h.auditLogger.Log(r.Context(), audit.Entry{
		ID:            audit.NewID(),
		PartnerID:     identity.PartnerID,
		Subject:       identity.Subject,
		Action:        audit.ActionLead,
		ResourceType:  "lead",
		ResourceID:    lead.ID,
		Metadata:      metadata,
		PayloadDigest: audit.DigestJSON(payload),
		IP:            audit.ClientIP(r),
		UserAgent:     r.UserAgent(),
		CreatedAt:     time.Now().UTC(),
	}); err != nil {
		h.logger.Printf("audit log error: %v", err)
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
