package http

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"strconv"
	"time"

	"energy-simulator/internal/audit"
	"energy-simulator/internal/embed"
	"energy-simulator/internal/format"
	"energy-simulator/internal/observability/metrics"
	simapp "energy-simulator/internal/simulation/application"
	simulation "energy-simulator/internal/simulation/domain"
	"energy-simulator/internal/simulation/interfaces"
)

const (
	contentTypePDF  = "application/pdf"
	contentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

	maxBodyBytes = 1 << 20
)

// ComparisonResponse is the body returned for a simulation run.
type ComparisonResponse struct {
	*simulation.Comparison
	NoProviders bool   `json:"no_providers"`
	ContactURL  string `json:"contact_url,omitempty"`
}

// Handler provides simulation HTTP endpoints.
type Handler struct {
	service     *simapp.ComparisonService
	messages    *interfaces.Messages
	auditLogger audit.Logger
	companyName string
	formatter   *format.Formatter
	logger      *log.Logger
}

// Option configures the handler.
type Option func(*Handler)

// WithAuditLogger records simulation actions.
func WithAuditLogger(logger audit.Logger) Option {
	return func(h *Handler) {
		h.auditLogger = logger
	}
}

// WithCompanyName sets the name printed on exports.
func WithCompanyName(name string) Option {
	return func(h *Handler) {
		h.companyName = name
	}
}

// WithFormatter sets the number formatter used by exports.
func WithFormatter(f *format.Formatter) Option {
	return func(h *Handler) {
		if f != nil {
			h.formatter = f
		}
	}
}

// WithLogger sets the handler logger.
func WithLogger(logger *log.Logger) Option {
	return func(h *Handler) {
		if logger != nil {
			h.logger = logger
		}
	}
}

// NewHandler constructs a handler.
func NewHandler(service *simapp.ComparisonService, messages *interfaces.Messages, opts ...Option) (*Handler, error) {
	if service == nil {
		return nil, errors.New("simulation handler: nil service")
	}
	if messages == nil {
		return nil, errors.New("simulation handler: nil messages")
	}
	h := &Handler{
		service:   service,
		messages:  messages,
		formatter: format.Default(),
		logger:    log.Default(),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h, nil
}

// ServeHTTP handles /api/v1/simulations, /api/v1/availability and /api/v1/providers/market.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch r.URL.Path {
	case "/api/v1/simulations":
		if r.Method != http.MethodPost {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		h.handleSimulate(w, r)
	case "/api/v1/simulations/export.pdf":
		if r.Method != http.MethodPost {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		h.handleExport(w, r, "pdf")
	case "/api/v1/simulations/export.xlsx":
		if r.Method != http.MethodPost {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		h.handleExport(w, r, "xlsx")
	case "/api/v1/simulations/whatsapp":
		if r.Method != http.MethodPost {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		h.handleWhatsApp(w, r)
	case "/api/v1/availability":
		if r.Method != http.MethodGet {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(h.service.Availability(r.Context()))
	case "/api/v1/providers/market":
		if r.Method != http.MethodGet {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		h.handleMarket(w, r)
	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

func (h *Handler) handleSimulate(w http.ResponseWriter, r *http.Request) {
	var req InputRequest
	raw, ok := decodeBody(w, r, &req)
	if !ok {
		return
	}
	cmp, ok := h.compare(w, r, req)
	if !ok {
		return
	}

	resp := ComparisonResponse{Comparison: cmp, NoProviders: cmp.NoProviders()}
	if resp.NoProviders {
		if msg, err := h.messages.Render(interfaces.MessageNoResults, h.messages.Data(cmp, nil)); err == nil {
			resp.ContactURL = h.messages.Link(msg)
		}
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(resp)

	meta := map[string]any{"type": cmp.Input.Type, "results": len(cmp.Results)}
	if best := cmp.Best(); best != nil {
		meta["best_provider"] = best.ProviderID
	}
	h.logAudit(r, audit.ActionSimulate, cmp.RunID, raw, meta)
}

func (h *Handler) handleExport(w http.ResponseWriter, r *http.Request, kind string) {
	start := time.Now()
	var req ExportRequest
	raw, ok := decodeBody(w, r, &req)
	if !ok {
		metrics.ObserveExport(kind, metrics.ResultError, time.Since(start))
		return
	}
	cmp, ok := h.compare(w, r, req.InputRequest)
	if !ok {
		metrics.ObserveExport(kind, metrics.ResultError, time.Since(start))
		return
	}
	if req.ProviderID != "" {
		res, err := cmp.Result(req.ProviderID)
		if err != nil {
			metrics.ObserveExport(kind, metrics.ResultError, time.Since(start))
			respondServiceError(w, err)
			return
		}
		cmp.Results = []simulation.ComparisonResult{*res}
	}

	opts := interfaces.ExportOptions{
		CompanyName: h.companyName,
		Formatter:   h.formatter,
	}
	if identity, ok := embed.IdentityFromContext(r.Context()); ok {
		opts.PreparedFor = identity.CustomerName
	}

	var (
		body        []byte
		err         error
		contentType string
	)
	switch kind {
	case "pdf":
		body, err = interfaces.BuildComparisonPDF(cmp, opts)
		contentType = contentTypePDF
	default:
		body, err = interfaces.BuildComparisonXLSX(cmp, opts)
		contentType = contentTypeXLSX
	}
	if err != nil {
		metrics.ObserveExport(kind, metrics.ResultError, time.Since(start))
		h.logger.Printf("simulation export %s error: %v", kind, err)
		http.Error(w, "export failed", http.StatusInternalServerError)
		return
	}
	metrics.ObserveExport(kind, metrics.ResultSuccess, time.Since(start))

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", `attachment; filename="`+interfaces.FileName(cmp, kind)+`"`)
	w.Header().Set("Content-Length", strconv.Itoa(len(body)))
	_, _ = w.Write(body)

	h.logAudit(r, audit.ActionExport, cmp.RunID, raw, map[string]any{"format": kind, "provider_id": req.ProviderID})
}

func (h *Handler) handleWhatsApp(w http.ResponseWriter, r *http.Request) {
	var req WhatsAppRequest
	raw, ok := decodeBody(w, r, &req)
	if !ok {
		return
	}
	kind := interfaces.MessageKind(req.Kind)
	if kind == "" {
		kind = interfaces.MessageContact
	}

	var (
		data  interfaces.MessageData
		runID string
	)
	if req.Input != nil {
		cmp, ok := h.compare(w, r, *req.Input)
		if !ok {
			return
		}
		runID = cmp.RunID
		var selected *simulation.ComparisonResult
		if req.ProviderID != "" {
			res, err := cmp.Result(req.ProviderID)
			if err != nil {
				respondServiceError(w, err)
				return
			}
			selected = res
		}
		data = h.messages.Data(cmp, selected)
	}

	msg, err := h.messages.Render(kind, data)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(WhatsAppResponse{Message: msg, URL: h.messages.Link(msg)})

	h.logAudit(r, audit.ActionWhatsApp, runID, raw, map[string]any{"kind": kind, "provider_id": req.ProviderID})
}

func (h *Handler) handleMarket(w http.ResponseWriter, r *http.Request) {
	names, err := h.service.MarketProviders(r.Context())
	if err != nil {
		respondServiceError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{"providers": names})
}

func (h *Handler) compare(w http.ResponseWriter, r *http.Request, req InputRequest) (*simulation.Comparison, bool) {
	in, err := req.ToInput()
	if err != nil {
		respondServiceError(w, err)
		return nil, false
	}
	cmp, err := h.service.Compare(r.Context(), in)
	if err != nil {
		if !errors.Is(err, simulation.ErrInvalidInput) {
			h.logger.Printf("simulation error: %v", err)
		}
		respondServiceError(w, err)
		return nil, false
	}
	return cmp, true
}

func (h *Handler) logAudit(r *http.Request, action, runID string, payload []byte, meta map[string]any) {
	if h.auditLogger == nil {
		return
	}
	identity, _ := embed.IdentityFromContext(r.Context())
	metadata, _ := json.Marshal(meta)
	if err := h.auditLogger.Log(r.Context(), audit.Entry{
		ID:            audit.NewID(),
		PartnerID:     identity.PartnerID,
		Subject:       identity.Subject,
		Action:        action,
		ResourceType:  "simulation",
		ResourceID:    runID,
		Metadata:      metadata,
		PayloadDigest: audit.DigestJSON(payload),
		IP:            audit.ClientIP(r),
		UserAgent:     r.UserAgent(),
		CreatedAt:     time.Now().UTC(),
	}); err != nil {
		h.logger.Printf("audit log error: %v", err)
	}
}

// decodeBody reads the request body into dst and returns the raw bytes for auditing.
func decodeBody(w http.ResponseWriter, r *http.Request, dst any) ([]byte, bool) {
	raw, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		http.Error(w, "invalid body", http.StatusBadRequest)
		return nil, false
	}
	if err := json.NewDecoder(bytes.NewReader(raw)).Decode(dst); err != nil {
		http.Error(w, "invalid json", http.StatusBadRequest)
		return nil, false
	}
	return raw, true
}

func respondServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, simulation.ErrInvalidInput):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, simulation.ErrCatalogUnavailable):
		http.Error(w, "catalog unavailable", http.StatusBadGateway)
	case errors.Is(err, simulation.ErrResultNotFound):
		http.Error(w, "provider not in results", http.StatusNotFound)
	default:
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}
