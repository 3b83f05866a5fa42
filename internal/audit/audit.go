package audit

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"log"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Actions recorded by the simulator.
const (
	ActionSimulate = "simulation.run"
	ActionExport   = "simulation.export"
	ActionWhatsApp = "simulation.whatsapp"
	ActionLead     = "lead.create"
)

// Entry represents an audit log entry.
type Entry struct {
	ID            string
	PartnerID     string
	Subject       string
	Action        string
	ResourceType  string
	ResourceID    string
	Metadata      json.RawMessage
	PayloadDigest string
	IP            string
	UserAgent     string
	CreatedAt     time.Time
}

// Logger writes audit entries.
type Logger interface {
	Log(ctx context.Context, entry Entry) error
}

// NewID generates a random audit id.
func NewID() string {
	return "audit-" + uuid.NewString()
}

// DigestJSON computes a SHA256 hex digest for metadata payloads.
func DigestJSON(data []byte) string {
	if len(data) == 0 {
		return ""
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// ClientIP returns the first forwarded address, or the remote host.
func ClientIP(r *http.Request) string {
	if r == nil {
		return ""
	}
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		first, _, _ := strings.Cut(fwd, ",")
		if ip := strings.TrimSpace(first); ip != "" {
			return ip
		}
	}
	if ip := strings.TrimSpace(r.Header.Get("X-Real-IP")); ip != "" {
		return ip
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// StdLogger writes entries to a standard logger, for deployments without a database.
type StdLogger struct {
	logger *log.Logger
}

// NewStdLogger constructs a StdLogger.
func NewStdLogger(logger *log.Logger) *StdLogger {
	if logger == nil {
		return nil
	}
	return &StdLogger{logger: logger}
}

// Log prints the entry on one line.
func (l *StdLogger) Log(_ context.Context, entry Entry) error {
	if l == nil || l.logger == nil {
		return nil
	}
	if entry.PayloadDigest == "" {
		entry.PayloadDigest = DigestJSON(entry.Metadata)
	}
	l.logger.Printf("audit %s %s/%s partner=%q ip=%s digest=%s",
		entry.Action, entry.ResourceType, entry.ResourceID, entry.PartnerID, entry.IP, entry.PayloadDigest)
	return nil
}
