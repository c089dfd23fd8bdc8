package privacy

import (
	"time"

	"github.com/sirupsen/logrus"
)

// ──────────────────────────────────────────────
// Privacy Audit Log
// ──────────────────────────────────────────────

// AuditAction is the type of auditable privacy operation.
type AuditAction string

const (
	AuditCleanup       AuditAction = "cleanup"
	AuditErase         AuditAction = "erase"
	AuditExport        AuditAction = "export"
	AuditConsentChange AuditAction = "consent_change"
)

// AuditEntry is a single auditable privacy event.
type AuditEntry struct {
	Action      AuditAction `json:"action"`
	CompanionID string      `json:"companion_id"`
	UserID      string      `json:"user_id,omitempty"`
	Affected    int         `json:"affected"`
	Detail      string      `json:"detail,omitempty"`
	Timestamp   time.Time   `json:"timestamp"`
}

// AuditLogger receives audit events for external processing
// (compliance storage, alerting).
type AuditLogger interface {
	Log(entry AuditEntry)
}

// NoopAuditLogger discards all audit events.
type NoopAuditLogger struct{}

func (NoopAuditLogger) Log(AuditEntry) {}

// LogrusAuditLogger writes audit events as structured log lines.
type LogrusAuditLogger struct {
	Entry *logrus.Entry
}

func (l LogrusAuditLogger) Log(e AuditEntry) {
	if l.Entry == nil {
		return
	}
	l.Entry.WithFields(logrus.Fields{
		"action":       e.Action,
		"companion_id": e.CompanionID,
		"user_id":      e.UserID,
		"affected":     e.Affected,
		"detail":       e.Detail,
	}).Info("privacy audit")
}

// AuditFunc adapts a function to AuditLogger.
type AuditFunc func(AuditEntry)

func (f AuditFunc) Log(e AuditEntry) { f(e) }
