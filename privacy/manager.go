package privacy

import (
	"fmt"
	"io"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/cyberFlowTech/zapry-companion-go/character"
)

// Manager applies the privacy policy to a companion and records every
// compliance-relevant operation in the audit log.
type Manager struct {
	audit    AuditLogger
	newToken func() string
	log      *logrus.Entry
}

// NewManager creates a privacy manager. A nil audit logger discards entries,
// a nil token source uses random UUIDs, a nil log discards output.
func NewManager(audit AuditLogger, newToken func() string, log *logrus.Entry) *Manager {
	if audit == nil {
		audit = NoopAuditLogger{}
	}
	if log == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		log = logrus.NewEntry(l)
	}
	return &Manager{audit: audit, newToken: newToken, log: log.WithField("component", "Privacy")}
}

// CanStoreData reports whether kind may be stored for c.
func (m *Manager) CanStoreData(c *character.Companion, kind DataKind) bool {
	return CanStoreData(c.Privacy, kind)
}

// CleanExpiredData runs the retention sweep on c.
func (m *Manager) CleanExpiredData(c *character.Companion, now time.Time) CleanupReport {
	rep := CleanExpiredData(c, now)
	if rep.Removed() > 0 {
		c.UpdatedAt = now
		m.log.WithFields(logrus.Fields{
			"companion_id": c.ID,
			"policy":       rep.Policy,
			"removed":      rep.Removed(),
		}).Debug("expired data removed")
	}
	m.audit.Log(AuditEntry{
		Action:      AuditCleanup,
		CompanionID: c.ID,
		UserID:      c.UserID,
		Affected:    rep.Removed(),
		Detail:      string(rep.Policy),
		Timestamp:   now,
	})
	return rep
}

// DeleteAllUserData erases everything learned about the user.
func (m *Manager) DeleteAllUserData(c *character.Companion, now time.Time) {
	affected := len(c.Memory.ShortTerm) + len(c.Memory.LongTerm) + len(c.Memory.Emotional) +
		len(c.Memory.Preferences) + len(c.Memory.Facts) + len(c.Emotional.History) +
		len(c.Relationship.Conflicts) + len(c.Relationship.Milestones)
	DeleteAllUserData(c, now)
	m.log.WithFields(logrus.Fields{"companion_id": c.ID, "affected": affected}).Info("user data erased")
	m.audit.Log(AuditEntry{
		Action:      AuditErase,
		CompanionID: c.ID,
		UserID:      c.UserID,
		Affected:    affected,
		Timestamp:   now,
	})
}

// ExportUserData returns a compliance export, anonymized when the
// companion's settings ask for it.
func (m *Manager) ExportUserData(c *character.Companion, now time.Time) (UserData, error) {
	d, err := CollectUserData(c, now)
	if err != nil {
		return UserData{}, fmt.Errorf("collect user data: %w", err)
	}
	NewAnonymizer(m.newToken).AnonymizeData(c.Privacy.Anonymize, &d)
	m.audit.Log(AuditEntry{
		Action:      AuditExport,
		CompanionID: c.ID,
		UserID:      c.UserID,
		Affected:    len(d.Memory.ShortTerm) + len(d.Memory.LongTerm) + len(d.Memory.Emotional) + len(d.Memory.Preferences) + len(d.Memory.Facts),
		Detail:      fmt.Sprintf("anonymized=%t", d.Anonymized),
		Timestamp:   now,
	})
	return d, nil
}

// UpdateSettings validates and installs new settings. Narrowing the
// retention policy applies it immediately.
func (m *Manager) UpdateSettings(c *character.Companion, s character.PrivacySettings, now time.Time) error {
	if err := s.Validate(); err != nil {
		return err
	}
	if s.Parental != nil {
		pc := *s.Parental
		pc.RestrictedTopics = append([]string{}, s.Parental.RestrictedTopics...)
		s.Parental = &pc
	}
	old := c.Privacy
	c.Privacy = s
	c.UpdatedAt = now
	m.audit.Log(AuditEntry{
		Action:      AuditConsentChange,
		CompanionID: c.ID,
		UserID:      c.UserID,
		Detail:      fmt.Sprintf("consent %s->%s retention %s->%s", old.Consent, s.Consent, old.Retention, s.Retention),
		Timestamp:   now,
	})
	if narrower(old.Retention, s.Retention) {
		m.CleanExpiredData(c, now)
	}
	return nil
}

func narrower(old, next character.RetentionPolicy) bool {
	ow, ob := RetentionWindow(old)
	nw, nb := RetentionWindow(next)
	if !nb {
		return false
	}
	return !ob || nw < ow
}
