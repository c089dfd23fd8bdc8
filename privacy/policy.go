// Package privacy holds the consent, retention and erasure rules applied to a
// companion's data. The policy functions are pure over the aggregate's
// privacy settings; Manager adds auditing around the mutating ones.
package privacy

import (
	"time"

	"github.com/cyberFlowTech/zapry-companion-go/character"
	"github.com/cyberFlowTech/zapry-companion-go/internal/textutil"
)

// DataKind is a category of data a subsystem wants to keep.
type DataKind string

const (
	KindConversation DataKind = "conversation"
	KindPreferences  DataKind = "preferences"
	KindPersonal     DataKind = "personal"
	KindEmotional    DataKind = "emotional"
	KindBehavioral   DataKind = "behavioral"
	KindAnalytics    DataKind = "analytics"
)

// requiredConsent is the lowest consent level that permits each kind.
var requiredConsent = map[DataKind]character.ConsentLevel{
	KindConversation: character.ConsentMinimal,
	KindPreferences:  character.ConsentStandard,
	KindPersonal:     character.ConsentStandard,
	KindEmotional:    character.ConsentStandard,
	KindBehavioral:   character.ConsentEnhanced,
	KindAnalytics:    character.ConsentResearch,
}

// CanStoreData reports whether kind may be stored under s.
// Unknown kinds are never storable.
func CanStoreData(s character.PrivacySettings, kind DataKind) bool {
	need, ok := requiredConsent[kind]
	if !ok {
		return false
	}
	if s.Retention == character.RetentionSessionOnly && kind != KindConversation {
		return false
	}
	return s.Consent.Rank() >= need.Rank()
}

// RetentionWindow returns how long data is kept under p. bounded is false
// for permanent retention.
func RetentionWindow(p character.RetentionPolicy) (window time.Duration, bounded bool) {
	const day = 24 * time.Hour
	switch p {
	case character.RetentionSessionOnly:
		return 0, true
	case character.RetentionShortTerm:
		return 7 * day, true
	case character.RetentionMediumTerm:
		return 90 * day, true
	case character.RetentionLongTerm:
		return 365 * day, true
	}
	return 0, false
}

// ──────────────────────────────────────────────
// Parental controls
// ──────────────────────────────────────────────

// CanInteract checks the parental policy for a message about topic at now.
// It returns a human-readable reason when the interaction is blocked.
func CanInteract(s character.PrivacySettings, rel character.Relationship, message, topic string, now time.Time) (bool, string) {
	pc := s.Parental
	if pc == nil || !pc.Enabled {
		return true, ""
	}
	if !hourAllowed(pc.AllowedStartHour, pc.AllowedEndHour, now.Hour()) {
		return false, "outside allowed hours"
	}
	if pc.MaxDailyInteractions > 0 && dailyCount(rel, now) >= pc.MaxDailyInteractions {
		return false, "daily interaction limit reached"
	}
	if len(pc.RestrictedTopics) > 0 {
		if topic != "" && textutil.ContainsAny(textutil.Normalize(topic), pc.RestrictedTopics) {
			return false, "restricted topic"
		}
		if textutil.ContainsAny(textutil.Normalize(message), pc.RestrictedTopics) {
			return false, "restricted topic"
		}
	}
	return true, ""
}

func hourAllowed(start, end, hour int) bool {
	if start == end {
		return true
	}
	if start < end {
		return hour >= start && hour < end
	}
	return hour >= start || hour < end
}

// dailyCount is the interaction count for now's calendar day.
func dailyCount(rel character.Relationship, now time.Time) int {
	if rel.LastInteraction.IsZero() || !character.SameDay(rel.LastInteraction, now) {
		return 0
	}
	return rel.DailyInteractions
}
