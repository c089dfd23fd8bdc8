package character

// ParentalControls restrict when and how much a companion may be used.
// AllowedStartHour/AllowedEndHour bound the permitted local-hour window
// (end exclusive, may wrap past midnight); equal values allow all hours.
type ParentalControls struct {
	Enabled              bool     `json:"enabled" yaml:"enabled"`
	AllowedStartHour     int      `json:"allowed_start_hour" yaml:"allowed_start_hour"`
	AllowedEndHour       int      `json:"allowed_end_hour" yaml:"allowed_end_hour"`
	MaxDailyInteractions int      `json:"max_daily_interactions" yaml:"max_daily_interactions"`
	RestrictedTopics     []string `json:"restricted_topics,omitempty" yaml:"restricted_topics,omitempty"`
}

// PrivacySettings is the consent policy slice of the aggregate.
type PrivacySettings struct {
	Retention RetentionPolicy   `json:"retention"`
	Consent   ConsentLevel      `json:"consent"`
	Anonymize bool              `json:"anonymize"`
	Parental  *ParentalControls `json:"parental,omitempty"`
}

// DefaultPrivacy keeps data long-term under standard consent.
func DefaultPrivacy() PrivacySettings {
	return PrivacySettings{
		Retention: RetentionLongTerm,
		Consent:   ConsentStandard,
	}
}

// Validate checks enum values and the parental window.
func (s PrivacySettings) Validate() error {
	if !s.Retention.Valid() {
		return fieldErr("privacy.retention", "unknown policy %q", s.Retention)
	}
	if !s.Consent.Valid() {
		return fieldErr("privacy.consent", "unknown level %q", s.Consent)
	}
	if pc := s.Parental; pc != nil {
		if pc.AllowedStartHour < 0 || pc.AllowedStartHour > 23 || pc.AllowedEndHour < 0 || pc.AllowedEndHour > 24 {
			return fieldErr("privacy.parental", "allowed hours out of range")
		}
		if pc.MaxDailyInteractions < 0 {
			return fieldErr("privacy.parental", "negative daily limit")
		}
	}
	return nil
}
