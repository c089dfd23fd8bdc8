package character

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"time"

	"gopkg.in/yaml.v3"
)

// Partial carries optional overrides for a new companion. Nil fields keep
// the default; every present field is validated before it is applied.
type Partial struct {
	Name     *string `yaml:"name"`
	UserID   *string `yaml:"user_id"`
	UserName *string `yaml:"user_name"`

	Traits      map[Trait]float64 `yaml:"traits"`
	GrowthRate  *float64          `yaml:"growth_rate"`
	GrowthGoals []string          `yaml:"growth_goals"`

	Emotion   *Emotion           `yaml:"emotion"`
	Intensity *float64           `yaml:"intensity"`
	Stability *float64           `yaml:"stability"`
	Triggers  []EmotionalTrigger `yaml:"triggers"`

	Intimacy *float64 `yaml:"intimacy"`
	Trust    *float64 `yaml:"trust"`

	Retention *RetentionPolicy  `yaml:"retention"`
	Consent   *ConsentLevel     `yaml:"consent"`
	Anonymize *bool             `yaml:"anonymize"`
	Parental  *ParentalControls `yaml:"parental"`

	AdaptationRate *float64 `yaml:"adaptation_rate"`
}

// LoadSeed decodes a YAML companion seed. Unknown keys are rejected.
func LoadSeed(data []byte) (Partial, error) {
	var p Partial
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&p); err != nil && !errors.Is(err, io.EOF) {
		return Partial{}, fmt.Errorf("decode seed: %w", err)
	}
	return p, nil
}

// FromPartial builds a companion from defaults and merges p field by field.
func FromPartial(id Identity, p Partial, now time.Time) (*Companion, error) {
	c := New(id, now)
	if err := p.applyTo(c); err != nil {
		return nil, err
	}
	return c, nil
}

func (p Partial) applyTo(c *Companion) error {
	if p.Name != nil {
		if *p.Name == "" {
			return fieldErr("name", "empty")
		}
		c.Name = *p.Name
	}
	if p.UserID != nil {
		c.UserID = *p.UserID
	}
	if p.UserName != nil {
		c.UserName = *p.UserName
	}

	for t, v := range p.Traits {
		if !t.Valid() {
			return fieldErr("traits", "unknown trait %q", t)
		}
		if err := checkUnit("traits."+string(t), v); err != nil {
			return err
		}
		c.Personality.Core.Set(t, v)
	}
	if p.GrowthRate != nil {
		if err := checkUnit("growth_rate", *p.GrowthRate); err != nil {
			return err
		}
		c.Personality.Adaptation.GrowthRate = *p.GrowthRate
	}
	if p.GrowthGoals != nil {
		c.Personality.Adaptation.GrowthGoals = append([]string{}, p.GrowthGoals...)
	}

	if p.Emotion != nil {
		if !p.Emotion.Valid() {
			return fieldErr("emotion", "unknown emotion %q", *p.Emotion)
		}
		c.Emotional.Current = *p.Emotion
		c.Personality.Current.Dominant = *p.Emotion
	}
	if p.Intensity != nil {
		if err := checkUnit("intensity", *p.Intensity); err != nil {
			return err
		}
		c.Emotional.Intensity = *p.Intensity
		c.Personality.Current.Intensity = *p.Intensity
	}
	if p.Stability != nil {
		if err := checkUnit("stability", *p.Stability); err != nil {
			return err
		}
		c.Emotional.Stability = *p.Stability
	}
	for _, t := range p.Triggers {
		if err := t.Validate(); err != nil {
			return err
		}
		c.Emotional.AddTrigger(t)
	}

	if p.Intimacy != nil {
		if *p.Intimacy < 0 || *p.Intimacy > 10 {
			return fieldErr("intimacy", "%v outside [0,10]", *p.Intimacy)
		}
		c.Relationship.Intimacy = *p.Intimacy
	}
	if p.Trust != nil {
		if *p.Trust < 0 || *p.Trust > 10 {
			return fieldErr("trust", "%v outside [0,10]", *p.Trust)
		}
		c.Relationship.Trust = *p.Trust
	}

	if p.Retention != nil {
		if !p.Retention.Valid() {
			return fieldErr("retention", "unknown policy %q", *p.Retention)
		}
		c.Privacy.Retention = *p.Retention
	}
	if p.Consent != nil {
		if !p.Consent.Valid() {
			return fieldErr("consent", "unknown level %q", *p.Consent)
		}
		c.Privacy.Consent = *p.Consent
	}
	if p.Anonymize != nil {
		c.Privacy.Anonymize = *p.Anonymize
	}
	if p.Parental != nil {
		pc := *p.Parental
		pc.RestrictedTopics = append([]string{}, p.Parental.RestrictedTopics...)
		if err := (PrivacySettings{Retention: c.Privacy.Retention, Consent: c.Privacy.Consent, Parental: &pc}).Validate(); err != nil {
			return err
		}
		c.Privacy.Parental = &pc
	}

	if p.AdaptationRate != nil {
		if err := checkUnit("adaptation_rate", *p.AdaptationRate); err != nil {
			return err
		}
		c.Learning.AdaptationRate = *p.AdaptationRate
	}
	return nil
}
