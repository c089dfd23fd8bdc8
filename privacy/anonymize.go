package privacy

import (
	"regexp"
	"strings"

	"github.com/google/uuid"
)

var (
	emailPattern = regexp.MustCompile(`[A-Za-z0-9._%+\-]+@[A-Za-z0-9.\-]+\.[A-Za-z]{2,}`)
	phonePattern = regexp.MustCompile(`(?:\+\d{1,3}[\s.\-]?)?\(?\d{2,4}\)?[\s.\-]?\d{3,4}[\s.\-]?\d{4}`)

	addressKRPattern = regexp.MustCompile(`[가-힣]+(?:특별시|광역시|시|도)\s*[가-힣]+(?:구|군|시)(?:\s*[가-힣0-9]+(?:로|길|동|읍|면))?(?:\s*\d+(?:-\d+)?(?:번지)?)?`)
	addressENPattern = regexp.MustCompile(`\b\d{1,5}\s+(?:[A-Z][a-z]+\s+){1,3}(?:Street|St|Avenue|Ave|Road|Rd|Boulevard|Blvd|Lane|Ln|Drive|Dr)\b\.?`)

	introKRPattern = regexp.MustCompile(`((?:제|내)\s*이름은\s*)[가-힣A-Za-z]+`)
	introENPattern = regexp.MustCompile(`((?:[Mm]y name is|[Cc]all me)\s+)[A-Za-z]+`)
)

// Anonymizer replaces identifiers with stable per-run tokens and scrubs
// personal patterns from free text.
type Anonymizer struct {
	newToken func() string
	tokens   map[string]string
}

// NewAnonymizer creates an anonymizer. A nil token source uses random UUIDs.
func NewAnonymizer(newToken func() string) *Anonymizer {
	if newToken == nil {
		newToken = func() string { return "anon_" + strings.ReplaceAll(uuid.NewString(), "-", "")[:12] }
	}
	return &Anonymizer{newToken: newToken, tokens: make(map[string]string)}
}

// Token maps an identifier to its anonymous token. The same input always
// maps to the same token within one Anonymizer; empty stays empty.
func (a *Anonymizer) Token(id string) string {
	if id == "" {
		return ""
	}
	if t, ok := a.tokens[id]; ok {
		return t
	}
	t := a.newToken()
	a.tokens[id] = t
	return t
}

// Text substitutes email, phone, address and self-introduction patterns.
func (a *Anonymizer) Text(s string) string {
	if s == "" {
		return s
	}
	s = emailPattern.ReplaceAllString(s, "[EMAIL]")
	s = phonePattern.ReplaceAllString(s, "[PHONE]")
	s = addressKRPattern.ReplaceAllString(s, "[ADDRESS]")
	s = addressENPattern.ReplaceAllString(s, "[ADDRESS]")
	s = introKRPattern.ReplaceAllString(s, "${1}[NAME]")
	s = introENPattern.ReplaceAllString(s, "${1}[NAME]")
	return s
}

// ContainsPersonalData reports whether s still matches the phone or email pattern.
func ContainsPersonalData(s string) bool {
	return emailPattern.MatchString(s) || phonePattern.MatchString(s)
}

// AnonymizeData scrubs d in place when enabled is set; otherwise d is left
// untouched.
func (a *Anonymizer) AnonymizeData(enabled bool, d *UserData) {
	if !enabled || d == nil {
		return
	}
	d.UserID = a.Token(d.UserID)
	d.UserName = a.Token(d.UserName)
	d.Anonymized = true

	m := &d.Memory
	for i := range m.ShortTerm {
		m.ShortTerm[i].Message = a.Text(m.ShortTerm[i].Message)
	}
	for i := range m.LongTerm {
		m.LongTerm[i].Description = a.Text(m.LongTerm[i].Description)
	}
	for i := range m.Emotional {
		m.Emotional[i].Trigger = a.Text(m.Emotional[i].Trigger)
		m.Emotional[i].Context = a.Text(m.Emotional[i].Context)
	}
	for i := range m.Preferences {
		m.Preferences[i].Value = a.Text(m.Preferences[i].Value)
	}
	for i := range m.Facts {
		f := &m.Facts[i]
		if f.Category == "name" {
			f.Content = a.Token(f.Content)
			continue
		}
		f.Content = a.Text(f.Content)
	}
	for i := range d.Relationship.Milestones {
		d.Relationship.Milestones[i].Message = a.Text(d.Relationship.Milestones[i].Message)
		if d.Relationship.Milestones[i].Key != "" {
			d.Relationship.Milestones[i].Key = a.Token(d.Relationship.Milestones[i].Key)
		}
	}
	for i := range d.Relationship.Conflicts {
		d.Relationship.Conflicts[i].Description = a.Text(d.Relationship.Conflicts[i].Description)
	}
	for i := range d.EmotionHistory {
		d.EmotionHistory[i].Trigger = a.Text(d.EmotionHistory[i].Trigger)
	}
}
