package character

import "fmt"

// SkillID, AchievementID and AbilityID are closed enumerations. The zero value
// of each is invalid; definitions live in the evolution catalogs indexed by id.

type SkillID int

const (
	SkillActiveListening SkillID = iota + 1
	SkillWittyBanter
	SkillDeepConversation
	SkillEmotionalIntelligence
	SkillComfortGiving
	SkillMoodReading
	SkillQuickLearner
	SkillMemoryPalace
	SkillCreativeThinking
	SkillTrustBuilding
	SkillLoyalCompanion
	SkillSoulBond
	skillSentinel
)

var skillNames = [...]string{
	SkillActiveListening:       "active_listening",
	SkillWittyBanter:           "witty_banter",
	SkillDeepConversation:      "deep_conversation",
	SkillEmotionalIntelligence: "emotional_intelligence",
	SkillComfortGiving:         "comfort_giving",
	SkillMoodReading:           "mood_reading",
	SkillQuickLearner:          "quick_learner",
	SkillMemoryPalace:          "memory_palace",
	SkillCreativeThinking:      "creative_thinking",
	SkillTrustBuilding:         "trust_building",
	SkillLoyalCompanion:        "loyal_companion",
	SkillSoulBond:              "soul_bond",
}

// SkillCount is the number of defined skills.
const SkillCount = int(skillSentinel) - 1

func (id SkillID) Valid() bool { return id > 0 && id < skillSentinel }

func (id SkillID) String() string {
	if !id.Valid() {
		return fmt.Sprintf("skill(%d)", int(id))
	}
	return skillNames[id]
}

func (id SkillID) MarshalText() ([]byte, error) {
	if !id.Valid() {
		return nil, fmt.Errorf("invalid skill id %d", int(id))
	}
	return []byte(skillNames[id]), nil
}

func (id *SkillID) UnmarshalText(b []byte) error {
	v, ok := lookupName(skillNames[:], string(b))
	if !ok {
		return fmt.Errorf("unknown skill %q", string(b))
	}
	*id = SkillID(v)
	return nil
}

// ParseSkillID resolves a skill name.
func ParseSkillID(name string) (SkillID, bool) {
	v, ok := lookupName(skillNames[:], name)
	return SkillID(v), ok
}

type AchievementID int

const (
	AchievementFirstSteps AchievementID = iota + 1
	AchievementConversationalist
	AchievementEmpath
	AchievementScholar
	AchievementHeartToHeart
	AchievementRisingStar
	AchievementVeteran
	AchievementSkillCollector
	AchievementMasterOfAll
	AchievementWellRounded
	AchievementEvolvedBeing
	achievementSentinel
)

var achievementNames = [...]string{
	AchievementFirstSteps:        "first_steps",
	AchievementConversationalist: "conversationalist",
	AchievementEmpath:            "empath",
	AchievementScholar:           "scholar",
	AchievementHeartToHeart:      "heart_to_heart",
	AchievementRisingStar:        "rising_star",
	AchievementVeteran:           "veteran",
	AchievementSkillCollector:    "skill_collector",
	AchievementMasterOfAll:       "master_of_all",
	AchievementWellRounded:       "well_rounded",
	AchievementEvolvedBeing:      "evolved_being",
}

// AchievementCount is the number of defined achievements.
const AchievementCount = int(achievementSentinel) - 1

func (id AchievementID) Valid() bool { return id > 0 && id < achievementSentinel }

func (id AchievementID) String() string {
	if !id.Valid() {
		return fmt.Sprintf("achievement(%d)", int(id))
	}
	return achievementNames[id]
}

func (id AchievementID) MarshalText() ([]byte, error) {
	if !id.Valid() {
		return nil, fmt.Errorf("invalid achievement id %d", int(id))
	}
	return []byte(achievementNames[id]), nil
}

func (id *AchievementID) UnmarshalText(b []byte) error {
	v, ok := lookupName(achievementNames[:], string(b))
	if !ok {
		return fmt.Errorf("unknown achievement %q", string(b))
	}
	*id = AchievementID(v)
	return nil
}

// ParseAchievementID resolves an achievement name.
func ParseAchievementID(name string) (AchievementID, bool) {
	v, ok := lookupName(achievementNames[:], name)
	return AchievementID(v), ok
}

type AbilityID int

const (
	AbilityEmpathicResonance AbilityID = iota + 1
	AbilityPlayfulSpark
	AbilityDeepInsight
	AbilityMemoryLane
	AbilityUnwaveringSupport
	AbilitySoulLink
	abilitySentinel
)

var abilityNames = [...]string{
	AbilityEmpathicResonance: "empathic_resonance",
	AbilityPlayfulSpark:      "playful_spark",
	AbilityDeepInsight:       "deep_insight",
	AbilityMemoryLane:        "memory_lane",
	AbilityUnwaveringSupport: "unwavering_support",
	AbilitySoulLink:          "soul_link",
}

// AbilityCount is the number of defined abilities.
const AbilityCount = int(abilitySentinel) - 1

func (id AbilityID) Valid() bool { return id > 0 && id < abilitySentinel }

func (id AbilityID) String() string {
	if !id.Valid() {
		return fmt.Sprintf("ability(%d)", int(id))
	}
	return abilityNames[id]
}

func (id AbilityID) MarshalText() ([]byte, error) {
	if !id.Valid() {
		return nil, fmt.Errorf("invalid ability id %d", int(id))
	}
	return []byte(abilityNames[id]), nil
}

func (id *AbilityID) UnmarshalText(b []byte) error {
	v, ok := lookupName(abilityNames[:], string(b))
	if !ok {
		return fmt.Errorf("unknown ability %q", string(b))
	}
	*id = AbilityID(v)
	return nil
}

// ParseAbilityID resolves an ability name.
func ParseAbilityID(name string) (AbilityID, bool) {
	v, ok := lookupName(abilityNames[:], name)
	return AbilityID(v), ok
}

func lookupName(names []string, name string) (int, bool) {
	for i, n := range names {
		if i > 0 && n == name {
			return i, true
		}
	}
	return 0, false
}
