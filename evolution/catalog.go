package evolution

import (
	"time"

	"github.com/cyberFlowTech/zapry-companion-go/character"
	"github.com/cyberFlowTech/zapry-companion-go/events"
)

// ──────────────────────────────────────────────
// Skills
// ──────────────────────────────────────────────

// SkillDef is an immutable skill definition.
type SkillDef struct {
	ID            character.SkillID
	Name          string
	Description   string
	Category      character.ExperienceType
	Prerequisites []character.SkillID
	MinLevel      int
	Multipliers   map[character.ExperienceType]float64
	Growth        map[character.Trait]float64
}

var skillDefs = [...]SkillDef{
	character.SkillActiveListening: {
		Name:        "Active Listening",
		Description: "Pays close attention and reflects what the user says.",
		Category:    character.ExperienceConversation,
		MinLevel:    1,
		Multipliers: map[character.ExperienceType]float64{character.ExperienceConversation: 1.1},
		Growth:      map[character.Trait]float64{character.TraitEmpathy: 0.02},
	},
	character.SkillWittyBanter: {
		Name:          "Witty Banter",
		Description:   "Keeps conversations light with playful humor.",
		Category:      character.ExperienceConversation,
		Prerequisites: []character.SkillID{character.SkillActiveListening},
		MinLevel:      2,
		Multipliers:   map[character.ExperienceType]float64{character.ExperienceConversation: 1.15},
		Growth:        map[character.Trait]float64{character.TraitHumor: 0.03},
	},
	character.SkillDeepConversation: {
		Name:          "Deep Conversation",
		Description:   "Explores meaningful topics beyond small talk.",
		Category:      character.ExperienceConversation,
		Prerequisites: []character.SkillID{character.SkillActiveListening},
		MinLevel:      3,
		Multipliers:   map[character.ExperienceType]float64{character.ExperienceConversation: 1.1, character.ExperienceLearning: 1.05},
		Growth:        map[character.Trait]float64{character.TraitCuriosity: 0.02},
	},
	character.SkillEmotionalIntelligence: {
		Name:        "Emotional Intelligence",
		Description: "Understands and responds to feelings.",
		Category:    character.ExperienceEmotional,
		MinLevel:    1,
		Multipliers: map[character.ExperienceType]float64{character.ExperienceEmotional: 1.2},
		Growth:      map[character.Trait]float64{character.TraitEmpathy: 0.03},
	},
	character.SkillComfortGiving: {
		Name:          "Comfort Giving",
		Description:   "Offers warmth and reassurance in hard moments.",
		Category:      character.ExperienceEmotional,
		Prerequisites: []character.SkillID{character.SkillEmotionalIntelligence},
		MinLevel:      2,
		Growth:        map[character.Trait]float64{character.TraitEmpathy: 0.02, character.TraitPatience: 0.02},
	},
	character.SkillMoodReading: {
		Name:          "Mood Reading",
		Description:   "Notices subtle shifts in the user's mood.",
		Category:      character.ExperienceEmotional,
		Prerequisites: []character.SkillID{character.SkillEmotionalIntelligence},
		MinLevel:      3,
		Multipliers:   map[character.ExperienceType]float64{character.ExperienceEmotional: 1.1},
		Growth:        map[character.Trait]float64{character.TraitSensitivity: 0.03},
	},
	character.SkillQuickLearner: {
		Name:        "Quick Learner",
		Description: "Picks up new information rapidly.",
		Category:    character.ExperienceLearning,
		MinLevel:    1,
		Multipliers: map[character.ExperienceType]float64{character.ExperienceLearning: 1.25},
		Growth:      map[character.Trait]float64{character.TraitCuriosity: 0.02},
	},
	character.SkillMemoryPalace: {
		Name:          "Memory Palace",
		Description:   "Recalls shared moments in vivid detail.",
		Category:      character.ExperienceLearning,
		Prerequisites: []character.SkillID{character.SkillQuickLearner},
		MinLevel:      3,
		Multipliers:   map[character.ExperienceType]float64{character.ExperienceLearning: 1.1},
		Growth:        map[character.Trait]float64{character.TraitConsistency: 0.02},
	},
	character.SkillCreativeThinking: {
		Name:          "Creative Thinking",
		Description:   "Comes up with imaginative ideas and stories.",
		Category:      character.ExperienceLearning,
		Prerequisites: []character.SkillID{character.SkillQuickLearner},
		MinLevel:      2,
		Growth:        map[character.Trait]float64{character.TraitCreativity: 0.04},
	},
	character.SkillTrustBuilding: {
		Name:        "Trust Building",
		Description: "Earns trust through reliability.",
		Category:    character.ExperienceRelationship,
		MinLevel:    1,
		Multipliers: map[character.ExperienceType]float64{character.ExperienceRelationship: 1.2},
		Growth:      map[character.Trait]float64{character.TraitPatience: 0.02},
	},
	character.SkillLoyalCompanion: {
		Name:          "Loyal Companion",
		Description:   "Stays steady through good times and bad.",
		Category:      character.ExperienceRelationship,
		Prerequisites: []character.SkillID{character.SkillTrustBuilding},
		MinLevel:      3,
		Multipliers:   map[character.ExperienceType]float64{character.ExperienceRelationship: 1.1},
		Growth:        map[character.Trait]float64{character.TraitEmpathy: 0.02, character.TraitConsistency: 0.02},
	},
	character.SkillSoulBond: {
		Name:          "Soul Bond",
		Description:   "A bond that understands without words.",
		Category:      character.ExperienceRelationship,
		Prerequisites: []character.SkillID{character.SkillLoyalCompanion, character.SkillEmotionalIntelligence},
		MinLevel:      5,
		Multipliers:   map[character.ExperienceType]float64{character.ExperienceRelationship: 1.15, character.ExperienceEmotional: 1.1},
		Growth:        map[character.Trait]float64{character.TraitEmpathy: 0.03, character.TraitAuthenticity: 0.03},
	},
}

// Skill returns the definition of id.
func Skill(id character.SkillID) (SkillDef, bool) {
	if !id.Valid() {
		return SkillDef{}, false
	}
	d := skillDefs[id]
	d.ID = id
	return d, true
}

// Skills lists every skill definition in id order.
func Skills() []SkillDef {
	out := make([]SkillDef, 0, character.SkillCount)
	for id := character.SkillID(1); id.Valid(); id++ {
		d, _ := Skill(id)
		out = append(out, d)
	}
	return out
}

// PrerequisitesMet reports whether ev satisfies d's skill and level requirements.
func (d SkillDef) PrerequisitesMet(ev character.Evolution) bool {
	if ev.Level < d.MinLevel {
		return false
	}
	for _, p := range d.Prerequisites {
		if !ev.HasSkill(p) {
			return false
		}
	}
	return true
}

// ──────────────────────────────────────────────
// Achievements
// ──────────────────────────────────────────────

// Tier ranks an achievement.
type Tier string

const (
	TierBronze   Tier = "bronze"
	TierSilver   Tier = "silver"
	TierGold     Tier = "gold"
	TierPlatinum Tier = "platinum"
)

// AchievementDef is an immutable achievement definition. Earned reports
// whether the current evolution state satisfies it.
type AchievementDef struct {
	ID          character.AchievementID
	Name        string
	Description string
	Tier        Tier
	Earned      func(ev character.Evolution) bool
	Rewards     events.Rewards
}

func typedAtLeast(t character.ExperienceType, floor float64) func(character.Evolution) bool {
	return func(ev character.Evolution) bool { return ev.Breakdown.Get(t) >= floor }
}

var achievementDefs = [...]AchievementDef{
	character.AchievementFirstSteps: {
		Name:        "First Steps",
		Description: "Gain your first experience.",
		Tier:        TierBronze,
		Earned:      func(ev character.Evolution) bool { return ev.TotalExperience >= 1 },
	},
	character.AchievementConversationalist: {
		Name:        "Conversationalist",
		Description: "Earn 500 conversation experience.",
		Tier:        TierSilver,
		Earned:      typedAtLeast(character.ExperienceConversation, 500),
	},
	character.AchievementEmpath: {
		Name:        "Empath",
		Description: "Earn 500 emotional experience.",
		Tier:        TierSilver,
		Earned:      typedAtLeast(character.ExperienceEmotional, 500),
	},
	character.AchievementScholar: {
		Name:        "Scholar",
		Description: "Earn 500 learning experience.",
		Tier:        TierSilver,
		Earned:      typedAtLeast(character.ExperienceLearning, 500),
	},
	character.AchievementHeartToHeart: {
		Name:        "Heart to Heart",
		Description: "Earn 500 relationship experience.",
		Tier:        TierSilver,
		Earned:      typedAtLeast(character.ExperienceRelationship, 500),
	},
	character.AchievementRisingStar: {
		Name:        "Rising Star",
		Description: "Reach level 5.",
		Tier:        TierGold,
		Earned:      func(ev character.Evolution) bool { return ev.Level >= 5 },
		Rewards:     events.Rewards{SkillPoints: 1},
	},
	character.AchievementVeteran: {
		Name:        "Veteran",
		Description: "Reach level 10.",
		Tier:        TierGold,
		Earned:      func(ev character.Evolution) bool { return ev.Level >= 10 },
		Rewards:     events.Rewards{SkillPoints: 2},
	},
	character.AchievementSkillCollector: {
		Name:        "Skill Collector",
		Description: "Unlock five skills.",
		Tier:        TierGold,
		Earned:      func(ev character.Evolution) bool { return len(ev.UnlockedSkills) >= 5 },
	},
	character.AchievementMasterOfAll: {
		Name:        "Master of All",
		Description: "Unlock every skill.",
		Tier:        TierPlatinum,
		Earned:      func(ev character.Evolution) bool { return len(ev.UnlockedSkills) >= character.SkillCount },
		Rewards:     events.Rewards{Title: "Master Companion"},
	},
	character.AchievementWellRounded: {
		Name:        "Well Rounded",
		Description: "Earn 200 experience of every type.",
		Tier:        TierGold,
		Earned: func(ev character.Evolution) bool {
			for _, t := range character.ExperienceTypes {
				if ev.Breakdown.Get(t) < 200 {
					return false
				}
			}
			return true
		},
		Rewards: events.Rewards{Growth: map[character.Trait]float64{character.TraitAdaptability: 0.05}},
	},
	character.AchievementEvolvedBeing: {
		Name:        "Evolved Being",
		Description: "Reach the evolved stage.",
		Tier:        TierPlatinum,
		Earned: func(ev character.Evolution) bool {
			return ev.Stage.Rank() >= character.StageEvolved.Rank()
		},
		Rewards: events.Rewards{Title: "Evolved Companion", Growth: map[character.Trait]float64{character.TraitAuthenticity: 0.05}},
	},
}

// Achievement returns the definition of id.
func Achievement(id character.AchievementID) (AchievementDef, bool) {
	if !id.Valid() {
		return AchievementDef{}, false
	}
	d := achievementDefs[id]
	d.ID = id
	return d, true
}

// Achievements lists every achievement definition in id order.
func Achievements() []AchievementDef {
	out := make([]AchievementDef, 0, character.AchievementCount)
	for id := character.AchievementID(1); id.Valid(); id++ {
		d, _ := Achievement(id)
		out = append(out, d)
	}
	return out
}

// ──────────────────────────────────────────────
// Abilities
// ──────────────────────────────────────────────

// AbilityDef is an immutable ability definition. Every requirement is AND'd.
type AbilityDef struct {
	ID           character.AbilityID
	Name         string
	Description  string
	MinLevel     int
	Skills       []character.SkillID
	Experience   map[character.ExperienceType]float64
	Achievements []character.AchievementID
	Cooldown     time.Duration
	Boost        map[character.Trait]float64
}

var abilityDefs = [...]AbilityDef{
	character.AbilityEmpathicResonance: {
		Name:        "Empathic Resonance",
		Description: "Mirrors the user's feelings to make them feel understood.",
		MinLevel:    3,
		Skills:      []character.SkillID{character.SkillEmotionalIntelligence},
		Cooldown:    time.Hour,
		Boost:       map[character.Trait]float64{character.TraitEmpathy: 0.05},
	},
	character.AbilityPlayfulSpark: {
		Name:        "Playful Spark",
		Description: "Lifts the mood with a burst of playfulness.",
		MinLevel:    2,
		Skills:      []character.SkillID{character.SkillWittyBanter},
		Cooldown:    30 * time.Minute,
		Boost:       map[character.Trait]float64{character.TraitHumor: 0.03, character.TraitPlayfulness: 0.03},
	},
	character.AbilityDeepInsight: {
		Name:        "Deep Insight",
		Description: "Offers a thoughtful perspective on a hard question.",
		MinLevel:    5,
		Skills:      []character.SkillID{character.SkillDeepConversation},
		Experience:  map[character.ExperienceType]float64{character.ExperienceLearning: 300},
		Cooldown:    2 * time.Hour,
		Boost:       map[character.Trait]float64{character.TraitCuriosity: 0.04},
	},
	character.AbilityMemoryLane: {
		Name:         "Memory Lane",
		Description:  "Revisits a cherished shared memory.",
		MinLevel:     4,
		Skills:       []character.SkillID{character.SkillMemoryPalace},
		Achievements: []character.AchievementID{character.AchievementScholar},
		Cooldown:     6 * time.Hour,
		Boost:        map[character.Trait]float64{character.TraitSensitivity: 0.03, character.TraitConsistency: 0.02},
	},
	character.AbilityUnwaveringSupport: {
		Name:        "Unwavering Support",
		Description: "Stands firmly by the user through a difficult time.",
		MinLevel:    6,
		Skills:      []character.SkillID{character.SkillComfortGiving, character.SkillTrustBuilding},
		Experience:  map[character.ExperienceType]float64{character.ExperienceRelationship: 500},
		Cooldown:    12 * time.Hour,
		Boost:       map[character.Trait]float64{character.TraitPatience: 0.05, character.TraitEmpathy: 0.03},
	},
	character.AbilitySoulLink: {
		Name:         "Soul Link",
		Description:  "A moment of complete mutual understanding.",
		MinLevel:     10,
		Skills:       []character.SkillID{character.SkillSoulBond},
		Achievements: []character.AchievementID{character.AchievementHeartToHeart, character.AchievementEmpath},
		Cooldown:     24 * time.Hour,
		Boost:        map[character.Trait]float64{character.TraitEmpathy: 0.05, character.TraitAuthenticity: 0.05},
	},
}

// Ability returns the definition of id.
func Ability(id character.AbilityID) (AbilityDef, bool) {
	if !id.Valid() {
		return AbilityDef{}, false
	}
	d := abilityDefs[id]
	d.ID = id
	return d, true
}

// Abilities lists every ability definition in id order.
func Abilities() []AbilityDef {
	out := make([]AbilityDef, 0, character.AbilityCount)
	for id := character.AbilityID(1); id.Valid(); id++ {
		d, _ := Ability(id)
		out = append(out, d)
	}
	return out
}

// RequirementsMet reports whether ev satisfies every requirement of d.
func (d AbilityDef) RequirementsMet(ev character.Evolution) bool {
	if ev.Level < d.MinLevel {
		return false
	}
	for _, s := range d.Skills {
		if !ev.HasSkill(s) {
			return false
		}
	}
	for t, floor := range d.Experience {
		if ev.Breakdown.Get(t) < floor {
			return false
		}
	}
	for _, a := range d.Achievements {
		if !ev.HasAchievement(a) {
			return false
		}
	}
	return true
}

// ──────────────────────────────────────────────
// Experience growth
// ──────────────────────────────────────────────

// growthWeights: growth per trait = amount / 1000 * weight.
var growthWeights = map[character.ExperienceType]map[character.Trait]float64{
	character.ExperienceConversation: {character.TraitCuriosity: 0.5, character.TraitHumor: 0.5},
	character.ExperienceEmotional:    {character.TraitEmpathy: 0.6, character.TraitSensitivity: 0.4},
	character.ExperienceLearning:     {character.TraitCuriosity: 0.5, character.TraitCreativity: 0.5},
	character.ExperienceRelationship: {character.TraitEmpathy: 0.5, character.TraitPatience: 0.5},
}
