package relationship

import "github.com/cyberFlowTech/zapry-companion-go/character"

type weightedCategory struct {
	name     string
	weight   float64
	keywords []string
}

var intimacyCategories = []weightedCategory{
	{"personal_sharing", 0.02, []string{"사실", "내 얘기", "어릴 때", "우리 가족", "비밀", "tell you something", "about me", "when i was", "my family"}},
	{"emotional_openness", 0.025, []string{"느껴", "기분이", "마음이", "솔직히", "감정", "i feel", "feeling", "honestly", "my heart"}},
	{"vulnerability", 0.03, []string{"무서워", "두려워", "불안해", "상처", "외로워", "afraid", "scared", "vulnerable", "hurt", "insecure", "lonely"}},
	{"affection", 0.02, []string{"좋아해", "사랑해", "보고 싶", "보고싶", "소중해", "고마워", "like you", "love you", "miss you", "care about you"}},
	{"deep_conversation", 0.015, []string{"인생", "의미", "미래", "꿈", "가치관", "철학", "life", "meaning", "future", "dream", "believe"}},
}

var detachmentWords = []string{"귀찮", "됐어", "상관없", "관심없", "그만", "whatever", "leave me alone", "don't care", "go away"}

var trustCategories = []weightedCategory{
	{"reliability", 0.02, []string{"믿어", "의지", "약속", "항상", "rely", "count on", "promise", "always there"}},
	{"honesty", 0.025, []string{"솔직", "진심", "사실대로", "honest", "truth", "sincerely"}},
	{"support", 0.02, []string{"도와줘서", "힘이 돼", "위로", "덕분", "support", "helped", "comfort"}},
	{"consistency", 0.015, []string{"매일", "변함없", "every day", "consistent", "as always"}},
	{"understanding", 0.02, []string{"이해해", "알아줘서", "공감", "understand", "get me", "relate"}},
}

var distrustWords = []string{"거짓말", "믿을 수 없", "배신", "실망", "liar", "lied", "betray", "can't trust", "disappointed"}

const (
	detachmentPenalty = 0.03
	distrustPenalty   = 0.04
	moodBonus         = 0.01
	dailyTrustBonus   = 0.01
	dailyBonusAfter   = 5
	eveningMultiplier = 1.2
	maxDelta          = 0.1
	conflictTrustCost = 0.2
)

// conflictRules are checked in order; the first match is recorded.
var conflictRules = []struct {
	typ      character.ConflictType
	severity float64
	keywords []string
}{
	{character.ConflictMisunderstanding, 0.3, []string{"그게 아니라", "오해", "무슨 말이야", "that's not what i meant", "misunderstood", "you don't get it"}},
	{character.ConflictBoundaryCrossed, 0.6, []string{"선 넘", "간섭하지", "사생활", "crossed the line", "none of your business", "stop asking"}},
	{character.ConflictValueConflict, 0.5, []string{"말도 안 돼", "동의 못", "틀렸어", "생각이 달라", "disagree", "that's wrong", "nonsense"}},
	{character.ConflictCommunicationBreakdown, 0.4, []string{"말이 안 통", "대화가 안", "듣고 있어?", "무시", "not listening", "ignoring me", "you never listen"}},
}

// levelThresholds are the intimacy/trust averages that earn a level-up milestone.
var levelThresholds = []float64{2, 4, 6, 8, 9, 9.5}

var (
	secretWords      = []string{"비밀인데", "비밀이야", "아무한테도 말 안", "처음 말하는", "secret", "never told anyone"}
	celebrationWords = []string{"축하", "성공", "합격", "congrat", "we did it", "celebrate"}
)

const (
	trustBreakthroughAt   = 8.0
	emotionalConnectionAt = 7.0
	confidantTrust        = 9.0
	confidantSecrets      = 3
	mentorTrust           = 7.0
	mentorIntimacy        = 5.0
	mentorLearning        = 5
	mentorInteractions    = 30
)

// typeBands are lower bounds on the intimacy/trust average, highest first.
var typeBands = []struct {
	min float64
	typ character.RelationshipType
}{
	{9, character.RelationshipLifePartner},
	{7, character.RelationshipRomanticInterest},
	{5, character.RelationshipBestFriend},
	{3, character.RelationshipCloseFriend},
}
