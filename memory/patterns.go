package memory

import (
	"regexp"

	"github.com/cyberFlowTech/zapry-companion-go/character"
)

var emotionalWords = []string{
	"슬퍼", "행복", "사랑", "화나", "무서", "외로", "우울", "기뻐", "걱정", "눈물", "속상", "감동",
	"feel", "sad", "happy", "love", "scared", "lonely", "afraid", "worried", "cry",
}

var personalWords = []string{
	"가족", "엄마", "아빠", "친구", "회사", "학교", "직장", "꿈", "비밀", "사실은", "이름", "나이",
	"family", "mom", "dad", "job", "school", "dream", "secret", "my name", "i live",
}

// topicKeywords maps a topic to the keywords that signal it.
var topicKeywords = map[string][]string{
	"work":         {"회사", "직장", "업무", "상사", "출근", "work", "job", "boss", "office"},
	"family":       {"가족", "엄마", "아빠", "동생", "언니", "누나", "family", "mom", "dad", "sister", "brother"},
	"relationship": {"친구", "남자친구", "여자친구", "연애", "friend", "boyfriend", "girlfriend", "dating"},
	"hobby":        {"취미", "게임", "영화", "음악", "노래", "운동", "hobby", "game", "movie", "music", "sport"},
	"food":         {"음식", "밥", "맛있", "요리", "먹었", "food", "dinner", "lunch", "cook"},
	"health":       {"병원", "아파", "건강", "감기", "health", "sick", "doctor", "hospital"},
	"study":        {"공부", "시험", "학교", "수업", "study", "exam", "school", "class"},
	"travel":       {"여행", "비행기", "휴가", "travel", "trip", "vacation"},
}

// topicOrder keeps topic extraction deterministic.
var topicOrder = []string{"work", "family", "relationship", "hobby", "food", "health", "study", "travel"}

// eventCascade picks the long-term event type; first match wins,
// learning_moment otherwise.
var eventCascade = []struct {
	typ      character.EventType
	keywords []string
}{
	{character.EventFirstMeeting, []string{"처음 만", "만나서 반가", "첫 만남", "nice to meet", "first time we"}},
	{character.EventEmotionalBreakthrough, []string{"사실은", "처음 말하는", "고백", "털어놓", "honestly", "never told", "confess"}},
	{character.EventSupportGiven, []string{"고마워", "도와줘서", "위로", "덕분에", "thank you", "thanks for", "helped me"}},
	{character.EventCelebration, []string{"축하", "성공", "합격", "생일", "congrat", "celebrate", "passed", "birthday"}},
}

type extractor struct {
	category string
	re       *regexp.Regexp
	// group indexes: value, and optionally a sub-category suffix
	value  int
	suffix int
}

var preferencePatterns = []extractor{
	{category: "like", re: regexp.MustCompile(`([가-힣a-z0-9]+?)(?:을|를|이|가)\s*(?:정말\s*|너무\s*|진짜\s*)?좋아`), value: 1},
	{category: "dislike", re: regexp.MustCompile(`([가-힣a-z0-9]+?)(?:을|를|이|가)\s*(?:정말\s*|너무\s*|진짜\s*)?싫어`), value: 1},
	{category: "like", re: regexp.MustCompile(`\bi (?:really )?(?:like|love|enjoy) ([a-z][a-z ]{1,30}?)(?:[.!,?]|$| and | but )`), value: 1},
	{category: "dislike", re: regexp.MustCompile(`\bi (?:really )?(?:hate|dislike|don't like) ([a-z][a-z ]{1,30}?)(?:[.!,?]|$| and | but )`), value: 1},
	{category: "favorite", re: regexp.MustCompile(`제일 좋아하는 ([가-힣a-z]+)(?:은|는) ([가-힣a-z0-9]+?)(?:이야|야|예요|이에요|입니다|$|[ .,!])`), value: 2, suffix: 1},
	{category: "favorite", re: regexp.MustCompile(`\bmy favou?rite ([a-z]+) is ([a-z0-9 ]{1,30}?)(?:[.!,?]|$)`), value: 2, suffix: 1},
}

var factPatterns = []extractor{
	{category: "name", re: regexp.MustCompile(`(?:제|내)\s*이름은\s*([가-힣a-z]+?)(?:이야|야|입니다|이에요|예요|에요|$|[ .,!])`), value: 1},
	{category: "name", re: regexp.MustCompile(`\bmy name is ([a-z]+)`), value: 1},
	{category: "age", re: regexp.MustCompile(`(\d{1,3})\s*살`), value: 1},
	{category: "age", re: regexp.MustCompile(`\bi(?: am|'m) (\d{1,3}) years old`), value: 1},
	{category: "job", re: regexp.MustCompile(`직업은\s*([가-힣a-z]+?)(?:이야|야|입니다|이에요|예요|에요|$|[ .,!])`), value: 1},
	{category: "job", re: regexp.MustCompile(`\bi work as an? ([a-z ]{2,30}?)(?:[.!,?]|$| at )`), value: 1},
	{category: "location", re: regexp.MustCompile(`([가-힣]+)에\s*(?:살아|살고|삽니다|살아요)`), value: 1},
	{category: "location", re: regexp.MustCompile(`\bi live in ([a-z ]{2,30}?)(?:[.!,?]|$)`), value: 1},
}

// ignoredValues are captures too generic to remember.
var ignoredValues = map[string]bool{
	"you": true, "it": true, "that": true, "this": true, "them": true,
	"너": true, "너를": true, "그거": true, "이거": true, "그게": true, "나": true,
}
