package emotion

import (
	"time"

	"github.com/cyberFlowTech/zapry-companion-go/character"
)

// patterns are the keyword and emoji sets scored per emotion.
// Bilingual (Korean + English); every hit counts once.
var patterns = map[character.Emotion][]string{
	character.EmotionHappy: {
		"행복", "기뻐", "기쁘", "좋아", "즐거", "웃겨", "하하", "ㅎㅎ", "다행",
		"happy", "glad", "great", "joy", "nice", "😊", "😄", "😀", "🙂", "☺",
	},
	character.EmotionExcited: {
		"신나", "설레", "대박", "최고", "두근", "기대돼",
		"excited", "amazing", "awesome", "can't wait", "🎉", "🤩", "🔥",
	},
	character.EmotionCalm: {
		"편안", "차분", "평화", "여유", "느긋", "잔잔",
		"calm", "relaxed", "peaceful", "chill", "😌",
	},
	character.EmotionCurious: {
		"궁금", "어떻게", "왜", "뭐야", "알고 싶", "신기",
		"curious", "wonder", "how does", "why", "🤔",
	},
	character.EmotionCaring: {
		"괜찮아?", "힘내", "챙겨", "돌봐", "걱정돼",
		"take care", "are you okay", "hope you", "🤗",
	},
	character.EmotionLoving: {
		"사랑", "보고 싶", "보고싶", "좋아해", "소중",
		"love", "miss you", "adore", "❤", "💕", "😍", "🥰",
	},
	character.EmotionSurprised: {
		"헐", "진짜?", "정말?", "깜짝", "놀라", "세상에",
		"wow", "really?", "no way", "surprised", "😮", "😲",
	},
	character.EmotionAnxious: {
		"불안", "긴장", "무서", "떨려", "초조", "걱정",
		"anxious", "worried", "nervous", "scared", "😰", "😟",
	},
	character.EmotionSad: {
		"슬퍼", "슬프", "우울", "속상", "눈물", "힘들", "ㅠㅠ", "ㅜㅜ",
		"sad", "depressed", "cry", "lonely", "😢", "😭",
	},
	character.EmotionAngry: {
		"화나", "짜증", "열받", "빡치", "어이없",
		"angry", "annoyed", "furious", "hate", "😠", "😡",
	},
}

// valence maps each emotion onto [-1,1] for transition impact.
var valence = map[character.Emotion]float64{
	character.EmotionNeutral:   0,
	character.EmotionHappy:     0.8,
	character.EmotionExcited:   0.7,
	character.EmotionCalm:      0.3,
	character.EmotionCurious:   0.4,
	character.EmotionCaring:    0.5,
	character.EmotionLoving:    0.9,
	character.EmotionSurprised: 0.1,
	character.EmotionAnxious:   -0.5,
	character.EmotionSad:       -0.7,
	character.EmotionAngry:     -0.8,
}

// Valence returns the valence of e, 0 for unknown emotions.
func Valence(e character.Emotion) float64 {
	return valence[e]
}

// baseDuration is how long a mood lasts at stability 1.
var baseDuration = map[character.Emotion]time.Duration{
	character.EmotionNeutral:   30 * time.Minute,
	character.EmotionHappy:     60 * time.Minute,
	character.EmotionExcited:   20 * time.Minute,
	character.EmotionCalm:      90 * time.Minute,
	character.EmotionCurious:   30 * time.Minute,
	character.EmotionCaring:    60 * time.Minute,
	character.EmotionLoving:    120 * time.Minute,
	character.EmotionSurprised: 10 * time.Minute,
	character.EmotionAnxious:   45 * time.Minute,
	character.EmotionSad:       90 * time.Minute,
	character.EmotionAngry:     30 * time.Minute,
}

// complementary maps the user's perceived mood to the companion's response.
var complementary = map[string]character.Emotion{
	"sad":      character.EmotionCaring,
	"lonely":   character.EmotionCaring,
	"tired":    character.EmotionCaring,
	"stressed": character.EmotionCalm,
	"anxious":  character.EmotionCalm,
	"angry":    character.EmotionCalm,
	"happy":    character.EmotionHappy,
	"excited":  character.EmotionExcited,
	"bored":    character.EmotionCurious,
	"curious":  character.EmotionCurious,
	"loving":   character.EmotionLoving,
	"caring":   character.EmotionLoving,
}

// ComplementaryEmotion maps a perceived user mood to a response emotion.
func ComplementaryEmotion(userMood string) (character.Emotion, bool) {
	e, ok := complementary[userMood]
	return e, ok
}

// personalityModifier scales intensity by the trait most tied to e.
func personalityModifier(e character.Emotion, t character.CoreTraits) float64 {
	switch e {
	case character.EmotionHappy, character.EmotionExcited:
		return 0.8 + t.Cheerfulness*0.4
	case character.EmotionSad, character.EmotionAnxious:
		return 0.8 + t.Sensitivity*0.4
	case character.EmotionCaring, character.EmotionLoving:
		return 0.8 + t.Empathy*0.4
	case character.EmotionCurious, character.EmotionSurprised:
		return 0.8 + t.Curiosity*0.4
	case character.EmotionAngry:
		return 1.2 - t.Patience*0.4
	case character.EmotionCalm:
		return 0.8 + t.Patience*0.4
	}
	return 1
}
