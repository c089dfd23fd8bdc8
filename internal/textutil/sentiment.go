package textutil

// Positive and negative sentiment keywords (Korean + English).
var (
	PositiveWords = []string{
		"좋아", "행복", "기뻐", "고마워", "감사", "사랑", "최고", "재밌", "즐거", "신나", "축하", "성공", "다행",
		"good", "great", "happy", "love", "thanks", "thank you", "awesome", "nice", "wonderful", "glad", "congrat",
	}
	NegativeWords = []string{
		"싫어", "슬퍼", "우울", "힘들", "화나", "짜증", "불안", "걱정", "외로", "지쳐", "실망", "속상", "최악",
		"bad", "sad", "hate", "angry", "tired", "lonely", "worried", "upset", "terrible", "awful", "depressed",
	}
)

// Sentiment scores normalized text in [-1, 1] as
// (positive - negative) / (positive + negative). No hits scores 0.
func Sentiment(text string) float64 {
	pos := CountKeywords(text, PositiveWords)
	neg := CountKeywords(text, NegativeWords)
	if pos+neg == 0 {
		return 0
	}
	return float64(pos-neg) / float64(pos+neg)
}
