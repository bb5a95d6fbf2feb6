package models

// Sentiment is the polarity of a news assessment.
type Sentiment string

const (
	SentimentBullish Sentiment = "bullish"
	SentimentBearish Sentiment = "bearish"
	SentimentNeutral Sentiment = "neutral"
)

// Direction maps a sentiment onto a trading direction.
func (s Sentiment) Direction() Direction {
	switch s {
	case SentimentBullish:
		return DirectionUp
	case SentimentBearish:
		return DirectionDown
	default:
		return DirectionNeutral
	}
}

// SentimentAssessment is one symbol's aggregated news sentiment for an
// analysis run. Method records which stage of the fallback chain produced it.
type SentimentAssessment struct {
	Sentiment   Sentiment `json:"sentiment"`
	Confidence  float64   `json:"confidence"`
	Reasoning   string    `json:"reasoning"`
	SourceCount int       `json:"source_count"`
	Method      string    `json:"method"`
	Impact      string    `json:"impact,omitempty"`
}

// MethodNoData marks the zero-cost short-circuit for an empty article list.
const MethodNoData = "no_data"

// NoDataAssessment is the defined neutral outcome when no news exists.
// It is not a failure.
func NoDataAssessment() *SentimentAssessment {
	return &SentimentAssessment{
		Sentiment:  SentimentNeutral,
		Confidence: 0,
		Reasoning:  "no news articles available",
		Method:     MethodNoData,
	}
}
