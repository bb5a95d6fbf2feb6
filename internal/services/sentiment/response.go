package sentiment

import (
	"encoding/json"
	"regexp"
	"strconv"
	"strings"

	"SignalPulse/internal/domain/models"
)

// ModelResponse is a tagged view of a hosted model reply: either a
// recognizable structured block or free-form natural language. Dispatch is
// by content inspection, not by exceptions.
type ModelResponse struct {
	Structured *structuredAssessment
	Text       string
}

type structuredAssessment struct {
	Sentiment  string  `json:"sentiment"`
	Confidence float64 `json:"confidence"`
	Reasoning  string  `json:"reasoning"`
	Impact     string  `json:"impact"`
}

// Classify inspects content for a structured block. A block that mentions
// sentiment but fails to decode is a parse failure, advancing the fallback
// chain; content without any block is natural language.
func Classify(content string) (*ModelResponse, error) {
	trimmed := strings.TrimSpace(content)
	if trimmed == "" {
		return nil, models.PipelineErrorf(models.KindParse, "sentiment.classify", "empty response")
	}

	start := strings.Index(trimmed, "{")
	end := strings.LastIndex(trimmed, "}")
	if start >= 0 && end > start {
		block := trimmed[start : end+1]
		if strings.Contains(block, "sentiment") {
			var sa structuredAssessment
			if err := json.Unmarshal([]byte(block), &sa); err != nil {
				return nil, models.NewPipelineError(models.KindParse, "sentiment.classify", err)
			}
			return &ModelResponse{Structured: &sa}, nil
		}
	}
	return &ModelResponse{Text: trimmed}, nil
}

// ParseAssessment normalizes a hosted model's reply into an assessment.
func ParseAssessment(content string) (*models.SentimentAssessment, error) {
	resp, err := Classify(content)
	if err != nil {
		return nil, err
	}
	if resp.Structured != nil {
		return fromStructured(resp.Structured), nil
	}
	return fromNaturalLanguage(resp.Text), nil
}

func fromStructured(sa *structuredAssessment) *models.SentimentAssessment {
	return &models.SentimentAssessment{
		Sentiment:  normalizeLabel(sa.Sentiment),
		Confidence: normalizeConfidence(sa.Confidence),
		Reasoning:  sa.Reasoning,
		Impact:     strings.ToLower(sa.Impact),
	}
}

var confidencePattern = regexp.MustCompile(`(?i)confidence[^0-9]{0,16}([0-9]+(?:\.[0-9]+)?)`)

const defaultConfidence = 0.6

// fromNaturalLanguage extracts an assessment heuristically: polarity
// keyword scan, numeric confidence pattern match, impact keyword scan.
func fromNaturalLanguage(text string) *models.SentimentAssessment {
	t := strings.ToLower(text)

	bull := strings.Count(t, "bullish") + strings.Count(t, "positive")
	bear := strings.Count(t, "bearish") + strings.Count(t, "negative")
	label := models.SentimentNeutral
	switch {
	case bull > bear:
		label = models.SentimentBullish
	case bear > bull:
		label = models.SentimentBearish
	}

	confidence := defaultConfidence
	if m := confidencePattern.FindStringSubmatch(text); m != nil {
		if v, err := strconv.ParseFloat(m[1], 64); err == nil {
			confidence = normalizeConfidence(v)
		}
	}

	return &models.SentimentAssessment{
		Sentiment:  label,
		Confidence: confidence,
		Reasoning:  trimReasoning(text),
		Impact:     extractImpact(t),
	}
}

func normalizeLabel(s string) models.Sentiment {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "bullish", "positive":
		return models.SentimentBullish
	case "bearish", "negative":
		return models.SentimentBearish
	default:
		return models.SentimentNeutral
	}
}

// normalizeConfidence clamps into [0,1]; values above 1 are read as
// percentages.
func normalizeConfidence(v float64) float64 {
	if v > 1 {
		v = v / 100
	}
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func extractImpact(t string) string {
	for _, level := range []string{"high", "medium", "low"} {
		if strings.Contains(t, level+" impact") ||
			strings.Contains(t, "impact: "+level) ||
			strings.Contains(t, "impact is "+level) {
			return level
		}
	}
	return ""
}

const maxReasoningLen = 300

func trimReasoning(text string) string {
	text = strings.TrimSpace(text)
	if len(text) > maxReasoningLen {
		return text[:maxReasoningLen]
	}
	return text
}
