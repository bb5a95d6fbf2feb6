package sentiment

import (
	"fmt"
	"strings"

	"SignalPulse/internal/domain/models"
)

// maxPromptArticles bounds how many articles feed the hosted models.
const maxPromptArticles = 10

const maxSummaryLen = 200

// BuildPrompt renders the top articles' titles and summaries into the
// instruction both hosted-model stages share.
func BuildPrompt(symbol string, articles []models.NewsArticle) string {
	if len(articles) > maxPromptArticles {
		articles = articles[:maxPromptArticles]
	}

	var b strings.Builder
	fmt.Fprintf(&b, "You are a financial analyst. Assess the overall market sentiment for %s based on these recent news items:\n\n", symbol)
	for _, a := range articles {
		summary := a.Summary
		if len(summary) > maxSummaryLen {
			summary = summary[:maxSummaryLen]
		}
		if summary != "" {
			fmt.Fprintf(&b, "- %s: %s\n", a.Title, summary)
		} else {
			fmt.Fprintf(&b, "- %s\n", a.Title)
		}
	}
	b.WriteString("\nRespond with a JSON object: ")
	b.WriteString(`{"sentiment": "bullish"|"bearish"|"neutral", "confidence": 0.0-1.0, "reasoning": "...", "impact": "high"|"medium"|"low"}`)
	return b.String()
}
