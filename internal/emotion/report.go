package emotion

import (
	"fmt"
	"strings"

	"trading-discipline/internal/models"
)

// LevelLabel returns the display label for a level.
func LevelLabel(level models.EmotionLevel) string {
	switch level {
	case models.LevelDanger:
		return "DANGER"
	case models.LevelCaution:
		return "CAUTION"
	default:
		return "CALM"
	}
}

// Report renders a score as a plain-text report.
func Report(score models.EmotionScore) string {
	var b strings.Builder

	b.WriteString("=== Emotional Trading Report ===\n\n")
	fmt.Fprintf(&b, "Total:      %d/100\n", score.Total)
	fmt.Fprintf(&b, "Risk level: %s\n\n", LevelLabel(score.Level))

	b.WriteString("Factors:\n")
	fmt.Fprintf(&b, "- Chasing rally:  %d/%d\n", score.Factors.ChasingRally, MaxChasingRally)
	fmt.Fprintf(&b, "- Panic selling:  %d/%d\n", score.Factors.PanicSelling, MaxPanicSelling)
	fmt.Fprintf(&b, "- High frequency: %d/%d\n", score.Factors.HighFrequency, MaxHighFrequency)
	fmt.Fprintf(&b, "- FOMO:           %d/%d\n\n", score.Factors.FOMO, MaxFOMO)

	b.WriteString("Warnings:\n")
	for _, w := range score.Warnings {
		fmt.Fprintf(&b, "- %s\n", w)
	}

	if score.ShouldBlock {
		b.WriteString("\nRecommendation: pause trading and take a cooling-off period.\n")
	}
	return b.String()
}
