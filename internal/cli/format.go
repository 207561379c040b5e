package cli

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"trading-discipline/internal/models"
)

// FormatDuration formats a duration in human-readable form.
func FormatDuration(d time.Duration) string {
	if d < 0 {
		return "-" + FormatDuration(-d)
	}
	if d < time.Minute {
		return fmt.Sprintf("%ds", int(d.Seconds()))
	} else if d < time.Hour {
		return fmt.Sprintf("%dm %ds", int(d.Minutes()), int(d.Seconds())%60)
	} else if d < 24*time.Hour {
		return fmt.Sprintf("%dh %dm", int(d.Hours()), int(d.Minutes())%60)
	}
	days := int(d.Hours()) / 24
	hours := int(d.Hours()) % 24
	return fmt.Sprintf("%dd %dh", days, hours)
}

// FormatScore formats an integer score against its maximum.
func FormatScore(score, limit int) string {
	return fmt.Sprintf("%d/%d", score, limit)
}

// TruncateString truncates a string to max length with ellipsis.
func TruncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return s[:maxLen]
	}
	return s[:maxLen-3] + "..."
}

// ParseTime accepts RFC3339 or "2006-01-02 15:04:05" in UTC. Empty means now.
func ParseTime(s string, now time.Time) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return now, nil
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02 15:04:05", "2006-01-02T15:04:05"} {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid time %q, expected RFC3339", s)
}

// ParseAnswers converts id=bool pairs into review answers.
func ParseAnswers(raw map[string]string) (map[string]bool, error) {
	answers := make(map[string]bool, len(raw))
	for id, v := range raw {
		b, err := strconv.ParseBool(strings.TrimSpace(v))
		if err != nil {
			return nil, fmt.Errorf("answer %q: %q is not true or false", id, v)
		}
		answers[strings.TrimSpace(id)] = b
	}
	return answers, nil
}

// SeverityText colors a violation severity.
func (o *Output) SeverityText(s models.Severity) string {
	switch s {
	case models.SeverityHigh:
		return o.Red("HIGH")
	case models.SeverityMedium:
		return o.Yellow("MEDIUM")
	case models.SeverityLow:
		return "LOW"
	}
	return string(s)
}

// UrgencyText colors an alert urgency.
func (o *Output) UrgencyText(u models.Urgency) string {
	switch u {
	case models.UrgencyCritical:
		return o.Red("CRITICAL")
	case models.UrgencyHigh:
		return o.Red("HIGH")
	case models.UrgencyMedium:
		return o.Yellow("MEDIUM")
	case models.UrgencyLow:
		return "LOW"
	}
	return string(u)
}

// StatusText colors a circuit breaker status.
func (o *Output) StatusText(s models.BreakerStatus) string {
	switch s {
	case models.BreakerLocked:
		return o.Red("● LOCKED")
	case models.BreakerWarning:
		return o.Yellow("● WARNING")
	case models.BreakerNormal, "":
		return o.Green("● NORMAL")
	}
	return string(s)
}

// LevelText colors an emotional-risk level.
func (o *Output) LevelText(l models.EmotionLevel) string {
	switch l {
	case models.LevelDanger:
		return o.Red(strings.ToUpper(string(l)))
	case models.LevelCaution:
		return o.Yellow(strings.ToUpper(string(l)))
	}
	return o.Green(strings.ToUpper(string(l)))
}
