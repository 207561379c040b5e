package emotion

import (
	"time"

	"trading-discipline/internal/models"
)

// Factor maxima.
const (
	MaxChasingRally  = 30
	MaxPanicSelling  = 30
	MaxHighFrequency = 20
	MaxFOMO          = 20
)

// Classification cut-offs on the composite score.
const (
	DangerScore  = 60
	CautionScore = 40
)

// Distance from the day's extreme, percent.
const (
	NearExtremePct  = 1.0
	CloseExtremePct = 3.0
	NearExtremePts  = 10
	CloseExtremePts = 5
)

// Daily move, percent.
const (
	SharpMove1dPct = 5.0
	MildMove1dPct  = 3.0
	SharpMove1dPts = 10
	MildMove1dPts  = 5
)

// Five-day move, percent.
const (
	SharpMove5dPct = 15.0
	MildMove5dPct  = 10.0
	SharpMove5dPts = 10
	MildMove5dPts  = 5
)

// FrequencyTier awards Points when at least Heavy actions fall inside Span,
// or Light points when at least Moderate do.
type FrequencyTier struct {
	Name     string
	Span     time.Duration
	Heavy    int
	HeavyPts int
	Moderate int
	LightPts int
}

// FrequencyTiers are evaluated in one pass over the recent actions.
var FrequencyTiers = []FrequencyTier{
	{Name: "hour", Span: time.Hour, Heavy: 5, HeavyPts: 8, Moderate: 3, LightPts: 4},
	{Name: "day", Span: 24 * time.Hour, Heavy: 15, HeavyPts: 7, Moderate: 10, LightPts: 3},
	{Name: "week", Span: 7 * 24 * time.Hour, Heavy: 50, HeavyPts: 5, Moderate: 30, LightPts: 2},
}

// FOMO rules.
const (
	VolumeSurgeRatio    = 3.0
	VolumeElevatedRatio = 2.0
	VolumeSurgePts      = 10
	VolumeElevatedPts   = 5

	RunUp5dPct = 20.0
	RunUp5dPts = 5

	// A buy into a name that moved more than SuddenEntry1dPct today, with no
	// action in the last QuietPeriod, scores SuddenEntryPts.
	SuddenEntry1dPct = 5.0
	SuddenEntryPts   = 5
	QuietPeriod      = 30 * 24 * time.Hour
)

// Thresholds lists the scorer's rule constants.
func Thresholds() []models.Threshold {
	const c = "emotion"
	out := []models.Threshold{
		{Component: c, Rule: "danger at or above", Value: DangerScore, Unit: "points"},
		{Component: c, Rule: "caution at or above", Value: CautionScore, Unit: "points"},
		{Component: c, Rule: "near day extreme within", Value: NearExtremePct, Unit: "%"},
		{Component: c, Rule: "close to day extreme within", Value: CloseExtremePct, Unit: "%"},
		{Component: c, Rule: "sharp 1d move above", Value: SharpMove1dPct, Unit: "%"},
		{Component: c, Rule: "mild 1d move above", Value: MildMove1dPct, Unit: "%"},
		{Component: c, Rule: "sharp 5d move above", Value: SharpMove5dPct, Unit: "%"},
		{Component: c, Rule: "mild 5d move above", Value: MildMove5dPct, Unit: "%"},
		{Component: c, Rule: "volume surge above", Value: VolumeSurgeRatio, Unit: "x"},
		{Component: c, Rule: "volume elevated above", Value: VolumeElevatedRatio, Unit: "x"},
		{Component: c, Rule: "5d run-up above", Value: RunUp5dPct, Unit: "%"},
		{Component: c, Rule: "sudden entry 1d move above", Value: SuddenEntry1dPct, Unit: "%"},
		{Component: c, Rule: "sudden entry quiet period", Value: QuietPeriod.Hours() / 24, Unit: "days"},
	}
	for _, tier := range FrequencyTiers {
		out = append(out,
			models.Threshold{Component: c, Rule: "heavy trading per " + tier.Name, Value: float64(tier.Heavy), Unit: "actions"},
			models.Threshold{Component: c, Rule: "moderate trading per " + tier.Name, Value: float64(tier.Moderate), Unit: "actions"},
		)
	}
	return out
}
