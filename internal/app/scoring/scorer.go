// Package scoring computes the relevance score of an applicant for a job.
package scoring

import (
	"math"
	"strings"

	"github.com/yigit/joblink/internal/app/models"
)

const (
	MinScore = 0
	MaxScore = 100

	baseScore          = 40.0
	maxMatchPoints     = 40.0
	noRequirementBonus = 20.0
)

// academicTiers are checked top-down; the first threshold reached wins
var academicTiers = []struct {
	threshold float64
	bonus     float64
}{
	{9, 20},
	{8, 15},
	{7, 10},
	{6, 5},
}

// breakdown records how a score was reached
type breakdown struct {
	Base         float64
	Match        float64
	Academic     float64
	Matched      []string
	Requirements int
	Score        int
}

// Score returns the relevance of profile for a job with the given requirement keywords.
// The result is always within [MinScore, MaxScore].
func Score(profile models.ApplicantProfile, requirements []string) int {
	return explain(profile, requirements).Score
}

// explain is Score with the individual components kept
func explain(profile models.ApplicantProfile, requirements []string) breakdown {
	b := breakdown{Base: baseScore}

	keywords := models.NormalizeRequirements(requirements)
	b.Requirements = len(keywords)

	if len(keywords) == 0 {
		b.Match = noRequirementBonus
	} else {
		resume := strings.ToLower(profile.ResumeText)
		for _, kw := range keywords {
			if strings.Contains(resume, kw) {
				b.Matched = append(b.Matched, kw)
			}
		}
		b.Match = float64(len(b.Matched)) / float64(len(keywords)) * maxMatchPoints
	}

	b.Academic = academicBonus(profile.AcademicFigure)
	b.Score = clamp(int(math.Round(b.Base + b.Match + b.Academic)))
	return b
}

func academicBonus(figure float64) float64 {
	if math.IsNaN(figure) {
		return 0
	}
	for _, tier := range academicTiers {
		if figure >= tier.threshold {
			return tier.bonus
		}
	}
	return 0
}

func clamp(v int) int {
	if v < MinScore {
		return MinScore
	}
	if v > MaxScore {
		return MaxScore
	}
	return v
}
