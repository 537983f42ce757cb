package attendance

import (
	"math"

	"classpulse/internal/expression"
)

// Scores is the output of the scoring engine for one check-in.
type Scores struct {
	Face          int
	Questionnaire int
	Final         int
}

// FaceStress maps an expression label to a base stress score. Unknown labels
// score as neutral.
func FaceStress(label expression.Label) int {
	switch label {
	case expression.Stressed:
		return 80
	case expression.Tired:
		return 70
	case expression.Happy:
		return 10
	default:
		return 30
	}
}

// QuestionnaireStress computes the raw self-reported stress score. Lower
// understanding, higher sleepiness, and higher stress each push it up.
func QuestionnaireStress(q Questionnaire) float64 {
	score := (float64(6-q.Understanding)*20 + float64(q.Sleepiness)*20 + float64(q.Stress)*20) / 3
	return clamp(score)
}

// Compute blends the expression classification with the questionnaire into
// the composite stress score. Pure; no side effects.
func Compute(label expression.Label, q Questionnaire) Scores {
	face := FaceStress(label)
	raw := QuestionnaireStress(q)
	return Scores{
		Face:          face,
		Questionnaire: int(math.Round(raw)),
		Final:         int(math.Round((float64(face) + raw) / 2)),
	}
}

func clamp(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
