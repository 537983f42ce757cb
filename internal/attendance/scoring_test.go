package attendance

import (
	"testing"

	"classpulse/internal/expression"
)

func TestFaceStress(t *testing.T) {
	tests := []struct {
		label expression.Label
		want  int
	}{
		{expression.Stressed, 80},
		{expression.Tired, 70},
		{expression.Neutral, 30},
		{expression.Happy, 10},
		{expression.Label("grimacing"), 30}, // unknown labels score as neutral
		{expression.Label(""), 30},
	}
	for _, tt := range tests {
		if got := FaceStress(tt.label); got != tt.want {
			t.Errorf("FaceStress(%q) = %d, want %d", tt.label, got, tt.want)
		}
	}
}

func TestComputeVectors(t *testing.T) {
	tests := []struct {
		name      string
		label     expression.Label
		q         Questionnaire
		wantQ     int
		wantFace  int
		wantFinal int
	}{
		{
			name:      "worst case stressed",
			label:     expression.Stressed,
			q:         Questionnaire{Understanding: 1, Sleepiness: 5, Stress: 5, Mood: "sad"},
			wantQ:     100,
			wantFace:  80,
			wantFinal: 90,
		},
		{
			name:      "best case happy",
			label:     expression.Happy,
			q:         Questionnaire{Understanding: 5, Sleepiness: 1, Stress: 1, Mood: "happy"},
			wantQ:     20,
			wantFace:  10,
			wantFinal: 15,
		},
		{
			name:      "mid neutral",
			label:     expression.Neutral,
			q:         Questionnaire{Understanding: 3, Sleepiness: 3, Stress: 3, Mood: "ok"},
			wantQ:     60,
			wantFace:  30,
			wantFinal: 45,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Compute(tt.label, tt.q)
			if got.Questionnaire != tt.wantQ {
				t.Errorf("questionnaire score = %d, want %d", got.Questionnaire, tt.wantQ)
			}
			if got.Face != tt.wantFace {
				t.Errorf("face score = %d, want %d", got.Face, tt.wantFace)
			}
			if got.Final != tt.wantFinal {
				t.Errorf("final score = %d, want %d", got.Final, tt.wantFinal)
			}
		})
	}
}

// Every valid questionnaire and label must produce integer scores in [0,100].
func TestComputeRange(t *testing.T) {
	labels := []expression.Label{expression.Neutral, expression.Happy, expression.Stressed, expression.Tired, expression.Label("unknown")}
	for u := 1; u <= 5; u++ {
		for sl := 1; sl <= 5; sl++ {
			for st := 1; st <= 5; st++ {
				q := Questionnaire{Understanding: u, Sleepiness: sl, Stress: st, Mood: "x"}
				for _, label := range labels {
					got := Compute(label, q)
					for _, score := range []int{got.Face, got.Questionnaire, got.Final} {
						if score < 0 || score > 100 {
							t.Fatalf("Compute(%q, %+v) out of range: %+v", label, q, got)
						}
					}
				}
			}
		}
	}
}

// Holding other fields fixed, higher sleepiness or stress never lowers the
// questionnaire score, and higher understanding never raises it.
func TestQuestionnaireStressMonotonic(t *testing.T) {
	base := Questionnaire{Understanding: 3, Sleepiness: 3, Stress: 3, Mood: "ok"}

	prev := -1.0
	for sl := 1; sl <= 5; sl++ {
		q := base
		q.Sleepiness = sl
		if score := QuestionnaireStress(q); score < prev {
			t.Errorf("sleepiness %d lowered score to %v", sl, score)
		} else {
			prev = score
		}
	}

	prev = -1.0
	for st := 1; st <= 5; st++ {
		q := base
		q.Stress = st
		if score := QuestionnaireStress(q); score < prev {
			t.Errorf("stress %d lowered score to %v", st, score)
		} else {
			prev = score
		}
	}

	prev = 101.0
	for u := 1; u <= 5; u++ {
		q := base
		q.Understanding = u
		if score := QuestionnaireStress(q); score > prev {
			t.Errorf("understanding %d raised score to %v", u, score)
		} else {
			prev = score
		}
	}
}

func TestQuestionnaireValid(t *testing.T) {
	tests := []struct {
		name string
		q    Questionnaire
		want bool
	}{
		{"ok", Questionnaire{1, 5, 3, "fine"}, true},
		{"unrecognized mood passes through", Questionnaire{2, 2, 2, "bewildered"}, true},
		{"understanding low", Questionnaire{0, 3, 3, "ok"}, false},
		{"sleepiness high", Questionnaire{3, 6, 3, "ok"}, false},
		{"stress low", Questionnaire{3, 3, 0, "ok"}, false},
		{"missing mood", Questionnaire{3, 3, 3, ""}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.q.Valid(); got != tt.want {
				t.Errorf("Valid() = %v, want %v", got, tt.want)
			}
		})
	}
}
