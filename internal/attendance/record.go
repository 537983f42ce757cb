package attendance

import (
	"context"
	"time"
)

// StatusPresent is the only status a check-in produces; there is no absence
// path.
const StatusPresent = "present"

// Questionnaire is a student's self-reported wellbeing answers. The three
// numeric fields range 1..5; Mood is stored verbatim.
type Questionnaire struct {
	Understanding int    `json:"understanding"`
	Sleepiness    int    `json:"sleepiness"`
	Stress        int    `json:"stress"`
	Mood          string `json:"mood"`
}

// Valid reports whether every bounded field is in range and a mood was given.
func (q Questionnaire) Valid() bool {
	inRange := func(v int) bool { return v >= 1 && v <= 5 }
	return inRange(q.Understanding) && inRange(q.Sleepiness) && inRange(q.Stress) && q.Mood != ""
}

// FaceAnalysis holds the expression classification stored with a record.
type FaceAnalysis struct {
	Expression string `json:"expression"`
}

// Record is one attendance check-in. Records are immutable once created.
type Record struct {
	ID                       int64         `json:"id"`
	StudentID                int64         `json:"studentId"`
	Timestamp                time.Time     `json:"timestamp"`
	Status                   string        `json:"status"`
	ImageURL                 string        `json:"imageUrl,omitempty"`
	FaceStressScore          int           `json:"faceStressScore"`
	QuestionnaireStressScore int           `json:"questionnaireStressScore"`
	FinalStressScore         int           `json:"finalStressScore"`
	QuestionnaireResponse    Questionnaire `json:"questionnaireResponse"`
	FaceAnalysisData         FaceAnalysis  `json:"faceAnalysisData"`
}

// Store is the attendance ledger: append and read, never update or delete.
type Store interface {
	Insert(ctx context.Context, rec Record) (Record, error)
	ListByStudent(ctx context.Context, studentID int64) ([]Record, error)
	ListAll(ctx context.Context) ([]Record, error)
}
