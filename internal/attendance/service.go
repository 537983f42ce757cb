package attendance

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"classpulse/internal/expression"
)

// ErrInvalidQuestionnaire is returned when a check-in's questionnaire is out
// of shape.
var ErrInvalidQuestionnaire = errors.New("questionnaire fields must be 1-5 with a mood")

// StudentCounter supplies the student population for class stats.
type StudentCounter interface {
	CountStudents(ctx context.Context) (int, error)
}

// Stats is the teacher dashboard aggregate.
type Stats struct {
	TotalStudents   int `json:"totalStudents"`
	AverageStress   int `json:"averageStress"`
	AttendanceToday int `json:"attendanceToday"`
}

// Service coordinates check-ins: classification, scoring, and the single
// atomic insert into the ledger.
type Service struct {
	store      Store
	students   StudentCounter
	classifier expression.Classifier
}

// NewService creates a service.
func NewService(store Store, students StudentCounter, classifier expression.Classifier) *Service {
	return &Service{store: store, students: students, classifier: classifier}
}

// CheckIn records one attendance submission for a student. The image is
// optional; scoring proceeds without it. Repeat same-day check-ins are all
// accepted as independent records.
func (s *Service) CheckIn(ctx context.Context, studentID int64, imageURL string, q Questionnaire) (Record, error) {
	if !q.Valid() {
		return Record{}, ErrInvalidQuestionnaire
	}

	label, err := s.classifier.Classify(ctx, imageURL)
	if err != nil {
		return Record{}, fmt.Errorf("expression classification failed: %w", err)
	}
	scores := Compute(label, q)

	return s.store.Insert(ctx, Record{
		StudentID:                studentID,
		Timestamp:                time.Now().UTC(),
		Status:                   StatusPresent,
		ImageURL:                 imageURL,
		FaceStressScore:          scores.Face,
		QuestionnaireStressScore: scores.Questionnaire,
		FinalStressScore:         scores.Final,
		QuestionnaireResponse:    q,
		FaceAnalysisData:         FaceAnalysis{Expression: string(label)},
	})
}

// HistoryByStudent returns a student's records, newest first. Unknown ids
// yield an empty list, never an error.
func (s *Service) HistoryByStudent(ctx context.Context, studentID int64) ([]Record, error) {
	records, err := s.store.ListByStudent(ctx, studentID)
	if err != nil {
		return nil, err
	}
	if records == nil {
		records = []Record{}
	}
	return records, nil
}

// ClassStats aggregates the whole ledger: student count, mean final stress
// across all records (0 when none), and the number of records whose timestamp
// falls on now's calendar date in now's location.
func (s *Service) ClassStats(ctx context.Context, now time.Time) (Stats, error) {
	total, err := s.students.CountStudents(ctx)
	if err != nil {
		return Stats{}, err
	}
	records, err := s.store.ListAll(ctx)
	if err != nil {
		return Stats{}, err
	}

	stats := Stats{TotalStudents: total}
	if len(records) == 0 {
		return stats, nil
	}

	y, m, d := now.Date()
	sum := 0
	for _, rec := range records {
		sum += rec.FinalStressScore
		ry, rm, rd := rec.Timestamp.In(now.Location()).Date()
		if ry == y && rm == m && rd == d {
			stats.AttendanceToday++
		}
	}
	stats.AverageStress = int(math.Round(float64(sum) / float64(len(records))))
	return stats, nil
}
