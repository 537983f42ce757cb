package expression

import (
	"context"
	"math/rand"
	"sync"
)

// Label is a facial-expression classification.
type Label string

// Labels the scoring engine understands.
const (
	Neutral  Label = "neutral"
	Happy    Label = "happy"
	Stressed Label = "stressed"
	Tired    Label = "tired"
)

// Classifier turns a captured image into an expression label. The production
// implementation calls the face-analysis service; the mock stands in for it
// until a real model is deployed.
type Classifier interface {
	Classify(ctx context.Context, imageURL string) (Label, error)
}

var labels = []Label{Neutral, Happy, Stressed, Tired}

// Mock draws a random expression label. It never inspects the image.
type Mock struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewMock creates a mock classifier with the given seed.
func NewMock(seed int64) *Mock {
	return &Mock{rng: rand.New(rand.NewSource(seed))}
}

// Classify returns a random label.
func (m *Mock) Classify(_ context.Context, _ string) (Label, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return labels[m.rng.Intn(len(labels))], nil
}

// Fixed always returns the same label. Useful in tests.
type Fixed struct {
	Label Label
}

// Classify returns the fixed label.
func (f Fixed) Classify(_ context.Context, _ string) (Label, error) {
	return f.Label, nil
}
