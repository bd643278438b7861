package classification

import (
	"context"

	"github.com/Asadaligondal/Identity-Compass/domain/core/valueobjects"
)

// MockClassifier is the deterministic keyword-based stand-in used
// when no API key is configured. Titles with no keyword match default
// to Entertainment, same as the oracle's coercion rule.
type MockClassifier struct{}

// NewMockClassifier creates the mock.
func NewMockClassifier() *MockClassifier {
	return &MockClassifier{}
}

// Classify assigns dimensions by keyword seed lookup.
func (m *MockClassifier) Classify(_ context.Context, titles []string) ([]valueobjects.Dimension, error) {
	dims := make([]valueobjects.Dimension, len(titles))
	for i, title := range titles {
		if dim, ok := valueobjects.KeywordDimension(title); ok {
			dims[i] = dim
			continue
		}
		dims[i] = valueobjects.DimensionEntertainment
	}
	return dims, nil
}
