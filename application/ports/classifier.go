package ports

import (
	"context"
	"errors"

	"github.com/Asadaligondal/Identity-Compass/domain/core/valueobjects"
)

// ErrRateLimited is the distinguishable rate-limit signal from the
// classification oracle. Callers back off and retry a bounded number
// of times before surfacing a terminal error.
var ErrRateLimited = errors.New("classifier rate limited")

// MaxClassifyBatch bounds one classification call.
const MaxClassifyBatch = 20

// Classifier assigns one dimension per title. Implementations must
// return exactly one dimension per input, coercing any label outside
// the allowed set to Entertainment rather than failing.
type Classifier interface {
	Classify(ctx context.Context, titles []string) ([]valueobjects.Dimension, error)
}
