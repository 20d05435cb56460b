package ml

import (
	"context"
	"errors"
)

var (
	ErrArtifact       = errors.New("invalid model artifact")
	ErrSchemaMismatch = errors.New("feature schema mismatch")
	ErrMissingFeature = errors.New("missing expected feature")
)

type Classifier interface {
	FeatureNames() []string
	Classes() []int
	Predict(features []float64) (int, float64, error)
}

type ModelProvider interface {
	Predict(ctx context.Context, record map[string]any) (*Prediction, error)
}
