package ml

import (
	"context"
	"strconv"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"

	"attorneypredict/metrics"
)

type Prediction struct {
	Label      int           `json:"label"`
	Confidence float64       `json:"confidence"`
	Features   AlignedRecord `json:"features"`
}

type cachedResult struct {
	label      int
	confidence float64
}

// Predictor aligns a claim record to the model's feature order and
// classifies it. It holds no mutable state apart from the optional result
// cache, which is safe for concurrent use.
type Predictor struct {
	model  Classifier
	policy MissingPolicy
	cache  *lru.Cache[string, cachedResult]
}

func NewPredictor(model Classifier, policy MissingPolicy) *Predictor {
	if policy == "" {
		policy = MissingDefaultZero
	}
	return &Predictor{model: model, policy: policy}
}

// WithCache memoises results for up to size distinct feature vectors.
// A non-positive size leaves caching off.
func (p *Predictor) WithCache(size int) (*Predictor, error) {
	if size <= 0 {
		return p, nil
	}
	cache, err := lru.New[string, cachedResult](size)
	if err != nil {
		return nil, err
	}
	p.cache = cache
	return p, nil
}

func (p *Predictor) Model() Classifier {
	return p.model
}

func (p *Predictor) Policy() MissingPolicy {
	return p.policy
}

func (p *Predictor) Predict(ctx context.Context, record map[string]any) (*Prediction, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	aligned, err := Align(record, p.model.FeatureNames(), p.policy)
	if err != nil {
		return nil, err
	}
	vector, err := aligned.Vector()
	if err != nil {
		return nil, err
	}

	var key string
	if p.cache != nil {
		key = vectorKey(vector)
		if hit, ok := p.cache.Get(key); ok {
			metrics.PredictionCacheHits.Inc()
			return &Prediction{Label: hit.label, Confidence: hit.confidence, Features: aligned}, nil
		}
	}

	label, confidence, err := p.model.Predict(vector)
	if err != nil {
		return nil, err
	}
	if p.cache != nil {
		p.cache.Add(key, cachedResult{label: label, confidence: confidence})
	}
	return &Prediction{Label: label, Confidence: confidence, Features: aligned}, nil
}

func vectorKey(vector []float64) string {
	parts := make([]string, len(vector))
	for i, v := range vector {
		parts[i] = strconv.FormatFloat(v, 'g', -1, 64)
	}
	return strings.Join(parts, ",")
}
