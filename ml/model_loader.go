package ml

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"
)

const (
	ModelTypeDecisionTree = "decision_tree"
	ModelTypeRandomForest = "random_forest"
)

type Artifact struct {
	ModelType    string       `json:"model_type"`
	FeatureNames []string     `json:"feature_names"`
	Classes      []int        `json:"classes"`
	Trees        [][]TreeNode `json:"trees"`
}

func ReadArtifact(path string) (*Artifact, error) {
	payload, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrArtifact, err)
	}
	var artifact Artifact
	if err := json.Unmarshal(payload, &artifact); err != nil {
		return nil, fmt.Errorf("%w: decode %s: %w", ErrArtifact, path, err)
	}
	seen := make(map[string]bool, len(artifact.FeatureNames))
	for _, name := range artifact.FeatureNames {
		if name == "" {
			return nil, fmt.Errorf("%w: empty feature name", ErrArtifact)
		}
		if seen[name] {
			return nil, fmt.Errorf("%w: duplicate feature %q", ErrArtifact, name)
		}
		seen[name] = true
	}
	return &artifact, nil
}

// LoadModel reads the artifact at path and builds the classifier it
// describes. An empty modelType defers to the artifact's own model_type.
func LoadModel(modelType, path string) (Classifier, error) {
	artifact, err := ReadArtifact(path)
	if err != nil {
		return nil, err
	}
	if modelType == "" {
		modelType = artifact.ModelType
	}
	if artifact.ModelType != "" && artifact.ModelType != modelType {
		return nil, fmt.Errorf("%w: artifact is %q, configured as %q", ErrArtifact, artifact.ModelType, modelType)
	}

	switch modelType {
	case ModelTypeDecisionTree:
		if len(artifact.Trees) != 1 {
			return nil, fmt.Errorf("%w: decision tree artifact needs exactly one tree, has %d", ErrArtifact, len(artifact.Trees))
		}
		return NewDecisionTree(artifact.FeatureNames, artifact.Classes, artifact.Trees[0])
	case ModelTypeRandomForest:
		return NewRandomForest(artifact.FeatureNames, artifact.Classes, artifact.Trees)
	default:
		return nil, fmt.Errorf("%w: unsupported model type %q", ErrArtifact, modelType)
	}
}

// ModelHandle loads a model on first use and hands out the same read-only
// instance for the rest of the process.
type ModelHandle struct {
	modelType string
	path      string

	once  sync.Once
	model Classifier
	err   error
}

func NewModelHandle(modelType, path string) *ModelHandle {
	return &ModelHandle{modelType: modelType, path: path}
}

func (h *ModelHandle) Get() (Classifier, error) {
	h.once.Do(func() {
		h.model, h.err = LoadModel(h.modelType, h.path)
	})
	return h.model, h.err
}

func (h *ModelHandle) Path() string {
	return h.path
}
