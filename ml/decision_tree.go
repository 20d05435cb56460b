package ml

import (
	"errors"
	"fmt"
)

type DecisionTree struct {
	featureNames []string
	classes      []int
	classIndex   map[int]int
	nodes        []TreeNode
}

type TreeNode struct {
	FeatureIdx  int       `json:"feature_idx"`
	Threshold   float64   `json:"threshold"`
	LeftChild   int       `json:"left_child"`
	RightChild  int       `json:"right_child"`
	ClassLabel  int       `json:"class_label"`
	IsLeaf      bool      `json:"is_leaf"`
	ClassCounts []float64 `json:"class_counts,omitempty"`
}

func NewDecisionTree(featureNames []string, classes []int, nodes []TreeNode) (*DecisionTree, error) {
	if len(featureNames) == 0 {
		return nil, fmt.Errorf("%w: no feature names", ErrArtifact)
	}
	if len(classes) == 0 {
		return nil, fmt.Errorf("%w: no classes", ErrArtifact)
	}
	classIndex := make(map[int]int, len(classes))
	for i, class := range classes {
		if _, dup := classIndex[class]; dup {
			return nil, fmt.Errorf("%w: duplicate class %d", ErrArtifact, class)
		}
		classIndex[class] = i
	}
	dt := &DecisionTree{
		featureNames: featureNames,
		classes:      classes,
		classIndex:   classIndex,
		nodes:        nodes,
	}
	if err := dt.validate(); err != nil {
		return nil, err
	}
	return dt, nil
}

func (dt *DecisionTree) FeatureNames() []string {
	return append([]string(nil), dt.featureNames...)
}

func (dt *DecisionTree) Classes() []int {
	return append([]int(nil), dt.classes...)
}

func (dt *DecisionTree) Predict(features []float64) (int, float64, error) {
	dist, err := dt.distribution(features)
	if err != nil {
		return 0, 0, err
	}
	best := argmax(dist)
	return dt.classes[best], dist[best], nil
}

// distribution walks the tree and returns the leaf's class probabilities,
// indexed like dt.classes.
func (dt *DecisionTree) distribution(features []float64) ([]float64, error) {
	if len(features) != len(dt.featureNames) {
		return nil, fmt.Errorf("%w: expected %d features, got %d", ErrSchemaMismatch, len(dt.featureNames), len(features))
	}
	idx := 0
	for {
		node := dt.nodes[idx]
		if node.IsLeaf {
			return dt.leafDistribution(node), nil
		}
		if features[node.FeatureIdx] <= node.Threshold {
			idx = node.LeftChild
		} else {
			idx = node.RightChild
		}
		if idx < 0 || idx >= len(dt.nodes) {
			return nil, errors.New("invalid tree state")
		}
	}
}

func (dt *DecisionTree) leafDistribution(node TreeNode) []float64 {
	dist := make([]float64, len(dt.classes))
	var total float64
	for _, count := range node.ClassCounts {
		total += count
	}
	if total <= 0 {
		dist[dt.classIndex[node.ClassLabel]] = 1
		return dist
	}
	for i, count := range node.ClassCounts {
		dist[i] = count / total
	}
	return dist
}

// validate rejects trees that could index out of range or loop. Children
// must come after their parent, which the pre-order layout guarantees.
func (dt *DecisionTree) validate() error {
	if len(dt.nodes) == 0 {
		return fmt.Errorf("%w: empty tree", ErrArtifact)
	}
	for i, node := range dt.nodes {
		if node.IsLeaf {
			if _, ok := dt.classIndex[node.ClassLabel]; !ok {
				return fmt.Errorf("%w: node %d has unknown class %d", ErrArtifact, i, node.ClassLabel)
			}
			if len(node.ClassCounts) != 0 && len(node.ClassCounts) != len(dt.classes) {
				return fmt.Errorf("%w: node %d has %d class counts for %d classes", ErrArtifact, i, len(node.ClassCounts), len(dt.classes))
			}
			for _, count := range node.ClassCounts {
				if count < 0 {
					return fmt.Errorf("%w: node %d has a negative class count", ErrArtifact, i)
				}
			}
			continue
		}
		if node.FeatureIdx < 0 || node.FeatureIdx >= len(dt.featureNames) {
			return fmt.Errorf("%w: node %d feature index %d out of range", ErrArtifact, i, node.FeatureIdx)
		}
		for _, child := range []int{node.LeftChild, node.RightChild} {
			if child <= i || child >= len(dt.nodes) {
				return fmt.Errorf("%w: node %d child %d out of range", ErrArtifact, i, child)
			}
		}
	}
	return nil
}

// argmax returns the first index holding the largest value, so ties go to
// the lower class index.
func argmax(values []float64) int {
	best := 0
	for i := 1; i < len(values); i++ {
		if values[i] > values[best] {
			best = i
		}
	}
	return best
}
