package ml

import "fmt"

type RandomForest struct {
	featureNames []string
	classes      []int
	trees        []*DecisionTree
}

func NewRandomForest(featureNames []string, classes []int, trees [][]TreeNode) (*RandomForest, error) {
	if len(trees) == 0 {
		return nil, fmt.Errorf("%w: forest has no trees", ErrArtifact)
	}
	rf := &RandomForest{
		featureNames: featureNames,
		classes:      classes,
		trees:        make([]*DecisionTree, 0, len(trees)),
	}
	for i, nodes := range trees {
		tree, err := NewDecisionTree(featureNames, classes, nodes)
		if err != nil {
			return nil, fmt.Errorf("tree %d: %w", i, err)
		}
		rf.trees = append(rf.trees, tree)
	}
	return rf, nil
}

func (rf *RandomForest) FeatureNames() []string {
	return append([]string(nil), rf.featureNames...)
}

func (rf *RandomForest) Classes() []int {
	return append([]int(nil), rf.classes...)
}

func (rf *RandomForest) Size() int {
	return len(rf.trees)
}

// Predict averages the leaf class distributions of every tree and returns
// the most probable class with its mean probability.
func (rf *RandomForest) Predict(features []float64) (int, float64, error) {
	mean := make([]float64, len(rf.classes))
	for _, tree := range rf.trees {
		dist, err := tree.distribution(features)
		if err != nil {
			return 0, 0, err
		}
		for i, p := range dist {
			mean[i] += p
		}
	}
	for i := range mean {
		mean[i] /= float64(len(rf.trees))
	}
	best := argmax(mean)
	return rf.classes[best], mean[best], nil
}
