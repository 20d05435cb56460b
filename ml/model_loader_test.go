package ml

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestLoadModelRandomForest(t *testing.T) {
	model, err := LoadModel("random_forest", "testdata/forest.json")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	forest, ok := model.(*RandomForest)
	if !ok {
		t.Fatalf("expected *RandomForest, got %T", model)
	}
	if forest.Size() != 3 {
		t.Fatalf("expected 3 trees, got %d", forest.Size())
	}
	names := model.FeatureNames()
	if len(names) != 12 || names[0] != "CASENUM" || names[11] != "Driving_Record" {
		t.Fatalf("unexpected feature names: %v", names)
	}
}

func TestLoadModelTypeFromArtifact(t *testing.T) {
	model, err := LoadModel("", "testdata/tree.json")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := model.(*DecisionTree); !ok {
		t.Fatalf("expected *DecisionTree, got %T", model)
	}
}

func TestLoadModelFailures(t *testing.T) {
	dir := t.TempDir()
	garbage := filepath.Join(dir, "garbage.json")
	if err := os.WriteFile(garbage, []byte("not json"), 0o600); err != nil {
		t.Fatal(err)
	}
	dup := filepath.Join(dir, "dup.json")
	if err := os.WriteFile(dup, []byte(`{"model_type":"random_forest","feature_names":["A","A"],"classes":[0,1],"trees":[]}`), 0o600); err != nil {
		t.Fatal(err)
	}

	cases := []struct {
		name      string
		modelType string
		path      string
	}{
		{"missing file", "random_forest", filepath.Join(dir, "absent.json")},
		{"corrupt file", "random_forest", garbage},
		{"duplicate features", "random_forest", dup},
		{"type mismatch", "decision_tree", "testdata/forest.json"},
		{"unsupported type", "svm", "testdata/forest.json"},
		{"bad child index", "random_forest", "testdata/bad_child.json"},
	}
	for _, tc := range cases {
		if _, err := LoadModel(tc.modelType, tc.path); !errors.Is(err, ErrArtifact) {
			t.Fatalf("%s: expected ErrArtifact, got %v", tc.name, err)
		}
	}
}

func TestModelHandleLoadsOnce(t *testing.T) {
	handle := NewModelHandle("random_forest", "testdata/forest.json")
	first, err := handle.Get()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := handle.Get()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if first != second {
		t.Fatal("expected the same model instance on every call")
	}
}

func TestModelHandleKeepsLoadError(t *testing.T) {
	handle := NewModelHandle("random_forest", filepath.Join(t.TempDir(), "absent.json"))
	if _, err := handle.Get(); !errors.Is(err, ErrArtifact) {
		t.Fatalf("expected ErrArtifact, got %v", err)
	}
	if _, err := handle.Get(); !errors.Is(err, ErrArtifact) {
		t.Fatalf("expected ErrArtifact on second call, got %v", err)
	}
}
