package ml

import (
	"math"
	"testing"
)

func forestTrainingData() ([][]float64, []float64) {
	X := make([][]float64, 0, 40)
	y := make([]float64, 0, 40)
	for i := 0; i < 40; i++ {
		size := 1.0 + float64(i%8)*0.5
		X = append(X, []float64{size, float64(i % 2)})
		y = append(y, 120+size*40)
	}
	return X, y
}

func TestRegressionForestFitAndPredict(t *testing.T) {
	X, y := forestTrainingData()

	forest := NewRegressionForest(20, 5, 42)
	if err := forest.Fit(X, y); err != nil {
		t.Fatalf("Fit failed: %v", err)
	}
	if err := forest.Validate(); err != nil {
		t.Fatalf("Validate failed: %v", err)
	}

	pred, err := forest.Predict([]float64{2.0, 1})
	if err != nil {
		t.Fatalf("Predict failed: %v", err)
	}
	if math.IsNaN(pred) || math.IsInf(pred, 0) {
		t.Fatalf("prediction is not finite: %v", pred)
	}
	// The prediction must stay within the target range seen in training.
	if pred < 120 || pred > 300 {
		t.Errorf("prediction %v outside training target range [120, 300]", pred)
	}
}

func TestRegressionForestDeterministicWithSameSeed(t *testing.T) {
	X, y := forestTrainingData()

	a := NewRegressionForest(10, 5, 42)
	if err := a.Fit(X, y); err != nil {
		t.Fatal(err)
	}
	b := NewRegressionForest(10, 5, 42)
	if err := b.Fit(X, y); err != nil {
		t.Fatal(err)
	}

	inputs := [][]float64{{1.5, 0}, {2.5, 1}, {4.0, 0}}
	for _, x := range inputs {
		pa, _ := a.Predict(x)
		pb, _ := b.Predict(x)
		if pa != pb {
			t.Errorf("same seed produced different predictions for %v: %v vs %v", x, pa, pb)
		}
	}
}

func TestRegressionForestDefaults(t *testing.T) {
	forest := NewRegressionForest(0, 0, 42)
	if forest.NumTrees != 300 {
		t.Errorf("NumTrees = %d, want default 300", forest.NumTrees)
	}
	if forest.MaxDepth != 10 {
		t.Errorf("MaxDepth = %d, want default 10", forest.MaxDepth)
	}
}

func TestRegressionForestErrors(t *testing.T) {
	forest := NewRegressionForest(5, 3, 42)

	if err := forest.Fit(nil, nil); err == nil {
		t.Error("expected error for empty training data")
	}
	if err := forest.Fit([][]float64{{1}}, []float64{1, 2}); err == nil {
		t.Error("expected error for mismatched lengths")
	}
	if _, err := forest.Predict([]float64{1}); err == nil {
		t.Error("expected error for unfitted forest")
	}
	if err := forest.Validate(); err == nil {
		t.Error("expected validation error for unfitted forest")
	}

	X, y := forestTrainingData()
	if err := forest.Fit(X, y); err != nil {
		t.Fatal(err)
	}
	if _, err := forest.Predict([]float64{1}); err == nil {
		t.Error("expected error for wrong feature count")
	}
}
