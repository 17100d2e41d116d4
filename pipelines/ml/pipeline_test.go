package ml

import (
	"os"
	"path/filepath"
	"testing"
)

func pipelineTrainingTable(t *testing.T) (*Table, []float64) {
	t.Helper()
	columns := []string{"Fuel", "EngineSize", "CO2Emissions"}
	rows := [][]string{
		{"X", "1.4", "168"},
		{"X", "1.8", "166"},
		{"X", "2.0", "179"},
		{"X", "2.4", "189"},
		{"X", "2.5", "205"},
		{"Z", "2.0", "196"},
		{"Z", "3.0", "244"},
		{"Z", "3.5", "255"},
		{"X", "5.0", "324"},
		{"X", "5.3", "315"},
	}
	table := mustTable(t, columns, rows)
	y, err := table.TargetValues("CO2Emissions")
	if err != nil {
		t.Fatal(err)
	}
	return table, y
}

func fittedPipeline(t *testing.T) *Pipeline {
	t.Helper()
	table, y := pipelineTrainingTable(t)
	pipeline := NewPipeline(encoderTestSchema(t), 10, 5, 42)
	if err := pipeline.Fit(table, y); err != nil {
		t.Fatalf("Fit failed: %v", err)
	}
	return pipeline
}

func TestPipelineFitAndPredict(t *testing.T) {
	pipeline := fittedPipeline(t)

	row := FeatureRow{
		Categorical: map[string]string{"Fuel": "X"},
		Numeric:     map[string]float64{"EngineSize": 2.0},
	}
	pred, err := pipeline.Predict(row)
	if err != nil {
		t.Fatalf("Predict failed: %v", err)
	}
	if pred < 160 || pred > 330 {
		t.Errorf("prediction %v outside plausible range", pred)
	}

	again, err := pipeline.Predict(row)
	if err != nil {
		t.Fatal(err)
	}
	if again != pred {
		t.Errorf("repeated prediction differs: %v then %v", pred, again)
	}
}

func TestPipelineFitRowTargetMismatch(t *testing.T) {
	table, y := pipelineTrainingTable(t)
	pipeline := NewPipeline(encoderTestSchema(t), 5, 3, 42)
	if err := pipeline.Fit(table, y[:len(y)-1]); err == nil {
		t.Fatal("expected error for row/target count mismatch")
	}
}

func TestPipelineSaveLoadRoundTrip(t *testing.T) {
	pipeline := fittedPipeline(t)
	path := filepath.Join(t.TempDir(), "artifacts", "model.json")

	if err := pipeline.Save(path); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	loaded, err := LoadPipeline(path)
	if err != nil {
		t.Fatalf("LoadPipeline failed: %v", err)
	}

	// The reloaded pipeline must predict exactly what the original does.
	rows := []FeatureRow{
		{Categorical: map[string]string{"Fuel": "X"}, Numeric: map[string]float64{"EngineSize": 1.8}},
		{Categorical: map[string]string{"Fuel": "Z"}, Numeric: map[string]float64{"EngineSize": 3.2}},
		{Categorical: map[string]string{"Fuel": "E"}, Numeric: map[string]float64{"EngineSize": 2.5}},
	}
	for _, row := range rows {
		want, err := pipeline.Predict(row)
		if err != nil {
			t.Fatal(err)
		}
		got, err := loaded.Predict(row)
		if err != nil {
			t.Fatal(err)
		}
		if got != want {
			t.Errorf("reloaded prediction = %v, want %v", got, want)
		}
	}
}

func TestLoadPipelineRejectsBadArtifacts(t *testing.T) {
	dir := t.TempDir()

	missing := filepath.Join(dir, "missing.json")
	if _, err := LoadPipeline(missing); err == nil {
		t.Error("expected error for missing model file")
	}

	garbage := filepath.Join(dir, "garbage.json")
	if err := os.WriteFile(garbage, []byte("not json"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadPipeline(garbage); err == nil {
		t.Error("expected error for unparseable model file")
	}

	empty := filepath.Join(dir, "empty.json")
	if err := os.WriteFile(empty, []byte("{}"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadPipeline(empty); err == nil {
		t.Error("expected error for incomplete model file")
	}
}
