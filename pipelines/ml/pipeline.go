package ml

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Pipeline is the fitted preprocessing + estimator artifact. Once fitted
// and saved it is immutable: the serving process deserializes it and calls
// Predict only. The input contract is a FeatureRow shaped per the schema
// the pipeline was trained with.
type Pipeline struct {
	Schema       *FeatureSchema    `json:"schema"`
	Preprocessor *Preprocessor     `json:"preprocessor"`
	Forest       *RegressionForest `json:"forest"`
}

// NewPipeline creates an unfitted pipeline for the given schema.
func NewPipeline(schema *FeatureSchema, numTrees, maxDepth int, seed int64) *Pipeline {
	return &Pipeline{
		Schema:       schema,
		Preprocessor: NewPreprocessor(schema),
		Forest:       NewRegressionForest(numTrees, maxDepth, seed),
	}
}

// Fit learns preprocessing statistics from the table, encodes it, and
// trains the forest against the given targets.
func (p *Pipeline) Fit(table *Table, y []float64) error {
	if table.NumRows() != len(y) {
		return fmt.Errorf("table has %d rows but %d targets", table.NumRows(), len(y))
	}

	if err := p.Preprocessor.Fit(table); err != nil {
		return fmt.Errorf("preprocessing fit failed: %w", err)
	}

	X, err := p.Preprocessor.TransformTable(table)
	if err != nil {
		return fmt.Errorf("preprocessing transform failed: %w", err)
	}

	if err := p.Forest.Fit(X, y); err != nil {
		return fmt.Errorf("forest fit failed: %w", err)
	}

	return nil
}

// Predict encodes one typed row and returns the forest's estimate. It is
// a pure function of the frozen pipeline state and the row.
func (p *Pipeline) Predict(row FeatureRow) (float64, error) {
	x, err := p.Preprocessor.Transform(row)
	if err != nil {
		return 0, err
	}
	return p.Forest.Predict(x)
}

// PredictTable predicts every row of an already-validated table, used by
// the trainer to evaluate the held-out partition.
func (p *Pipeline) PredictTable(table *Table) ([]float64, error) {
	X, err := p.Preprocessor.TransformTable(table)
	if err != nil {
		return nil, err
	}

	out := make([]float64, len(X))
	for i, x := range X {
		v, err := p.Forest.Predict(x)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i, err)
		}
		out[i] = v
	}
	return out, nil
}

// Save writes the fitted pipeline as a single JSON artifact.
func (p *Pipeline) Save(path string) error {
	data, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("failed to marshal pipeline: %w", err)
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create model directory: %w", err)
		}
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write model file: %w", err)
	}

	return nil
}

// LoadPipeline reads a fitted pipeline artifact and validates it.
func LoadPipeline(path string) (*Pipeline, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read model file: %w", err)
	}

	var p Pipeline
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("failed to unmarshal pipeline: %w", err)
	}

	if p.Schema == nil || p.Preprocessor == nil || p.Forest == nil {
		return nil, fmt.Errorf("model file is incomplete")
	}
	if !p.Preprocessor.Fitted {
		return nil, fmt.Errorf("model file contains an unfitted preprocessor")
	}
	if err := p.Forest.Validate(); err != nil {
		return nil, fmt.Errorf("model file failed validation: %w", err)
	}
	if p.Preprocessor.Width() != p.Forest.NumFeatures {
		return nil, fmt.Errorf("preprocessor produces %d features but forest expects %d",
			p.Preprocessor.Width(), p.Forest.NumFeatures)
	}

	return &p, nil
}
