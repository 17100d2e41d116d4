package ml

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// FeatureSchema is the column vocabulary shared by the trainer and the
// predictor: which columns are categorical, which are numeric, and which
// single column is the regression target. It is created once at training
// time, written into the metadata artifact, and read back verbatim by the
// serving process.
type FeatureSchema struct {
	Categorical []string `json:"categorical"`
	Numeric     []string `json:"numeric"`
	Target      string   `json:"target"`
}

// Metadata is the structured record persisted next to the fitted pipeline.
type Metadata struct {
	Categorical []string           `json:"categorical"`
	Numeric     []string           `json:"numeric"`
	Target      string             `json:"target"`
	Metrics     map[string]float64 `json:"metrics,omitempty"`
}

// NewFeatureSchema builds a schema and validates it: both column sets must
// be non-empty and disjoint, and neither may contain the target.
func NewFeatureSchema(categorical, numeric []string, target string) (*FeatureSchema, error) {
	if len(categorical) == 0 {
		return nil, fmt.Errorf("schema requires at least one categorical column")
	}
	if len(numeric) == 0 {
		return nil, fmt.Errorf("schema requires at least one numeric column")
	}
	if target == "" {
		return nil, fmt.Errorf("schema requires a target column")
	}

	seen := make(map[string]bool, len(categorical)+len(numeric))
	for _, col := range categorical {
		if seen[col] {
			return nil, fmt.Errorf("duplicate column %q in schema", col)
		}
		seen[col] = true
	}
	for _, col := range numeric {
		if seen[col] {
			return nil, fmt.Errorf("column %q declared both categorical and numeric", col)
		}
		seen[col] = true
	}
	if seen[target] {
		return nil, fmt.Errorf("target column %q also declared as a feature", target)
	}

	return &FeatureSchema{
		Categorical: categorical,
		Numeric:     numeric,
		Target:      target,
	}, nil
}

// DefaultSchema returns the schema the trainer declares. The server falls
// back to this when no metadata artifact exists, so trainer and predictor
// can never disagree on the column vocabulary.
func DefaultSchema() *FeatureSchema {
	return &FeatureSchema{
		Categorical: []string{"Make", "Model", "Fuel"},
		Numeric:     []string{"EngineSize", "Cylinders", "FuelConsumption"},
		Target:      "CO2Emissions",
	}
}

// FeatureColumns returns all feature columns in schema order, categorical
// first. This is the exact set and order the fitted pipeline expects.
func (s *FeatureSchema) FeatureColumns() []string {
	cols := make([]string, 0, len(s.Categorical)+len(s.Numeric))
	cols = append(cols, s.Categorical...)
	cols = append(cols, s.Numeric...)
	return cols
}

// RequiredColumns returns every column the training dataset must contain.
func (s *FeatureSchema) RequiredColumns() []string {
	return append(s.FeatureColumns(), s.Target)
}

// IsNumeric reports whether the named column is a declared numeric column.
func (s *FeatureSchema) IsNumeric(col string) bool {
	for _, n := range s.Numeric {
		if n == col {
			return true
		}
	}
	return false
}

// SaveMetadata writes the schema plus evaluation metrics as indented JSON.
// A failed write is fatal to the training run; there is no partial-write
// recovery.
func SaveMetadata(path string, schema *FeatureSchema, metrics map[string]float64) error {
	meta := Metadata{
		Categorical: schema.Categorical,
		Numeric:     schema.Numeric,
		Target:      schema.Target,
		Metrics:     metrics,
	}

	data, err := json.MarshalIndent(meta, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal metadata: %w", err)
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create metadata directory: %w", err)
		}
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write metadata file: %w", err)
	}

	return nil
}

// LoadMetadata reads a metadata artifact and returns the schema it records
// along with the stored metrics.
func LoadMetadata(path string) (*FeatureSchema, map[string]float64, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read metadata file: %w", err)
	}

	var meta Metadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, nil, fmt.Errorf("failed to unmarshal metadata: %w", err)
	}

	schema, err := NewFeatureSchema(meta.Categorical, meta.Numeric, meta.Target)
	if err != nil {
		return nil, nil, fmt.Errorf("metadata contains an invalid schema: %w", err)
	}

	return schema, meta.Metrics, nil
}
