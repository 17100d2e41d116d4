package ml

import (
	"fmt"
	"math/rand"
	"time"
)

// TrainingConfig holds everything a training run needs: artifact paths,
// the split fraction, and forest hyperparameters. The fixed random seed
// makes both the split and the fitted forest reproducible across runs on
// identical data.
type TrainingConfig struct {
	DataPath       string  `json:"data_path"`
	ModelPath      string  `json:"model_path"`
	MetadataPath   string  `json:"metadata_path"`
	TrainTestSplit float64 `json:"train_test_split"`
	NumTrees       int     `json:"num_trees"`
	MaxDepth       int     `json:"max_depth"`
	RandomSeed     int64   `json:"random_seed"`
}

// DefaultTrainingConfig returns the training configuration the shipped
// model was produced with.
func DefaultTrainingConfig() *TrainingConfig {
	return &TrainingConfig{
		DataPath:       "data/vehicles.csv",
		ModelPath:      "ml_artifacts/model.json",
		MetadataPath:   "ml_artifacts/metadata.json",
		TrainTestSplit: 0.8,
		NumTrees:       300,
		MaxDepth:       10,
		RandomSeed:     42,
	}
}

// TrainingResult summarizes a completed training run.
type TrainingResult struct {
	Metrics          *RegressionMetrics `json:"metrics"`
	TrainingRows     int                `json:"training_rows"`
	ValidationRows   int                `json:"validation_rows"`
	DroppedRows      int                `json:"dropped_rows"`
	TrainingDuration time.Duration      `json:"training_duration"`
}

// Trainer runs the batch training job: Load, Validate, Clean, Split, Fit,
// Evaluate, Persist — strictly in that order, with no retries. Any failure
// before Persist aborts the run and leaves no artifacts behind.
type Trainer struct {
	Schema *FeatureSchema
	Config *TrainingConfig
}

// NewTrainer creates a trainer for the given schema and config. A nil
// config uses the defaults.
func NewTrainer(schema *FeatureSchema, config *TrainingConfig) *Trainer {
	if config == nil {
		config = DefaultTrainingConfig()
	}
	return &Trainer{Schema: schema, Config: config}
}

// Run executes the full training sequence and returns the evaluation
// summary. The returned metrics are diagnostic; persistence happens
// regardless of their values.
func (t *Trainer) Run() (*TrainingResult, error) {
	// Load
	table, err := ReadCSVTable(t.Config.DataPath)
	if err != nil {
		return nil, fmt.Errorf("load: %w", err)
	}

	// Validate
	if err := table.RequireColumns(t.Schema.RequiredColumns()); err != nil {
		return nil, fmt.Errorf("validate: %w", err)
	}

	// Clean: rows with physically impossible values never reach the fit.
	loaded := table.NumRows()
	table = table.DropImplausibleRows([]string{"EngineSize"})
	dropped := loaded - table.NumRows()
	if table.NumRows() < 2 {
		return nil, fmt.Errorf("clean: only %d usable rows after cleaning", table.NumRows())
	}

	y, err := table.TargetValues(t.Schema.Target)
	if err != nil {
		return nil, fmt.Errorf("validate: %w", err)
	}

	// Split
	trainTable, trainY, testTable, testY, err := t.split(table, y)
	if err != nil {
		return nil, fmt.Errorf("split: %w", err)
	}

	// Fit
	start := time.Now()
	pipeline := NewPipeline(t.Schema, t.Config.NumTrees, t.Config.MaxDepth, t.Config.RandomSeed)
	if err := pipeline.Fit(trainTable, trainY); err != nil {
		return nil, fmt.Errorf("fit: %w", err)
	}
	duration := time.Since(start)

	// Evaluate
	predictions, err := pipeline.PredictTable(testTable)
	if err != nil {
		return nil, fmt.Errorf("evaluate: %w", err)
	}
	metrics, err := CalculateRegressionMetrics(testY, predictions)
	if err != nil {
		return nil, fmt.Errorf("evaluate: %w", err)
	}

	// Persist
	if err := pipeline.Save(t.Config.ModelPath); err != nil {
		return nil, fmt.Errorf("persist: %w", err)
	}
	if err := SaveMetadata(t.Config.MetadataPath, t.Schema, metrics.AsMap()); err != nil {
		return nil, fmt.Errorf("persist: %w", err)
	}

	return &TrainingResult{
		Metrics:          metrics,
		TrainingRows:     trainTable.NumRows(),
		ValidationRows:   testTable.NumRows(),
		DroppedRows:      dropped,
		TrainingDuration: duration,
	}, nil
}

// split partitions the table into train and held-out test sets using a
// seeded shuffle so reported metrics are deterministic.
func (t *Trainer) split(table *Table, y []float64) (*Table, []float64, *Table, []float64, error) {
	n := table.NumRows()

	fraction := t.Config.TrainTestSplit
	if fraction <= 0 || fraction >= 1 {
		fraction = 0.8
	}

	indices := make([]int, n)
	for i := range indices {
		indices[i] = i
	}
	rng := rand.New(rand.NewSource(t.Config.RandomSeed))
	rng.Shuffle(n, func(i, j int) {
		indices[i], indices[j] = indices[j], indices[i]
	})

	splitIdx := int(float64(n) * fraction)
	if splitIdx < 1 {
		splitIdx = 1
	}
	if splitIdx >= n {
		splitIdx = n - 1
	}

	trainTable, trainY := selectRows(table, y, indices[:splitIdx])
	testTable, testY := selectRows(table, y, indices[splitIdx:])
	return trainTable, trainY, testTable, testY, nil
}

// selectRows builds a sub-table and target slice from row indices.
func selectRows(table *Table, y []float64, indices []int) (*Table, []float64) {
	rows := make([][]string, len(indices))
	targets := make([]float64, len(indices))
	for i, idx := range indices {
		rows[i] = table.Rows[idx]
		targets[i] = y[idx]
	}
	sub, _ := NewTable(table.Columns, rows)
	return sub, targets
}
