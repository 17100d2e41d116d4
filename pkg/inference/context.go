package inference

import (
	"fmt"
	"os"

	ml "github.com/ecofleet/ecofleet-go/pipelines/ml"
)

// Context is the immutable per-process inference state: the fitted
// pipeline, the schema it serves, the fleet-average baseline, and the
// dropdown values for the form. It is built once at startup and shared
// read-only by every request handler; nothing writes to it afterwards.
type Context struct {
	Pipeline     *ml.Pipeline
	Schema       *ml.FeatureSchema
	Metrics      map[string]float64
	FleetAverage *float64
	Dropdowns    map[string][]string

	// FallbackSchema marks that no metadata artifact was found and the
	// trainer's declared default schema is being served instead.
	FallbackSchema bool
}

// Options names the artifacts a Context is built from.
type Options struct {
	ModelPath    string
	MetadataPath string
	// DataPaths are reference-dataset candidates tried in order; the first
	// readable one feeds the fleet average and the dropdowns. All may be
	// absent — the service then runs without a comparison baseline.
	DataPaths []string
}

// NewContext loads the serving artifacts. A missing or unreadable model is
// fatal: the service has nothing to serve. Missing metadata is a known
// degraded mode and falls back to the trainer's declared schema.
func NewContext(opts Options) (*Context, error) {
	pipeline, err := ml.LoadPipeline(opts.ModelPath)
	if err != nil {
		return nil, fmt.Errorf("model not available at %s (train first): %w", opts.ModelPath, err)
	}

	ctx := &Context{
		Pipeline:  pipeline,
		Dropdowns: make(map[string][]string),
	}

	if _, statErr := os.Stat(opts.MetadataPath); statErr == nil {
		schema, metrics, err := ml.LoadMetadata(opts.MetadataPath)
		if err != nil {
			return nil, fmt.Errorf("metadata at %s is unreadable: %w", opts.MetadataPath, err)
		}
		ctx.Schema = schema
		ctx.Metrics = metrics
	} else {
		ctx.Schema = ml.DefaultSchema()
		ctx.FallbackSchema = true
	}

	for _, path := range opts.DataPaths {
		table, err := ml.ReadCSVTable(path)
		if err != nil {
			continue
		}
		ctx.FleetAverage = table.ColumnMean(ctx.Schema.Target)
		for _, col := range ctx.Schema.Categorical {
			ctx.Dropdowns[col] = table.DistinctValues(col)
		}
		break
	}

	return ctx, nil
}

