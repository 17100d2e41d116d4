package inference

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	ml "github.com/ecofleet/ecofleet-go/pipelines/ml"
)

// Comparison categories relative to the fleet average.
const (
	CategoryAboveAverage = "above fleet average"
	CategoryAtOrBelow    = "at or below fleet average"
)

// Prediction is the outcome of one submission. Exactly one of Err or the
// value fields is meaningful: a malformed submission produces an error
// result scoped to that request, never a panic past the handler boundary.
type Prediction struct {
	Value        float64  `json:"value"`
	FleetAverage *float64 `json:"fleet_average,omitempty"`
	Category     string   `json:"category,omitempty"`
	Suggestions  []string `json:"suggestions,omitempty"`
	Err          string   `json:"error,omitempty"`
}

// OK reports whether the prediction succeeded.
func (p *Prediction) OK() bool {
	return p.Err == ""
}

// Predict validates one submission against the schema, builds a single
// typed row, runs the fitted pipeline, and derives the fleet comparison
// and suggestion list. It has no side effects and is idempotent: the same
// input always yields the same output.
func (c *Context) Predict(values map[string]string) *Prediction {
	row, err := c.buildRow(values)
	if err != nil {
		return &Prediction{Err: err.Error()}
	}

	raw, err := c.Pipeline.Predict(row)
	if err != nil {
		return &Prediction{Err: fmt.Sprintf("prediction failed: %v", err)}
	}

	value := math.Round(raw*100) / 100

	result := &Prediction{
		Value:        value,
		FleetAverage: c.FleetAverage,
	}
	if c.FleetAverage != nil {
		if value > *c.FleetAverage {
			result.Category = CategoryAboveAverage
		} else {
			result.Category = CategoryAtOrBelow
		}
		result.Suggestions = SuggestionsFor(result.Category)
	}
	return result
}

// buildRow converts raw form values into a typed FeatureRow with exactly
// the schema's columns. Every declared column must be present; numeric
// columns must parse as floating point.
func (c *Context) buildRow(values map[string]string) (ml.FeatureRow, error) {
	row := ml.FeatureRow{
		Categorical: make(map[string]string, len(c.Schema.Categorical)),
		Numeric:     make(map[string]float64, len(c.Schema.Numeric)),
	}

	for _, col := range c.Schema.Categorical {
		v, ok := values[col]
		if !ok || strings.TrimSpace(v) == "" {
			return ml.FeatureRow{}, fmt.Errorf("missing value for %s", col)
		}
		row.Categorical[col] = strings.TrimSpace(v)
	}

	for _, col := range c.Schema.Numeric {
		v, ok := values[col]
		if !ok || strings.TrimSpace(v) == "" {
			return ml.FeatureRow{}, fmt.Errorf("missing value for %s", col)
		}
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return ml.FeatureRow{}, fmt.Errorf("invalid number for %s: %q", col, v)
		}
		row.Numeric[col] = f
	}

	return row, nil
}
