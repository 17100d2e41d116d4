package ml

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
)

// FeatureRow is one typed input row keyed by the schema's declared column
// names: categorical values as text, numeric values as floats. NaN marks a
// missing numeric value and is filled by the fitted imputer.
type FeatureRow struct {
	Categorical map[string]string
	Numeric     map[string]float64
}

// categoryEncoder holds the frozen fit-time state for one categorical
// column: the imputation fill value and the indicator vocabulary. Values
// never seen at fit time encode to all zeros instead of failing.
type categoryEncoder struct {
	Column       string   `json:"column"`
	MostFrequent string   `json:"most_frequent"`
	Vocabulary   []string `json:"vocabulary"`
}

// numericImputer holds the frozen fit-time median for one numeric column.
type numericImputer struct {
	Column string  `json:"column"`
	Median float64 `json:"median"`
}

// Preprocessor converts mixed categorical/numeric rows into a fixed-width
// numeric vector. All statistics (imputation fills, vocabularies) are
// computed once at fit time and never recomputed at inference.
type Preprocessor struct {
	Schema   *FeatureSchema    `json:"schema"`
	Encoders []categoryEncoder `json:"encoders"`
	Imputers []numericImputer  `json:"imputers"`
	Fitted   bool              `json:"fitted"`
}

// NewPreprocessor creates an unfitted preprocessor for the given schema.
func NewPreprocessor(schema *FeatureSchema) *Preprocessor {
	return &Preprocessor{Schema: schema}
}

// Fit learns imputation fills and one-hot vocabularies from the training
// table. Empty categorical cells are filled with the most frequent value
// observed; the vocabulary is the sorted set of distinct values after
// imputation. Numeric cells that fail to parse count as missing and take
// the column median.
func (p *Preprocessor) Fit(table *Table) error {
	p.Encoders = make([]categoryEncoder, 0, len(p.Schema.Categorical))
	for _, col := range p.Schema.Categorical {
		if !table.HasColumn(col) {
			return fmt.Errorf("categorical column %q not found in training data", col)
		}

		counts := make(map[string]int)
		for i := 0; i < table.NumRows(); i++ {
			v, _ := table.Cell(i, col)
			v = strings.TrimSpace(v)
			if v == "" {
				continue
			}
			counts[v]++
		}
		if len(counts) == 0 {
			return fmt.Errorf("categorical column %q has no values", col)
		}

		mostFrequent := ""
		best := 0
		vocab := make([]string, 0, len(counts))
		for v, n := range counts {
			vocab = append(vocab, v)
			if n > best || (n == best && v < mostFrequent) {
				best = n
				mostFrequent = v
			}
		}
		sort.Strings(vocab)

		p.Encoders = append(p.Encoders, categoryEncoder{
			Column:       col,
			MostFrequent: mostFrequent,
			Vocabulary:   vocab,
		})
	}

	p.Imputers = make([]numericImputer, 0, len(p.Schema.Numeric))
	for _, col := range p.Schema.Numeric {
		if !table.HasColumn(col) {
			return fmt.Errorf("numeric column %q not found in training data", col)
		}

		values := make([]float64, 0, table.NumRows())
		for i := 0; i < table.NumRows(); i++ {
			cell, _ := table.Cell(i, col)
			v, err := strconv.ParseFloat(strings.TrimSpace(cell), 64)
			if err != nil {
				continue
			}
			values = append(values, v)
		}
		if len(values) == 0 {
			return fmt.Errorf("numeric column %q has no parseable values", col)
		}

		p.Imputers = append(p.Imputers, numericImputer{
			Column: col,
			Median: median(values),
		})
	}

	p.Fitted = true
	return nil
}

// FeatureNames returns the names of the encoded output columns, one
// indicator column per training-time category followed by the numeric
// columns, in schema order.
func (p *Preprocessor) FeatureNames() []string {
	names := make([]string, 0, p.Width())
	for _, enc := range p.Encoders {
		for _, v := range enc.Vocabulary {
			names = append(names, enc.Column+"="+v)
		}
	}
	for _, imp := range p.Imputers {
		names = append(names, imp.Column)
	}
	return names
}

// Width returns the length of the encoded feature vector.
func (p *Preprocessor) Width() int {
	w := 0
	for _, enc := range p.Encoders {
		w += len(enc.Vocabulary)
	}
	return w + len(p.Imputers)
}

// Transform encodes one row into the fixed-width numeric vector the
// estimator was trained on. It is a pure function of the frozen fit-time
// state and the input row.
func (p *Preprocessor) Transform(row FeatureRow) ([]float64, error) {
	if !p.Fitted {
		return nil, fmt.Errorf("preprocessor not fitted")
	}

	out := make([]float64, 0, p.Width())
	for _, enc := range p.Encoders {
		value := strings.TrimSpace(row.Categorical[enc.Column])
		if value == "" {
			value = enc.MostFrequent
		}
		// Unknown categories map to an all-zero indicator block.
		for _, v := range enc.Vocabulary {
			if v == value {
				out = append(out, 1)
			} else {
				out = append(out, 0)
			}
		}
	}

	for _, imp := range p.Imputers {
		value, ok := row.Numeric[imp.Column]
		if !ok || math.IsNaN(value) {
			value = imp.Median
		}
		out = append(out, value)
	}

	return out, nil
}

// TransformTable encodes every row of a training table, parsing numeric
// cells and treating unparseable ones as missing.
func (p *Preprocessor) TransformTable(table *Table) ([][]float64, error) {
	X := make([][]float64, table.NumRows())
	for i := 0; i < table.NumRows(); i++ {
		row := FeatureRow{
			Categorical: make(map[string]string, len(p.Schema.Categorical)),
			Numeric:     make(map[string]float64, len(p.Schema.Numeric)),
		}
		for _, col := range p.Schema.Categorical {
			if v, ok := table.Cell(i, col); ok {
				row.Categorical[col] = v
			}
		}
		for _, col := range p.Schema.Numeric {
			cell, _ := table.Cell(i, col)
			v, err := strconv.ParseFloat(strings.TrimSpace(cell), 64)
			if err != nil {
				v = math.NaN()
			}
			row.Numeric[col] = v
		}

		vec, err := p.Transform(row)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i, err)
		}
		X[i] = vec
	}
	return X, nil
}

// median returns the median of values. The input slice is copied so the
// caller's ordering is preserved.
func median(values []float64) float64 {
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	n := len(sorted)
	if n%2 == 1 {
		return sorted[n/2]
	}
	return (sorted[n/2-1] + sorted[n/2]) / 2
}
