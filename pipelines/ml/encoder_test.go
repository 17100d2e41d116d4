package ml

import (
	"math"
	"reflect"
	"testing"
)

func encoderTestSchema(t *testing.T) *FeatureSchema {
	t.Helper()
	schema, err := NewFeatureSchema([]string{"Fuel"}, []string{"EngineSize"}, "CO2Emissions")
	if err != nil {
		t.Fatal(err)
	}
	return schema
}

func fittedPreprocessor(t *testing.T) *Preprocessor {
	t.Helper()
	table := mustTable(t, []string{"Fuel", "EngineSize", "CO2Emissions"}, [][]string{
		{"X", "2.0", "180"},
		{"X", "3.0", "240"},
		{"Z", "1.0", "150"},
		{"Z", "", "200"},
		{"X", "5.0", "300"},
	})

	p := NewPreprocessor(encoderTestSchema(t))
	if err := p.Fit(table); err != nil {
		t.Fatalf("Fit failed: %v", err)
	}
	return p
}

func TestPreprocessorFitStatistics(t *testing.T) {
	p := fittedPreprocessor(t)

	if len(p.Encoders) != 1 {
		t.Fatalf("got %d encoders, want 1", len(p.Encoders))
	}
	enc := p.Encoders[0]
	if enc.MostFrequent != "X" {
		t.Errorf("most frequent = %q, want X", enc.MostFrequent)
	}
	if !reflect.DeepEqual(enc.Vocabulary, []string{"X", "Z"}) {
		t.Errorf("vocabulary = %v, want sorted [X Z]", enc.Vocabulary)
	}

	if len(p.Imputers) != 1 {
		t.Fatalf("got %d imputers, want 1", len(p.Imputers))
	}
	// Median of the four parseable values 2.0, 3.0, 1.0, 5.0.
	if p.Imputers[0].Median != 2.5 {
		t.Errorf("median = %v, want 2.5", p.Imputers[0].Median)
	}

	if p.Width() != 3 {
		t.Errorf("Width() = %d, want 3", p.Width())
	}
	wantNames := []string{"Fuel=X", "Fuel=Z", "EngineSize"}
	if got := p.FeatureNames(); !reflect.DeepEqual(got, wantNames) {
		t.Errorf("FeatureNames() = %v, want %v", got, wantNames)
	}
}

func TestPreprocessorMostFrequentTieBreak(t *testing.T) {
	table := mustTable(t, []string{"Fuel", "EngineSize", "CO2Emissions"}, [][]string{
		{"Z", "2.0", "180"},
		{"X", "3.0", "240"},
	})

	p := NewPreprocessor(encoderTestSchema(t))
	if err := p.Fit(table); err != nil {
		t.Fatal(err)
	}
	// Tied counts resolve to the lexically smallest value.
	if p.Encoders[0].MostFrequent != "X" {
		t.Errorf("most frequent = %q, want X on tie", p.Encoders[0].MostFrequent)
	}
}

func TestTransform(t *testing.T) {
	p := fittedPreprocessor(t)

	tests := []struct {
		name string
		row  FeatureRow
		want []float64
	}{
		{
			name: "known category",
			row: FeatureRow{
				Categorical: map[string]string{"Fuel": "Z"},
				Numeric:     map[string]float64{"EngineSize": 2.0},
			},
			want: []float64{0, 1, 2.0},
		},
		{
			name: "unknown category encodes to all zeros",
			row: FeatureRow{
				Categorical: map[string]string{"Fuel": "E"},
				Numeric:     map[string]float64{"EngineSize": 2.0},
			},
			want: []float64{0, 0, 2.0},
		},
		{
			name: "missing category takes most frequent",
			row: FeatureRow{
				Categorical: map[string]string{},
				Numeric:     map[string]float64{"EngineSize": 2.0},
			},
			want: []float64{1, 0, 2.0},
		},
		{
			name: "missing numeric takes median",
			row: FeatureRow{
				Categorical: map[string]string{"Fuel": "X"},
				Numeric:     map[string]float64{},
			},
			want: []float64{1, 0, 2.5},
		},
		{
			name: "NaN numeric takes median",
			row: FeatureRow{
				Categorical: map[string]string{"Fuel": "X"},
				Numeric:     map[string]float64{"EngineSize": math.NaN()},
			},
			want: []float64{1, 0, 2.5},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := p.Transform(tt.row)
			if err != nil {
				t.Fatalf("Transform failed: %v", err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Transform() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestTransformUnfitted(t *testing.T) {
	p := NewPreprocessor(encoderTestSchema(t))
	if _, err := p.Transform(FeatureRow{}); err == nil {
		t.Fatal("expected error for unfitted preprocessor")
	}
}

func TestTransformTableTreatsUnparseableAsMissing(t *testing.T) {
	p := fittedPreprocessor(t)

	table := mustTable(t, []string{"Fuel", "EngineSize", "CO2Emissions"}, [][]string{
		{"X", "not-a-number", "180"},
	})
	X, err := p.TransformTable(table)
	if err != nil {
		t.Fatalf("TransformTable failed: %v", err)
	}
	if X[0][2] != 2.5 {
		t.Errorf("unparseable numeric cell = %v, want median 2.5", X[0][2])
	}
}

func TestFitMissingColumn(t *testing.T) {
	table := mustTable(t, []string{"EngineSize", "CO2Emissions"}, [][]string{{"2.0", "180"}})
	p := NewPreprocessor(encoderTestSchema(t))
	if err := p.Fit(table); err == nil {
		t.Fatal("expected error for missing categorical column")
	}
}

func TestMedian(t *testing.T) {
	tests := []struct {
		values []float64
		want   float64
	}{
		{[]float64{3, 1, 2}, 2},
		{[]float64{4, 1, 3, 2}, 2.5},
		{[]float64{7}, 7},
	}
	for _, tt := range tests {
		if got := median(tt.values); got != tt.want {
			t.Errorf("median(%v) = %v, want %v", tt.values, got, tt.want)
		}
	}
}
