package ml

import (
	"fmt"
	"math"
)

// RegressionMetrics holds the evaluation metrics recorded by a training
// run. They are diagnostic only; training never gates persistence on them.
type RegressionMetrics struct {
	MAE  float64 `json:"mae"`  // Mean Absolute Error
	RMSE float64 `json:"rmse"` // Root Mean Squared Error
}

// CalculateRegressionMetrics computes MAE and RMSE over paired actual and
// predicted values.
func CalculateRegressionMetrics(yTrue, yPred []float64) (*RegressionMetrics, error) {
	if len(yTrue) == 0 {
		return nil, fmt.Errorf("empty evaluation data")
	}
	if len(yTrue) != len(yPred) {
		return nil, fmt.Errorf("yTrue and yPred must have same length")
	}

	sumAbs := 0.0
	sumSq := 0.0
	for i := range yTrue {
		diff := yTrue[i] - yPred[i]
		sumAbs += math.Abs(diff)
		sumSq += diff * diff
	}

	n := float64(len(yTrue))
	return &RegressionMetrics{
		MAE:  sumAbs / n,
		RMSE: math.Sqrt(sumSq / n),
	}, nil
}

// AsMap returns the metrics keyed the way the metadata artifact records
// them.
func (m *RegressionMetrics) AsMap() map[string]float64 {
	return map[string]float64{
		"MAE_g_per_km":  m.MAE,
		"RMSE_g_per_km": m.RMSE,
	}
}

// String returns a human-readable one-line summary.
func (m *RegressionMetrics) String() string {
	return fmt.Sprintf("MAE=%.2f RMSE=%.2f", m.MAE, m.RMSE)
}
