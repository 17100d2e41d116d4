package ml

import (
	"fmt"
	"sort"
)

// treeNode is one node of a fitted regression tree. Leaves carry the mean
// target value of the training samples that reached them.
type treeNode struct {
	IsLeaf       bool      `json:"is_leaf"`
	Value        float64   `json:"value"`
	FeatureIndex int       `json:"feature_index,omitempty"`
	Threshold    float64   `json:"threshold,omitempty"`
	Left         *treeNode `json:"left,omitempty"`
	Right        *treeNode `json:"right,omitempty"`
	SamplesCount int       `json:"samples_count"`
}

// RegressionTree is a CART regression tree: binary splits chosen by
// variance reduction, leaf predictions as sample means.
type RegressionTree struct {
	Root            *treeNode `json:"root"`
	MaxDepth        int       `json:"max_depth"`
	MinSamplesSplit int       `json:"min_samples_split"`
	MinSamplesLeaf  int       `json:"min_samples_leaf"`
	NumFeatures     int       `json:"num_features"`
}

// NewRegressionTree creates an unfitted tree with the given limits.
// Non-positive limits fall back to defaults.
func NewRegressionTree(maxDepth, minSamplesSplit, minSamplesLeaf int) *RegressionTree {
	if maxDepth <= 0 {
		maxDepth = 10
	}
	if minSamplesSplit <= 0 {
		minSamplesSplit = 2
	}
	if minSamplesLeaf <= 0 {
		minSamplesLeaf = 1
	}
	return &RegressionTree{
		MaxDepth:        maxDepth,
		MinSamplesSplit: minSamplesSplit,
		MinSamplesLeaf:  minSamplesLeaf,
	}
}

// Fit builds the tree from training data. It mutates the tree exactly
// once; predictions afterwards are pure reads of the frozen structure.
func (rt *RegressionTree) Fit(X [][]float64, y []float64) error {
	if len(X) == 0 {
		return fmt.Errorf("empty training data")
	}
	if len(X) != len(y) {
		return fmt.Errorf("X and y must have same number of samples")
	}

	rt.NumFeatures = len(X[0])

	indices := make([]int, len(X))
	for i := range indices {
		indices[i] = i
	}
	rt.Root = rt.buildNode(X, y, indices, 0)
	return nil
}

// Predict returns the tree's estimate for a single encoded sample.
func (rt *RegressionTree) Predict(x []float64) (float64, error) {
	if rt.Root == nil {
		return 0, fmt.Errorf("tree not fitted")
	}
	if len(x) != rt.NumFeatures {
		return 0, fmt.Errorf("expected %d features, got %d", rt.NumFeatures, len(x))
	}

	node := rt.Root
	for !node.IsLeaf {
		if x[node.FeatureIndex] <= node.Threshold {
			node = node.Left
		} else {
			node = node.Right
		}
	}
	return node.Value, nil
}

// buildNode recursively grows the tree.
func (rt *RegressionTree) buildNode(X [][]float64, y []float64, indices []int, depth int) *treeNode {
	values := make([]float64, len(indices))
	for i, idx := range indices {
		values[i] = y[idx]
	}
	mean := meanOf(values)
	variance := varianceOf(values, mean)

	node := &treeNode{Value: mean, SamplesCount: len(indices)}

	if depth >= rt.MaxDepth || len(indices) < rt.MinSamplesSplit || variance < 1e-7 {
		node.IsLeaf = true
		return node
	}

	feature, threshold, gain := rt.bestSplit(X, y, indices, variance)
	if gain <= 0 {
		node.IsLeaf = true
		return node
	}

	left, right := splitIndices(X, indices, feature, threshold)
	if len(left) < rt.MinSamplesLeaf || len(right) < rt.MinSamplesLeaf {
		node.IsLeaf = true
		return node
	}

	node.FeatureIndex = feature
	node.Threshold = threshold
	node.Left = rt.buildNode(X, y, left, depth+1)
	node.Right = rt.buildNode(X, y, right, depth+1)
	return node
}

// bestSplit scans every feature and candidate threshold for the split
// with the largest variance reduction.
func (rt *RegressionTree) bestSplit(X [][]float64, y []float64, indices []int, parentVariance float64) (int, float64, float64) {
	bestGain := 0.0
	bestFeature := -1
	bestThreshold := 0.0

	for feature := 0; feature < rt.NumFeatures; feature++ {
		values := make([]float64, len(indices))
		for i, idx := range indices {
			values[i] = X[idx][feature]
		}

		for _, threshold := range splitThresholds(values) {
			left, right := splitIndices(X, indices, feature, threshold)
			if len(left) == 0 || len(right) == 0 {
				continue
			}

			leftValues := make([]float64, len(left))
			for i, idx := range left {
				leftValues[i] = y[idx]
			}
			rightValues := make([]float64, len(right))
			for i, idx := range right {
				rightValues[i] = y[idx]
			}

			n := float64(len(indices))
			weighted := (float64(len(left))/n)*varianceOf(leftValues, meanOf(leftValues)) +
				(float64(len(right))/n)*varianceOf(rightValues, meanOf(rightValues))

			if gain := parentVariance - weighted; gain > bestGain {
				bestGain = gain
				bestFeature = feature
				bestThreshold = threshold
			}
		}
	}

	return bestFeature, bestThreshold, bestGain
}

// splitIndices partitions sample indices on feature <= threshold.
func splitIndices(X [][]float64, indices []int, feature int, threshold float64) ([]int, []int) {
	var left, right []int
	for _, idx := range indices {
		if X[idx][feature] <= threshold {
			left = append(left, idx)
		} else {
			right = append(right, idx)
		}
	}
	return left, right
}

// splitThresholds returns midpoints between consecutive unique values.
func splitThresholds(values []float64) []float64 {
	unique := make([]float64, 0, len(values))
	seen := make(map[float64]bool, len(values))
	for _, v := range values {
		if !seen[v] {
			seen[v] = true
			unique = append(unique, v)
		}
	}
	if len(unique) < 2 {
		return nil
	}
	sort.Float64s(unique)

	thresholds := make([]float64, len(unique)-1)
	for i := 0; i < len(unique)-1; i++ {
		thresholds[i] = (unique[i] + unique[i+1]) / 2
	}
	return thresholds
}

func meanOf(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

func varianceOf(values []float64, mean float64) float64 {
	if len(values) == 0 {
		return 0
	}
	variance := 0.0
	for _, v := range values {
		diff := v - mean
		variance += diff * diff
	}
	return variance / float64(len(values))
}
