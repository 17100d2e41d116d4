package ml

import (
	"fmt"
	"math/rand"
	"sync"
)

// RegressionForest is a bagged ensemble of regression trees. Each tree is
// fitted on a bootstrap sample drawn with a deterministic seed, so two
// training runs on the same data produce identical forests. Prediction is
// the mean of the tree outputs and never mutates the fitted state.
type RegressionForest struct {
	Trees           []*RegressionTree `json:"trees"`
	NumTrees        int               `json:"num_trees"`
	MaxDepth        int               `json:"max_depth"`
	MinSamplesSplit int               `json:"min_samples_split"`
	MinSamplesLeaf  int               `json:"min_samples_leaf"`
	NumFeatures     int               `json:"num_features"`
	RandomSeed      int64             `json:"random_seed"`
}

// NewRegressionForest creates an unfitted forest. Non-positive tree counts
// fall back to the default of 300 trees, matching the shipped model.
func NewRegressionForest(numTrees int, maxDepth int, seed int64) *RegressionForest {
	if numTrees <= 0 {
		numTrees = 300
	}
	if maxDepth <= 0 {
		maxDepth = 10
	}
	return &RegressionForest{
		NumTrees:        numTrees,
		MaxDepth:        maxDepth,
		MinSamplesSplit: 2,
		MinSamplesLeaf:  1,
		RandomSeed:      seed,
	}
}

// Fit trains every tree on its own bootstrap sample. Trees are fitted in
// parallel goroutines; the bootstrap indices for all trees are drawn up
// front from the single seeded source so parallelism cannot perturb
// reproducibility.
func (rf *RegressionForest) Fit(X [][]float64, y []float64) error {
	if len(X) == 0 {
		return fmt.Errorf("empty training data")
	}
	if len(X) != len(y) {
		return fmt.Errorf("X and y must have same number of samples")
	}

	rf.NumFeatures = len(X[0])
	rf.Trees = make([]*RegressionTree, rf.NumTrees)

	rng := rand.New(rand.NewSource(rf.RandomSeed))
	n := len(X)
	samples := make([][]int, rf.NumTrees)
	for t := 0; t < rf.NumTrees; t++ {
		idx := make([]int, n)
		for i := range idx {
			idx[i] = rng.Intn(n)
		}
		samples[t] = idx
	}

	var wg sync.WaitGroup
	var mu sync.Mutex
	var firstErr error

	for t := 0; t < rf.NumTrees; t++ {
		wg.Add(1)
		go func(treeIdx int) {
			defer wg.Done()

			bootX := make([][]float64, n)
			bootY := make([]float64, n)
			for i, idx := range samples[treeIdx] {
				bootX[i] = X[idx]
				bootY[i] = y[idx]
			}

			tree := NewRegressionTree(rf.MaxDepth, rf.MinSamplesSplit, rf.MinSamplesLeaf)
			if err := tree.Fit(bootX, bootY); err != nil {
				mu.Lock()
				if firstErr == nil {
					firstErr = fmt.Errorf("tree %d training failed: %w", treeIdx, err)
				}
				mu.Unlock()
				return
			}

			mu.Lock()
			rf.Trees[treeIdx] = tree
			mu.Unlock()
		}(t)
	}

	wg.Wait()

	if firstErr != nil {
		return firstErr
	}
	return nil
}

// Predict averages the predictions of all trees for one encoded sample.
func (rf *RegressionForest) Predict(x []float64) (float64, error) {
	if len(rf.Trees) == 0 {
		return 0, fmt.Errorf("forest not fitted")
	}
	if len(x) != rf.NumFeatures {
		return 0, fmt.Errorf("expected %d features, got %d", rf.NumFeatures, len(x))
	}

	sum := 0.0
	for _, tree := range rf.Trees {
		v, err := tree.Predict(x)
		if err != nil {
			return 0, err
		}
		sum += v
	}
	return sum / float64(len(rf.Trees)), nil
}

// Validate checks that the forest is fitted and internally consistent.
func (rf *RegressionForest) Validate() error {
	if len(rf.Trees) == 0 {
		return fmt.Errorf("forest has no trees")
	}
	for i, tree := range rf.Trees {
		if tree == nil || tree.Root == nil {
			return fmt.Errorf("tree %d is not fitted", i)
		}
		if tree.NumFeatures != rf.NumFeatures {
			return fmt.Errorf("tree %d expects %d features, forest expects %d", i, tree.NumFeatures, rf.NumFeatures)
		}
	}
	return nil
}
