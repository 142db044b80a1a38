// Package ensemble implements bagged tree ensembles.
package ensemble

import (
	"math"
	"math/rand/v2"

	"gonum.org/v1/gonum/mat"

	"github.com/phenosnp/phenosnp/core/model"
	"github.com/phenosnp/phenosnp/core/parallel"
	"github.com/phenosnp/phenosnp/pkg/errors"
	"github.com/phenosnp/phenosnp/sklearn/tree"
)

// sequentialFitThreshold is the forest size below which trees are fitted
// on the calling goroutine.
const sequentialFitThreshold = 8

// RandomForestClassifier is a bootstrap-aggregated ensemble of decision
// trees with random feature subsampling at each split.
type RandomForestClassifier struct {
	model.BaseEstimator

	nEstimators     int
	criterion       string
	maxDepth        int
	minSamplesSplit int
	minSamplesLeaf  int
	maxFeatures     int
	bootstrap       bool
	computeOOB      bool
	seed            uint64

	trees     []*tree.DecisionTreeClassifier
	inBag     [][]bool
	nClasses  int
	nFeatures int
	oobScore  float64
}

// NewRandomForestClassifier creates a forest with the given options.
// Defaults: 500 trees, gini criterion, bootstrap sampling, sqrt(nFeatures)
// features per split.
func NewRandomForestClassifier(opts ...Option) *RandomForestClassifier {
	rf := &RandomForestClassifier{
		nEstimators:     500,
		criterion:       "gini",
		minSamplesSplit: 2,
		minSamplesLeaf:  1,
		bootstrap:       true,
	}
	for _, opt := range opts {
		opt(rf)
	}
	return rf
}

// Fit trains the forest on X with class-index targets y (an n×1 matrix).
// Trees are fitted in parallel; each tree draws its own seeded bootstrap
// sample, so results are reproducible for a fixed seed.
func (rf *RandomForestClassifier) Fit(X, y mat.Matrix) (err error) {
	defer errors.Recover(&err, "RandomForestClassifier.Fit")

	if X == nil || y == nil {
		return errors.NewValueError("RandomForestClassifier.Fit", "nil input")
	}
	if rf.nEstimators <= 0 {
		return errors.NewValidationError("nEstimators", "must be positive", rf.nEstimators)
	}

	n, c := X.Dims()
	if n == 0 || c == 0 {
		return errors.NewModelError("RandomForestClassifier.Fit", "empty data", errors.ErrEmptyData)
	}
	yr, _ := y.Dims()
	if yr != n {
		return errors.NewDimensionError("RandomForestClassifier.Fit", n, yr, 0)
	}

	maxLabel := 0
	for i := 0; i < n; i++ {
		v := y.At(i, 0)
		l := int(v)
		if float64(l) != v || l < 0 {
			return errors.NewValueError("RandomForestClassifier.Fit", "labels must be non-negative integers")
		}
		if l > maxLabel {
			maxLabel = l
		}
	}

	rf.nClasses = maxLabel + 1
	rf.nFeatures = c

	maxFeatures := rf.maxFeatures
	if maxFeatures <= 0 {
		maxFeatures = int(math.Sqrt(float64(c)))
		if maxFeatures < 1 {
			maxFeatures = 1
		}
	}

	rf.trees = make([]*tree.DecisionTreeClassifier, rf.nEstimators)
	rf.inBag = make([][]bool, rf.nEstimators)
	fitErrs := make([]error, rf.nEstimators)

	// Tiny ensembles are not worth the goroutine overhead.
	parallel.ParallelizeWithThreshold(rf.nEstimators, sequentialFitThreshold, func(start, end int) {
		for t := start; t < end; t++ {
			// Each tree gets its own deterministic stream so the fit
			// does not depend on goroutine scheduling.
			treeSeed := rf.seed + uint64(t)
			rng := rand.New(rand.NewPCG(treeSeed, treeSeed))

			bagX, bagY, inBag := rf.sample(X, y, n, c, rng)
			rf.inBag[t] = inBag

			// A bootstrap sample can miss a rare class entirely, so every
			// tree is told the forest-level class count to keep its
			// probability matrix at the full width.
			dt := tree.NewDecisionTreeClassifier(
				tree.WithCriterion(rf.criterion),
				tree.WithMaxDepth(rf.maxDepth),
				tree.WithMinSamplesSplit(rf.minSamplesSplit),
				tree.WithMinSamplesLeaf(rf.minSamplesLeaf),
				tree.WithMaxFeatures(maxFeatures),
				tree.WithNClasses(rf.nClasses),
				tree.WithSeed(treeSeed),
			)
			if err := dt.Fit(bagX, bagY); err != nil {
				fitErrs[t] = err
				continue
			}
			rf.trees[t] = dt
		}
	})

	for _, e := range fitErrs {
		if e != nil {
			return errors.NewModelError("RandomForestClassifier.Fit", "tree fit failed", e)
		}
	}

	rf.SetFitted()

	if rf.computeOOB {
		if err := rf.computeOOBScore(X, y, n); err != nil {
			return err
		}
	}
	return nil
}

// sample draws a bootstrap replicate of the training set. When bootstrap is
// disabled every tree sees the full data and no rows are out of bag.
func (rf *RandomForestClassifier) sample(X, y mat.Matrix, n, c int, rng *rand.Rand) (mat.Matrix, mat.Matrix, []bool) {
	if !rf.bootstrap {
		return X, y, make([]bool, n)
	}

	bagX := mat.NewDense(n, c, nil)
	bagY := mat.NewDense(n, 1, nil)
	inBag := make([]bool, n)

	for i := 0; i < n; i++ {
		idx := rng.IntN(n)
		inBag[idx] = true
		for j := 0; j < c; j++ {
			bagX.Set(i, j, X.At(idx, j))
		}
		bagY.Set(i, 0, y.At(idx, 0))
	}
	return bagX, bagY, inBag
}

// computeOOBScore scores each sample with only the trees that did not see
// it during training.
func (rf *RandomForestClassifier) computeOOBScore(X, y mat.Matrix, n int) error {
	votes := mat.NewDense(n, rf.nClasses, nil)
	covered := make([]bool, n)

	for t, dt := range rf.trees {
		probas, err := dt.PredictProba(X)
		if err != nil {
			return err
		}
		for i := 0; i < n; i++ {
			if rf.inBag[t][i] {
				continue
			}
			covered[i] = true
			for k := 0; k < rf.nClasses; k++ {
				votes.Set(i, k, votes.At(i, k)+probas.At(i, k))
			}
		}
	}

	correct, total := 0, 0
	for i := 0; i < n; i++ {
		if !covered[i] {
			continue
		}
		total++
		if float64(argmaxRow(votes, i, rf.nClasses)) == y.At(i, 0) {
			correct++
		}
	}

	if total == 0 {
		errors.Warn(errors.NewUndefinedMetricWarning("oob_score", "no out-of-bag samples", 0))
		rf.oobScore = 0
		return nil
	}
	rf.oobScore = float64(correct) / float64(total)
	return nil
}

// Predict returns the class with the highest averaged probability for each
// row of X as an n×1 matrix.
func (rf *RandomForestClassifier) Predict(X mat.Matrix) (mat.Matrix, error) {
	probas, err := rf.PredictProba(X)
	if err != nil {
		return nil, err
	}

	n, _ := probas.Dims()
	out := mat.NewDense(n, 1, nil)
	for i := 0; i < n; i++ {
		out.Set(i, 0, float64(argmaxRow(probas, i, rf.nClasses)))
	}
	return out, nil
}

// PredictProba returns class probabilities averaged over all trees as an
// n×nClasses matrix. Rows sum to 1.
func (rf *RandomForestClassifier) PredictProba(X mat.Matrix) (mat.Matrix, error) {
	if !rf.IsFitted() {
		return nil, errors.NewNotFittedError("RandomForestClassifier", "PredictProba")
	}
	if X == nil {
		return nil, errors.NewValueError("RandomForestClassifier.PredictProba", "nil input")
	}

	n, c := X.Dims()
	if c != rf.nFeatures {
		return nil, errors.NewDimensionError("RandomForestClassifier.PredictProba", rf.nFeatures, c, 1)
	}

	sum := mat.NewDense(n, rf.nClasses, nil)
	for _, dt := range rf.trees {
		probas, err := dt.PredictProba(X)
		if err != nil {
			return nil, err
		}
		sum.Add(sum, probas.(*mat.Dense))
	}
	sum.Scale(1/float64(len(rf.trees)), sum)
	return sum, nil
}

// Score returns the mean accuracy of Predict on X against y.
func (rf *RandomForestClassifier) Score(X, y mat.Matrix) (float64, error) {
	pred, err := rf.Predict(X)
	if err != nil {
		return 0, err
	}

	n, _ := pred.Dims()
	yr, _ := y.Dims()
	if yr != n {
		return 0, errors.NewDimensionError("RandomForestClassifier.Score", n, yr, 0)
	}

	correct := 0
	for i := 0; i < n; i++ {
		if pred.At(i, 0) == y.At(i, 0) {
			correct++
		}
	}
	return float64(correct) / float64(n), nil
}

// OOBScore returns the out-of-bag accuracy. Only meaningful when the forest
// was fitted with WithOOBScore(true).
func (rf *RandomForestClassifier) OOBScore() float64 {
	return rf.oobScore
}

// Classes returns the class indices seen during fitting.
func (rf *RandomForestClassifier) Classes() []int {
	classes := make([]int, rf.nClasses)
	for i := range classes {
		classes[i] = i
	}
	return classes
}

// FeatureImportances returns impurity-decrease importances averaged over
// all trees.
func (rf *RandomForestClassifier) FeatureImportances() []float64 {
	out := make([]float64, rf.nFeatures)
	if len(rf.trees) == 0 {
		return out
	}
	for _, dt := range rf.trees {
		for i, imp := range dt.FeatureImportances() {
			out[i] += imp
		}
	}
	for i := range out {
		out[i] /= float64(len(rf.trees))
	}
	return out
}

// NEstimators returns the number of trees in the forest.
func (rf *RandomForestClassifier) NEstimators() int {
	return rf.nEstimators
}

func argmaxRow(m mat.Matrix, row, cols int) int {
	best := 0
	bestVal := m.At(row, 0)
	for k := 1; k < cols; k++ {
		if m.At(row, k) > bestVal {
			best = k
			bestVal = m.At(row, k)
		}
	}
	return best
}
