// Package tree implements a CART-style decision tree classifier over allele
// dosage features.
package tree

import (
	"math"
	"math/rand/v2"
	"sort"

	"gonum.org/v1/gonum/mat"

	"github.com/phenosnp/phenosnp/core/model"
	"github.com/phenosnp/phenosnp/pkg/errors"
)

// node is one split or leaf of a fitted tree.
type node struct {
	feature   int
	threshold float64
	left      *node
	right     *node

	// probs holds the leaf class distribution; nil for internal nodes.
	probs []float64
}

func (n *node) isLeaf() bool {
	return n.probs != nil
}

// DecisionTreeClassifier is a CART classifier with gini or entropy splitting.
type DecisionTreeClassifier struct {
	model.BaseEstimator

	criterion       string
	maxDepth        int
	minSamplesSplit int
	minSamplesLeaf  int
	maxFeatures     int
	minNClasses     int
	seed            uint64

	root      *node
	nClasses  int
	nFeatures int

	featureImportances []float64
}

// NewDecisionTreeClassifier creates a classifier with the given options.
// Defaults: gini criterion, unlimited depth, minSamplesSplit=2,
// minSamplesLeaf=1, all features considered at each split.
func NewDecisionTreeClassifier(opts ...Option) *DecisionTreeClassifier {
	dt := &DecisionTreeClassifier{
		criterion:       "gini",
		minSamplesSplit: 2,
		minSamplesLeaf:  1,
	}
	for _, opt := range opts {
		opt(dt)
	}
	return dt
}

// Fit grows the tree on X with class-index targets y (an n×1 matrix).
func (dt *DecisionTreeClassifier) Fit(X, y mat.Matrix) (err error) {
	defer errors.Recover(&err, "DecisionTreeClassifier.Fit")

	if X == nil || y == nil {
		return errors.NewValueError("DecisionTreeClassifier.Fit", "nil input")
	}

	n, c := X.Dims()
	if n == 0 || c == 0 {
		return errors.NewModelError("DecisionTreeClassifier.Fit", "empty data", errors.ErrEmptyData)
	}
	yr, yc := y.Dims()
	if yr != n {
		return errors.NewDimensionError("DecisionTreeClassifier.Fit", n, yr, 0)
	}
	if yc != 1 {
		return errors.NewValueError("DecisionTreeClassifier.Fit", "y must be a column vector (n×1 matrix)")
	}
	if dt.criterion != "gini" && dt.criterion != "entropy" {
		return errors.NewValidationError("criterion", "must be 'gini' or 'entropy'", dt.criterion)
	}

	labels := make([]int, n)
	maxLabel := 0
	for i := 0; i < n; i++ {
		v := y.At(i, 0)
		l := int(v)
		if float64(l) != v || l < 0 {
			return errors.NewValueError("DecisionTreeClassifier.Fit", "labels must be non-negative integers")
		}
		labels[i] = l
		if l > maxLabel {
			maxLabel = l
		}
	}

	dt.nClasses = maxLabel + 1
	if dt.minNClasses > dt.nClasses {
		dt.nClasses = dt.minNClasses
	}
	dt.nFeatures = c
	dt.featureImportances = make([]float64, c)

	indices := make([]int, n)
	for i := range indices {
		indices[i] = i
	}

	rng := rand.New(rand.NewPCG(dt.seed, dt.seed))
	dt.root = dt.buildNode(X, labels, indices, 0, n, rng)

	normalize(dt.featureImportances)
	dt.SetFitted()
	return nil
}

// buildNode recursively grows the tree below the given sample set.
func (dt *DecisionTreeClassifier) buildNode(X mat.Matrix, labels, indices []int, depth, nTotal int, rng *rand.Rand) *node {
	counts := dt.classCounts(labels, indices)
	impurity := dt.impurity(counts, len(indices))

	if impurity == 0 ||
		len(indices) < dt.minSamplesSplit ||
		(dt.maxDepth > 0 && depth >= dt.maxDepth) {
		return dt.leaf(counts, len(indices))
	}

	feature, threshold, gain := dt.bestSplit(X, labels, indices, impurity, rng)
	if feature < 0 {
		return dt.leaf(counts, len(indices))
	}

	var left, right []int
	for _, idx := range indices {
		if X.At(idx, feature) <= threshold {
			left = append(left, idx)
		} else {
			right = append(right, idx)
		}
	}

	// Importance is the impurity decrease weighted by the node's share of
	// the training set.
	dt.featureImportances[feature] += float64(len(indices)) / float64(nTotal) * gain

	return &node{
		feature:   feature,
		threshold: threshold,
		left:      dt.buildNode(X, labels, left, depth+1, nTotal, rng),
		right:     dt.buildNode(X, labels, right, depth+1, nTotal, rng),
	}
}

// bestSplit searches candidate features for the impurity-minimising split.
// It returns feature -1 when no split satisfies the leaf-size constraint.
func (dt *DecisionTreeClassifier) bestSplit(X mat.Matrix, labels, indices []int, parentImpurity float64, rng *rand.Rand) (int, float64, float64) {
	features := dt.candidateFeatures(rng)

	bestFeature := -1
	bestThreshold := 0.0
	bestGain := 0.0

	n := len(indices)
	values := make([]float64, n)

	for _, f := range features {
		for i, idx := range indices {
			values[i] = X.At(idx, f)
		}
		thresholds := splitPoints(values)

		for _, thr := range thresholds {
			leftCounts := make([]int, dt.nClasses)
			rightCounts := make([]int, dt.nClasses)
			nLeft, nRight := 0, 0
			for _, idx := range indices {
				if X.At(idx, f) <= thr {
					leftCounts[labels[idx]]++
					nLeft++
				} else {
					rightCounts[labels[idx]]++
					nRight++
				}
			}

			if nLeft < dt.minSamplesLeaf || nRight < dt.minSamplesLeaf {
				continue
			}

			weighted := (float64(nLeft)*dt.impurity(leftCounts, nLeft) +
				float64(nRight)*dt.impurity(rightCounts, nRight)) / float64(n)
			gain := parentImpurity - weighted

			if gain > bestGain+1e-12 {
				bestFeature = f
				bestThreshold = thr
				bestGain = gain
			}
		}
	}

	return bestFeature, bestThreshold, bestGain
}

// candidateFeatures returns the features considered at one split: all of
// them, or a random subset of size maxFeatures.
func (dt *DecisionTreeClassifier) candidateFeatures(rng *rand.Rand) []int {
	if dt.maxFeatures <= 0 || dt.maxFeatures >= dt.nFeatures {
		all := make([]int, dt.nFeatures)
		for i := range all {
			all[i] = i
		}
		return all
	}
	return rng.Perm(dt.nFeatures)[:dt.maxFeatures]
}

// splitPoints returns the midpoints between consecutive distinct values.
func splitPoints(values []float64) []float64 {
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)

	var points []float64
	for i := 1; i < len(sorted); i++ {
		if sorted[i] != sorted[i-1] {
			points = append(points, (sorted[i]+sorted[i-1])/2)
		}
	}
	return points
}

func (dt *DecisionTreeClassifier) classCounts(labels, indices []int) []int {
	counts := make([]int, dt.nClasses)
	for _, idx := range indices {
		counts[labels[idx]]++
	}
	return counts
}

func (dt *DecisionTreeClassifier) leaf(counts []int, n int) *node {
	probs := make([]float64, dt.nClasses)
	for i, c := range counts {
		probs[i] = float64(c) / float64(n)
	}
	return &node{probs: probs}
}

func (dt *DecisionTreeClassifier) impurity(counts []int, n int) float64 {
	if n == 0 {
		return 0
	}
	switch dt.criterion {
	case "entropy":
		var h float64
		for _, c := range counts {
			if c == 0 {
				continue
			}
			p := float64(c) / float64(n)
			h -= p * math.Log2(p)
		}
		return h
	default: // gini
		g := 1.0
		for _, c := range counts {
			p := float64(c) / float64(n)
			g -= p * p
		}
		return g
	}
}

// Predict returns the majority class for each row of X as an n×1 matrix.
func (dt *DecisionTreeClassifier) Predict(X mat.Matrix) (mat.Matrix, error) {
	probas, err := dt.PredictProba(X)
	if err != nil {
		return nil, err
	}

	n, _ := probas.Dims()
	out := mat.NewDense(n, 1, nil)
	for i := 0; i < n; i++ {
		out.Set(i, 0, float64(argmaxRow(probas, i, dt.nClasses)))
	}
	return out, nil
}

// PredictProba returns the leaf class distribution for each row of X as an
// n×nClasses matrix.
func (dt *DecisionTreeClassifier) PredictProba(X mat.Matrix) (mat.Matrix, error) {
	if !dt.IsFitted() {
		return nil, errors.NewNotFittedError("DecisionTreeClassifier", "PredictProba")
	}
	if X == nil {
		return nil, errors.NewValueError("DecisionTreeClassifier.PredictProba", "nil input")
	}

	n, c := X.Dims()
	if c != dt.nFeatures {
		return nil, errors.NewDimensionError("DecisionTreeClassifier.PredictProba", dt.nFeatures, c, 1)
	}

	out := mat.NewDense(n, dt.nClasses, nil)
	for i := 0; i < n; i++ {
		leaf := dt.root
		for !leaf.isLeaf() {
			if X.At(i, leaf.feature) <= leaf.threshold {
				leaf = leaf.left
			} else {
				leaf = leaf.right
			}
		}
		for k, p := range leaf.probs {
			out.Set(i, k, p)
		}
	}
	return out, nil
}

// Score returns the mean accuracy of Predict on X against y.
func (dt *DecisionTreeClassifier) Score(X, y mat.Matrix) (float64, error) {
	pred, err := dt.Predict(X)
	if err != nil {
		return 0, err
	}

	n, _ := pred.Dims()
	yr, _ := y.Dims()
	if yr != n {
		return 0, errors.NewDimensionError("DecisionTreeClassifier.Score", n, yr, 0)
	}

	correct := 0
	for i := 0; i < n; i++ {
		if pred.At(i, 0) == y.At(i, 0) {
			correct++
		}
	}
	return float64(correct) / float64(n), nil
}

// Classes returns the class indices seen during fitting.
func (dt *DecisionTreeClassifier) Classes() []int {
	classes := make([]int, dt.nClasses)
	for i := range classes {
		classes[i] = i
	}
	return classes
}

// FeatureImportances returns the normalised impurity-decrease importance of
// each feature.
func (dt *DecisionTreeClassifier) FeatureImportances() []float64 {
	return dt.featureImportances
}

// Depth returns the depth of the fitted tree (0 for a single leaf).
func (dt *DecisionTreeClassifier) Depth() int {
	return nodeDepth(dt.root)
}

// NLeaves returns the number of leaves in the fitted tree.
func (dt *DecisionTreeClassifier) NLeaves() int {
	return countLeaves(dt.root)
}

func nodeDepth(n *node) int {
	if n == nil || n.isLeaf() {
		return 0
	}
	l, r := nodeDepth(n.left), nodeDepth(n.right)
	if l > r {
		return l + 1
	}
	return r + 1
}

func countLeaves(n *node) int {
	if n == nil {
		return 0
	}
	if n.isLeaf() {
		return 1
	}
	return countLeaves(n.left) + countLeaves(n.right)
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

func normalize(values []float64) {
	var sum float64
	for _, v := range values {
		sum += v
	}
	if sum == 0 {
		return
	}
	for i := range values {
		values[i] /= sum
	}
}
