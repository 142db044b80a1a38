// Package modelselection provides train/test splitting and cross-validation
// for classifiers.
package modelselection

import (
	"math/rand/v2"

	"gonum.org/v1/gonum/mat"

	"github.com/phenosnp/phenosnp/pkg/errors"
)

// KFoldSplitter defines interface for cross-validation splitters
type KFoldSplitter interface {
	Split(X, y mat.Matrix) []CVFold
	GetNSplits() int
}

// CVFold represents a single fold in cross-validation
type CVFold struct {
	TrainIndices []int
	TestIndices  []int
}

// KFold implements k-fold cross-validation splitter
type KFold struct {
	NSplits    int
	Shuffle    bool
	RandomSeed int
}

// NewKFold creates a new k-fold splitter
func NewKFold(nSplits int, shuffle bool, randomSeed int) *KFold {
	if nSplits < 2 {
		nSplits = 5 // Default to 5-fold
	}
	return &KFold{
		NSplits:    nSplits,
		Shuffle:    shuffle,
		RandomSeed: randomSeed,
	}
}

// GetNSplits returns the number of splits
func (kf *KFold) GetNSplits() int {
	return kf.NSplits
}

// Split generates train/test indices for each fold. When there are fewer
// samples than splits the empty trailing folds are dropped, so the result
// may hold fewer than NSplits folds.
func (kf *KFold) Split(X, _ mat.Matrix) []CVFold {
	nSamples, _ := X.Dims()

	indices := make([]int, nSamples)
	for i := range indices {
		indices[i] = i
	}

	if kf.Shuffle {
		r := rand.New(rand.NewPCG(uint64(kf.RandomSeed), uint64(kf.RandomSeed)))
		r.Shuffle(len(indices), func(i, j int) {
			indices[i], indices[j] = indices[j], indices[i]
		})
	}

	folds := make([]CVFold, kf.NSplits)
	foldSize := nSamples / kf.NSplits
	remainder := nSamples % kf.NSplits

	currentIdx := 0
	for i := 0; i < kf.NSplits; i++ {
		testSize := foldSize
		if i < remainder {
			testSize++
		}

		testIndices := make([]int, testSize)
		copy(testIndices, indices[currentIdx:currentIdx+testSize])

		testSet := make(map[int]bool, testSize)
		for _, idx := range testIndices {
			testSet[idx] = true
		}

		trainIndices := make([]int, 0, nSamples-testSize)
		for j := 0; j < nSamples; j++ {
			if !testSet[indices[j]] {
				trainIndices = append(trainIndices, indices[j])
			}
		}

		folds[i] = CVFold{
			TrainIndices: trainIndices,
			TestIndices:  testIndices,
		}

		currentIdx += testSize
	}

	return dropDegenerateFolds(folds)
}

// StratifiedKFold implements stratified k-fold cross-validation. Each fold
// preserves the class proportions of y, which matters for the small and
// imbalanced phenotype sets this package is used with.
type StratifiedKFold struct {
	NSplits    int
	Shuffle    bool
	RandomSeed int
}

// NewStratifiedKFold creates a new stratified k-fold splitter
func NewStratifiedKFold(nSplits int, shuffle bool, randomSeed int) *StratifiedKFold {
	if nSplits < 2 {
		nSplits = 5
	}
	return &StratifiedKFold{
		NSplits:    nSplits,
		Shuffle:    shuffle,
		RandomSeed: randomSeed,
	}
}

// GetNSplits returns the number of splits
func (skf *StratifiedKFold) GetNSplits() int {
	return skf.NSplits
}

// Split generates stratified train/test indices for each fold. When every
// class has fewer samples than NSplits the trailing folds receive no test
// rows; such folds are dropped rather than returned empty.
func (skf *StratifiedKFold) Split(X, y mat.Matrix) []CVFold {
	nSamples, _ := X.Dims()

	// Group indices by class, keeping classes in first-seen order so the
	// output is deterministic.
	classIndices := make(map[float64][]int)
	var classOrder []float64
	for i := 0; i < nSamples; i++ {
		label := y.At(i, 0)
		if _, seen := classIndices[label]; !seen {
			classOrder = append(classOrder, label)
		}
		classIndices[label] = append(classIndices[label], i)
	}

	if skf.Shuffle {
		r := rand.New(rand.NewPCG(uint64(skf.RandomSeed), uint64(skf.RandomSeed)))
		for _, label := range classOrder {
			indices := classIndices[label]
			r.Shuffle(len(indices), func(i, j int) {
				indices[i], indices[j] = indices[j], indices[i]
			})
		}
	}

	folds := make([]CVFold, skf.NSplits)
	for i := 0; i < skf.NSplits; i++ {
		folds[i] = CVFold{
			TrainIndices: make([]int, 0),
			TestIndices:  make([]int, 0),
		}
	}

	// Distribute each class across folds
	for _, label := range classOrder {
		indices := classIndices[label]
		nClass := len(indices)
		foldSize := nClass / skf.NSplits
		remainder := nClass % skf.NSplits

		currentIdx := 0
		for i := 0; i < skf.NSplits; i++ {
			testSize := foldSize
			if i < remainder {
				testSize++
			}

			for j := 0; j < testSize && currentIdx < nClass; j++ {
				folds[i].TestIndices = append(folds[i].TestIndices, indices[currentIdx])
				currentIdx++
			}
		}
	}

	// Build train sets (all samples not in test)
	for i := 0; i < skf.NSplits; i++ {
		testSet := make(map[int]bool)
		for _, idx := range folds[i].TestIndices {
			testSet[idx] = true
		}

		for j := 0; j < nSamples; j++ {
			if !testSet[j] {
				folds[i].TrainIndices = append(folds[i].TrainIndices, j)
			}
		}
	}

	return dropDegenerateFolds(folds)
}

// dropDegenerateFolds removes folds with an empty train or test side. Every
// sample stays covered: an empty fold holds no test rows by definition.
func dropDegenerateFolds(folds []CVFold) []CVFold {
	out := folds[:0]
	for _, fold := range folds {
		if len(fold.TestIndices) == 0 || len(fold.TrainIndices) == 0 {
			continue
		}
		out = append(out, fold)
	}
	return out
}

// TrainTestSplit partitions X and y into train and test matrices. testSize
// is the fraction held out (0 < testSize < 1). When stratify is true the
// split preserves class proportions of y.
func TrainTestSplit(X, y mat.Matrix, testSize float64, stratify bool, randomSeed int) (trainX, testX, trainY, testY mat.Matrix, err error) {
	if X == nil || y == nil {
		return nil, nil, nil, nil, errors.NewValueError("TrainTestSplit", "nil input")
	}
	if testSize <= 0 || testSize >= 1 {
		return nil, nil, nil, nil, errors.NewValidationError("testSize", "must be in (0, 1)", testSize)
	}

	nSamples, _ := X.Dims()
	yr, _ := y.Dims()
	if yr != nSamples {
		return nil, nil, nil, nil, errors.NewDimensionError("TrainTestSplit", nSamples, yr, 0)
	}

	r := rand.New(rand.NewPCG(uint64(randomSeed), uint64(randomSeed)))

	var testIdx []int
	if stratify {
		classIndices := make(map[float64][]int)
		var classOrder []float64
		for i := 0; i < nSamples; i++ {
			label := y.At(i, 0)
			if _, seen := classIndices[label]; !seen {
				classOrder = append(classOrder, label)
			}
			classIndices[label] = append(classIndices[label], i)
		}
		for _, label := range classOrder {
			indices := classIndices[label]
			r.Shuffle(len(indices), func(i, j int) {
				indices[i], indices[j] = indices[j], indices[i]
			})
			nTest := int(float64(len(indices)) * testSize)
			testIdx = append(testIdx, indices[:nTest]...)
		}
	} else {
		indices := make([]int, nSamples)
		for i := range indices {
			indices[i] = i
		}
		r.Shuffle(len(indices), func(i, j int) {
			indices[i], indices[j] = indices[j], indices[i]
		})
		nTest := int(float64(nSamples) * testSize)
		testIdx = indices[:nTest]
	}

	if len(testIdx) == 0 || len(testIdx) == nSamples {
		return nil, nil, nil, nil, errors.NewValueError("TrainTestSplit", "split leaves an empty partition")
	}

	testSet := make(map[int]bool, len(testIdx))
	for _, idx := range testIdx {
		testSet[idx] = true
	}
	var trainIdx []int
	for i := 0; i < nSamples; i++ {
		if !testSet[i] {
			trainIdx = append(trainIdx, i)
		}
	}

	trainX, trainY = extractSubset(X, y, trainIdx)
	testX, testY = extractSubset(X, y, testIdx)
	return trainX, testX, trainY, testY, nil
}

// extractSubset copies the given rows of X and y into new matrices.
func extractSubset(X, y mat.Matrix, indices []int) (mat.Matrix, mat.Matrix) {
	_, nFeatures := X.Dims()

	subX := mat.NewDense(len(indices), nFeatures, nil)
	subY := mat.NewDense(len(indices), 1, nil)

	for i, idx := range indices {
		for j := 0; j < nFeatures; j++ {
			subX.Set(i, j, X.At(idx, j))
		}
		subY.Set(i, 0, y.At(idx, 0))
	}
	return subX, subY
}
