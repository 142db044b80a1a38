package modelselection

import (
	"fmt"
	"math"
	"sync"

	"gonum.org/v1/gonum/mat"

	"github.com/phenosnp/phenosnp/core/model"
	"github.com/phenosnp/phenosnp/pkg/errors"
)

// CVResult stores cross-validation results
type CVResult struct {
	TrainScores []float64
	TestScores  []float64
	Models      []model.Classifier
}

// GetMeanScore returns mean test score
func (cv *CVResult) GetMeanScore() float64 {
	if len(cv.TestScores) == 0 {
		return 0.0
	}

	sum := 0.0
	for _, score := range cv.TestScores {
		sum += score
	}
	return sum / float64(len(cv.TestScores))
}

// GetStdScore returns standard deviation of test scores
func (cv *CVResult) GetStdScore() float64 {
	if len(cv.TestScores) <= 1 {
		return 0.0
	}

	mean := cv.GetMeanScore()
	sumSq := 0.0
	for _, score := range cv.TestScores {
		diff := score - mean
		sumSq += diff * diff
	}
	return math.Sqrt(sumSq / float64(len(cv.TestScores)-1))
}

// CrossValidate fits a fresh classifier from newModel on each fold's
// training rows and scores it on the held-out rows. Folds run concurrently.
func CrossValidate(newModel func() model.Classifier, X, y mat.Matrix, splitter KFoldSplitter) (*CVResult, error) {
	if newModel == nil {
		return nil, errors.NewValueError("CrossValidate", "nil model factory")
	}
	if X == nil || y == nil {
		return nil, errors.NewValueError("CrossValidate", "nil input")
	}

	folds := splitter.Split(X, y)
	nFolds := len(folds)
	if nFolds == 0 {
		return nil, errors.NewValueError("CrossValidate", "splitter produced no usable folds")
	}

	result := &CVResult{
		TrainScores: make([]float64, nFolds),
		TestScores:  make([]float64, nFolds),
		Models:      make([]model.Classifier, nFolds),
	}

	var wg sync.WaitGroup
	foldErrs := make([]error, nFolds)

	for foldIdx := 0; foldIdx < nFolds; foldIdx++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			defer errors.Recover(&foldErrs[idx], "CrossValidate")

			fold := folds[idx]
			if len(fold.TrainIndices) == 0 || len(fold.TestIndices) == 0 {
				foldErrs[idx] = errors.NewValueError("CrossValidate",
					fmt.Sprintf("fold %d has an empty partition", idx))
				return
			}
			trainX, trainY := extractSubset(X, y, fold.TrainIndices)
			testX, testY := extractSubset(X, y, fold.TestIndices)

			clf := newModel()
			if err := clf.Fit(trainX, trainY); err != nil {
				foldErrs[idx] = errors.Wrapf(err, "fold %d training failed", idx)
				return
			}
			result.Models[idx] = clf

			trainScore, err := clf.Score(trainX, trainY)
			if err != nil {
				foldErrs[idx] = errors.Wrapf(err, "fold %d train scoring failed", idx)
				return
			}
			result.TrainScores[idx] = trainScore

			testScore, err := clf.Score(testX, testY)
			if err != nil {
				foldErrs[idx] = errors.Wrapf(err, "fold %d test scoring failed", idx)
				return
			}
			result.TestScores[idx] = testScore
		}(foldIdx)
	}

	wg.Wait()

	for _, e := range foldErrs {
		if e != nil {
			return nil, e
		}
	}
	return result, nil
}

// CrossValPredict returns out-of-fold predictions for every sample: each
// row is predicted by the one fold model that did not train on it. The
// returned label vector is n×1 and the probability matrix is n×nClasses
// with classes indexed 0..max(y).
func CrossValPredict(newModel func() model.Classifier, X, y mat.Matrix, splitter KFoldSplitter) (*mat.VecDense, *mat.Dense, error) {
	if newModel == nil {
		return nil, nil, errors.NewValueError("CrossValPredict", "nil model factory")
	}
	if X == nil || y == nil {
		return nil, nil, errors.NewValueError("CrossValPredict", "nil input")
	}

	nSamples, _ := X.Dims()
	yr, _ := y.Dims()
	if yr != nSamples {
		return nil, nil, errors.NewDimensionError("CrossValPredict", nSamples, yr, 0)
	}

	nClasses := 0
	for i := 0; i < nSamples; i++ {
		if l := int(y.At(i, 0)); l+1 > nClasses {
			nClasses = l + 1
		}
	}

	labels := mat.NewVecDense(nSamples, nil)
	probas := mat.NewDense(nSamples, nClasses, nil)
	seen := make([]bool, nSamples)

	folds := splitter.Split(X, y)
	if len(folds) == 0 {
		return nil, nil, errors.NewValueError("CrossValPredict", "splitter produced no usable folds")
	}
	foldErrs := make([]error, len(folds))

	var wg sync.WaitGroup
	for foldIdx := range folds {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			defer errors.Recover(&foldErrs[idx], "CrossValPredict")

			fold := folds[idx]
			if len(fold.TrainIndices) == 0 || len(fold.TestIndices) == 0 {
				foldErrs[idx] = errors.NewValueError("CrossValPredict",
					fmt.Sprintf("fold %d has an empty partition", idx))
				return
			}
			trainX, trainY := extractSubset(X, y, fold.TrainIndices)
			testX, _ := extractSubset(X, y, fold.TestIndices)

			clf := newModel()
			if err := clf.Fit(trainX, trainY); err != nil {
				foldErrs[idx] = errors.Wrapf(err, "fold %d training failed", idx)
				return
			}

			pred, err := clf.Predict(testX)
			if err != nil {
				foldErrs[idx] = errors.Wrapf(err, "fold %d prediction failed", idx)
				return
			}
			prob, err := clf.PredictProba(testX)
			if err != nil {
				foldErrs[idx] = errors.Wrapf(err, "fold %d probability prediction failed", idx)
				return
			}

			// A fold model may have seen fewer classes than the full set;
			// missing columns keep probability 0.
			_, foldClasses := prob.Dims()

			// Folds have disjoint test sets, so writes never overlap.
			for i, sample := range fold.TestIndices {
				seen[sample] = true
				labels.SetVec(sample, pred.At(i, 0))
				for k := 0; k < foldClasses && k < nClasses; k++ {
					probas.Set(sample, k, prob.At(i, k))
				}
			}
		}(foldIdx)
	}

	wg.Wait()

	for _, e := range foldErrs {
		if e != nil {
			return nil, nil, e
		}
	}
	for i, ok := range seen {
		if !ok {
			return nil, nil, errors.Newf("phenosnp: CrossValPredict: sample %d was not assigned to any test fold", i)
		}
	}
	return labels, probas, nil
}
