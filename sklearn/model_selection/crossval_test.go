package modelselection

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/mat"

	"github.com/phenosnp/phenosnp/core/model"
	"github.com/phenosnp/phenosnp/sklearn/ensemble"
)

// clusters returns two separated clusters suitable for any classifier.
func clusters() (*mat.Dense, *mat.Dense) {
	X := mat.NewDense(20, 2, nil)
	y := mat.NewDense(20, 1, nil)
	for i := 0; i < 20; i++ {
		cls := i % 2
		X.Set(i, 0, float64(cls*10+i%5))
		X.Set(i, 1, float64(cls*10+(i*3)%5))
		y.Set(i, 0, float64(cls))
	}
	return X, y
}

func forestFactory() model.Classifier {
	return ensemble.NewRandomForestClassifier(
		ensemble.WithNEstimators(15),
		ensemble.WithSeed(42),
	)
}

// TestCrossValidate tests fold scoring with a forest
func TestCrossValidate(t *testing.T) {
	X, y := clusters()

	skf := NewStratifiedKFold(4, true, 42)
	result, err := CrossValidate(forestFactory, X, y, skf)
	if err != nil {
		t.Fatalf("CrossValidate failed: %v", err)
	}

	if len(result.TestScores) != 4 {
		t.Fatalf("Expected 4 test scores, got %d", len(result.TestScores))
	}
	if len(result.Models) != 4 {
		t.Fatalf("Expected 4 fitted models, got %d", len(result.Models))
	}

	for i, score := range result.TestScores {
		if score < 0 || score > 1 {
			t.Errorf("Fold %d test score out of range: %v", i, score)
		}
	}

	mean := result.GetMeanScore()
	if mean < 0.8 {
		t.Errorf("Expected high mean accuracy on separated clusters, got %v", mean)
	}

	std := result.GetStdScore()
	if std < 0 || math.IsNaN(std) {
		t.Errorf("Invalid score standard deviation: %v", std)
	}
}

// TestCrossValidate_NilFactory tests factory validation
func TestCrossValidate_NilFactory(t *testing.T) {
	X, y := clusters()
	if _, err := CrossValidate(nil, X, y, NewKFold(3, false, 0)); err == nil {
		t.Error("Expected error for nil model factory")
	}
}

// TestCrossValPredict tests out-of-fold coverage and probabilities
func TestCrossValPredict(t *testing.T) {
	X, y := clusters()

	skf := NewStratifiedKFold(5, true, 7)
	labels, probas, err := CrossValPredict(forestFactory, X, y, skf)
	if err != nil {
		t.Fatalf("CrossValPredict failed: %v", err)
	}

	if labels.Len() != 20 {
		t.Fatalf("Expected 20 out-of-fold labels, got %d", labels.Len())
	}

	rows, cols := probas.Dims()
	if rows != 20 || cols != 2 {
		t.Fatalf("Expected probas shape (20, 2), got (%d, %d)", rows, cols)
	}

	correct := 0
	for i := 0; i < 20; i++ {
		sum := 0.0
		for k := 0; k < cols; k++ {
			sum += probas.At(i, k)
		}
		if math.Abs(sum-1.0) > 1e-9 {
			t.Errorf("Out-of-fold probabilities for sample %d don't sum to 1: %v", i, sum)
		}

		pred := labels.AtVec(i)
		if pred != 0 && pred != 1 {
			t.Errorf("Sample %d: predicted label %v outside class set", i, pred)
		}
		if pred == y.At(i, 0) {
			correct++
		}
	}

	// Separated clusters should be easy even out of fold.
	if acc := float64(correct) / 20; acc < 0.8 {
		t.Errorf("Expected out-of-fold accuracy >= 0.8, got %v", acc)
	}
}

// TestCrossValPredict_DimensionMismatch tests y length validation
func TestCrossValPredict_DimensionMismatch(t *testing.T) {
	X, _ := clusters()
	badY := mat.NewDense(5, 1, nil)

	if _, _, err := CrossValPredict(forestFactory, X, badY, NewKFold(3, false, 0)); err == nil {
		t.Error("Expected dimension error for mismatched y")
	}
}

// emptyFoldSplitter returns a fold with no test rows, as a misbehaving
// custom splitter might.
type emptyFoldSplitter struct{}

func (s *emptyFoldSplitter) Split(X, _ mat.Matrix) []CVFold {
	n, _ := X.Dims()
	all := make([]int, n)
	for i := range all {
		all[i] = i
	}
	return []CVFold{{TrainIndices: all, TestIndices: nil}}
}

func (s *emptyFoldSplitter) GetNSplits() int { return 1 }

// TestCrossValidate_SmallClasses tests that classes smaller than the fold
// count produce a reduced fold set instead of crashing
func TestCrossValidate_SmallClasses(t *testing.T) {
	X, y := labelled(6, 2)

	result, err := CrossValidate(forestFactory, X, y, NewStratifiedKFold(5, true, 42))
	if err != nil {
		t.Fatalf("CrossValidate failed: %v", err)
	}

	// Three samples per class spread over five requested splits leaves
	// three usable folds.
	if len(result.TestScores) != 3 {
		t.Fatalf("Expected 3 fold scores, got %d", len(result.TestScores))
	}
	for i, score := range result.TestScores {
		if score < 0 || score > 1 {
			t.Errorf("Fold %d score out of range: %v", i, score)
		}
	}
}

// TestCrossValPredict_SmallClasses tests out-of-fold prediction coverage
// with classes smaller than the fold count
func TestCrossValPredict_SmallClasses(t *testing.T) {
	X, y := labelled(6, 2)

	labels, probas, err := CrossValPredict(forestFactory, X, y, NewStratifiedKFold(5, true, 42))
	if err != nil {
		t.Fatalf("CrossValPredict failed: %v", err)
	}

	if labels.Len() != 6 {
		t.Fatalf("Expected 6 out-of-fold labels, got %d", labels.Len())
	}
	rows, cols := probas.Dims()
	if rows != 6 || cols != 2 {
		t.Fatalf("Expected probas shape (6, 2), got (%d, %d)", rows, cols)
	}
}

// TestCrossValidate_EmptyFold tests the structured error for a splitter
// that produces an empty partition
func TestCrossValidate_EmptyFold(t *testing.T) {
	X, y := labelled(6, 2)

	if _, err := CrossValidate(forestFactory, X, y, &emptyFoldSplitter{}); err == nil {
		t.Error("Expected error for a fold with an empty partition")
	}
	if _, _, err := CrossValPredict(forestFactory, X, y, &emptyFoldSplitter{}); err == nil {
		t.Error("Expected error for a fold with an empty partition")
	}
}
