package modelselection

import (
	"testing"

	"gonum.org/v1/gonum/mat"
)

// labelled returns n samples with labels i % nClasses.
func labelled(n, nClasses int) (*mat.Dense, *mat.Dense) {
	X := mat.NewDense(n, 2, nil)
	y := mat.NewDense(n, 1, nil)
	for i := 0; i < n; i++ {
		X.Set(i, 0, float64(i))
		X.Set(i, 1, float64(i*i%7))
		y.Set(i, 0, float64(i%nClasses))
	}
	return X, y
}

// TestKFold_Split tests fold balance and coverage
func TestKFold_Split(t *testing.T) {
	X, y := labelled(10, 2)

	kf := NewKFold(5, true, 42)
	folds := kf.Split(X, y)

	if len(folds) != 5 {
		t.Fatalf("Expected 5 folds, got %d", len(folds))
	}

	seen := make(map[int]int)
	for i, fold := range folds {
		if len(fold.TestIndices) != 2 {
			t.Errorf("Fold %d: expected 2 test samples, got %d", i, len(fold.TestIndices))
		}
		if len(fold.TrainIndices)+len(fold.TestIndices) != 10 {
			t.Errorf("Fold %d: train+test != n", i)
		}
		for _, idx := range fold.TestIndices {
			seen[idx]++
		}
	}

	for i := 0; i < 10; i++ {
		if seen[i] != 1 {
			t.Errorf("Sample %d appears in %d test folds, want 1", i, seen[i])
		}
	}
}

// TestKFold_UnevenSizes tests remainder distribution
func TestKFold_UnevenSizes(t *testing.T) {
	X, y := labelled(11, 2)

	kf := NewKFold(3, false, 0)
	folds := kf.Split(X, y)

	sizes := []int{len(folds[0].TestIndices), len(folds[1].TestIndices), len(folds[2].TestIndices)}
	total := sizes[0] + sizes[1] + sizes[2]
	if total != 11 {
		t.Fatalf("Test sets should cover all 11 samples, got %d", total)
	}
	for i, s := range sizes {
		if s < 3 || s > 4 {
			t.Errorf("Fold %d test size %d, want 3 or 4", i, s)
		}
	}
}

// TestStratifiedKFold_Proportions tests per-class balance in each fold
func TestStratifiedKFold_Proportions(t *testing.T) {
	// 20 samples: 12 of class 0, 8 of class 1.
	X := mat.NewDense(20, 1, nil)
	y := mat.NewDense(20, 1, nil)
	for i := 0; i < 20; i++ {
		X.Set(i, 0, float64(i))
		if i >= 12 {
			y.Set(i, 0, 1)
		}
	}

	skf := NewStratifiedKFold(4, true, 7)
	folds := skf.Split(X, y)

	if len(folds) != 4 {
		t.Fatalf("Expected 4 folds, got %d", len(folds))
	}

	for i, fold := range folds {
		counts := map[float64]int{}
		for _, idx := range fold.TestIndices {
			counts[y.At(idx, 0)]++
		}
		if counts[0] != 3 {
			t.Errorf("Fold %d: expected 3 class-0 test samples, got %d", i, counts[0])
		}
		if counts[1] != 2 {
			t.Errorf("Fold %d: expected 2 class-1 test samples, got %d", i, counts[1])
		}
	}
}

// TestStratifiedKFold_Deterministic tests seeded reproducibility
func TestStratifiedKFold_Deterministic(t *testing.T) {
	X, y := labelled(15, 3)

	a := NewStratifiedKFold(3, true, 11).Split(X, y)
	b := NewStratifiedKFold(3, true, 11).Split(X, y)

	for i := range a {
		if len(a[i].TestIndices) != len(b[i].TestIndices) {
			t.Fatalf("Fold %d: different test sizes for same seed", i)
		}
		for j := range a[i].TestIndices {
			if a[i].TestIndices[j] != b[i].TestIndices[j] {
				t.Fatalf("Fold %d: different test indices for same seed", i)
			}
		}
	}
}

// TestTrainTestSplit tests sizes and stratification
func TestTrainTestSplit(t *testing.T) {
	X, y := labelled(20, 2)

	trainX, testX, trainY, testY, err := TrainTestSplit(X, y, 0.25, true, 42)
	if err != nil {
		t.Fatalf("TrainTestSplit failed: %v", err)
	}

	trainN, _ := trainX.Dims()
	testN, _ := testX.Dims()
	if trainN+testN != 20 {
		t.Fatalf("Train+test sizes should cover all samples, got %d+%d", trainN, testN)
	}
	if testN != 5 {
		t.Errorf("Expected 5 test samples with testSize=0.25, got %d", testN)
	}

	// Stratified split keeps both classes in the test partition.
	testCounts := map[float64]int{}
	for i := 0; i < testN; i++ {
		testCounts[testY.At(i, 0)]++
	}
	if testCounts[0] == 0 || testCounts[1] == 0 {
		t.Errorf("Stratified test partition missing a class: %v", testCounts)
	}

	trainN2, _ := trainY.Dims()
	if trainN2 != trainN {
		t.Errorf("trainX and trainY row counts differ: %d vs %d", trainN, trainN2)
	}
}

// TestTrainTestSplit_InvalidSize tests testSize validation
func TestTrainTestSplit_InvalidSize(t *testing.T) {
	X, y := labelled(10, 2)

	for _, size := range []float64{0, 1, -0.5, 1.5} {
		if _, _, _, _, err := TrainTestSplit(X, y, size, false, 0); err == nil {
			t.Errorf("Expected error for testSize=%v", size)
		}
	}
}

// TestKFold_FewerSamplesThanSplits tests that empty folds are dropped
func TestKFold_FewerSamplesThanSplits(t *testing.T) {
	X, y := labelled(3, 2)

	kf := NewKFold(5, false, 0)
	folds := kf.Split(X, y)

	if len(folds) != 3 {
		t.Fatalf("Expected 3 non-empty folds for 3 samples, got %d", len(folds))
	}
	seen := make(map[int]int)
	for i, fold := range folds {
		if len(fold.TestIndices) == 0 || len(fold.TrainIndices) == 0 {
			t.Errorf("Fold %d has an empty partition", i)
		}
		for _, idx := range fold.TestIndices {
			seen[idx]++
		}
	}
	for i := 0; i < 3; i++ {
		if seen[i] != 1 {
			t.Errorf("Sample %d appears in %d test folds, want 1", i, seen[i])
		}
	}
}

// TestStratifiedKFold_SmallClasses tests that folds receiving no test rows
// are dropped instead of returned empty
func TestStratifiedKFold_SmallClasses(t *testing.T) {
	// Both classes have 3 samples, fewer than the 5 requested splits.
	X, y := labelled(6, 2)

	skf := NewStratifiedKFold(5, true, 42)
	folds := skf.Split(X, y)

	if len(folds) == 0 {
		t.Fatal("Expected at least one fold")
	}
	seen := make(map[int]int)
	for i, fold := range folds {
		if len(fold.TestIndices) == 0 {
			t.Errorf("Fold %d has no test samples", i)
		}
		if len(fold.TrainIndices) == 0 {
			t.Errorf("Fold %d has no train samples", i)
		}
		for _, idx := range fold.TestIndices {
			seen[idx]++
		}
	}
	for i := 0; i < 6; i++ {
		if seen[i] != 1 {
			t.Errorf("Sample %d appears in %d test folds, want 1", i, seen[i])
		}
	}
}
