package metrics

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/integrate"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"github.com/phenosnp/phenosnp/pkg/errors"
)

// AUC computes the area under the ROC curve for binary labels.
//
// yTrue must contain only 0 and 1; yScore holds the predicted probability of
// the positive class. When only one class is present the metric is undefined:
// an UndefinedMetricWarning is raised and 0.5 is returned.
func AUC(yTrue, yScore *mat.VecDense) (float64, error) {
	if yTrue == nil || yScore == nil {
		return 0, errors.NewValueError("AUC", "nil vector")
	}

	n := yTrue.Len()
	if n == 0 {
		return 0, errors.NewValueError("AUC", "empty vector")
	}
	if yScore.Len() != n {
		return 0, errors.NewDimensionError("AUC", n, yScore.Len(), 0)
	}

	pos, neg := 0, 0
	for i := 0; i < n; i++ {
		switch yTrue.AtVec(i) {
		case 0:
			neg++
		case 1:
			pos++
		default:
			return 0, errors.NewValueError("AUC", "labels must be binary (0 or 1)")
		}
	}

	if pos == 0 || neg == 0 {
		condition := "no positive samples"
		if neg == 0 {
			condition = "no negative samples"
		}
		errors.Warn(errors.NewUndefinedMetricWarning("AUC", condition, 0.5))
		return 0.5, nil
	}

	// stat.ROC requires scores sorted in increasing order.
	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	sort.Slice(order, func(i, j int) bool {
		return yScore.AtVec(order[i]) < yScore.AtVec(order[j])
	})

	scores := make([]float64, n)
	classes := make([]bool, n)
	for rank, idx := range order {
		scores[rank] = yScore.AtVec(idx)
		classes[rank] = yTrue.AtVec(idx) == 1
	}

	tpr, fpr, _ := stat.ROC(nil, scores, classes, nil)

	// Integrate over ascending false-positive rate.
	if len(fpr) > 1 && fpr[0] > fpr[len(fpr)-1] {
		reverse(fpr)
		reverse(tpr)
	}

	return integrate.Trapezoidal(fpr, tpr), nil
}

// AUCMatrix computes AUC for column-vector matrix inputs. Matrices with more
// than one column use the first column.
func AUCMatrix(yTrue, yScore mat.Matrix) (float64, error) {
	yTrueVec, err := firstColumn("AUCMatrix", yTrue)
	if err != nil {
		return 0, err
	}
	yScoreVec, err := firstColumn("AUCMatrix", yScore)
	if err != nil {
		return 0, err
	}
	return AUC(yTrueVec, yScoreVec)
}

// BinaryLogLoss computes the binary cross-entropy between labels and predicted
// probabilities. Predictions are clipped to avoid log(0).
func BinaryLogLoss(yTrue, yScore *mat.VecDense) (float64, error) {
	if yTrue == nil || yScore == nil {
		return 0, errors.NewValueError("BinaryLogLoss", "nil vector")
	}

	n := yTrue.Len()
	if n == 0 {
		return 0, errors.NewValueError("BinaryLogLoss", "empty vector")
	}
	if yScore.Len() != n {
		return 0, errors.NewDimensionError("BinaryLogLoss", n, yScore.Len(), 0)
	}

	const eps = 1e-15

	var sum float64
	for i := 0; i < n; i++ {
		y := yTrue.AtVec(i)
		if y != 0 && y != 1 {
			return 0, errors.NewValueError("BinaryLogLoss", "labels must be binary (0 or 1)")
		}

		p := yScore.AtVec(i)
		if p < eps {
			p = eps
		} else if p > 1-eps {
			p = 1 - eps
		}

		if y == 1 {
			sum -= math.Log(p)
		} else {
			sum -= math.Log(1 - p)
		}
	}

	return sum / float64(n), nil
}

// Accuracy computes the fraction of exactly matching predictions.
func Accuracy(yTrue, yPred *mat.VecDense) (float64, error) {
	if yTrue == nil || yPred == nil {
		return 0, errors.NewValueError("Accuracy", "nil vector")
	}

	n := yTrue.Len()
	if n == 0 {
		return 0, errors.NewValueError("Accuracy", "empty vector")
	}
	if yPred.Len() != n {
		return 0, errors.NewDimensionError("Accuracy", n, yPred.Len(), 0)
	}

	correct := 0
	for i := 0; i < n; i++ {
		if yTrue.AtVec(i) == yPred.AtVec(i) {
			correct++
		}
	}

	return float64(correct) / float64(n), nil
}

// ClassificationError computes the fraction of mismatching predictions,
// i.e. 1 - Accuracy.
func ClassificationError(yTrue, yPred *mat.VecDense) (float64, error) {
	acc, err := Accuracy(yTrue, yPred)
	if err != nil {
		return 0, err
	}
	return 1 - acc, nil
}

func firstColumn(op string, m mat.Matrix) (*mat.VecDense, error) {
	if m == nil {
		return nil, errors.NewValueError(op, "nil matrix")
	}
	r, c := m.Dims()
	if r == 0 || c == 0 {
		return nil, errors.NewValueError(op, "empty matrix")
	}
	v := mat.NewVecDense(r, nil)
	for i := 0; i < r; i++ {
		v.SetVec(i, m.At(i, 0))
	}
	return v, nil
}

func reverse(s []float64) {
	for i, j := 0, len(s)-1; i < j; i, j = i+1, j-1 {
		s[i], s[j] = s[j], s[i]
	}
}
