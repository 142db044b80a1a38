package metrics

import (
	"gonum.org/v1/gonum/mat"

	"github.com/phenosnp/phenosnp/pkg/errors"
)

// ConfusionMatrix holds the cross-tabulation of true against predicted class
// indices, with human-readable class names for reporting.
type ConfusionMatrix struct {
	// Labels holds the class names in index order.
	Labels []string

	// Counts[i][j] is the number of samples with true class i predicted as j.
	Counts [][]int
}

// NewConfusionMatrix builds a confusion matrix from true and predicted class
// indices. labels names the classes; an index outside [0, len(labels)) is an
// error.
func NewConfusionMatrix(yTrue, yPred *mat.VecDense, labels []string) (*ConfusionMatrix, error) {
	if yTrue == nil || yPred == nil {
		return nil, errors.NewValueError("NewConfusionMatrix", "nil vector")
	}

	n := yTrue.Len()
	if n == 0 {
		return nil, errors.NewValueError("NewConfusionMatrix", "empty vector")
	}
	if yPred.Len() != n {
		return nil, errors.NewDimensionError("NewConfusionMatrix", n, yPred.Len(), 0)
	}
	if len(labels) == 0 {
		return nil, errors.NewValueError("NewConfusionMatrix", "no class labels")
	}

	k := len(labels)
	counts := make([][]int, k)
	for i := range counts {
		counts[i] = make([]int, k)
	}

	for i := 0; i < n; i++ {
		t := int(yTrue.AtVec(i))
		p := int(yPred.AtVec(i))
		if t < 0 || t >= k || float64(t) != yTrue.AtVec(i) {
			return nil, errors.NewValueError("NewConfusionMatrix", "true label out of class range")
		}
		if p < 0 || p >= k || float64(p) != yPred.AtVec(i) {
			return nil, errors.NewValueError("NewConfusionMatrix", "predicted label out of class range")
		}
		counts[t][p]++
	}

	return &ConfusionMatrix{Labels: labels, Counts: counts}, nil
}

// NumClasses returns the number of classes.
func (cm *ConfusionMatrix) NumClasses() int {
	return len(cm.Labels)
}

// Total returns the number of samples tabulated.
func (cm *ConfusionMatrix) Total() int {
	total := 0
	for _, row := range cm.Counts {
		for _, c := range row {
			total += c
		}
	}
	return total
}

// Support returns the number of samples whose true class is i.
func (cm *ConfusionMatrix) Support(i int) int {
	total := 0
	for _, c := range cm.Counts[i] {
		total += c
	}
	return total
}

// Accuracy returns the fraction of correctly classified samples.
func (cm *ConfusionMatrix) Accuracy() float64 {
	total := cm.Total()
	if total == 0 {
		return 0
	}
	correct := 0
	for i := range cm.Counts {
		correct += cm.Counts[i][i]
	}
	return float64(correct) / float64(total)
}

// BalancedAccuracy returns the mean per-class recall, which compensates for
// class imbalance in the phenotype distributions.
func (cm *ConfusionMatrix) BalancedAccuracy() float64 {
	k := cm.NumClasses()
	var sum float64
	observed := 0
	for i := 0; i < k; i++ {
		if cm.Support(i) == 0 {
			continue
		}
		sum += cm.Recall(i)
		observed++
	}
	if observed == 0 {
		return 0
	}
	return sum / float64(observed)
}

// Precision returns the precision for class i. When no sample is predicted as
// class i, the metric is undefined and 0 is returned with a warning.
func (cm *ConfusionMatrix) Precision(i int) float64 {
	predicted := 0
	for t := range cm.Counts {
		predicted += cm.Counts[t][i]
	}
	if predicted == 0 {
		errors.Warn(errors.NewUndefinedMetricWarning("precision", "no predicted samples for class "+cm.Labels[i], 0))
		return 0
	}
	return float64(cm.Counts[i][i]) / float64(predicted)
}

// Recall returns the recall (sensitivity) for class i. When class i has no
// true samples, the metric is undefined and 0 is returned with a warning.
func (cm *ConfusionMatrix) Recall(i int) float64 {
	support := cm.Support(i)
	if support == 0 {
		errors.Warn(errors.NewUndefinedMetricWarning("recall", "no true samples for class "+cm.Labels[i], 0))
		return 0
	}
	return float64(cm.Counts[i][i]) / float64(support)
}

// Specificity returns the true-negative rate for class i.
func (cm *ConfusionMatrix) Specificity(i int) float64 {
	tn, fp := 0, 0
	for t := range cm.Counts {
		if t == i {
			continue
		}
		for p := range cm.Counts[t] {
			if p == i {
				fp += cm.Counts[t][p]
			} else {
				tn += cm.Counts[t][p]
			}
		}
	}
	if tn+fp == 0 {
		return 0
	}
	return float64(tn) / float64(tn+fp)
}

// F1 returns the harmonic mean of precision and recall for class i.
func (cm *ConfusionMatrix) F1(i int) float64 {
	p := cm.Precision(i)
	r := cm.Recall(i)
	if p+r == 0 {
		return 0
	}
	return 2 * p * r / (p + r)
}

// MacroPrecision returns the unweighted mean of per-class precisions.
func (cm *ConfusionMatrix) MacroPrecision() float64 {
	return cm.macroAverage(cm.Precision)
}

// MacroRecall returns the unweighted mean of per-class recalls.
func (cm *ConfusionMatrix) MacroRecall() float64 {
	return cm.macroAverage(cm.Recall)
}

// MacroF1 returns the unweighted mean of per-class F1 scores.
func (cm *ConfusionMatrix) MacroF1() float64 {
	return cm.macroAverage(cm.F1)
}

func (cm *ConfusionMatrix) macroAverage(metric func(int) float64) float64 {
	k := cm.NumClasses()
	if k == 0 {
		return 0
	}
	var sum float64
	for i := 0; i < k; i++ {
		sum += metric(i)
	}
	return sum / float64(k)
}
