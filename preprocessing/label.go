// Package preprocessing converts phenotype labels between the raw reported
// vocabulary, the reporting scales, and the class indices the classifiers
// train on.
package preprocessing

import (
	"sort"

	"gonum.org/v1/gonum/mat"

	"github.com/phenosnp/phenosnp/core/model"
	"github.com/phenosnp/phenosnp/pkg/errors"
)

// LabelEncoder maps string class labels onto contiguous class indices and
// back, the factor-level assignment of the analysis.
type LabelEncoder struct {
	model.BaseEstimator

	classes []string
	index   map[string]int
}

// NewLabelEncoder creates an unfitted LabelEncoder. Fit assigns indices to
// the sorted unique labels it sees.
func NewLabelEncoder() *LabelEncoder {
	return &LabelEncoder{}
}

// NewLabelEncoderWithClasses creates a LabelEncoder with a fixed class order,
// e.g. the canonical level order of a reporting scale.
func NewLabelEncoderWithClasses(classes []string) (*LabelEncoder, error) {
	if len(classes) == 0 {
		return nil, errors.NewValueError("NewLabelEncoderWithClasses", "no classes")
	}

	enc := &LabelEncoder{
		classes: append([]string(nil), classes...),
		index:   make(map[string]int, len(classes)),
	}
	for i, c := range classes {
		if _, dup := enc.index[c]; dup {
			return nil, errors.NewValueError("NewLabelEncoderWithClasses", "duplicate class "+c)
		}
		enc.index[c] = i
	}
	enc.SetFitted()
	return enc, nil
}

// Fit learns the class set from the given labels. Classes are indexed in
// sorted order.
func (e *LabelEncoder) Fit(labels []string) error {
	if len(labels) == 0 {
		return errors.NewModelError("LabelEncoder.Fit", "empty labels", errors.ErrEmptyData)
	}

	seen := make(map[string]bool, len(labels))
	for _, l := range labels {
		seen[l] = true
	}

	e.classes = make([]string, 0, len(seen))
	for l := range seen {
		e.classes = append(e.classes, l)
	}
	sort.Strings(e.classes)

	e.index = make(map[string]int, len(e.classes))
	for i, c := range e.classes {
		e.index[c] = i
	}

	e.SetFitted()
	return nil
}

// Transform maps labels onto class indices. An unseen label is an error.
func (e *LabelEncoder) Transform(labels []string) (*mat.VecDense, error) {
	if !e.IsFitted() {
		return nil, errors.NewNotFittedError("LabelEncoder", "Transform")
	}
	if len(labels) == 0 {
		return nil, errors.NewModelError("LabelEncoder.Transform", "empty labels", errors.ErrEmptyData)
	}

	out := mat.NewVecDense(len(labels), nil)
	for i, l := range labels {
		idx, ok := e.index[l]
		if !ok {
			return nil, errors.NewValueError("LabelEncoder.Transform", "unseen label '"+l+"'")
		}
		out.SetVec(i, float64(idx))
	}
	return out, nil
}

// FitTransform fits on the labels and transforms them in one call.
func (e *LabelEncoder) FitTransform(labels []string) (*mat.VecDense, error) {
	if err := e.Fit(labels); err != nil {
		return nil, err
	}
	return e.Transform(labels)
}

// InverseTransform maps class indices back onto labels.
func (e *LabelEncoder) InverseTransform(indices *mat.VecDense) ([]string, error) {
	if !e.IsFitted() {
		return nil, errors.NewNotFittedError("LabelEncoder", "InverseTransform")
	}
	if indices == nil || indices.Len() == 0 {
		return nil, errors.NewModelError("LabelEncoder.InverseTransform", "empty indices", errors.ErrEmptyData)
	}

	out := make([]string, indices.Len())
	for i := 0; i < indices.Len(); i++ {
		v := indices.AtVec(i)
		idx := int(v)
		if float64(idx) != v || idx < 0 || idx >= len(e.classes) {
			return nil, errors.NewValueError("LabelEncoder.InverseTransform", "index out of class range")
		}
		out[i] = e.classes[idx]
	}
	return out, nil
}

// Classes returns the class labels in index order.
func (e *LabelEncoder) Classes() []string {
	return e.classes
}
