// Package model defines the estimator interfaces shared by the classifiers
// and transformers in this module.
package model

import (
	"gonum.org/v1/gonum/mat"
)

// Fitter is the interface for trainable models.
type Fitter interface {
	// Fit trains the model on X with targets y.
	Fit(X, y mat.Matrix) error
}

// Predictor is the interface for models that can predict.
type Predictor interface {
	// Predict returns predictions for X.
	Predict(X mat.Matrix) (mat.Matrix, error)
}

// Scorer is the interface for models that can compute a score.
type Scorer interface {
	// Score returns the model's default score on X against y.
	// For classifiers this is mean accuracy.
	Score(X mat.Matrix, y mat.Matrix) (float64, error)
}

// Classifier combines the interfaces a classification model satisfies.
type Classifier interface {
	Fitter
	Predictor
	Scorer

	// PredictProba returns probability estimates for each class,
	// one column per class in the order reported by Classes.
	PredictProba(X mat.Matrix) (mat.Matrix, error)

	// Classes returns the class indices seen during fitting.
	Classes() []int
}
