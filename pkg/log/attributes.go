// Package log defines standard attribute keys for pipeline stages.
//
// Using the same keys across dataset ingest, model fitting, and report
// rendering keeps runs greppable: every record that touches data carries the
// sample/feature counts, and every model operation names the estimator and
// target it serves.

package log

// Model and operation context.
const (
	// ModelNameKey identifies the estimator type.
	// Examples: "RandomForestClassifier", "DecisionTreeClassifier", "LabelEncoder"
	ModelNameKey = "model.name"

	// OperationKey names the operation being performed.
	// Standard values: "fit", "predict", "predict_proba", "transform", "score"
	OperationKey = "ml.operation"

	// TargetKey names the phenotype the classifier predicts.
	// Values: "hair_colour", "eye_colour"
	TargetKey = "ml.target"

	// ComponentKey identifies the package performing the operation.
	// Examples: "dataset", "ensemble", "metrics", "report"
	ComponentKey = "ml.component"
)

// Data shape and cleaning context.
const (
	// SamplesKey is the number of samples (rows) in play.
	SamplesKey = "data.samples"

	// FeaturesKey is the number of features (loci) in play.
	FeaturesKey = "data.features"

	// ClassesKey is the number of phenotype classes.
	ClassesKey = "data.classes"

	// RowsReadKey counts rows read from an input table.
	RowsReadKey = "data.rows_read"

	// RowsDroppedKey counts rows removed for missing genotype calls.
	RowsDroppedKey = "data.rows_dropped"

	// RowsUnmatchedKey counts samples present in only one input table.
	RowsUnmatchedKey = "data.rows_unmatched"

	// SourceKey names the input file a record came from.
	SourceKey = "data.source"
)

// Performance and evaluation context.
const (
	// DurationMsKey records the execution time of an operation in milliseconds.
	DurationMsKey = "perf.duration_ms"

	// AccuracyKey records a classification accuracy.
	AccuracyKey = "eval.accuracy"

	// AUCKey records an area under the ROC curve.
	AUCKey = "eval.auc"

	// FoldKey records the cross-validation fold index.
	FoldKey = "eval.fold"

	// SeedKey records the random seed of a stochastic stage.
	SeedKey = "run.seed"
)
