package tree

// Option is a function that configures DecisionTreeClassifier
type Option func(*DecisionTreeClassifier)

// WithCriterion sets the split quality measure ("gini" or "entropy")
func WithCriterion(criterion string) Option {
	return func(dt *DecisionTreeClassifier) {
		dt.criterion = criterion
	}
}

// WithMaxDepth limits the depth of the tree (0 means unlimited)
func WithMaxDepth(depth int) Option {
	return func(dt *DecisionTreeClassifier) {
		dt.maxDepth = depth
	}
}

// WithMinSamplesSplit sets the minimum samples required to split a node
func WithMinSamplesSplit(n int) Option {
	return func(dt *DecisionTreeClassifier) {
		dt.minSamplesSplit = n
	}
}

// WithMinSamplesLeaf sets the minimum samples required at a leaf
func WithMinSamplesLeaf(n int) Option {
	return func(dt *DecisionTreeClassifier) {
		dt.minSamplesLeaf = n
	}
}

// WithMaxFeatures sets the number of features sampled at each split
// (0 means all features)
func WithMaxFeatures(n int) Option {
	return func(dt *DecisionTreeClassifier) {
		dt.maxFeatures = n
	}
}

// WithSeed seeds the random feature sampling for reproducible trees
func WithSeed(seed uint64) Option {
	return func(dt *DecisionTreeClassifier) {
		dt.seed = seed
	}
}

// WithNClasses fixes the number of output classes (0 means derive from the
// training labels). An ensemble trains each tree on a resample that may
// miss a class entirely, so it pins the width here to keep every tree's
// probability matrix aligned
func WithNClasses(n int) Option {
	return func(dt *DecisionTreeClassifier) {
		dt.minNClasses = n
	}
}
