package ensemble

// Option is a function that configures RandomForestClassifier
type Option func(*RandomForestClassifier)

// WithNEstimators sets the number of trees in the forest
func WithNEstimators(n int) Option {
	return func(rf *RandomForestClassifier) {
		rf.nEstimators = n
	}
}

// WithCriterion sets the split quality measure ("gini" or "entropy")
func WithCriterion(criterion string) Option {
	return func(rf *RandomForestClassifier) {
		rf.criterion = criterion
	}
}

// WithMaxDepth limits the depth of each tree (0 means unlimited)
func WithMaxDepth(depth int) Option {
	return func(rf *RandomForestClassifier) {
		rf.maxDepth = depth
	}
}

// WithMinSamplesSplit sets the minimum samples required to split a node
func WithMinSamplesSplit(n int) Option {
	return func(rf *RandomForestClassifier) {
		rf.minSamplesSplit = n
	}
}

// WithMinSamplesLeaf sets the minimum samples required at a leaf
func WithMinSamplesLeaf(n int) Option {
	return func(rf *RandomForestClassifier) {
		rf.minSamplesLeaf = n
	}
}

// WithMaxFeatures sets the number of features sampled at each split
// (0 means sqrt of the feature count)
func WithMaxFeatures(n int) Option {
	return func(rf *RandomForestClassifier) {
		rf.maxFeatures = n
	}
}

// WithBootstrap toggles bootstrap sampling of the training rows
func WithBootstrap(bootstrap bool) Option {
	return func(rf *RandomForestClassifier) {
		rf.bootstrap = bootstrap
	}
}

// WithOOBScore enables out-of-bag accuracy estimation during Fit
func WithOOBScore(enabled bool) Option {
	return func(rf *RandomForestClassifier) {
		rf.computeOOB = enabled
	}
}

// WithSeed seeds bootstrap and feature sampling for reproducible forests
func WithSeed(seed uint64) Option {
	return func(rf *RandomForestClassifier) {
		rf.seed = seed
	}
}
