// Package log defines standard attribute keys for training telemetry.
//
// Using these keys consistently makes per-round driver logs easy to filter
// and aggregate. Keys follow a hierarchical naming convention
// (e.g. "training.iteration", "data.groups").

package log

// Model and operation context.
const (
	// ModelNameKey identifies the model type.
	// Examples: "LinearSVC", "LinearSVR"
	ModelNameKey = "model.name"

	// OperationKey specifies the operation being performed.
	// Standard values: "fit", "predict", "score"
	OperationKey = "ml.operation"

	// ComponentKey identifies which component emits the record.
	// Examples: "igd", "svm", "dataset"
	ComponentKey = "ml.component"

	// TaskKey indicates the learning task.
	// Values: "classification", "regression"
	TaskKey = "ml.task"
)

// Data shape and grouping.
const (
	// SamplesKey indicates the number of rows in the dataset.
	SamplesKey = "data.samples"

	// FeaturesKey indicates the number of features (columns).
	FeaturesKey = "data.features"

	// GroupsKey indicates the number of distinct group keys discovered.
	GroupsKey = "data.groups"

	// GroupKey identifies a single group within a grouped run.
	GroupKey = "data.group"
)

// Iteration driver telemetry.
const (
	// IterationKey records the global round counter.
	IterationKey = "training.iteration"

	// StepSizeKey records the step size used for the round.
	StepSizeKey = "training.step_size"

	// DistanceKey records the aggregate state distance used by the
	// convergence test.
	DistanceKey = "training.distance"

	// ToleranceKey records the convergence tolerance in effect.
	ToleranceKey = "training.tolerance"

	// LossKey records the training loss reported by the kernel.
	LossKey = "metrics.loss"

	// StopReasonKey records why the run ended.
	// Values: "converged", "max_iter_reached"
	StopReasonKey = "training.stop_reason"

	// DurationMsKey records the execution time of an operation in milliseconds.
	DurationMsKey = "perf.duration_ms"
)

// Error and warning context.
const (
	// ErrorTypeKey categorizes the type of error encountered.
	// Examples: "ValidationError", "KernelError"
	ErrorTypeKey = "error.type"

	// SuggestionKey provides a hint for resolving the issue.
	SuggestionKey = "error.suggestion"
)

// Standard attribute value constants.
const (
	OperationFit     = "fit"
	OperationPredict = "predict"
	OperationScore   = "score"

	TaskClassification = "classification"
	TaskRegression     = "regression"

	StopConverged      = "converged"
	StopMaxIterReached = "max_iter_reached"
)
