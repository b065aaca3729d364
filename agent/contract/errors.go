package contract

import "errors"

var (
	// ErrGeneration means the generator call itself failed or timed out.
	ErrGeneration = errors.New("generator invoke failed")
	// ErrStageClassification means the classifier reply was not a valid stage id.
	ErrStageClassification = errors.New("stage classification produced invalid stage id")
	// ErrSummaryParse means the summary update reply did not match the 4-field format.
	ErrSummaryParse = errors.New("summary update not parseable")
	// ErrUnknownTool means the model asked for a tool the registry does not hold.
	ErrUnknownTool = errors.New("unknown tool")
	// ErrToolExecution means a registered tool returned an error at runtime.
	ErrToolExecution = errors.New("tool execution failed")
	// ErrValidation marks invalid caller input.
	ErrValidation = errors.New("validation failed")
)
