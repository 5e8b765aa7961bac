package model

// ValidationError is caller-fixable input: too short, wrong type or missing credential.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// ExtractionError means a PDF yielded too little text to be worth summarizing.
type ExtractionError struct {
	Message string
}

func (e *ExtractionError) Error() string { return e.Message }

type AnalysisError struct {
	Message string
	Err     error
}

func (e *AnalysisError) Error() string { return e.Message }

func (e *AnalysisError) Unwrap() error { return e.Err }

type GenerationError struct {
	Message string
	Err     error
}

func (e *GenerationError) Error() string { return e.Message }

func (e *GenerationError) Unwrap() error { return e.Err }
