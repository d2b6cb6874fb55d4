package textcloud

import (
	"errors"
	"fmt"

	"yashubustudio/textcloud/cloud"
)

var (
	// ErrNotFound means the input path is missing or unreadable.
	ErrNotFound = errors.New("input file not found")
	// ErrInvalidEncoding means the input is not valid UTF-8.
	ErrInvalidEncoding = errors.New("input is not valid UTF-8")
	// ErrEmptyInput means the input file has no content.
	ErrEmptyInput = errors.New("input file is empty")
	// ErrEmptyFrequency means no word survived filtering.
	ErrEmptyFrequency = errors.New("no words left to render")
	// ErrAnalyzerInit means the morphological analyzer could not be started.
	ErrAnalyzerInit = errors.New("morphological analyzer initialization failed")
	// ErrInvalidLimit means a negative word limit was requested.
	ErrInvalidLimit = errors.New("word limit must not be negative")
	// ErrInvalidColor means the background colour could not be parsed.
	ErrInvalidColor = cloud.ErrInvalidColor
)

// Stage names a pipeline step.
type Stage string

const (
	StageConfig    Stage = "config"
	StageLoad      Stage = "load"
	StageNormalize Stage = "normalize"
	StageTag       Stage = "tag"
	StageAggregate Stage = "aggregate"
	StageRender    Stage = "render"
	StageWrite     Stage = "write"
)

// StageError records which step of a run failed and for which input.
type StageError struct {
	Stage Stage
	Path  string
	Err   error
}

func (e *StageError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("%s: %v", e.Stage, e.Err)
	}
	return fmt.Sprintf("%s %s: %v", e.Stage, e.Path, e.Err)
}

func (e *StageError) Unwrap() error {
	return e.Err
}

func stageErr(stage Stage, path string, err error) error {
	if err == nil {
		return nil
	}
	return &StageError{Stage: stage, Path: path, Err: err}
}
