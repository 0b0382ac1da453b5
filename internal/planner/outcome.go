package planner

import (
	"context"
	"errors"

	"urbanplanner/internal/analysis"
	"urbanplanner/internal/layout"
	llmclient "urbanplanner/internal/llm/client"
	"urbanplanner/internal/planning"
)

// Outcome groups terminal errors by what the user should be told.
type Outcome int

const (
	Internal Outcome = iota
	BadRequest
	ServiceUnavailable
	OutputNotUnderstood
)

func (o Outcome) String() string {
	switch o {
	case BadRequest:
		return "bad_request"
	case ServiceUnavailable:
		return "service_unavailable"
	case OutputNotUnderstood:
		return "output_not_understood"
	default:
		return "internal"
	}
}

// Message is the user-facing sentence for o.
func (o Outcome) Message() string {
	switch o {
	case BadRequest:
		return "The planning request is invalid."
	case ServiceUnavailable:
		return "The model service is unavailable. Please try again later."
	case OutputNotUnderstood:
		return "The model's output could not be understood."
	default:
		return "An internal error occurred."
	}
}

// Classify maps err to an Outcome. Model errors other than InvalidRequest
// count as the service being unavailable; parse, analysis and empty-generation
// failures mean the output was not understood.
func Classify(err error) Outcome {
	if err == nil {
		return Internal
	}
	var vErr *planning.ValidationError
	if errors.As(err, &vErr) {
		return BadRequest
	}
	var pErr *layout.ParseError
	var aErr *analysis.AnalysisError
	if errors.As(err, &pErr) || errors.As(err, &aErr) || errors.Is(err, ErrEmptyGeneration) {
		return OutputNotUnderstood
	}
	var mErr *llmclient.ModelError
	if errors.As(err, &mErr) {
		if mErr.Kind == llmclient.InvalidRequest {
			return Internal
		}
		return ServiceUnavailable
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return ServiceUnavailable
	}
	return Internal
}
