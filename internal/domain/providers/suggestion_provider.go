package providers

import (
	"context"

	"github.com/zatekoja/learnplan/internal/domain/entities"
)

// SuggestionOutcome classifies a gateway call
type SuggestionOutcome string

const (
	// SuggestionOK means the service answered with a parseable suggestion array
	SuggestionOK SuggestionOutcome = "ok"
	// SuggestionExternalFailure covers transport errors, non-2xx statuses,
	// rate limiting, an open breaker and a disabled gateway
	SuggestionExternalFailure SuggestionOutcome = "external_failure"
	// SuggestionParseFailure means the response body was not a JSON array
	SuggestionParseFailure SuggestionOutcome = "parse_failure"
)

// SuggestionResult is the explicit result of one gateway call. Err explains
// non-OK outcomes and is for logging only.
type SuggestionResult struct {
	Outcome     SuggestionOutcome
	Suggestions []entities.Suggestion
	Err         error
}

// OK reports whether the call succeeded
func (r SuggestionResult) OK() bool {
	return r.Outcome == SuggestionOK
}

// ExternalFailure builds a failed result for err
func ExternalFailure(err error) SuggestionResult {
	return SuggestionResult{Outcome: SuggestionExternalFailure, Err: err}
}

// ParseFailure builds a failed result for err
func ParseFailure(err error) SuggestionResult {
	return SuggestionResult{Outcome: SuggestionParseFailure, Err: err}
}

// SuggestionProvider sends a rendered prompt to an external text service.
// Implementations make a single bounded attempt and never return an error;
// failures are reported through the result outcome.
type SuggestionProvider interface {
	Suggest(ctx context.Context, prompt string) SuggestionResult
}
