// Package llm provides the text-generation client used to merge specialist
// responses into one conversational reply.
package llm

import "context"

// Merger combines the specialist sections and the original user query into
// a single natural-language answer.
type Merger interface {
	Merge(ctx context.Context, query, sections string) (string, error)
}
