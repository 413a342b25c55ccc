package categorizer

import "context"

// Strategy is one way of turning a transaction description into a category.
type Strategy interface {
	// Categorize returns the category and true when the strategy recognizes
	// the description. An error means the strategy could not run; the chain
	// moves on to the next strategy.
	Categorize(ctx context.Context, description string) (string, bool, error)

	// Name identifies the strategy in logs and results.
	Name() string
}

// Classifier is the contract the statement parser consumes.
type Classifier interface {
	Classify(ctx context.Context, description string) string
}
