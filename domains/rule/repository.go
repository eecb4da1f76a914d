package rule

import "context"

// IRuleRepository is the persistence port for the rule store. The in-memory
// store owns the truth; the repository is rewritten wholesale on every
// mutation and read once at startup.
type IRuleRepository interface {
	Init(ctx context.Context) error
	// LoadAll returns the persisted rules newest-first. A decoding failure
	// discards the whole set rather than partially applying it.
	LoadAll(ctx context.Context) ([]KeywordRule, error)
	SaveAll(ctx context.Context, rules []KeywordRule) error
}
