package rule

import (
	"context"
	"time"
)

const (
	MaxKeywordLength = 50
	MaxReplyLength   = 500
)

// KeywordRule is an immutable keyword→reply pair. The keyword is stored
// lowercased and trimmed; edits are delete+add.
type KeywordRule struct {
	ID        string    `json:"id"`
	Keyword   string    `json:"keyword"`
	Reply     string    `json:"reply"`
	CreatedAt time.Time `json:"created_at"`
}

type CreateRuleRequest struct {
	Keyword string `json:"keyword"`
	Reply   string `json:"reply"`
}

type IRuleUsecase interface {
	Create(ctx context.Context, req CreateRuleRequest) (KeywordRule, error)
	List(ctx context.Context) []KeywordRule
	Delete(ctx context.Context, id string) error
}
