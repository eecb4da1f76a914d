package keywordmatch

import (
	"context"
	"strings"

	domainAutoReply "github.com/AzielCF/az-reply/domains/autoreply"
	pkgError "github.com/AzielCF/az-reply/pkg/error"
)

// Matcher is the deterministic keyword-reply generator. Matching is an
// unanchored, case-insensitive substring scan: keyword "hi" matches inside
// "this". When several keywords occur, the first one in list order wins,
// regardless of where each occurrence sits in the message text.
type Matcher struct{}

func NewMatcher() *Matcher {
	return &Matcher{}
}

func (m *Matcher) Generate(ctx context.Context, input domainAutoReply.KeywordReplyInput) (domainAutoReply.KeywordReplyOutput, error) {
	if err := ctx.Err(); err != nil {
		return domainAutoReply.KeywordReplyOutput{}, err
	}
	if len(input.Keywords) != len(input.Replies) {
		return domainAutoReply.KeywordReplyOutput{}, pkgError.ValidationError("keywords and replies must be index-aligned")
	}

	message := strings.ToLower(input.Message)
	for i, keyword := range input.Keywords {
		keyword = strings.ToLower(strings.TrimSpace(keyword))
		if keyword == "" {
			continue
		}
		if strings.Contains(message, keyword) {
			return domainAutoReply.KeywordReplyOutput{Reply: input.Replies[i]}, nil
		}
	}

	// Empty reply signals "no match" to the resolver.
	return domainAutoReply.KeywordReplyOutput{}, nil
}
