package autoreply

import (
	"context"

	domainRule "github.com/AzielCF/az-reply/domains/rule"
)

type OutcomeKind string

const (
	OutcomeKeywordReply    OutcomeKind = "keyword_reply"
	OutcomeAIReply         OutcomeKind = "ai_reply"
	OutcomeNoReplyAIFailed OutcomeKind = "no_reply_ai_failed"
	OutcomeNoReplyNoMatch  OutcomeKind = "no_reply_no_match"
	OutcomeNotReady        OutcomeKind = "not_ready"
)

// Outcome is the single tagged result of routing one incoming message.
// Reply is only set for OutcomeKeywordReply and OutcomeAIReply.
type Outcome struct {
	Kind  OutcomeKind `json:"kind"`
	Reply string      `json:"reply,omitempty"`
}

// KeywordReplyInput carries the full message plus the parallel, index-aligned
// keyword and reply lists, in rule-list order.
type KeywordReplyInput struct {
	Message  string   `json:"message"`
	Keywords []string `json:"keywords"`
	Replies  []string `json:"replies"`
}

// KeywordReplyOutput.Reply empty means no keyword matched.
type KeywordReplyOutput struct {
	Reply string `json:"reply"`
}

type SmartReplyInput struct {
	Message string `json:"message"`
}

// SmartReplyOutput.Reply empty means generation failed or declined.
type SmartReplyOutput struct {
	Reply string `json:"reply"`
}

// KeywordReplyGenerator scans the message for keyword occurrences
// (case-insensitive substring) and answers with the reply of the first
// keyword in list order that occurs.
type KeywordReplyGenerator interface {
	Generate(ctx context.Context, input KeywordReplyInput) (KeywordReplyOutput, error)
}

// SmartReplyGenerator produces an AI fallback reply for a message.
type SmartReplyGenerator interface {
	Generate(ctx context.Context, input SmartReplyInput) (SmartReplyOutput, error)
}

// Notifier surfaces non-fatal, user-visible notifications (dashboard toasts).
type Notifier interface {
	Notify(code, message string)
}

// ReplySender is the outbound send boundary. Implementations must re-check
// transport readiness before transmitting.
type ReplySender interface {
	SendReply(ctx context.Context, chatJID, text string) error
}

// RouteInput is the stable snapshot a single route call operates on. Rules
// must not be mutated while the call is in flight.
type RouteInput struct {
	Message         string
	Rules           []domainRule.KeywordRule
	AIEnabled       bool
	ConnectionReady bool
}

type IAutoReplyUsecase interface {
	// Route runs the two-tier decision pipeline for one incoming message.
	// It never returns an error: collaborator failures are absorbed into
	// the outcome and the activity log.
	Route(ctx context.Context, input RouteInput) Outcome

	// HandleIncoming snapshots the current rules and settings, routes the
	// message and hands any reply text to the send boundary.
	HandleIncoming(ctx context.Context, chatJID, message string) Outcome
}
