package usecase

import (
	"context"
	"fmt"

	"github.com/AzielCF/az-reply/config"
	domainActivity "github.com/AzielCF/az-reply/domains/activity"
	domainAutoReply "github.com/AzielCF/az-reply/domains/autoreply"
	domainRule "github.com/AzielCF/az-reply/domains/rule"
	"github.com/sirupsen/logrus"
)

type autoReplyService struct {
	rules      domainRule.IRuleUsecase
	activity   domainActivity.IActivityUsecase
	keywordGen domainAutoReply.KeywordReplyGenerator
	smartGen   domainAutoReply.SmartReplyGenerator
	notifier   domainAutoReply.Notifier
	sender     domainAutoReply.ReplySender

	readyFn     func() bool
	aiEnabledFn func() bool

	// onOutcome runs after every routed message (webhook forwarding).
	onOutcome func(chatJID, message string, outcome domainAutoReply.Outcome)
}

type AutoReplyDeps struct {
	Rules      domainRule.IRuleUsecase
	Activity   domainActivity.IActivityUsecase
	KeywordGen domainAutoReply.KeywordReplyGenerator
	SmartGen   domainAutoReply.SmartReplyGenerator
	Notifier   domainAutoReply.Notifier
	Sender     domainAutoReply.ReplySender

	// ReadyFn reports transport readiness. AIEnabledFn reports the AI
	// fallback toggle. Both default to config-backed implementations.
	ReadyFn     func() bool
	AIEnabledFn func() bool

	OnOutcome func(chatJID, message string, outcome domainAutoReply.Outcome)
}

func NewAutoReplyService(deps AutoReplyDeps) domainAutoReply.IAutoReplyUsecase {
	svc := &autoReplyService{
		rules:       deps.Rules,
		activity:    deps.Activity,
		keywordGen:  deps.KeywordGen,
		smartGen:    deps.SmartGen,
		notifier:    deps.Notifier,
		sender:      deps.Sender,
		readyFn:     deps.ReadyFn,
		aiEnabledFn: deps.AIEnabledFn,
		onOutcome:   deps.OnOutcome,
	}
	if svc.readyFn == nil {
		svc.readyFn = func() bool { return false }
	}
	if svc.aiEnabledFn == nil {
		svc.aiEnabledFn = func() bool { return config.AIReplyEnabled }
	}
	return svc
}

func (s *autoReplyService) notify(code, message string) {
	if s.notifier != nil {
		s.notifier.Notify(code, message)
	}
}

func (s *autoReplyService) log(kind domainActivity.EntryKind, text string) {
	if s.activity != nil {
		s.activity.Append(kind, text)
	}
}

// Route implements the two-tier decision pipeline: keyword match first, AI
// fallback second, in strict order. Exactly one outcome per message; every
// phase either completes with a logged outcome or logs its failure before
// falling through.
func (s *autoReplyService) Route(ctx context.Context, input domainAutoReply.RouteInput) domainAutoReply.Outcome {
	// Hard precondition: no reply generation while the transport is down.
	if !input.ConnectionReady {
		s.notify("NOT_READY", "Cannot process message, WhatsApp is not connected.")
		return domainAutoReply.Outcome{Kind: domainAutoReply.OutcomeNotReady}
	}

	s.log(domainActivity.KindIncoming, fmt.Sprintf("Received: %q", input.Message))

	// Keyword phase. Only entered when rules exist; the generator receives
	// the parallel keyword/reply lists in rule-list order.
	if len(input.Rules) > 0 && s.keywordGen != nil {
		keywords := make([]string, len(input.Rules))
		replies := make([]string, len(input.Rules))
		for i, r := range input.Rules {
			keywords[i] = r.Keyword
			replies[i] = r.Reply
		}

		result, err := s.keywordGen.Generate(ctx, domainAutoReply.KeywordReplyInput{
			Message:  input.Message,
			Keywords: keywords,
			Replies:  replies,
		})
		switch {
		case err != nil:
			// Non-fatal: treated as "no match" so routing can fall through.
			logrus.WithError(err).Warn("[AUTOREPLY] Keyword generator failed")
			s.log(domainActivity.KindInfo, "Could not process keyword-based reply.")
			s.notify("KEYWORD_GENERATOR_ERROR", "Could not process keyword-based reply.")
		case result.Reply != "":
			s.log(domainActivity.KindOutgoing, fmt.Sprintf("Auto-replying (keyword): %q", result.Reply))
			return domainAutoReply.Outcome{Kind: domainAutoReply.OutcomeKeywordReply, Reply: result.Reply}
		}
	}

	// AI phase, only on complete keyword miss.
	if input.AIEnabled && s.smartGen != nil {
		s.log(domainActivity.KindInfo, "No keyword match. Attempting AI smart reply...")

		result, err := s.smartGen.Generate(ctx, domainAutoReply.SmartReplyInput{Message: input.Message})
		if err != nil {
			logrus.WithError(err).Warn("[AUTOREPLY] Smart reply generator failed")
			s.log(domainActivity.KindInfo, "Error generating AI smart reply.")
			s.notify("SMART_REPLY_ERROR", "Could not generate smart reply.")
			return domainAutoReply.Outcome{Kind: domainAutoReply.OutcomeNoReplyAIFailed}
		}
		if result.Reply == "" {
			s.log(domainActivity.KindInfo, "AI could not generate a smart reply.")
			return domainAutoReply.Outcome{Kind: domainAutoReply.OutcomeNoReplyAIFailed}
		}

		s.log(domainActivity.KindOutgoing, fmt.Sprintf("Auto-replying (AI): %q", result.Reply))
		return domainAutoReply.Outcome{Kind: domainAutoReply.OutcomeAIReply, Reply: result.Reply}
	}

	s.log(domainActivity.KindInfo, "No keyword match and AI replies are disabled. No reply sent.")
	return domainAutoReply.Outcome{Kind: domainAutoReply.OutcomeNoReplyNoMatch}
}

func (s *autoReplyService) HandleIncoming(ctx context.Context, chatJID, message string) domainAutoReply.Outcome {
	input := domainAutoReply.RouteInput{
		Message:         message,
		AIEnabled:       s.aiEnabledFn(),
		ConnectionReady: s.readyFn(),
	}
	if s.rules != nil {
		input.Rules = s.rules.List(ctx)
	}

	outcome := s.Route(ctx, input)

	if outcome.Reply != "" && s.sender != nil {
		// The sender re-checks readiness: a reply computed while the
		// connection dropped is logged above but never transmitted.
		if err := s.sender.SendReply(ctx, chatJID, outcome.Reply); err != nil {
			logrus.WithError(err).Errorf("[AUTOREPLY] Failed to send reply to %s", chatJID)
			s.notify("SEND_ERROR", "Reply generated but could not be sent.")
		}
	}

	if s.onOutcome != nil {
		s.onOutcome(chatJID, message, outcome)
	}
	return outcome
}
