package usecase

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	domainRule "github.com/AzielCF/az-reply/domains/rule"
	pkgError "github.com/AzielCF/az-reply/pkg/error"
	"github.com/AzielCF/az-reply/validations"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

type ruleService struct {
	mu    sync.RWMutex
	rules []domainRule.KeywordRule
	repo  domainRule.IRuleRepository
}

// NewRuleService builds the rule store and rehydrates it from the
// repository. A load failure starts the store empty instead of applying a
// partial record set.
func NewRuleService(ctx context.Context, repo domainRule.IRuleRepository) domainRule.IRuleUsecase {
	svc := &ruleService{repo: repo}

	if repo != nil {
		if err := repo.Init(ctx); err != nil {
			logrus.WithError(err).Error("[RULES] Failed to init rule repository")
			return svc
		}
		rules, err := repo.LoadAll(ctx)
		if err != nil {
			logrus.WithError(err).Warn("[RULES] Discarding persisted rules, starting empty")
			return svc
		}
		svc.rules = rules
		logrus.Infof("[RULES] Loaded %d keyword rule(s)", len(rules))
	}

	return svc
}

func (s *ruleService) Create(ctx context.Context, req domainRule.CreateRuleRequest) (domainRule.KeywordRule, error) {
	if err := validations.ValidateCreateRule(ctx, req); err != nil {
		return domainRule.KeywordRule{}, err
	}

	keyword := strings.ToLower(strings.TrimSpace(req.Keyword))
	reply := strings.TrimSpace(req.Reply)
	if keyword == "" || reply == "" {
		return domainRule.KeywordRule{}, pkgError.ValidationError("keyword and reply cannot be blank")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.rules {
		if existing.Keyword == keyword {
			return domainRule.KeywordRule{}, pkgError.DuplicateKeywordError(fmt.Sprintf("keyword %q already exists", keyword))
		}
	}

	newRule := domainRule.KeywordRule{
		ID:        uuid.NewString(),
		Keyword:   keyword,
		Reply:     reply,
		CreatedAt: time.Now().UTC(),
	}

	// Newest first, matching the dashboard listing order.
	s.rules = append([]domainRule.KeywordRule{newRule}, s.rules...)
	s.persistLocked(ctx)

	return newRule, nil
}

func (s *ruleService) List(ctx context.Context) []domainRule.KeywordRule {
	s.mu.RLock()
	defer s.mu.RUnlock()
	snapshot := make([]domainRule.KeywordRule, len(s.rules))
	copy(snapshot, s.rules)
	return snapshot
}

// Delete removes the rule with the given id. Deleting an unknown id is a
// no-op, not an error.
func (s *ruleService) Delete(ctx context.Context, id string) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return pkgError.ValidationError("id is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for i, existing := range s.rules {
		if existing.ID == id {
			s.rules = append(s.rules[:i], s.rules[i+1:]...)
			s.persistLocked(ctx)
			return nil
		}
	}
	return nil
}

// persistLocked pushes the current rule set to the repository. Persistence
// failures are logged but never roll back the in-memory state.
func (s *ruleService) persistLocked(ctx context.Context) {
	if s.repo == nil {
		return
	}
	snapshot := make([]domainRule.KeywordRule, len(s.rules))
	copy(snapshot, s.rules)
	if err := s.repo.SaveAll(ctx, snapshot); err != nil {
		logrus.WithError(err).Error("[RULES] Failed to persist rule set")
	}
}
