package repository

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	domainRule "github.com/AzielCF/az-reply/domains/rule"
)

func TestRuleGormRepository_StableOrderWithEqualTimestamps(t *testing.T) {
	dsn := filepath.Join(t.TempDir(), "rules.db")
	ctx := context.Background()

	repo, err := NewRuleGormRepository(dsn)
	if err != nil {
		t.Fatalf("NewRuleGormRepository() unexpected error: %v", err)
	}
	if err := repo.Init(ctx); err != nil {
		t.Fatalf("Init() unexpected error: %v", err)
	}

	// Tres reglas con el mismo created_at: el orden del set debe sobrevivir
	// la rehidratación aunque el timestamp no desempate.
	now := time.Now().UTC().Truncate(time.Second)
	var rules []domainRule.KeywordRule
	for i := 0; i < 3; i++ {
		rules = append(rules, domainRule.KeywordRule{
			ID:        fmt.Sprintf("rule-%d", i),
			Keyword:   fmt.Sprintf("kw-%d", i),
			Reply:     fmt.Sprintf("reply-%d", i),
			CreatedAt: now,
		})
	}
	if err := repo.SaveAll(ctx, rules); err != nil {
		t.Fatalf("SaveAll() unexpected error: %v", err)
	}

	reopened, err := NewRuleGormRepository(dsn)
	if err != nil {
		t.Fatalf("NewRuleGormRepository() reopen error: %v", err)
	}
	if err := reopened.Init(ctx); err != nil {
		t.Fatalf("Init() reopen error: %v", err)
	}
	loaded, err := reopened.LoadAll(ctx)
	if err != nil {
		t.Fatalf("LoadAll() unexpected error: %v", err)
	}

	if len(loaded) != len(rules) {
		t.Fatalf("expected %d rules, got %d", len(rules), len(loaded))
	}
	for i := range rules {
		if loaded[i].ID != rules[i].ID {
			t.Fatalf("position %d: expected %q, got %q", i, rules[i].ID, loaded[i].ID)
		}
	}
}
