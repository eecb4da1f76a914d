package usecase

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"testing"

	domainAutoReply "github.com/AzielCF/az-reply/domains/autoreply"
	domainRule "github.com/AzielCF/az-reply/domains/rule"
	pkgError "github.com/AzielCF/az-reply/pkg/error"
	"github.com/AzielCF/az-reply/repository"
	_ "github.com/mattn/go-sqlite3"
)

// helper to create a fresh rule service backed by a temporary sqlite file
func newTestRuleService(t *testing.T) (domainRule.IRuleUsecase, string) {
	t.Helper()

	// Usamos un directorio temporal para no tocar `storages/rules.db` real.
	dsn := filepath.Join(t.TempDir(), "rules.db")
	repo, err := repository.NewRuleGormRepository(dsn)
	if err != nil {
		t.Fatalf("NewRuleGormRepository() unexpected error: %v", err)
	}
	return NewRuleService(context.Background(), repo), dsn
}

func TestRuleService_CreateNormalizesKeyword(t *testing.T) {
	svc, _ := newTestRuleService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, domainRule.CreateRuleRequest{
		Keyword: "  HeLLo  ",
		Reply:   "  Hi there!  ",
	})
	if err != nil {
		t.Fatalf("Create() unexpected error: %v", err)
	}
	if created.ID == "" {
		t.Fatalf("Create() returned empty ID")
	}
	if created.Keyword != "hello" {
		t.Fatalf("keyword should be lowercased and trimmed, got %q", created.Keyword)
	}
	if created.Reply != "Hi there!" {
		t.Fatalf("reply should be trimmed but keep its case, got %q", created.Reply)
	}
}

func TestRuleService_DuplicateKeywordRejected(t *testing.T) {
	svc, _ := newTestRuleService(t)
	ctx := context.Background()

	if _, err := svc.Create(ctx, domainRule.CreateRuleRequest{Keyword: "price", Reply: "list"}); err != nil {
		t.Fatalf("first Create() unexpected error: %v", err)
	}

	// Duplicado difiere solo en mayúsculas y espacios.
	_, err := svc.Create(ctx, domainRule.CreateRuleRequest{Keyword: " PRICE ", Reply: "other"})
	if err == nil {
		t.Fatalf("expected duplicate keyword error")
	}
	var dup pkgError.DuplicateKeywordError
	if !errors.As(err, &dup) {
		t.Fatalf("expected DuplicateKeywordError, got %T: %v", err, err)
	}

	if got := len(svc.List(ctx)); got != 1 {
		t.Fatalf("duplicate must not change the rule set, got %d rules", got)
	}
}

func TestRuleService_ValidationLimits(t *testing.T) {
	svc, _ := newTestRuleService(t)
	ctx := context.Background()

	longKeyword := make([]byte, domainRule.MaxKeywordLength+1)
	for i := range longKeyword {
		longKeyword[i] = 'a'
	}

	cases := []domainRule.CreateRuleRequest{
		{Keyword: "", Reply: "reply"},
		{Keyword: "keyword", Reply: ""},
		{Keyword: "   ", Reply: "reply"},
		{Keyword: string(longKeyword), Reply: "reply"},
	}

	for i, req := range cases {
		if _, err := svc.Create(ctx, req); err == nil {
			t.Fatalf("case %d: expected validation error for %+v", i, req)
		}
	}

	if got := len(svc.List(ctx)); got != 0 {
		t.Fatalf("invalid requests must not create rules, got %d", got)
	}
}

func TestRuleService_ListNewestFirst(t *testing.T) {
	svc, _ := newTestRuleService(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if _, err := svc.Create(ctx, domainRule.CreateRuleRequest{
			Keyword: fmt.Sprintf("kw-%d", i),
			Reply:   fmt.Sprintf("reply-%d", i),
		}); err != nil {
			t.Fatalf("Create() unexpected error: %v", err)
		}
	}

	rules := svc.List(ctx)
	if len(rules) != 3 {
		t.Fatalf("expected 3 rules, got %d", len(rules))
	}
	if rules[0].Keyword != "kw-2" || rules[2].Keyword != "kw-0" {
		t.Fatalf("expected newest-first ordering, got %q..%q", rules[0].Keyword, rules[2].Keyword)
	}
}

func TestRuleService_DeleteMissingIDIsNoOp(t *testing.T) {
	svc, _ := newTestRuleService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, domainRule.CreateRuleRequest{Keyword: "hi", Reply: "hello"})
	if err != nil {
		t.Fatalf("Create() unexpected error: %v", err)
	}

	if err := svc.Delete(ctx, "does-not-exist"); err != nil {
		t.Fatalf("deleting unknown id must be a no-op, got %v", err)
	}
	if got := len(svc.List(ctx)); got != 1 {
		t.Fatalf("no-op delete must not change the rule set, got %d", got)
	}

	if err := svc.Delete(ctx, created.ID); err != nil {
		t.Fatalf("Delete() unexpected error: %v", err)
	}
	if got := len(svc.List(ctx)); got != 0 {
		t.Fatalf("expected empty rule set after delete, got %d", got)
	}

	if err := svc.Delete(ctx, "  "); err == nil {
		t.Fatalf("blank id must be rejected")
	}
}

func TestRuleService_SurvivesRestart(t *testing.T) {
	dsn := filepath.Join(t.TempDir(), "rules.db")
	ctx := context.Background()

	repo, err := repository.NewRuleGormRepository(dsn)
	if err != nil {
		t.Fatalf("NewRuleGormRepository() unexpected error: %v", err)
	}
	svc := NewRuleService(ctx, repo)

	if _, err := svc.Create(ctx, domainRule.CreateRuleRequest{Keyword: "hours", Reply: "9-5"}); err != nil {
		t.Fatalf("Create() unexpected error: %v", err)
	}
	if _, err := svc.Create(ctx, domainRule.CreateRuleRequest{Keyword: "price", Reply: "list"}); err != nil {
		t.Fatalf("Create() unexpected error: %v", err)
	}

	// Nuevo servicio sobre la misma base: debe rehidratar las reglas.
	repo2, err := repository.NewRuleGormRepository(dsn)
	if err != nil {
		t.Fatalf("NewRuleGormRepository() reopen error: %v", err)
	}
	svc2 := NewRuleService(ctx, repo2)

	rules := svc2.List(ctx)
	if len(rules) != 2 {
		t.Fatalf("expected 2 rehydrated rules, got %d", len(rules))
	}
	if rules[0].Keyword != "price" {
		t.Fatalf("expected newest-first after rehydrate, got %q", rules[0].Keyword)
	}
}

func TestRuleService_SnapshotIsolatedFromLaterWrites(t *testing.T) {
	svc, _ := newTestRuleService(t)
	ctx := context.Background()

	if _, err := svc.Create(ctx, domainRule.CreateRuleRequest{Keyword: "hours", Reply: "9-5"}); err != nil {
		t.Fatalf("Create() unexpected error: %v", err)
	}

	snapshot := svc.List(ctx)

	// Una regla creada después del snapshot no debe afectar un
	// enrutamiento que ya está en curso con ese snapshot.
	if _, err := svc.Create(ctx, domainRule.CreateRuleRequest{Keyword: "promo", Reply: "10% off"}); err != nil {
		t.Fatalf("Create() unexpected error: %v", err)
	}

	router := newTestAutoReply(AutoReplyDeps{
		Activity: &memoryActivity{},
		SmartGen: &fakeSmartGen{},
		Notifier: &fakeNotifier{},
	})
	outcome := router.Route(ctx, domainAutoReply.RouteInput{
		Message:         "any promo today?",
		Rules:           snapshot,
		AIEnabled:       false,
		ConnectionReady: true,
	})
	if outcome.Kind != domainAutoReply.OutcomeNoReplyNoMatch {
		t.Fatalf("routing must only see the captured snapshot, got %v", outcome.Kind)
	}

	matched := router.Route(ctx, domainAutoReply.RouteInput{
		Message:         "what are your hours?",
		Rules:           snapshot,
		ConnectionReady: true,
	})
	if matched.Kind != domainAutoReply.OutcomeKeywordReply || matched.Reply != "9-5" {
		t.Fatalf("snapshot rules must still match, got %v (%q)", matched.Kind, matched.Reply)
	}

	// Mutar el slice devuelto tampoco debe tocar el estado del store.
	snapshot[0].Reply = "mutated"
	if got := svc.List(ctx)[1].Reply; got != "9-5" {
		t.Fatalf("mutating a snapshot must not change the store, got %q", got)
	}
}

func TestRuleService_DiscardsCorruptedRuleSet(t *testing.T) {
	dsn := filepath.Join(t.TempDir(), "rules.db")
	ctx := context.Background()

	repo, err := repository.NewRuleGormRepository(dsn)
	if err != nil {
		t.Fatalf("NewRuleGormRepository() unexpected error: %v", err)
	}
	svc := NewRuleService(ctx, repo)

	if _, err := svc.Create(ctx, domainRule.CreateRuleRequest{Keyword: "hours", Reply: "9-5"}); err != nil {
		t.Fatalf("Create() unexpected error: %v", err)
	}
	if _, err := svc.Create(ctx, domainRule.CreateRuleRequest{Keyword: "price", Reply: "list"}); err != nil {
		t.Fatalf("Create() unexpected error: %v", err)
	}

	// Corrompemos un solo registro directamente en el archivo sqlite.
	raw, err := sql.Open("sqlite3", dsn)
	if err != nil {
		t.Fatalf("sql.Open() unexpected error: %v", err)
	}
	if _, err := raw.Exec(`UPDATE keyword_rules SET keyword = '' WHERE keyword = 'hours'`); err != nil {
		t.Fatalf("corrupting record failed: %v", err)
	}
	if err := raw.Close(); err != nil {
		t.Fatalf("closing raw connection failed: %v", err)
	}

	// Un registro inválido descarta el set completo: mejor arrancar vacío
	// que con un subconjunto parcial.
	repo2, err := repository.NewRuleGormRepository(dsn)
	if err != nil {
		t.Fatalf("NewRuleGormRepository() reopen error: %v", err)
	}
	svc2 := NewRuleService(ctx, repo2)

	if got := len(svc2.List(ctx)); got != 0 {
		t.Fatalf("corrupted set must be discarded wholesale, got %d rules", got)
	}
}
