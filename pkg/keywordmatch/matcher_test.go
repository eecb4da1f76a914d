package keywordmatch

import (
	"context"
	"testing"

	domainAutoReply "github.com/AzielCF/az-reply/domains/autoreply"
)

func generate(t *testing.T, message string, keywords, replies []string) domainAutoReply.KeywordReplyOutput {
	t.Helper()
	out, err := NewMatcher().Generate(context.Background(), domainAutoReply.KeywordReplyInput{
		Message:  message,
		Keywords: keywords,
		Replies:  replies,
	})
	if err != nil {
		t.Fatalf("Generate() unexpected error: %v", err)
	}
	return out
}

func TestMatcher_CaseInsensitiveSubstring(t *testing.T) {
	out := generate(t, "Hello, what is the PRICE today?", []string{"price"}, []string{"Our price list"})
	if out.Reply != "Our price list" {
		t.Fatalf("expected case-insensitive match, got %q", out.Reply)
	}
}

func TestMatcher_UnanchoredSubstring(t *testing.T) {
	// "hi" ocurre dentro de "this": el matching es substring puro, sin
	// límites de palabra.
	out := generate(t, "this is a test", []string{"hi"}, []string{"greeting"})
	if out.Reply != "greeting" {
		t.Fatalf("expected substring match inside a word, got %q", out.Reply)
	}
}

func TestMatcher_FirstKeywordInListOrderWins(t *testing.T) {
	out := generate(t, "world hello",
		[]string{"hello", "world"},
		[]string{"reply-hello", "reply-world"})
	if out.Reply != "reply-hello" {
		t.Fatalf("list order decides ties, got %q", out.Reply)
	}
}

func TestMatcher_NoMatchReturnsEmptyReply(t *testing.T) {
	out := generate(t, "nothing relevant", []string{"price", "hours"}, []string{"a", "b"})
	if out.Reply != "" {
		t.Fatalf("expected empty reply on miss, got %q", out.Reply)
	}
}

func TestMatcher_SkipsBlankKeywords(t *testing.T) {
	out := generate(t, "any message at all",
		[]string{"", "  ", "any"},
		[]string{"blank", "spaces", "matched"})
	if out.Reply != "matched" {
		t.Fatalf("blank keywords must never match, got %q", out.Reply)
	}
}

func TestMatcher_MisalignedListsRejected(t *testing.T) {
	_, err := NewMatcher().Generate(context.Background(), domainAutoReply.KeywordReplyInput{
		Message:  "x",
		Keywords: []string{"a", "b"},
		Replies:  []string{"only one"},
	})
	if err == nil {
		t.Fatalf("expected error for misaligned keyword/reply lists")
	}
}

func TestMatcher_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewMatcher().Generate(ctx, domainAutoReply.KeywordReplyInput{
		Message:  "hello",
		Keywords: []string{"hello"},
		Replies:  []string{"hi"},
	})
	if err == nil {
		t.Fatalf("expected context error")
	}
}
