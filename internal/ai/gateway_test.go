package ai

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/nebulahq/nebula/internal/apperr"
	"github.com/nebulahq/nebula/internal/testutil"
)

func TestEnhanceRejectsBlankContent(t *testing.T) {
	gen := &testutil.FakeGenerator{Ready: true}
	g := NewGateway(gen, testutil.Logger())

	for _, content := range []string{"", "   ", "\n\t"} {
		if _, err := g.Enhance(context.Background(), content, ActionSummarize, ""); !errors.Is(err, apperr.ErrInputEmpty) {
			t.Errorf("content %q: err = %v, want ErrInputEmpty", content, err)
		}
	}
	if gen.Calls() != 0 {
		t.Errorf("service was called %d times for blank input", gen.Calls())
	}
}

func TestEnhanceFailsFastWithoutCredential(t *testing.T) {
	gen := &testutil.FakeGenerator{} // not configured
	g := NewGateway(gen, testutil.Logger())

	for _, a := range Actions() {
		if _, err := g.Enhance(context.Background(), "data", a, ""); !errors.Is(err, apperr.ErrCredentialMissing) {
			t.Errorf("action %s: err = %v, want ErrCredentialMissing", a, err)
		}
	}
	if gen.Calls() != 0 {
		t.Errorf("service was called %d times without a credential", gen.Calls())
	}
}

func TestEnhanceReturnsGeneratedText(t *testing.T) {
	gen := &testutil.FakeGenerator{Ready: true}
	gen.SetReply("Tactical summary.", nil)
	g := NewGateway(gen, testutil.Logger())

	got, err := g.Enhance(context.Background(), "long log entry", ActionSummarize, "title")
	if err != nil {
		t.Fatalf("Enhance: %v", err)
	}
	if got != "Tactical summary." {
		t.Errorf("text = %q", got)
	}
	if gen.Calls() != 1 {
		t.Errorf("calls = %d, want exactly one request", gen.Calls())
	}
}

func TestEnhanceEmptyGenerationFallsBack(t *testing.T) {
	gen := &testutil.FakeGenerator{Ready: true}
	gen.SetReply("  ", nil)
	g := NewGateway(gen, testutil.Logger())

	got, err := g.Enhance(context.Background(), "data", ActionExpand, "")
	if err != nil {
		t.Fatalf("Enhance: %v", err)
	}
	if got != EmptyResultFallback {
		t.Errorf("text = %q, want fallback", got)
	}
}

func TestEnhanceWrapsServiceFailure(t *testing.T) {
	gen := &testutil.FakeGenerator{Ready: true}
	gen.SetReply("", errors.New("quantum flux interference"))
	g := NewGateway(gen, testutil.Logger())

	_, err := g.Enhance(context.Background(), "data", ActionFixGrammar, "")
	if !errors.Is(err, apperr.ErrGenerationFailed) {
		t.Fatalf("err = %v, want ErrGenerationFailed", err)
	}
	if !strings.Contains(err.Error(), "quantum flux interference") {
		t.Errorf("underlying message lost: %v", err)
	}
	if gen.Calls() != 1 {
		t.Errorf("calls = %d, want 1 (no retry)", gen.Calls())
	}
}

func TestGenerateTitleBestEffort(t *testing.T) {
	// Missing credential → fallback, no call.
	gen := &testutil.FakeGenerator{}
	g := NewGateway(gen, testutil.Logger())
	if got := g.GenerateTitle(context.Background(), "content"); got != FallbackTitle {
		t.Errorf("title = %q, want fallback", got)
	}
	if gen.Calls() != 0 {
		t.Error("service called without credential")
	}

	// Service failure → fallback.
	gen = &testutil.FakeGenerator{Ready: true}
	gen.SetReply("", errors.New("down"))
	g = NewGateway(gen, testutil.Logger())
	if got := g.GenerateTitle(context.Background(), "content"); got != FallbackTitle {
		t.Errorf("title = %q, want fallback", got)
	}

	// Quotes are stripped from the generated name.
	gen = &testutil.FakeGenerator{Ready: true}
	gen.SetReply("  \"Sector 7 Report\"\n", nil)
	g = NewGateway(gen, testutil.Logger())
	if got := g.GenerateTitle(context.Background(), "content"); got != "Sector 7 Report" {
		t.Errorf("title = %q", got)
	}
}
