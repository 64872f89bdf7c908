package ai

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/nebulahq/nebula/internal/apperr"
)

// EmptyResultFallback is returned when the service produces no text.
const EmptyResultFallback = "Data corrupted. No response generated."

// FallbackTitle is returned when title generation fails for any reason.
const FallbackTitle = "Untitled Log"

// Generator is the outbound text-generation boundary.
type Generator interface {
	// Generate sends one prompt and returns the generated text.
	Generate(ctx context.Context, prompt string) (string, error)
	// Configured reports whether a credential is present. Callers must
	// not invoke Generate when it returns false.
	Configured() bool
}

// Gateway maps (content, action, title) onto a prompt and exchanges it with
// the generation service. It is stateless; in-flight bookkeeping lives in
// Session.
type Gateway struct {
	gen    Generator
	logger *slog.Logger
}

// NewGateway creates a gateway over the given generator.
func NewGateway(gen Generator, logger *slog.Logger) *Gateway {
	return &Gateway{gen: gen, logger: logger}
}

// Configured reports whether the underlying generator has a credential.
func (g *Gateway) Configured() bool {
	return g.gen.Configured()
}

// Enhance transforms content according to action. The title parameter is
// part of the contract for template use but no current template consumes it.
//
// Preconditions are checked before any network I/O: blank content fails with
// ErrInputEmpty, a missing credential with ErrCredentialMissing. Service
// failures wrap ErrGenerationFailed; an empty generation yields the literal
// fallback string. No retry is attempted.
func (g *Gateway) Enhance(ctx context.Context, content string, action Action, title string) (string, error) {
	if strings.TrimSpace(content) == "" {
		return "", apperr.ErrInputEmpty
	}
	if !g.gen.Configured() {
		return "", apperr.ErrCredentialMissing
	}

	prompt, err := action.Prompt(content)
	if err != nil {
		return "", err
	}

	text, err := g.gen.Generate(ctx, prompt)
	if err != nil {
		g.logger.Error("generation failed",
			slog.String("action", string(action)),
			slog.String("error", err.Error()))
		return "", fmt.Errorf("%w: %v", apperr.ErrGenerationFailed, err)
	}
	if strings.TrimSpace(text) == "" {
		return EmptyResultFallback, nil
	}
	return text, nil
}

// GenerateTitle requests a short display name for content. It is best-effort
// and never returns an error: any failure, including a missing credential,
// yields FallbackTitle.
func (g *Gateway) GenerateTitle(ctx context.Context, content string) string {
	if !g.gen.Configured() {
		return FallbackTitle
	}
	text, err := g.gen.Generate(ctx, titlePrompt(content))
	if err != nil {
		g.logger.Warn("title generation failed", slog.String("error", err.Error()))
		return FallbackTitle
	}
	title := strings.NewReplacer(`"`, "", `'`, "").Replace(strings.TrimSpace(text))
	if title == "" {
		return FallbackTitle
	}
	return title
}
