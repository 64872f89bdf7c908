// Package testutil provides shared test helpers: a memory-backed store and a
// scripted stand-in for the text-generation boundary.
package testutil

import (
	"context"
	"log/slog"
	"sync"
	"testing"

	"github.com/nebulahq/nebula/internal/notestore"
	"github.com/nebulahq/nebula/internal/storage"
)

// Logger returns a logger that drops everything.
func Logger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

// TestStore creates a note store backed by an in-memory provider.
func TestStore(t *testing.T) (*notestore.Store, *storage.Memory) {
	t.Helper()
	mem := storage.NewMemory()
	st, err := notestore.Open(mem, Logger())
	if err != nil {
		t.Fatal(err)
	}
	return st, mem
}

// FakeGenerator scripts the generation boundary. The zero value is an
// unconfigured generator; set Ready to simulate a present credential.
type FakeGenerator struct {
	mu      sync.Mutex
	Ready   bool
	reply   string
	err     error
	block   chan struct{}
	calls   int
	prompts []string
}

// SetReply scripts the next responses.
func (g *FakeGenerator) SetReply(reply string, err error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.reply = reply
	g.err = err
}

// BlockUntil makes Generate wait for ch to close (or the context to end)
// before responding. Pass nil to unblock future calls.
func (g *FakeGenerator) BlockUntil(ch chan struct{}) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.block = ch
}

// Calls reports how many times Generate ran.
func (g *FakeGenerator) Calls() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.calls
}

// Prompts returns every prompt Generate received, in order.
func (g *FakeGenerator) Prompts() []string {
	g.mu.Lock()
	defer g.mu.Unlock()
	out := make([]string, len(g.prompts))
	copy(out, g.prompts)
	return out
}

// Generate implements the generation boundary.
func (g *FakeGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	g.mu.Lock()
	g.calls++
	g.prompts = append(g.prompts, prompt)
	block := g.block
	reply, err := g.reply, g.err
	g.mu.Unlock()

	if block != nil {
		select {
		case <-block:
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	return reply, err
}

// Configured reports the scripted credential presence.
func (g *FakeGenerator) Configured() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.Ready
}
