// Package scripted provides a deterministic mock provider. It replays a
// fixed fragment script, which makes it usable for local development
// without real API keys and for exercising the streaming pipeline in
// tests.
package scripted

import (
	"context"
	"strings"
	"sync/atomic"
	"time"

	"jarvis/internal/domain"
	domainrelay "jarvis/internal/domain/services/relay"
)

// DefaultScript is the canned answer streamed in dev mode.
var DefaultScript = []string{
	"هذه إجابة تجريبية ",
	"من مزود محاكاة محلي ",
	"دون أي اتصال بالمزود الحقيقي.",
}

// Provider replays Fragments in order, one stream event each.
type Provider struct {
	// Fragments is the scripted output, emitted in order.
	Fragments []string

	// Delay is an optional pause between fragments, simulating upstream
	// latency.
	Delay time.Duration

	// FinalErr, when set, terminates the stream after the last fragment,
	// simulating a mid-stream upstream failure.
	FinalErr error

	calls atomic.Int64
}

// NewProvider creates a scripted provider replaying the given fragments.
func NewProvider(fragments ...string) *Provider {
	return &Provider{Fragments: fragments}
}

// Name returns the provider name.
func (p *Provider) Name() string {
	return "scripted"
}

// Calls reports how many generation calls reached this provider. Lets
// tests assert the fast-fail invariant (zero upstream calls).
func (p *Provider) Calls() int64 {
	return p.calls.Load()
}

// Generate returns the concatenated script.
func (p *Provider) Generate(ctx context.Context, req *domainrelay.GenerateRequest) (string, error) {
	p.calls.Add(1)

	if p.FinalErr != nil {
		return "", p.FinalErr
	}
	if len(p.Fragments) == 0 {
		return "", domain.ErrEmptyResponse
	}
	return strings.Join(p.Fragments, ""), nil
}

// StreamGenerate replays the script as individual stream events.
func (p *Provider) StreamGenerate(ctx context.Context, req *domainrelay.GenerateRequest) (<-chan domainrelay.StreamEvent, error) {
	p.calls.Add(1)

	events := make(chan domainrelay.StreamEvent)

	go func() {
		defer close(events)

		for _, fragment := range p.Fragments {
			if p.Delay > 0 {
				select {
				case <-time.After(p.Delay):
				case <-ctx.Done():
					return
				}
			}

			select {
			case events <- domainrelay.StreamEvent{Text: fragment}:
			case <-ctx.Done():
				return
			}
		}

		var terminal error
		switch {
		case p.FinalErr != nil:
			terminal = p.FinalErr
		case len(p.Fragments) == 0:
			terminal = domain.ErrEmptyResponse
		default:
			return
		}

		select {
		case events <- domainrelay.StreamEvent{Err: terminal}:
		case <-ctx.Done():
		}
	}()

	return events, nil
}
