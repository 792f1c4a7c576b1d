package gemini

import (
	"context"
	"fmt"

	"google.golang.org/api/iterator"

	"jarvis/internal/domain"
	domainrelay "jarvis/internal/domain/services/relay"
)

// StreamGenerate starts a streaming generation call. Events are sent on
// an unbuffered channel: the goroutine does not pull the next upstream
// chunk until the previous fragment has been consumed, so a slow caller
// naturally throttles the upstream read.
func (p *Provider) StreamGenerate(ctx context.Context, req *domainrelay.GenerateRequest) (<-chan domainrelay.StreamEvent, error) {
	session, parts, err := p.prepare(req)
	if err != nil {
		return nil, err
	}

	events := make(chan domainrelay.StreamEvent)

	go func() {
		defer close(events)

		iter := session.SendMessageStream(ctx, parts...)

		sawText := false
		blocked := false

		for {
			resp, err := iter.Next()
			if err == iterator.Done {
				break
			}
			if err != nil {
				emit(ctx, events, domainrelay.StreamEvent{
					Err: fmt.Errorf("gemini streaming error: %w", err),
				})
				return
			}

			fragment, chunkBlocked := responseText(resp)
			if chunkBlocked {
				blocked = true
			}
			if fragment == "" {
				continue
			}

			sawText = true
			if !emit(ctx, events, domainrelay.StreamEvent{Text: fragment}) {
				return
			}
		}

		// A stream that finished without a single text fragment is a
		// failure: safety block if flagged, empty response otherwise.
		if !sawText {
			if blocked {
				emit(ctx, events, domainrelay.StreamEvent{Err: domain.ErrContentBlocked})
			} else {
				emit(ctx, events, domainrelay.StreamEvent{Err: domain.ErrEmptyResponse})
			}
		}
	}()

	return events, nil
}

// emit sends an event unless the consumer is gone. Reports whether the
// send happened.
func emit(ctx context.Context, events chan<- domainrelay.StreamEvent, ev domainrelay.StreamEvent) bool {
	select {
	case events <- ev:
		return true
	case <-ctx.Done():
		return false
	}
}
