package relay

import (
	"context"
	"log/slog"
	"os"
	"strings"
	"testing"

	"jarvis/internal/domain"
	"jarvis/internal/domain/models/chat"
	"jarvis/internal/locale"
	"jarvis/internal/service/persona"
	"jarvis/internal/service/relay/providers/scripted"
)

func newTestService(t *testing.T, credential string, provider *scripted.Provider) *Service {
	t.Helper()

	bundle, err := locale.NewBundle("ar")
	if err != nil {
		t.Fatalf("Failed to load bundle: %v", err)
	}
	engine := persona.NewEngine("ar")
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	return NewService(
		credential,
		provider,
		NewAssembler(engine, bundle, 0, logger),
		NewClassifier(bundle),
		engine,
		bundle,
		logger,
	)
}

func askRequest() *chat.RelayRequest {
	return &chat.RelayRequest{
		Identity: chat.Identity{
			DisplayName: "Ali",
			Gender:      chat.GenderMale,
			Role:        chat.UserRoleStudent,
		},
		Language: "ar",
		Text:     "ما هو معدل الفائدة المركبة؟",
	}
}

// TestAsk_FastFailWithoutCredential verifies the fast-fail invariant: an
// unconfigured deployment reports service_unavailable without a single
// provider call.
func TestAsk_FastFailWithoutCredential(t *testing.T) {
	provider := scripted.NewProvider("never ", "sent")
	service := newTestService(t, "", provider)

	_, relayErr := service.Ask(context.Background(), askRequest())
	if relayErr == nil {
		t.Fatal("expected an error")
	}
	if relayErr.Kind != domain.KindServiceUnavailable {
		t.Errorf("expected service_unavailable, got %s", relayErr.Kind)
	}
	if provider.Calls() != 0 {
		t.Errorf("expected zero provider calls, got %d", provider.Calls())
	}
}

func TestAsk_ValidationBeforeProvider(t *testing.T) {
	provider := scripted.NewProvider("x")

	tests := []struct {
		name   string
		mutate func(*chat.RelayRequest)
	}{
		{"missing name", func(r *chat.RelayRequest) { r.Identity.DisplayName = "" }},
		{"bad gender", func(r *chat.RelayRequest) { r.Identity.Gender = "other" }},
		{"bad role", func(r *chat.RelayRequest) { r.Identity.Role = "admin" }},
		{"no content", func(r *chat.RelayRequest) { r.Text = ""; r.Attachment = nil }},
		{"attachment without mime type", func(r *chat.RelayRequest) {
			r.Text = ""
			r.Attachment = &chat.Attachment{Data: []byte("x")}
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service := newTestService(t, "test-key", provider)
			req := askRequest()
			tt.mutate(req)

			_, relayErr := service.Ask(context.Background(), req)
			if relayErr == nil {
				t.Fatal("expected an error")
			}
			if relayErr.Kind != domain.KindBadRequest {
				t.Errorf("expected bad_request, got %s", relayErr.Kind)
			}
		})
	}

	if provider.Calls() != 0 {
		t.Errorf("validation failures reached the provider: %d calls", provider.Calls())
	}
}

// TestAsk_StreamsFragmentsInOrder covers the Arabic end-to-end scenario:
// empty history, two fragments, concatenation is the full answer.
func TestAsk_StreamsFragmentsInOrder(t *testing.T) {
	provider := scripted.NewProvider("الفائدة ", "المركبة...")
	service := newTestService(t, "test-key", provider)

	events, relayErr := service.Ask(context.Background(), askRequest())
	if relayErr != nil {
		t.Fatalf("Ask failed: %v", relayErr)
	}

	var got []string
	for ev := range events {
		if ev.Err != nil {
			t.Fatalf("unexpected stream error: %v", ev.Err)
		}
		got = append(got, ev.Text)
	}

	if len(got) != 2 {
		t.Fatalf("expected 2 fragments, got %d", len(got))
	}
	if joined := strings.Join(got, ""); joined != "الفائدة المركبة..." {
		t.Errorf("fragments do not reconstruct the answer: %q", joined)
	}
}

func TestAsk_ClassifiesMidStreamError(t *testing.T) {
	provider := scripted.NewProvider()
	provider.FinalErr = domain.ErrContentBlocked
	service := newTestService(t, "test-key", provider)

	events, relayErr := service.Ask(context.Background(), askRequest())
	if relayErr != nil {
		t.Fatalf("Ask failed: %v", relayErr)
	}

	var terminal error
	for ev := range events {
		if ev.Err != nil {
			terminal = ev.Err
		}
	}
	if terminal == nil {
		t.Fatal("expected a terminal error event")
	}
	if got := service.Classify(terminal, "ar"); got.Kind != domain.KindContentBlocked {
		t.Errorf("expected content_blocked, got %s", got.Kind)
	}
}

func TestTranslate(t *testing.T) {
	provider := scripted.NewProvider("Un résumé ", "traduit.")
	service := newTestService(t, "test-key", provider)

	out, relayErr := service.Translate(context.Background(), "ملخص أكاديمي", "fr")
	if relayErr != nil {
		t.Fatalf("Translate failed: %v", relayErr)
	}
	if out != "Un résumé traduit." {
		t.Errorf("unexpected translation: %q", out)
	}
}

func TestTranslate_EmptyText(t *testing.T) {
	provider := scripted.NewProvider("x")
	service := newTestService(t, "test-key", provider)

	_, relayErr := service.Translate(context.Background(), "", "fr")
	if relayErr == nil {
		t.Fatal("expected an error")
	}
	if relayErr.Kind != domain.KindBadRequest {
		t.Errorf("expected bad_request, got %s", relayErr.Kind)
	}
	if provider.Calls() != 0 {
		t.Errorf("expected zero provider calls, got %d", provider.Calls())
	}
}

func TestTranslate_FastFailWithoutCredential(t *testing.T) {
	provider := scripted.NewProvider("x")
	service := newTestService(t, "", provider)

	_, relayErr := service.Translate(context.Background(), "نص", "en")
	if relayErr == nil {
		t.Fatal("expected an error")
	}
	if relayErr.Kind != domain.KindServiceUnavailable {
		t.Errorf("expected service_unavailable, got %s", relayErr.Kind)
	}
	if provider.Calls() != 0 {
		t.Errorf("expected zero provider calls, got %d", provider.Calls())
	}
}
