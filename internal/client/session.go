// Package client is the caller-side streaming consumer: it owns a
// conversation's history, issues relay calls, and reconstructs the
// assistant's answer incrementally from the response stream.
package client

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sync"

	"github.com/google/uuid"

	"jarvis/internal/domain/models/chat"
)

// ErrSendInFlight is returned when Send is called while another send on
// the same session has not finished. Sends on one session must be
// serialized by the caller.
var ErrSendInFlight = errors.New("a send is already in flight for this session")

// Session is a conversation-scoped consumer. The history list is owned
// exclusively by the session: appends happen only in Send, and the
// trailing assistant turn grows in place as fragments arrive.
type Session struct {
	// ID identifies the session in logs. The relay itself is stateless
	// and never sees it.
	ID uuid.UUID

	// OnFragment, when set, runs after each fragment is applied to the
	// placeholder turn. It lets UIs render increments as they arrive and
	// makes intermediate history states observable.
	OnFragment func(fragment string)

	identity chat.Identity
	language string
	baseURL  string
	httpc    *http.Client

	history []chat.ConversationTurn

	mu      sync.Mutex
	sending bool
}

// NewSession creates a consumer session against the relay at baseURL.
func NewSession(baseURL string, identity chat.Identity, language string) *Session {
	return &Session{
		ID:       uuid.New(),
		identity: identity,
		language: language,
		baseURL:  baseURL,
		// No client timeout: responses are long-lived streams. Callers
		// bound a call's lifetime through ctx.
		httpc: &http.Client{},
	}
}

// History returns the conversation transcript. The returned slice shares
// the session's backing array; treat it as read-only.
func (s *Session) History() []chat.ConversationTurn {
	return s.history
}

// wire shapes mirroring the relay's request contract
type askBody struct {
	Prompt   *string     `json:"prompt"`
	UserName string      `json:"userName"`
	Gender   string      `json:"gender"`
	Role     string      `json:"role"`
	File     *fileBody   `json:"file"`
	History  []entryBody `json:"history"`
	Language string      `json:"language"`
}

type fileBody struct {
	MimeType string `json:"mimeType"`
	Base64   string `json:"base64"`
}

type entryBody struct {
	Role string `json:"role"`
	Text string `json:"text"`
}

// Send appends a user turn and an assistant placeholder, issues the relay
// call, and grows the placeholder's text in place as fragments arrive.
//
// Failure behavior: a structured error response replaces the placeholder
// text wholesale with the relay's localized message; a failure after
// fragments were received keeps the partial text as-is; a local transport
// failure leaves the placeholder incomplete. Send never retries - every
// retry is a new explicit call.
func (s *Session) Send(ctx context.Context, text string, attachment *chat.Attachment) error {
	s.mu.Lock()
	if s.sending {
		s.mu.Unlock()
		return ErrSendInFlight
	}
	s.sending = true
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.sending = false
		s.mu.Unlock()
	}()

	// Optimistic append: the transcript reflects user intent even when
	// the network call fails.
	s.history = append(s.history, chat.ConversationTurn{
		Role:       chat.RoleUser,
		Text:       text,
		Attachment: attachment,
	})
	s.history = append(s.history, chat.ConversationTurn{Role: chat.RoleAssistant})

	placeholder := &s.history[len(s.history)-1]
	prior := s.history[:len(s.history)-2]

	payload, err := s.buildBody(text, attachment, prior)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+"/api/jarvis", bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("build relay request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpc.Do(req)
	if err != nil {
		// Abandoned exchange: the placeholder stays incomplete.
		return fmt.Errorf("relay call failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg := decodeErrorBody(resp.Body)
		if msg == "" {
			msg = resp.Status
		}
		// Wholesale replacement: zero fragments arrived, nothing to keep.
		placeholder.Text = msg
		return fmt.Errorf("relay returned %d: %s", resp.StatusCode, msg)
	}

	// Fragments are applied strictly in arrival order; the placeholder
	// grows in place and the history list identity never changes.
	buf := make([]byte, 4096)
	for {
		n, readErr := resp.Body.Read(buf)
		if n > 0 {
			fragment := string(buf[:n])
			placeholder.Text += fragment
			if s.OnFragment != nil {
				s.OnFragment(fragment)
			}
		}
		if readErr == io.EOF {
			return nil
		}
		if readErr != nil {
			// Partial output stands; no rollback.
			return fmt.Errorf("stream interrupted: %w", readErr)
		}
	}
}

func (s *Session) buildBody(text string, attachment *chat.Attachment, prior []chat.ConversationTurn) ([]byte, error) {
	body := askBody{
		UserName: s.identity.DisplayName,
		Gender:   string(s.identity.Gender),
		Role:     string(s.identity.Role),
		Language: s.language,
		History:  make([]entryBody, 0, len(prior)),
	}
	if text != "" {
		body.Prompt = &text
	}
	if attachment != nil {
		body.File = &fileBody{
			MimeType: attachment.MIMEType,
			Base64:   base64.StdEncoding.EncodeToString(attachment.Data),
		}
	}
	for _, turn := range prior {
		body.History = append(body.History, entryBody{
			Role: string(turn.Role),
			Text: turn.Text,
		})
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("encode relay request: %w", err)
	}
	return payload, nil
}

func decodeErrorBody(r io.Reader) string {
	var eb struct {
		Error string `json:"error"`
	}
	if err := json.NewDecoder(r).Decode(&eb); err != nil {
		return ""
	}
	return eb.Error
}
