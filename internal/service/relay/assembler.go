package relay

import (
	"fmt"
	"log/slog"

	"jarvis/internal/domain"
	"jarvis/internal/domain/models/chat"
	domainrelay "jarvis/internal/domain/services/relay"
	"jarvis/internal/locale"
	"jarvis/internal/service/persona"
)

// Assembler converts a RelayRequest into the provider payload: system
// instruction first, then history in order, then the current exchange as a
// final synthetic turn. Pure conversion; the caller's history is never
// mutated.
type Assembler struct {
	persona *persona.Engine
	bundle  *locale.Bundle
	// historyWindow caps how many trailing history turns are replayed.
	// 0 replays everything.
	historyWindow int
	logger        *slog.Logger
}

// NewAssembler creates a context assembler.
func NewAssembler(
	engine *persona.Engine,
	bundle *locale.Bundle,
	historyWindow int,
	logger *slog.Logger,
) *Assembler {
	return &Assembler{
		persona:       engine,
		bundle:        bundle,
		historyWindow: historyWindow,
		logger:        logger,
	}
}

// Assemble builds the provider request. It fails with a validation error
// when the request carries nothing to send or an attachment lacks a media
// type; everything else is mapped mechanically.
func (a *Assembler) Assemble(req *chat.RelayRequest) (*domainrelay.GenerateRequest, error) {
	if !req.HasContent() {
		return nil, fmt.Errorf("%w: either prompt or file is required", domain.ErrValidation)
	}
	if req.Attachment != nil && req.Attachment.MIMEType == "" {
		return nil, fmt.Errorf("%w: file is missing its mime type", domain.ErrValidation)
	}

	lang := a.bundle.Normalize(req.Language)

	history := req.History
	if a.historyWindow > 0 && len(history) > a.historyWindow {
		history = history[len(history)-a.historyWindow:]
	}

	turns := make([]domainrelay.Turn, 0, len(history)+1)
	for _, turn := range history {
		role, err := providerRole(turn.Role)
		if err != nil {
			return nil, err
		}

		parts := turnParts(turn.Text, turn.Attachment)
		if len(parts) == 0 {
			// Empty turn - nothing to replay, skip it
			a.logger.Warn("skipping history turn with no content", "role", turn.Role)
			continue
		}

		turns = append(turns, domainrelay.Turn{Role: role, Parts: parts})
	}

	// Current exchange: attachment part(s) first, text part last. A
	// file-only prompt gets the localized fallback marker.
	text := req.Text
	if text == "" {
		text = a.bundle.AttachmentFallback(lang)
	}
	turns = append(turns, domainrelay.Turn{
		Role:  domainrelay.TurnRoleUser,
		Parts: turnParts(text, req.Attachment),
	})

	return &domainrelay.GenerateRequest{
		System: a.persona.Render(req.Identity, lang),
		Turns:  turns,
	}, nil
}

// providerRole maps the conversation role vocabulary to the provider's.
func providerRole(role chat.Role) (string, error) {
	switch role {
	case chat.RoleUser:
		return domainrelay.TurnRoleUser, nil
	case chat.RoleAssistant:
		return domainrelay.TurnRoleModel, nil
	default:
		return "", fmt.Errorf("%w: unsupported history role %q", domain.ErrValidation, role)
	}
}

// turnParts orders one turn's content: inline blob first, text last.
func turnParts(text string, att *chat.Attachment) []domainrelay.Part {
	parts := make([]domainrelay.Part, 0, 2)
	if att != nil {
		parts = append(parts, domainrelay.Part{
			Blob: &domainrelay.Blob{MIMEType: att.MIMEType, Data: att.Data},
		})
	}
	if text != "" {
		parts = append(parts, domainrelay.Part{Text: text})
	}
	return parts
}
