package relay

import (
	"context"
	"fmt"
	"log/slog"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"jarvis/internal/config"
	"jarvis/internal/domain"
	"jarvis/internal/domain/models/chat"
	domainrelay "jarvis/internal/domain/services/relay"
	"jarvis/internal/locale"
	"jarvis/internal/service/persona"
)

// policyParams are the fixed sampling constants for every upstream call.
// They are relay policy, not caller-tunable.
var policyParams = domainrelay.Params{
	Temperature: 0.7,
	TopP:        0.95,
	TopK:        40,
}

// Service orchestrates one relay call: validate, fast-fail on a missing
// credential, assemble, and hand the stream back to the transport layer.
// Stateless across calls; safe for concurrent use.
type Service struct {
	credential string
	provider   domainrelay.Provider
	assembler  *Assembler
	classifier *Classifier
	persona    *persona.Engine
	bundle     *locale.Bundle
	logger     *slog.Logger
}

// NewService creates the relay service. The credential is injected here
// once at startup rather than read from the environment at call time; an
// empty credential makes every call fail fast with service_unavailable
// before anything reaches the provider.
func NewService(
	credential string,
	provider domainrelay.Provider,
	assembler *Assembler,
	classifier *Classifier,
	engine *persona.Engine,
	bundle *locale.Bundle,
	logger *slog.Logger,
) *Service {
	return &Service{
		credential: credential,
		provider:   provider,
		assembler:  assembler,
		classifier: classifier,
		persona:    engine,
		bundle:     bundle,
		logger:     logger,
	}
}

// Ask validates the request and starts a streaming generation call.
// The returned channel yields fragments in arrival order and is closed
// after the final event. Failures are returned already classified; a raw
// provider error never crosses this boundary.
func (s *Service) Ask(ctx context.Context, req *chat.RelayRequest) (<-chan domainrelay.StreamEvent, *domain.RelayError) {
	lang := s.bundle.Normalize(req.Language)

	if err := validateRelayRequest(req); err != nil {
		s.logger.Warn("relay request rejected", "error", err)
		return nil, s.classifier.Classify(err, lang)
	}

	if s.credential == "" {
		// Fast-fail invariant: a misconfigured deployment never reaches
		// the provider.
		s.logger.Error("provider credential absent, refusing relay call")
		return nil, s.classifier.Classify(domain.ErrNoCredential, lang)
	}

	genReq, err := s.assembler.Assemble(req)
	if err != nil {
		s.logger.Warn("context assembly failed", "error", err)
		return nil, s.classifier.Classify(err, lang)
	}
	genReq.Params = policyParams

	events, err := s.provider.StreamGenerate(ctx, genReq)
	if err != nil {
		s.logger.Error("upstream call failed to start",
			"provider", s.provider.Name(),
			"error", err,
		)
		return nil, s.classifier.Classify(err, lang)
	}

	s.logger.Debug("relay stream started",
		"provider", s.provider.Name(),
		"turns", len(genReq.Turns),
		"language", lang,
	)

	return events, nil
}

// Classify resolves a mid-stream or transport failure for the caller's
// language. Used by the transport layer for errors that surface after Ask
// returned a stream.
func (s *Service) Classify(err error, language string) *domain.RelayError {
	return s.classifier.Classify(err, language)
}

// Translate renders an academic summary into the requested platform
// language through the provider's unary path.
func (s *Service) Translate(ctx context.Context, text, language string) (string, *domain.RelayError) {
	lang := s.bundle.Normalize(language)

	if err := validateTranslateRequest(text); err != nil {
		s.logger.Warn("translate request rejected", "error", err)
		return "", s.classifier.Classify(err, lang)
	}

	if s.credential == "" {
		s.logger.Error("provider credential absent, refusing translate call")
		return "", s.classifier.Classify(domain.ErrNoCredential, lang)
	}

	genReq := &domainrelay.GenerateRequest{
		System: fmt.Sprintf("You are the translation assistant of the 'جامعتك الرقمية way' "+
			"platform. Translate the academic summary provided by the user into %s. "+
			"Preserve technical terminology and citations. Return only the translation.",
			s.persona.LanguageName(lang)),
		Turns: []domainrelay.Turn{
			{Role: domainrelay.TurnRoleUser, Parts: []domainrelay.Part{{Text: text}}},
		},
		Params: policyParams,
	}

	out, err := s.provider.Generate(ctx, genReq)
	if err != nil {
		s.logger.Error("upstream translate call failed",
			"provider", s.provider.Name(),
			"error", err,
		)
		return "", s.classifier.Classify(err, lang)
	}

	return out, nil
}

func validateRelayRequest(req *chat.RelayRequest) error {
	err := validation.Errors{
		"userName": validation.Validate(req.Identity.DisplayName,
			validation.Required,
			validation.Length(1, config.MaxUserNameLength),
		),
		"gender": validation.Validate(req.Identity.Gender,
			validation.Required,
			validation.In(chat.GenderMale, chat.GenderFemale),
		),
		"role": validation.Validate(req.Identity.Role,
			validation.Required,
			validation.In(chat.UserRoleProfessor, chat.UserRoleStudent),
		),
		"prompt": validation.Validate(req.Text,
			validation.Length(0, config.MaxPromptLength),
		),
		"history": validation.Validate(req.History,
			validation.Length(0, config.MaxHistoryTurns),
		),
	}.Filter()
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	if !req.HasContent() {
		return fmt.Errorf("%w: either prompt or file is required", domain.ErrValidation)
	}
	if req.Attachment != nil {
		if req.Attachment.MIMEType == "" {
			return fmt.Errorf("%w: file is missing its mime type", domain.ErrValidation)
		}
		if len(req.Attachment.Data) > config.MaxAttachmentBytes {
			return fmt.Errorf("%w: file exceeds %d bytes", domain.ErrValidation, config.MaxAttachmentBytes)
		}
	}

	return nil
}

func validateTranslateRequest(text string) error {
	if err := validation.Validate(text,
		validation.Required,
		validation.Length(1, config.MaxPromptLength),
	); err != nil {
		return fmt.Errorf("%w: text: %v", domain.ErrValidation, err)
	}
	return nil
}
