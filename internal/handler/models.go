package handler

import (
	"encoding/base64"
	"fmt"

	"jarvis/internal/domain"
	"jarvis/internal/domain/models/chat"
)

// Wire DTOs for the relay endpoints. The boundary accepts only these
// validated shapes; malformed bodies are rejected here instead of failing
// inside assembly.

type askRequest struct {
	Prompt   *string        `json:"prompt"`
	UserName string         `json:"userName"`
	Gender   string         `json:"gender"`
	Role     string         `json:"role"`
	File     *fileUpload    `json:"file"`
	History  []historyEntry `json:"history"`
	Language string         `json:"language"`
}

type fileUpload struct {
	MimeType string `json:"mimeType"`
	Base64   string `json:"base64"`
}

type historyEntry struct {
	Role string `json:"role"`
	Text string `json:"text"`
}

type translateRequest struct {
	Text     string `json:"text"`
	Language string `json:"language"`
}

type translateResponse struct {
	Text string `json:"text"`
}

// toRelayRequest maps the wire shape to the domain request, decoding the
// inline attachment.
func toRelayRequest(body *askRequest) (*chat.RelayRequest, error) {
	req := &chat.RelayRequest{
		Identity: chat.Identity{
			DisplayName: body.UserName,
			Gender:      chat.Gender(body.Gender),
			Role:        chat.UserRole(body.Role),
		},
		Language: body.Language,
	}

	if body.Prompt != nil {
		req.Text = *body.Prompt
	}

	if body.File != nil {
		data, err := base64.StdEncoding.DecodeString(body.File.Base64)
		if err != nil {
			return nil, fmt.Errorf("%w: file payload is not valid base64", domain.ErrValidation)
		}
		req.Attachment = &chat.Attachment{
			MIMEType: body.File.MimeType,
			Data:     data,
		}
	}

	if len(body.History) > 0 {
		req.History = make([]chat.ConversationTurn, 0, len(body.History))
		for _, entry := range body.History {
			req.History = append(req.History, chat.ConversationTurn{
				Role: chat.Role(entry.Role),
				Text: entry.Text,
			})
		}
	}

	return req, nil
}
