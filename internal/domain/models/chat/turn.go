package chat

// Role identifies who authored a conversation turn.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Attachment is an inline binary payload (image or document) accompanying
// a user turn. Data is the raw bytes; attachments are never carried by
// reference. A turn has at most one attachment.
type Attachment struct {
	MIMEType string `json:"mimeType"`
	Data     []byte `json:"data"`
}

// ConversationTurn is one exchange unit in a conversation. Turns are
// immutable once appended; the slice order is the conversation's temporal
// order and is replayed verbatim as model context.
type ConversationTurn struct {
	Role       Role        `json:"role"`
	Text       string      `json:"text"`
	Attachment *Attachment `json:"attachment,omitempty"`
}
