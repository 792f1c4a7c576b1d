package config

const (
	// MaxPromptLength is the maximum length in bytes for a single prompt.
	// Long prompts inflate upstream token usage and latency without any
	// benefit to an academic consultation exchange.
	MaxPromptLength = 8192

	// MaxUserNameLength is the maximum length for the display name that
	// the persona instruction addresses the user by.
	MaxUserNameLength = 120

	// MaxAttachmentBytes is the maximum decoded size of an inline
	// attachment. Attachments are always carried inline in the request
	// body, so this also bounds the request size together with
	// httputil's body limit.
	MaxAttachmentBytes = 8 << 20

	// MaxHistoryTurns is the hard ceiling on history entries accepted at
	// the boundary, independent of the configurable resend window.
	MaxHistoryTurns = 200
)
