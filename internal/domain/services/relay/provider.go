package relay

import "context"

// Provider role vocabulary. History turns map user→user, assistant→model.
const (
	TurnRoleUser  = "user"
	TurnRoleModel = "model"
)

// Provider is the upstream generative-model boundary. Implementations wrap
// one provider SDK; the relay service never sees SDK types directly.
type Provider interface {
	// StreamGenerate starts a streaming generation call and returns a
	// channel of events. The channel is closed after the final event.
	// A non-nil Err event terminates the stream; no further text follows
	// it. The channel must apply backpressure: implementations do not
	// read further upstream fragments while a send is pending.
	StreamGenerate(ctx context.Context, req *GenerateRequest) (<-chan StreamEvent, error)

	// Generate performs a unary generation call and returns the full text.
	Generate(ctx context.Context, req *GenerateRequest) (string, error)

	// Name returns the provider name (e.g., "gemini")
	Name() string
}

// GenerateRequest is the provider-formatted payload built by the context
// assembler: a system instruction plus ordered turns.
type GenerateRequest struct {
	// System is the persona instruction. Carried out of band from the
	// turn list (the provider's dedicated system-instruction slot).
	System string

	// Turns is the ordered conversation context, oldest first, ending
	// with the current exchange.
	Turns []Turn

	// Params are the sampling parameters for this call.
	Params Params
}

// Turn is one provider-formatted message.
type Turn struct {
	// Role is TurnRoleUser or TurnRoleModel.
	Role string

	// Parts are the ordered content parts. For the current exchange the
	// attachment part precedes the text part.
	Parts []Part
}

// Part is a single content part: either text or an inline blob, never both.
type Part struct {
	Text string
	Blob *Blob
}

// Blob is inline binary content tagged with its media type.
type Blob struct {
	MIMEType string
	Data     []byte
}

// Params are the sampling knobs forwarded upstream. The relay fixes these
// as policy constants; they are not caller-tunable.
type Params struct {
	Temperature float32
	TopP        float32
	TopK        int32
}

// StreamEvent is one increment of a streaming response: a text fragment or
// a terminal error.
type StreamEvent struct {
	Text string
	Err  error
}
