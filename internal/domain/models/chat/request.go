package chat

// Gender is the identity marker feeding the honorific lookup.
type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
)

// UserRole is the platform role feeding the honorific lookup.
type UserRole string

const (
	UserRoleProfessor UserRole = "professor"
	UserRoleStudent   UserRole = "student"
)

// Identity parameterizes the persona instruction for one relay call. It is
// never persisted by the relay.
type Identity struct {
	DisplayName string   `json:"userName"`
	Gender      Gender   `json:"gender"`
	Role        UserRole `json:"role"`
}

// RelayRequest is the assembled input for one generation call.
// Invariant: Text and Attachment are not both empty.
type RelayRequest struct {
	Identity   Identity
	Language   string
	History    []ConversationTurn
	Text       string
	Attachment *Attachment
}

// HasContent reports whether the request carries anything to send.
func (r *RelayRequest) HasContent() bool {
	return r.Text != "" || r.Attachment != nil
}
