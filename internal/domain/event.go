package domain

// UI event actions. These mirror what the chat widget emits.
const (
	ActionSendMessage = "send_message"
	ActionSendCommand = "send_command"
	ActionSetName     = "set_name"
)

// UIEvent is an inbound event from the chat UI.
type UIEvent struct {
	Action    string `json:"action"`
	Message   string `json:"message,omitempty"`
	Command   string `json:"command,omitempty"`
	UserName  string `json:"user_name,omitempty"`
	SessionID string `json:"session_id,omitempty"`
}

// Text returns the chat text carried by the event. Commands and plain
// messages travel through the same pipeline.
func (e UIEvent) Text() string {
	if e.Action == ActionSendCommand {
		return e.Command
	}
	return e.Message
}

// ChatState is the outbound snapshot sent back to the UI after every event.
type ChatState struct {
	Messages  []ChatMessage `json:"messages"`
	UserName  string        `json:"user_name"`
	SessionID string        `json:"session_id"`
}

// ChatMessage is one rendered history entry.
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}
