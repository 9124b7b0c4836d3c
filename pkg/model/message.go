package model

import (
	"strings"

	"github.com/m-mizutani/goerr/v2"
)

var ErrInvalidOrigin = goerr.New("invalid message origin")

// Origin identifies who produced a message.
type Origin string

const (
	OriginHuman     Origin = "human"
	OriginAssistant Origin = "assistant"
)

// Validate checks if the origin is one of the known values
func (o Origin) Validate() error {
	switch o {
	case OriginHuman, OriginAssistant:
		return nil
	default:
		return goerr.Wrap(ErrInvalidOrigin, "unknown origin", goerr.V("origin", o))
	}
}

// Message is a single conversational turn. Text is always a plain
// string; callers must render structured payloads before constructing
// one.
type Message struct {
	Origin Origin `json:"origin"`
	Text   string `json:"text"`
}

// NewMessage creates a Message, rejecting unknown origins.
func NewMessage(origin Origin, text string) (Message, error) {
	if err := origin.Validate(); err != nil {
		return Message{}, err
	}
	return Message{Origin: origin, Text: text}, nil
}

// History is the ordered conversation, oldest first. Messages are only
// ever appended or cleared as a whole.
type History struct {
	Messages []Message
}

func (h *History) Add(msg Message) {
	h.Messages = append(h.Messages, msg)
}

func (h *History) Len() int {
	return len(h.Messages)
}

// Context renders the conversation as "<origin>: <text>" lines in
// chronological order, for use as prompt context.
func (h *History) Context() string {
	lines := make([]string, 0, len(h.Messages))
	for _, msg := range h.Messages {
		lines = append(lines, string(msg.Origin)+": "+msg.Text)
	}
	return strings.Join(lines, "\n")
}
