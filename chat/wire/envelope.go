package wire

import (
	"encoding/json"
	"errors"
	"fmt"
)

// The error returned when an inbound payload cannot be parsed as an envelope.
var ErrMalformed = errors.New("malformed envelope")

// The error returned when an envelope carries a type we don't recognize.
var ErrUnknownType = errors.New("unknown envelope type")

// Type tags an envelope on the wire.
type Type string

const (
	// Join is the client handshake binding a display name to the connection.
	Join Type = "join"
	// Chat is user speech, inbound and outbound.
	Chat Type = "chat"
	// Command is a slash-command issued by the client.
	Command Type = "command"
	// Note is a system announcement (joins, leaves, renames). Outbound only.
	Note Type = "note"
)

// Inbound is a message received from a client. The payload field depends on
// the type: Name for join, Text for chat and command.
type Inbound struct {
	Type Type   `json:"type"`
	Name string `json:"name,omitempty"`
	Text string `json:"text,omitempty"`
}

// ParseInbound decodes raw client data into an Inbound envelope. Returns
// ErrMalformed if the payload isn't the expected structure, ErrUnknownType if
// the type tag isn't one of join/chat/command. Both are fatal to the message;
// the connection owner decides what to do with the connection.
func ParseInbound(raw []byte) (Inbound, error) {
	var in Inbound
	if err := json.Unmarshal(raw, &in); err != nil {
		return Inbound{}, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	switch in.Type {
	case Join, Chat, Command:
		return in, nil
	}
	return Inbound{}, fmt.Errorf("%w: %q", ErrUnknownType, in.Type)
}

// Envelope is a message sent to a client. Note envelopes carry no name;
// chat envelopes carry the speaker's name, or "server" for command replies.
type Envelope struct {
	Name string `json:"name,omitempty"`
	Type Type   `json:"type"`
	Text string `json:"text"`
}

// NewChat creates a chat envelope attributed to a speaker.
func NewChat(name string, text string) Envelope {
	return Envelope{Name: name, Type: Chat, Text: text}
}

// NewNote creates a system note envelope.
func NewNote(text string) Envelope {
	return Envelope{Type: Note, Text: text}
}

// Marshal serializes the envelope once, for fan-out to many recipients.
func (e Envelope) Marshal() []byte {
	data, err := json.Marshal(e)
	if err != nil {
		// Envelope is a flat struct of strings, this can't happen.
		panic(err)
	}
	return data
}
