package comms

import (
	"reflect"
)

// Messages used in conversation with a client
type Message struct {
	Type     string      `json:"type"`
	Contents interface{} `json:"contents,omitempty"`
}

// Convert message contents into a Message, typed by the contents' Go type name
func ToMessage(contents interface{}) Message {
	t := reflect.TypeOf(contents)
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	return Message{
		Type:     t.Name(),
		Contents: contents,
	}
}

// Error returned to the client
type ErrorResponse struct {
	Reason string `json:"reason"`
}

// Returned when a message's contents do not match its type
type ErrorDecodingMessageResponse struct{}
