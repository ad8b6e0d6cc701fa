package comms

import (
	"encoding/json"
	"io"
	"sync"
)

// Request holds a Message and the reply channel of a connected client.
type Request struct {
	ConnChannel chan Message
	PlayerID    string
	Message     Message
}

// Error replies to the requesting client with an ErrorResponse.
func (r Request) Error(reason string, err error) {
	if err != nil {
		reason = reason + ": " + err.Error()
	}
	r.ConnChannel <- ToMessage(ErrorResponse{Reason: reason})
}

// ConnectionWrapper wraps a client connection. Messages queued on
// WriteChannel are delivered to the client by Pump.
type ConnectionWrapper struct {
	WriteChannel chan Message
	PlayerID     string

	decoder *json.Decoder
	encoder *json.Encoder
	mu      *sync.Mutex // shared by connections writing to the same stream
}

// NewConnection returns a connection with no underlying stream; messages
// stay on WriteChannel for the owner to consume.
func NewConnection(playerID string, buffer int) *ConnectionWrapper {
	return &ConnectionWrapper{
		WriteChannel: make(chan Message, buffer),
		PlayerID:     playerID,
	}
}

// NewStreamConnection returns a connection that reads JSON messages from r and
// writes them as JSON lines to w.
func NewStreamConnection(playerID string, r io.Reader, w io.Writer, buffer int) *ConnectionWrapper {
	c := NewConnection(playerID, buffer)
	if r != nil {
		c.decoder = json.NewDecoder(r)
	}
	if w != nil {
		c.encoder = json.NewEncoder(w)
		c.mu = &sync.Mutex{}
	}
	return c
}

// ShareWriter makes c write to the same stream as other, serialising writes.
func (c *ConnectionWrapper) ShareWriter(other *ConnectionWrapper) {
	c.encoder = other.encoder
	c.mu = other.mu
}

// ReadMessage decodes the next message from the stream.
func (c *ConnectionWrapper) ReadMessage(v interface{}) error {
	if c.decoder == nil {
		return io.EOF
	}
	return c.decoder.Decode(v)
}

// WriteMessage encodes a message to the stream.
func (c *ConnectionWrapper) WriteMessage(message Message) error {
	if c.encoder == nil {
		return io.ErrClosedPipe
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.encoder.Encode(outgoing{PlayerID: c.PlayerID, Message: message})
}

// Pump writes every queued message to the stream until WriteChannel is
// closed or a CloseConnectionRequest is seen.
func (c *ConnectionWrapper) Pump() error {
	for message := range c.WriteChannel {
		if message.Type == "CloseConnectionRequest" {
			return nil
		}
		if err := c.WriteMessage(message); err != nil {
			return err
		}
	}
	return nil
}

func (c *ConnectionWrapper) Close() {
	c.WriteChannel <- Message{Type: "CloseConnectionRequest"}
}

type outgoing struct {
	PlayerID string `json:"playerID,omitempty"`
	Message
}
