package nav

import (
	"encoding/json"
	"fmt"
	"time"
)

// MessageType identifies the type of WebSocket frame exchanged with the
// navigation server.
type MessageType string

const (
	// Coordinator → server
	TypeGoal      MessageType = "goal"       // Dispatch a navigation goal
	TypeCancelAll MessageType = "cancel_all" // Abandon all active goals

	// Server → coordinator
	TypeStatus MessageType = "status" // Goal state change
)

// Message is the base wrapper for all frames on the goal channel.
type Message struct {
	Type      MessageType     `json:"type"`
	Timestamp int64           `json:"ts,omitempty"` // Unix milliseconds
	Data      json.RawMessage `json:"data,omitempty"`
}

// StatusData is the payload of a TypeStatus message.
type StatusData struct {
	GoalID string `json:"goal_id"`
	State  State  `json:"state"`
}

// NewMessage creates a new message with the current timestamp.
func NewMessage(msgType MessageType, data interface{}) (*Message, error) {
	var rawData json.RawMessage
	if data != nil {
		var err error
		rawData, err = json.Marshal(data)
		if err != nil {
			return nil, fmt.Errorf("marshal message data: %w", err)
		}
	}

	return &Message{
		Type:      msgType,
		Timestamp: time.Now().UnixMilli(),
		Data:      rawData,
	}, nil
}

// ParseData unmarshals the message data into the provided struct.
func (m *Message) ParseData(v interface{}) error {
	if m.Data == nil {
		return nil
	}
	return json.Unmarshal(m.Data, v)
}

// Bytes returns the JSON-encoded message.
func (m *Message) Bytes() ([]byte, error) {
	return json.Marshal(m)
}

// ParseMessage parses a JSON message from bytes.
func ParseMessage(data []byte) (*Message, error) {
	var msg Message
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, fmt.Errorf("parse message: %w", err)
	}
	return &msg, nil
}
