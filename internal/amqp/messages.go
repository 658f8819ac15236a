package amqp

import (
	"encoding/json"
	"time"

	"fintrack/internal/notify"
)

// ReminderNotificationMessage carries a rendered reminder notification to
// the delivery worker.
type ReminderNotificationMessage struct {
	notify.Message
	Timestamp time.Time `json:"timestamp"`
}

// NewReminderNotificationMessage stamps msg with the current time.
func NewReminderNotificationMessage(msg notify.Message) *ReminderNotificationMessage {
	return &ReminderNotificationMessage{Message: msg, Timestamp: time.Now()}
}

// ToJSON converts the message to JSON bytes
func (m *ReminderNotificationMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// ReminderNotificationMessageFromJSON decodes a message body.
func ReminderNotificationMessageFromJSON(data []byte) (*ReminderNotificationMessage, error) {
	var msg ReminderNotificationMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
