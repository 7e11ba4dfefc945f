package amqp

import (
	"encoding/json"
	"time"
)

// EntrySyncMessage asks the worker to export one entry to the spreadsheet.
// It carries only the entry ID; the worker fetches the row from the database
// so the queue never holds stale copies of the data.
type EntrySyncMessage struct {
	ID        string    `json:"id"`
	Timestamp time.Time `json:"timestamp"`
}

func NewEntrySyncMessage(id string) *EntrySyncMessage {
	return &EntrySyncMessage{
		ID:        id,
		Timestamp: time.Now(),
	}
}

func (m *EntrySyncMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func EntrySyncMessageFromJSON(data []byte) (*EntrySyncMessage, error) {
	var msg EntrySyncMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	if msg.ID == "" {
		return nil, errEmptyMessageID
	}
	return &msg, nil
}
