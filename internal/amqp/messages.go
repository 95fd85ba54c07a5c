package amqp

import (
	"encoding/json"
	"time"
)

// CategoryCreatedMessage announces a newly created category. It carries the
// full category payload so the plan sync worker never has to read the
// database just to decide whether a plan needs a new group.
type CategoryCreatedMessage struct {
	CategoryID string    `json:"categoryId"`
	Name       string    `json:"name"`
	Kind       string    `json:"kind"`
	Group      string    `json:"group"`
	Bucket     string    `json:"bucket"`
	Timestamp  time.Time `json:"timestamp"`
}

func NewCategoryCreatedMessage(id, name, kind, group, bucket string) *CategoryCreatedMessage {
	return &CategoryCreatedMessage{
		CategoryID: id,
		Name:       name,
		Kind:       kind,
		Group:      group,
		Bucket:     bucket,
		Timestamp:  time.Now(),
	}
}

func (m *CategoryCreatedMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func CategoryCreatedMessageFromJSON(data []byte) (*CategoryCreatedMessage, error) {
	var msg CategoryCreatedMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
