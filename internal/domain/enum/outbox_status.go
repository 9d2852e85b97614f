package enum

import (
	"database/sql/driver"
)

// OutboxStatus tracks delivery of an outbox event to the broker.
type OutboxStatus string

const (
	OutboxStatusPending    OutboxStatus = "pending"
	OutboxStatusProcessing OutboxStatus = "processing"
	OutboxStatusProcessed  OutboxStatus = "processed"
)

func (s OutboxStatus) String() string {
	return string(s)
}

func (s OutboxStatus) Value() (driver.Value, error) {
	return string(s), nil
}

func (s *OutboxStatus) Scan(value interface{}) error {
	switch v := value.(type) {
	case string:
		*s = OutboxStatus(v)
	case []byte:
		*s = OutboxStatus(string(v))
	case nil:
		*s = OutboxStatusPending
	}
	return nil
}
