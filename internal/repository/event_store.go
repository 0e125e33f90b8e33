package repository

import (
	"time"

	"gorm.io/gorm"
)

// Event kinds recorded in the audit log.
const (
	EventCommandReceived  = "command_received"
	EventReplySent        = "reply_sent"
	EventSubscribed       = "subscribed"
	EventNotificationSent = "notification_sent"
	EventTopicDeleted     = "topic_deleted"
)

// NotifierEvent is one append-only audit record. The pipeline never reads
// these back; subscription state lives solely in the topic registry.
type NotifierEvent struct {
	ID        uint   `gorm:"primaryKey"`
	Kind      string `gorm:"index"`
	StoreID   string
	Phone     string
	Detail    string
	CreatedAt time.Time
}

// EventStore appends audit events to Postgres. A nil store disables logging,
// so callers never need to branch on whether a database is configured.
type EventStore struct {
	db *gorm.DB
}

// NewEventStore creates a new EventStore.
func NewEventStore(db *gorm.DB) *EventStore {
	// Auto-migrate the schema
	db.AutoMigrate(&NotifierEvent{})
	return &EventStore{db: db}
}

// Record appends one event. Best-effort: errors are returned for logging but
// must never abort the calling operation.
func (s *EventStore) Record(kind, storeID, phone, detail string) error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Create(&NotifierEvent{
		Kind:    kind,
		StoreID: storeID,
		Phone:   phone,
		Detail:  detail,
	}).Error
}
