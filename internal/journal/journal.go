// Package journal stores popped stream events in PostgreSQL.
package journal

import (
	"context"
	"time"

	"github.com/bytedance/sonic"
	"github.com/google/uuid"
	"github.com/yanun0323/errors"
	"gorm.io/gorm"

	"venuestream/internal/model"
	"venuestream/internal/stream"
	"venuestream/pkg/exception"
)

const batchSize = 200

// Entry is one journaled event.
type Entry struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey"`
	EventType  string    `gorm:"size:32;not null;index"`
	Kind       string    `gorm:"size:32;index"`
	Item       string    `gorm:"size:128;index"`
	Payload    *string   `gorm:"type:jsonb"`
	Snapshot   *string   `gorm:"type:jsonb"`
	Error      string    `gorm:"type:text"`
	Fatal      bool      `gorm:"not null;default:false"`
	ReceivedAt time.Time `gorm:"not null;index"`
	CreatedAt  time.Time
}

func (Entry) TableName() string {
	return "stream_events"
}

// Journal appends events to the stream_events table.
type Journal struct {
	db *gorm.DB
}

// Open connects and migrates the schema.
func Open(ctx context.Context, opt Option) (*Journal, error) {
	db, err := openPostgres(opt)
	if err != nil {
		return nil, errors.Wrap(err, "open journal")
	}
	if err := db.WithContext(ctx).AutoMigrate(&Entry{}); err != nil {
		return nil, errors.Wrap(err, "migrate journal")
	}
	return &Journal{db: db}, nil
}

// AppendBatch stores events in order, batchSize rows per statement.
func (j *Journal) AppendBatch(ctx context.Context, events []stream.Event) error {
	if j == nil || j.db == nil {
		return exception.ErrNilInstance
	}
	if len(events) == 0 {
		return nil
	}
	entries := make([]Entry, 0, len(events))
	for _, ev := range events {
		entry, err := entryOf(ev)
		if err != nil {
			return err
		}
		entries = append(entries, entry)
	}
	if err := j.db.WithContext(ctx).CreateInBatches(entries, batchSize).Error; err != nil {
		return errors.Wrap(err, "append journal batch")
	}
	return nil
}

func (j *Journal) Close() error {
	if j == nil || j.db == nil {
		return nil
	}
	sqlDB, err := j.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func entryOf(ev stream.Event) (Entry, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return Entry{}, errors.Wrap(err, "new journal id")
	}

	entry := Entry{
		ID:         id,
		EventType:  ev.Type.String(),
		Item:       ev.Item,
		Fatal:      ev.Fatal,
		ReceivedAt: ev.ReceivedAt.UTC(),
	}
	if entry.ReceivedAt.IsZero() {
		entry.ReceivedAt = time.Now().UTC()
	}
	if ev.Kind.IsAvailable() {
		entry.Kind = ev.Kind.String()
	}
	if ev.Err != nil {
		entry.Error = ev.Err.Error()
	}
	if entry.Payload, err = encode(ev.Payload); err != nil {
		return Entry{}, err
	}
	if entry.Snapshot, err = encode(ev.Snapshot); err != nil {
		return Entry{}, err
	}
	return entry, nil
}

func encode(rec model.Record) (*string, error) {
	if rec == nil {
		return nil, nil
	}
	s, err := sonic.MarshalString(rec)
	if err != nil {
		return nil, errors.Wrap(err, "encode "+rec.Kind().String())
	}
	return &s, nil
}
