package journal

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"tradecore/internal/codec"
	"tradecore/pkg/exception"
)

// Direction tells whether a frame was sent to or received from the broker.
type Direction string

const (
	Outbound Direction = "OUT"
	Inbound  Direction = "IN"
)

func (d Direction) IsAvailable() bool {
	return d == Outbound || d == Inbound
}

const replayBatchSize = 256

// Frame is one journaled wire message. Payload holds the bytes exactly as
// they crossed the wire; the other columns are copied from its header.
type Frame struct {
	Seq       uint64    `gorm:"column:seq;primaryKey;autoIncrement"`
	Direction Direction `gorm:"column:direction;size:3;not null"`
	Type      string    `gorm:"column:type;size:16;not null"`
	Variant   string    `gorm:"column:variant;size:64;not null;index"`
	MessageID string    `gorm:"column:message_id;size:36;not null;index"`
	Timestamp time.Time `gorm:"column:timestamp;not null"`
	Payload   []byte    `gorm:"column:payload;not null"`
	CreatedAt time.Time `gorm:"column:created_at"`
}

func (Frame) TableName() string {
	return "wire_frames"
}

// Journal appends wire frames to a database and replays them in the order
// they were appended.
type Journal struct {
	db *gorm.DB
}

// New migrates the frame table and returns a journal over db.
func New(db *gorm.DB) (*Journal, error) {
	if db == nil {
		return nil, exception.ErrJournalNilDB
	}
	if err := db.AutoMigrate(&Frame{}); err != nil {
		return nil, fmt.Errorf("journal: migrate: %w", err)
	}
	return &Journal{db: db}, nil
}

// Append stores payload. Frames whose header cannot be read are refused.
func (j *Journal) Append(ctx context.Context, dir Direction, payload []byte) (Frame, error) {
	if !dir.IsAvailable() {
		return Frame{}, fmt.Errorf("%w: direction %q", exception.ErrJournalInvalidRecord, dir)
	}
	h, err := codec.PeekHeader(payload)
	if err != nil {
		return Frame{}, fmt.Errorf("%w: %w", exception.ErrJournalInvalidRecord, err)
	}

	f := Frame{
		Direction: dir,
		Type:      h.Type,
		Variant:   h.Variant,
		MessageID: h.ID.String(),
		Timestamp: h.Timestamp,
		Payload:   append([]byte(nil), payload...),
	}
	if err := j.db.WithContext(ctx).Create(&f).Error; err != nil {
		return Frame{}, fmt.Errorf("journal: append: %w", err)
	}
	return f, nil
}

// Replay calls fn for every frame in append order and stops at the first
// error fn returns.
func (j *Journal) Replay(ctx context.Context, fn func(Frame) error) error {
	var batch []Frame
	res := j.db.WithContext(ctx).FindInBatches(&batch, replayBatchSize, func(*gorm.DB, int) error {
		for _, f := range batch {
			if err := fn(f); err != nil {
				return err
			}
		}
		return nil
	})
	return res.Error
}

// Count returns the number of journaled frames.
func (j *Journal) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := j.db.WithContext(ctx).Model(&Frame{}).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("journal: count: %w", err)
	}
	return n, nil
}
