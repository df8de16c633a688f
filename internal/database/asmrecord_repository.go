package database

import (
	"fmt"
	"time"

	"gorm.io/gorm"
)

// ASMRecordRepository provides database operations for the message log
type ASMRecordRepository struct {
	db *gorm.DB
}

// NewASMRecordRepository creates a new repository instance
func NewASMRecordRepository(db *gorm.DB) *ASMRecordRepository {
	return &ASMRecordRepository{db: db}
}

// Insert stores one completed message
func (r *ASMRecordRepository) Insert(record *ASMRecord) error {
	if record == nil {
		return fmt.Errorf("record cannot be nil")
	}
	if !record.IsValid() {
		return fmt.Errorf("record is not valid: direction=%q, sentences=%d",
			record.Direction, record.SentenceCount)
	}
	if record.ReceivedAt.IsZero() {
		record.ReceivedAt = time.Now()
	}
	return r.db.Create(record).Error
}

// Recent returns the most recent messages, newest first
func (r *ASMRecordRepository) Recent(limit int) ([]ASMRecord, error) {
	var records []ASMRecord
	err := r.db.Order("received_at DESC").Limit(limit).Find(&records).Error
	if err != nil {
		return nil, err
	}
	return records, nil
}

// BySource returns messages from one source ID, newest first
func (r *ASMRecordRepository) BySource(sourceID string, limit int) ([]ASMRecord, error) {
	var records []ASMRecord
	err := r.db.Where("source_id = ?", sourceID).
		Order("received_at DESC").Limit(limit).Find(&records).Error
	if err != nil {
		return nil, err
	}
	return records, nil
}

// CountSince returns how many messages arrived after the given time
func (r *ASMRecordRepository) CountSince(t time.Time) (int64, error) {
	var count int64
	err := r.db.Model(&ASMRecord{}).Where("received_at > ?", t).Count(&count).Error
	return count, err
}

// PurgeBefore deletes messages older than the given time and reports how
// many were removed
func (r *ASMRecordRepository) PurgeBefore(t time.Time) (int64, error) {
	result := r.db.Where("received_at < ?", t).Delete(&ASMRecord{})
	return result.RowsAffected, result.Error
}
