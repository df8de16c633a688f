package database

import (
	"fmt"
	"time"
)

// Message direction values.
const (
	DirectionInbound  = "rx"
	DirectionOutbound = "tx"
)

// ASMRecord is one completed ASM message as it crossed the presentation
// interface, stored after reassembly.
type ASMRecord struct {
	ID                 uint      `gorm:"primarykey" json:"id"`
	Direction          string    `gorm:"index;size:2" json:"direction"`
	TalkerID           string    `gorm:"size:3" json:"talker_id"`
	Channel            int       `json:"channel"`
	SourceID           string    `gorm:"index;size:10" json:"source_id"`
	TransmissionFormat int       `json:"transmission_format"`
	PayloadHex         string    `json:"payload_hex"`
	PayloadBits        int       `json:"payload_bits"`
	SentenceCount      int       `json:"sentence_count"`
	ReceivedAt         time.Time `gorm:"index" json:"received_at"`
}

// TableName specifies the table name for GORM
func (ASMRecord) TableName() string {
	return "asm_messages"
}

// IsValid checks that the record has required fields
func (r ASMRecord) IsValid() bool {
	return (r.Direction == DirectionInbound || r.Direction == DirectionOutbound) &&
		r.SentenceCount > 0 && r.PayloadBits >= 0
}

// String returns a formatted string representation
func (r ASMRecord) String() string {
	src := r.SourceID
	if src == "" {
		src = "-"
	}
	return fmt.Sprintf("%s %s ch%d src=%s %d bits in %d sentence(s)",
		r.Direction, r.TalkerID, r.Channel, src, r.PayloadBits, r.SentenceCount)
}
