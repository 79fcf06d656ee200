package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// SystemLog stores ERROR+ log records so failed provisioning runs can be
// inspected after the fact.
type SystemLog struct {
	ID        uuid.UUID      `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Timestamp time.Time      `gorm:"not null;index" json:"timestamp"`
	Level     string         `gorm:"size:10;not null;index" json:"level"`
	Message   string         `gorm:"type:text" json:"message"`
	Flow      string         `gorm:"size:50;index" json:"flow"`
	Step      string         `gorm:"size:50" json:"step"`
	ClinicID  string         `gorm:"size:64;index" json:"clinic_id"`
	RequestID string         `gorm:"size:36;index" json:"request_id"`
	UID       *string        `gorm:"size:64" json:"uid"`
	Error     string         `gorm:"type:text" json:"error"`
	Extra     datatypes.JSON `gorm:"type:jsonb;default:'{}'" json:"extra"`
	CreatedAt time.Time      `json:"created_at"`
}
