package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/herblink/herblink-backend/pkg/enums"
)

// User represents either a practitioner or a supplier. The role never changes
// after creation.
type User struct {
	ID            uuid.UUID      `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Email         string         `gorm:"column:email;type:text;not null;uniqueIndex"`
	PasswordHash  string         `gorm:"column:password_hash;not null"`
	Name          string         `gorm:"column:name;not null"`
	Role          enums.UserRole `gorm:"column:role;type:text;not null"`
	Phone         *string        `gorm:"column:phone"`
	Address       *string        `gorm:"column:address"`
	LicenseNumber *string        `gorm:"column:license_number"`
	CreatedAt     time.Time      `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time      `gorm:"column:updated_at;autoUpdateTime"`
}
