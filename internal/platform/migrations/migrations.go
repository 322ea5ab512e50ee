package migrations

import (
	"time"

	"gorm.io/gorm"
)

// Run applies the schema for the bounded contexts. Intended to replace adapter-level automigrate.
func Run(db *gorm.DB) error {
	if db == nil {
		return nil
	}
	if err := db.Exec(`CREATE EXTENSION IF NOT EXISTS pgcrypto`).Error; err != nil {
		return err
	}
	return db.AutoMigrate(&userRecord{})
}

// User schema mirrors the users Postgres adapter. The unique email index is the
// store-level guarantee behind duplicate-email rejection.
type userRecord struct {
	ID          string    `gorm:"primaryKey;column:id;type:uuid;default:gen_random_uuid()"`
	FirstName   string    `gorm:"column:first_name;not null"`
	LastName    string    `gorm:"column:last_name;not null"`
	Email       string    `gorm:"column:email;not null;uniqueIndex:idx_users_email"`
	DateCreated time.Time `gorm:"column:date_created;not null;index:idx_users_date_created"`
}

func (userRecord) TableName() string { return "users" }
