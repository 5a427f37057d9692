package domain

// User Model
type User struct {
	ID           uint   `gorm:"primaryKey" json:"id"`                       // Primary key
	Name         string `gorm:"size:191;not null" json:"name"`              // Display name
	Email        string `gorm:"size:191;uniqueIndex;not null" json:"email"` // Unique, stored trimmed and lower case
	PasswordHash string `gorm:"not null" json:"-"`                          // bcrypt hash, never serialized
	Role         Role   `gorm:"size:32;not null" json:"role"`               // ADMIN, VOLUNTEER or PARTICIPANT
	DateAdded    string `gorm:"size:32;not null" json:"dateAdded"`          // Human readable creation date
}
