package domain

import "strings"

// Participant Model
type Participant struct {
	ID             uint   `gorm:"primaryKey" json:"id"`                                         // Primary key
	FirstName      string `gorm:"size:191;not null" json:"firstName"`                           // Canonical first name
	LastName       string `gorm:"size:191;not null" json:"lastName"`                            // Canonical last name
	Age            int    `gorm:"not null" json:"age"`                                          // Age in years
	Guardian       string `gorm:"size:191;not null" json:"guardian"`                            // Guardian name
	ContactEmail   string `gorm:"size:191;index;not null" json:"contactEmail"`                  // Lower case, matches the guardian's login email
	ContactPhone   string `gorm:"size:64;not null" json:"contactPhone"`                         // Contact phone
	SpecialNeeds   string `gorm:"type:text;not null" json:"specialNeeds"`                       // Required, may be "none"
	Notes          string `gorm:"type:text" json:"notes"`                                       // Admin notes
	Interests      string `gorm:"type:text" json:"interests"`                                   // Guardian managed
	Capabilities   string `gorm:"type:text" json:"capabilities"`                                // Guardian managed
	HealthConcerns string `gorm:"type:text" json:"healthConcerns"`                              // Guardian managed
	IdentityKey    string `gorm:"size:64;uniqueIndex;not null" json:"-"`                        // Digest of the normalized composite key
	CreatedAtMs    int64  `gorm:"column:created_at_ms;autoCreateTime:milli" json:"createdAtMs"` // Creation time in milliseconds, used for ordering
	DateAdded      string `gorm:"size:32;not null" json:"dateAdded"`                            // Human readable creation date
}

// FullName derives the display name from the canonical first and last names
func (p Participant) FullName() string {
	return strings.TrimSpace(p.FirstName + " " + p.LastName)
}
