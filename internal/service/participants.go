package service

import (
	"context"       // Request scoped storage calls
	"crypto/sha256" // Identity key digest
	"encoding/hex"  // Digest encoding
	"errors"        // Error matching
	"fmt"           // Error wrapping
	"math"          // Age validation
	"strings"       // Input trimming
	"time"          // Creation timestamps

	"kindred/internal/domain" // Importing domain models

	"golang.org/x/text/cases" // Unicode case folding for the identity key
	"gorm.io/gorm"            // GORM ORM library
)

// ParticipantInput is the admin-managed part of a participant record
type ParticipantInput struct {
	FirstName    string   // Required
	LastName     string   // Required
	Age          *float64 // Required, finite
	Guardian     string   // Required
	ContactEmail string   // Required, stored lower case
	ContactPhone string   // Required
	SpecialNeeds string   // Required
	Notes        string   // Optional
}

// ProfileInput is the guardian-managed part of a participant record
type ProfileInput struct {
	Interests      string // Free text
	Capabilities   string // Free text
	HealthConcerns string // Free text
}

// ParticipantService manages participant records
type ParticipantService struct {
	db  *gorm.DB         // Record store
	now func() time.Time // Clock
}

// NewParticipantService returns a participant service backed by db
func NewParticipantService(db *gorm.DB) *ParticipantService {
	return &ParticipantService{db: db, now: time.Now}
}

// List returns every participant, most recently created first
func (s *ParticipantService) List(ctx context.Context) ([]domain.Participant, error) {
	var participants []domain.Participant
	if err := s.db.WithContext(ctx).Order("created_at_ms desc").Order("id desc").Find(&participants).Error; err != nil {
		return nil, fmt.Errorf("list participants: %w", err)
	}
	return participants, nil
}

// Create adds a participant unless one with the same identity already exists
func (s *ParticipantService) Create(ctx context.Context, in ParticipantInput) (*domain.Participant, error) {
	p, err := in.toParticipant()
	if err != nil {
		return nil, err
	}
	dup, err := s.identityTaken(ctx, p.IdentityKey, 0)
	if err != nil {
		return nil, err
	}
	if dup {
		return nil, ErrDuplicateParticipant
	}
	now := s.now()
	p.CreatedAtMs = now.UnixMilli()    // Ordering key
	p.DateAdded = formatDateAdded(now) // Display date
	// The unique index on identity_key is the real guard against concurrent inserts
	if err := s.db.WithContext(ctx).Create(&p).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrDuplicateParticipant
		}
		return nil, fmt.Errorf("create participant: %w", err)
	}
	return &p, nil
}

// Update replaces the admin-managed fields of a participant
func (s *ParticipantService) Update(ctx context.Context, id uint, in ParticipantInput) error {
	p, err := in.toParticipant()
	if err != nil {
		return err
	}
	if _, err := s.find(ctx, id); err != nil {
		return err
	}
	dup, err := s.identityTaken(ctx, p.IdentityKey, id)
	if err != nil {
		return err
	}
	if dup {
		return ErrDuplicateParticipant
	}
	updates := map[string]any{
		"first_name":    p.FirstName,
		"last_name":     p.LastName,
		"age":           p.Age,
		"guardian":      p.Guardian,
		"contact_email": p.ContactEmail,
		"contact_phone": p.ContactPhone,
		"special_needs": p.SpecialNeeds,
		"notes":         p.Notes,
		"identity_key":  p.IdentityKey,
	}
	if err := s.db.WithContext(ctx).Model(&domain.Participant{}).Where("id = ?", id).Updates(updates).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrDuplicateParticipant
		}
		return fmt.Errorf("update participant: %w", err)
	}
	return nil
}

// Remove deletes a participant by id
func (s *ParticipantService) Remove(ctx context.Context, id uint) error {
	res := s.db.WithContext(ctx).Delete(&domain.Participant{}, id)
	if res.Error != nil {
		return fmt.Errorf("delete participant: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrParticipantNotFound
	}
	return nil
}

// GetOwnProfile returns the participant whose contact email is the caller's email, or nil when there is none
func (s *ParticipantService) GetOwnProfile(ctx context.Context, callerEmail string) (*domain.Participant, error) {
	p, err := s.findByContactEmail(ctx, callerEmail)
	if errors.Is(err, ErrProfileNotFound) {
		return nil, nil
	}
	return p, err
}

// UpdateOwnProfile changes only the guardian-managed fields of the caller's participant
func (s *ParticipantService) UpdateOwnProfile(ctx context.Context, callerEmail string, in ProfileInput) error {
	p, err := s.findByContactEmail(ctx, callerEmail)
	if err != nil {
		return err
	}
	updates := map[string]any{
		"interests":       strings.TrimSpace(in.Interests),
		"capabilities":    strings.TrimSpace(in.Capabilities),
		"health_concerns": strings.TrimSpace(in.HealthConcerns),
	}
	if err := s.db.WithContext(ctx).Model(&domain.Participant{}).Where("id = ?", p.ID).Updates(updates).Error; err != nil {
		return fmt.Errorf("update participant profile: %w", err)
	}
	return nil
}

// find loads a participant by id
func (s *ParticipantService) find(ctx context.Context, id uint) (*domain.Participant, error) {
	var p domain.Participant
	err := s.db.WithContext(ctx).First(&p, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrParticipantNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find participant: %w", err)
	}
	return &p, nil
}

// findByContactEmail loads the oldest participant listing the email as its contact
func (s *ParticipantService) findByContactEmail(ctx context.Context, email string) (*domain.Participant, error) {
	email = NormalizeEmail(email)
	if email == "" {
		return nil, ErrProfileNotFound
	}
	var p domain.Participant
	err := s.db.WithContext(ctx).Where("contact_email = ?", email).First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrProfileNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find participant profile: %w", err)
	}
	return &p, nil
}

// identityTaken reports whether another participant has the same identity key
func (s *ParticipantService) identityTaken(ctx context.Context, key string, exceptID uint) (bool, error) {
	var count int64
	q := s.db.WithContext(ctx).Model(&domain.Participant{}).Where("identity_key = ?", key)
	if exceptID != 0 {
		q = q.Where("id <> ?", exceptID)
	}
	if err := q.Count(&count).Error; err != nil {
		return false, fmt.Errorf("check participant identity: %w", err)
	}
	return count > 0, nil
}

// toParticipant validates and normalizes the input
func (in ParticipantInput) toParticipant() (domain.Participant, error) {
	p := domain.Participant{
		FirstName:    strings.TrimSpace(in.FirstName),
		LastName:     strings.TrimSpace(in.LastName),
		Guardian:     strings.TrimSpace(in.Guardian),
		ContactEmail: NormalizeEmail(in.ContactEmail),
		ContactPhone: strings.TrimSpace(in.ContactPhone),
		SpecialNeeds: strings.TrimSpace(in.SpecialNeeds),
		Notes:        strings.TrimSpace(in.Notes),
	}
	if p.FirstName == "" || p.LastName == "" || p.Guardian == "" || p.ContactEmail == "" ||
		p.ContactPhone == "" || p.SpecialNeeds == "" || in.Age == nil || math.IsNaN(*in.Age) || math.IsInf(*in.Age, 0) {
		return p, validation("All required participant fields must be provided.")
	}
	if *in.Age < 0 || *in.Age > math.MaxInt32 {
		return p, validation("Age must be a non-negative number.")
	}
	p.Age = int(*in.Age)
	p.IdentityKey = IdentityKey(p.FirstName, p.LastName, p.Guardian, p.ContactEmail)
	return p, nil
}

// IdentityKey digests the case-folded (firstName, lastName, guardian, contactEmail) tuple.
// Two participants with equal keys are the same person.
func IdentityKey(firstName, lastName, guardian, contactEmail string) string {
	fold := cases.Fold()
	h := sha256.New()
	for _, part := range []string{firstName, lastName, guardian, contactEmail} {
		h.Write([]byte(fold.String(strings.TrimSpace(part))))
		h.Write([]byte{0}) // Separator so ("ab","c") and ("a","bc") differ
	}
	return hex.EncodeToString(h.Sum(nil))
}
