package service

import (
	"context" // Request scoped storage calls
	"errors"  // Error matching
	"fmt"     // Error wrapping
	"strings" // Input trimming
	"time"    // Creation dates

	"kindred/internal/domain" // Importing domain models

	"golang.org/x/crypto/bcrypt" // Password hashing
	"gorm.io/gorm"               // GORM ORM library
)

// CreateUserInput is the payload for creating an account
type CreateUserInput struct {
	Name     string // Display name
	Email    string // Login email
	Password string // Plain text password, hashed before storage
	Role     string // ADMIN, VOLUNTEER or PARTICIPANT
}

// UpdateUserInput is the payload for editing an account; an empty Password keeps the current one
type UpdateUserInput struct {
	Name     string // Display name
	Email    string // New login email
	Role     string // VOLUNTEER or PARTICIPANT
	Password string // Optional new password
}

// maxPasswordBytes is the longest input bcrypt accepts
const maxPasswordBytes = 72

// UserService manages staff, volunteer and guardian accounts
type UserService struct {
	db        *gorm.DB         // Credential store
	cost      int              // bcrypt cost
	dummyHash []byte           // Compared against on unknown emails so timing matches a real check
	now       func() time.Time // Clock
}

// NewUserService returns a user service hashing passwords with the given bcrypt cost
func NewUserService(db *gorm.DB, bcryptCost int) (*UserService, error) {
	dummy, err := bcrypt.GenerateFromPassword([]byte("kindred-timing-guard"), bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("prepare timing hash: %w", err)
	}
	return &UserService{db: db, cost: bcryptCost, dummyHash: dummy, now: time.Now}, nil
}

// Login verifies credentials and returns the matching user.
// Unknown emails and wrong passwords fail with the same error.
func (s *UserService) Login(ctx context.Context, email, password string) (*domain.User, error) {
	email = NormalizeEmail(email)
	if email == "" || password == "" {
		return nil, validation("Email and password are required.")
	}
	var user domain.User
	err := s.db.WithContext(ctx).Where("email = ?", email).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		_ = bcrypt.CompareHashAndPassword(s.dummyHash, []byte(password)) // Same work as a real check
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	return &user, nil
}

// List returns every account, newest first
func (s *UserService) List(ctx context.Context) ([]domain.User, error) {
	var users []domain.User
	if err := s.db.WithContext(ctx).Order("id desc").Find(&users).Error; err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return users, nil
}

// Create adds an account after checking the email is free
func (s *UserService) Create(ctx context.Context, in CreateUserInput) (*domain.User, error) {
	name := strings.TrimSpace(in.Name)
	email := NormalizeEmail(in.Email)
	if name == "" || email == "" || in.Password == "" || strings.TrimSpace(in.Role) == "" {
		return nil, validation("All user fields are required.")
	}
	role, err := domain.ParseRole(in.Role)
	if err != nil {
		return nil, validation("Role must be ADMIN, VOLUNTEER or PARTICIPANT.")
	}
	if err := checkPasswordLength(in.Password); err != nil {
		return nil, err
	}
	taken, err := s.emailTaken(ctx, email, 0)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, duplicateEmail(email)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.cost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	user := domain.User{
		Name:         name,                     // Display name
		Email:        email,                    // Normalized email
		PasswordHash: string(hash),             // bcrypt hash
		Role:         role,                     // Parsed role
		DateAdded:    formatDateAdded(s.now()), // Creation date
	}
	// The unique index on email is the real guard; the check above only covers the common case
	if err := s.db.WithContext(ctx).Create(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, duplicateEmail(email)
		}
		return nil, fmt.Errorf("create user: %w", err)
	}
	return &user, nil
}

// Update edits a volunteer or guardian account identified by its current email
func (s *UserService) Update(ctx context.Context, originalEmail string, in UpdateUserInput) error {
	original := NormalizeEmail(originalEmail)
	name := strings.TrimSpace(in.Name)
	email := NormalizeEmail(in.Email)
	password := strings.TrimSpace(in.Password)
	if name == "" || email == "" || strings.TrimSpace(in.Role) == "" {
		return validation("Name, email, and role are required.")
	}
	role, err := domain.ParseRole(in.Role)
	if err != nil || !role.Editable() {
		return validation("Only volunteer and participant/guardian roles can be edited here.")
	}
	if err := checkPasswordLength(password); err != nil {
		return err
	}
	var existing domain.User
	err = s.db.WithContext(ctx).Where("email = ?", original).First(&existing).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrUserNotFound
	}
	if err != nil {
		return fmt.Errorf("find user: %w", err)
	}
	// Administrator rows are only changed through direct store access
	if existing.Role.IsAdmin() {
		return ErrAdminImmutable
	}
	if email != existing.Email {
		taken, err := s.emailTaken(ctx, email, existing.ID)
		if err != nil {
			return err
		}
		if taken {
			return duplicateEmail(email)
		}
	}
	updates := map[string]any{
		"name":  name,         // Display name
		"email": email,        // Normalized email
		"role":  string(role), // Volunteer or participant
	}
	if password != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
		if err != nil {
			return fmt.Errorf("hash password: %w", err)
		}
		updates["password_hash"] = string(hash) // Rehash only when a new password was supplied
	}
	if err := s.db.WithContext(ctx).Model(&domain.User{}).Where("id = ?", existing.ID).Updates(updates).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return duplicateEmail(email)
		}
		return fmt.Errorf("update user: %w", err)
	}
	return nil
}

// Remove deletes the account with the given email; callers cannot remove themselves
func (s *UserService) Remove(ctx context.Context, callerEmail, email string) error {
	target := NormalizeEmail(email)
	if target == "" {
		return validation("Email is required.")
	}
	if NormalizeEmail(callerEmail) == target {
		return ErrSelfDeletion
	}
	res := s.db.WithContext(ctx).Where("email = ?", target).Delete(&domain.User{})
	if res.Error != nil {
		return fmt.Errorf("delete user: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrUserNotFound
	}
	return nil
}

// SeedAdmin creates the initial administrator when no accounts exist yet.
// It reports whether an account was created.
func (s *UserService) SeedAdmin(ctx context.Context, name, email, password string) (bool, error) {
	var count int64
	if err := s.db.WithContext(ctx).Model(&domain.User{}).Count(&count).Error; err != nil {
		return false, fmt.Errorf("count users: %w", err)
	}
	if count > 0 {
		return false, nil
	}
	if _, err := s.Create(ctx, CreateUserInput{Name: name, Email: email, Password: password, Role: string(domain.RoleAdmin)}); err != nil {
		return false, err
	}
	return true, nil
}

// emailTaken reports whether another account already uses the email
func (s *UserService) emailTaken(ctx context.Context, email string, exceptID uint) (bool, error) {
	var count int64
	q := s.db.WithContext(ctx).Model(&domain.User{}).Where("email = ?", email)
	if exceptID != 0 {
		q = q.Where("id <> ?", exceptID)
	}
	if err := q.Count(&count).Error; err != nil {
		return false, fmt.Errorf("check email: %w", err)
	}
	return count > 0, nil
}

// duplicateEmail names the colliding email in the conflict message
func duplicateEmail(email string) *Error {
	return ErrDuplicateEmail.withMessage("An account for %s already exists.", email)
}

// checkPasswordLength rejects passwords bcrypt cannot hash; the limit is in bytes, not characters
func checkPasswordLength(password string) error {
	if len(password) > maxPasswordBytes {
		return validation("Password must be at most 72 bytes.")
	}
	return nil
}
