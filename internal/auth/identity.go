package auth

import (
	"context"
	"errors"
	"net/mail"
	"strings"

	"github.com/petermazzocco/go-activities/internal/resource"
	"github.com/petermazzocco/go-activities/models"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const minPasswordLength = 6

var (
	ErrAlreadyRegistered  = errors.New("User already registered")
	ErrInvalidCredentials = errors.New("Invalid login credentials")
)

type SignUpInput struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type SignInInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Identity is the password and OAuth identity provider backed by the users table.
type Identity struct {
	db   *gorm.DB
	cost int
}

func NewIdentity(db *gorm.DB) *Identity {
	return &Identity{db: db, cost: bcrypt.DefaultCost}
}

func (i *Identity) SignUp(ctx context.Context, in SignUpInput) (*models.User, error) {
	name := strings.TrimSpace(in.Name)
	email := normalizeEmail(in.Email)

	var fields []resource.FieldError
	if name == "" {
		fields = append(fields, resource.FieldError{Field: "name", Message: "Display name is required"})
	}
	if !validEmail(email) {
		fields = append(fields, resource.FieldError{Field: "email", Message: "Invalid email address"})
	}
	if len(in.Password) < minPasswordLength {
		fields = append(fields, resource.FieldError{Field: "password", Message: "Password must be at least 6 characters"})
	}
	if len(fields) > 0 {
		return nil, &resource.ValidationError{Fields: fields}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), i.cost)
	if err != nil {
		return nil, &resource.UpstreamError{Message: "Failed to create account", Err: err}
	}

	user := &models.User{Email: email, Name: name, PasswordHash: string(hash)}
	if err := i.db.WithContext(ctx).Create(user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrAlreadyRegistered
		}
		return nil, &resource.UpstreamError{Message: "Failed to create account", Err: err}
	}
	return user, nil
}

func (i *Identity) SignIn(ctx context.Context, in SignInInput) (*models.User, error) {
	email := normalizeEmail(in.Email)

	var fields []resource.FieldError
	if !validEmail(email) {
		fields = append(fields, resource.FieldError{Field: "email", Message: "Invalid email address"})
	}
	if in.Password == "" {
		fields = append(fields, resource.FieldError{Field: "password", Message: "Password is required"})
	}
	if len(fields) > 0 {
		return nil, &resource.ValidationError{Fields: fields}
	}

	var user models.User
	err := i.db.WithContext(ctx).Where("email = ?", email).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, &resource.UpstreamError{Message: "Failed to sign in", Err: err}
	}
	// OAuth-only accounts have no password to check against.
	if user.PasswordHash == "" {
		return nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	return &user, nil
}

// FromProvider finds the user with email or creates one. It backs the OAuth
// callback.
func (i *Identity) FromProvider(ctx context.Context, email, name string) (*models.User, error) {
	email = normalizeEmail(email)
	if !validEmail(email) {
		return nil, &resource.ValidationError{Fields: []resource.FieldError{{Field: "email", Message: "Invalid email address"}}}
	}

	user := models.User{Email: email, Name: strings.TrimSpace(name)}
	err := i.db.WithContext(ctx).Where(models.User{Email: email}).FirstOrCreate(&user).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		err = i.db.WithContext(ctx).Where("email = ?", email).First(&user).Error
	}
	if err != nil {
		return nil, &resource.UpstreamError{Message: "Failed to create user", Err: err}
	}
	return &user, nil
}

// Exists reports whether a user row with id is present.
func (i *Identity) Exists(ctx context.Context, id string) (bool, error) {
	var n int64
	if err := i.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", id).Count(&n).Error; err != nil {
		return false, err
	}
	return n > 0, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func validEmail(email string) bool {
	addr, err := mail.ParseAddress(email)
	return err == nil && addr.Address == email && strings.Contains(email, "@")
}
