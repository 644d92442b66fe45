package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Base carries the uuid primary key and timestamps shared by every table.
type Base struct {
	ID        string    `json:"id" gorm:"type:uuid;primaryKey"`
	CreatedAt time.Time `json:"createdAt" gorm:"not null;index"`
	UpdatedAt time.Time `json:"updatedAt" gorm:"not null"`
}

func (b *Base) BeforeCreate(tx *gorm.DB) error {
	if b.ID == "" {
		b.ID = uuid.NewString()
	}
	return nil
}

type User struct {
	Base
	Email        string `json:"email" gorm:"size:255;not null;unique"`
	Name         string `json:"name" gorm:"size:255"`
	PasswordHash string `json:"-" gorm:"size:255"`

	Todos      []Todo      `json:"-" gorm:"constraint:OnDelete:CASCADE;"`
	Photos     []Photo     `json:"-" gorm:"constraint:OnDelete:CASCADE;"`
	FoodPhotos []FoodPhoto `json:"-" gorm:"constraint:OnDelete:CASCADE;"`
	Pokemon    []Pokemon   `json:"-" gorm:"constraint:OnDelete:CASCADE;"`
	Notes      []Note      `json:"-" gorm:"constraint:OnDelete:CASCADE;"`
}

type Priority string

const (
	PriorityLow    Priority = "LOW"
	PriorityMedium Priority = "MEDIUM"
	PriorityHigh   Priority = "HIGH"
)

// Priorities lists every accepted priority in ascending order.
var Priorities = []Priority{PriorityLow, PriorityMedium, PriorityHigh}

type Todo struct {
	Base
	UserID    string   `json:"userId" gorm:"type:uuid;not null;index"`
	Title     string   `json:"title" gorm:"size:255;not null"`
	Completed bool     `json:"completed" gorm:"not null;default:false"`
	Priority  Priority `json:"priority" gorm:"size:16;not null;default:MEDIUM"`
}

// Photo is a drive upload. StoragePath is the only link to its blob.
type Photo struct {
	Base
	UserID      string `json:"userId" gorm:"type:uuid;not null;index"`
	Name        string `json:"name" gorm:"size:255;not null"`
	URL         string `json:"url" gorm:"not null"`
	StoragePath string `json:"storagePath" gorm:"not null"`
	Size        int64  `json:"size"`
	MimeType    string `json:"mimeType" gorm:"size:64"`
	Width       int    `json:"width"`
	Height      int    `json:"height"`
}

type FoodPhoto struct {
	Base
	UserID      string       `json:"userId" gorm:"type:uuid;not null;index"`
	Name        string       `json:"name" gorm:"size:255;not null"`
	URL         string       `json:"url" gorm:"not null"`
	StoragePath string       `json:"storagePath" gorm:"not null"`
	Size        int64        `json:"size"`
	MimeType    string       `json:"mimeType" gorm:"size:64"`
	Width       int          `json:"width"`
	Height      int          `json:"height"`
	Reviews     []FoodReview `json:"-" gorm:"constraint:OnDelete:CASCADE;"`
}

// FoodReview ratings are stored as the single digit codes "1" through "5".
type FoodReview struct {
	Base
	UserID      string `json:"userId" gorm:"type:uuid;not null;index"`
	User        *User  `json:"-" gorm:"constraint:OnDelete:CASCADE;"`
	FoodPhotoID string `json:"foodPhotoId" gorm:"type:uuid;not null;index"`
	Content     string `json:"content" gorm:"size:1000;not null"`
	Rating      string `json:"rating" gorm:"size:1;not null;check:rating IN ('1','2','3','4','5')"`
}

// Pokemon is a catalog entry saved by a user. ExternalID is unique per user.
type Pokemon struct {
	Base
	UserID     string          `json:"userId" gorm:"type:uuid;not null;uniqueIndex:idx_pokemon_user_external"`
	ExternalID string          `json:"pokemonId" gorm:"column:pokemon_id;not null;uniqueIndex:idx_pokemon_user_external"`
	Name       string          `json:"name" gorm:"not null"`
	ImageURL   string          `json:"imageUrl" gorm:"not null"`
	Reviews    []PokemonReview `json:"-" gorm:"constraint:OnDelete:CASCADE;"`
}

func (Pokemon) TableName() string {
	return "pokemon"
}

type PokemonReview struct {
	Base
	UserID    string `json:"userId" gorm:"type:uuid;not null;index"`
	User      *User  `json:"-" gorm:"constraint:OnDelete:CASCADE;"`
	PokemonID string `json:"pokemonId" gorm:"type:uuid;not null;index"`
	Content   string `json:"content" gorm:"size:1000;not null"`
	Rating    string `json:"rating" gorm:"size:1;not null;check:rating IN ('1','2','3','4','5')"`
}

type Note struct {
	Base
	UserID  string `json:"userId" gorm:"type:uuid;not null;index"`
	Title   string `json:"title" gorm:"size:255;not null"`
	Content string `json:"content" gorm:"type:text;not null;default:''"`
}

// All lists every model in migration order.
func All() []any {
	return []any{
		&User{},
		&Todo{},
		&Photo{},
		&FoodPhoto{},
		&FoodReview{},
		&Pokemon{},
		&PokemonReview{},
		&Note{},
	}
}
