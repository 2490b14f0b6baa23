// Package models contains data structures for the application's domain models.
package models

import (
	"strings"
	"time"
)

// Asset references a file held by the external blob store.
// An empty PublicID means the asset is not set.
type Asset struct {
	PublicID string `gorm:"column:public_id" json:"public_id"`
	URL      string `gorm:"column:url" json:"url"`
}

// IsSet reports whether the asset points at an uploaded file.
func (a Asset) IsSet() bool {
	return a.PublicID != ""
}

// Contact holds optional contact details shown on the portfolio.
type Contact struct {
	Phone   string `gorm:"column:phone" json:"phone"`
	Address string `gorm:"column:address" json:"address"`
}

// User is the single portfolio owner account and its credentials.
type User struct {
	ID        uint    `gorm:"primaryKey" json:"id"`
	Name      string  `gorm:"not null" json:"name"`
	Email     string  `gorm:"uniqueIndex;not null" json:"email"`
	Password  string  `gorm:"not null" json:"-"`
	Bio       string  `json:"bio"`
	Avatar    Asset   `gorm:"embedded;embeddedPrefix:avatar_" json:"avatar"`
	Resume    Asset   `gorm:"embedded;embeddedPrefix:resume_" json:"resume"`
	Linkedin  string  `json:"linkedin"`
	Github    string  `json:"github"`
	Twitter   string  `json:"twitter"`
	Portfolio string  `json:"portfolio"`
	Contact   Contact `gorm:"embedded;embeddedPrefix:contact_" json:"contact"`

	// Reset fields are set and cleared together.
	ResetPasswordTokenHash *string    `gorm:"index" json:"-"`
	ResetPasswordExpiresAt *time.Time `json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// UserSummary is the short identity returned after authentication.
type UserSummary struct {
	ID    uint   `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Summary returns the public identity of the user.
func (u *User) Summary() UserSummary {
	return UserSummary{ID: u.ID, Name: u.Name, Email: u.Email}
}

// HasPendingReset reports whether a reset request is outstanding.
func (u *User) HasPendingReset() bool {
	return u.ResetPasswordTokenHash != nil && u.ResetPasswordExpiresAt != nil
}

// NormalizeEmail lower-cases and trims an address for storage and lookup.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// ProfileUpdate is an explicit partial update of a user's profile.
// Nil fields are left untouched.
type ProfileUpdate struct {
	Name      *string
	Bio       *string
	Linkedin  *string
	Github    *string
	Twitter   *string
	Portfolio *string
	Phone     *string
	Address   *string
	Avatar    *Asset
	Resume    *Asset
}

// Columns converts the update into a GORM column map.
func (p ProfileUpdate) Columns() map[string]any {
	cols := map[string]any{}
	set := func(col string, v *string) {
		if v != nil {
			cols[col] = *v
		}
	}
	set("name", p.Name)
	set("bio", p.Bio)
	set("linkedin", p.Linkedin)
	set("github", p.Github)
	set("twitter", p.Twitter)
	set("portfolio", p.Portfolio)
	set("contact_phone", p.Phone)
	set("contact_address", p.Address)
	if p.Avatar != nil {
		cols["avatar_public_id"] = p.Avatar.PublicID
		cols["avatar_url"] = p.Avatar.URL
	}
	if p.Resume != nil {
		cols["resume_public_id"] = p.Resume.PublicID
		cols["resume_url"] = p.Resume.URL
	}
	return cols
}

// IsEmpty reports whether the update changes nothing.
func (p ProfileUpdate) IsEmpty() bool {
	return len(p.Columns()) == 0
}
