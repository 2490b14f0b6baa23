package models

import "time"

// Proficiency levels accepted for a skill.
const (
	ProficiencyBeginner     = "Beginner"
	ProficiencyIntermediate = "Intermediate"
	ProficiencyAdvanced     = "Advanced"
)

// SkillCategories lists the accepted skill categories.
var SkillCategories = []string{
	"Programming",
	"Web Development",
	"Data Science",
	"Database",
	"DevOps",
	"Design",
	"Others",
}

// Skill is a portfolio skill with its icon.
type Skill struct {
	ID                uint      `gorm:"primaryKey" json:"id"`
	Name              string    `gorm:"not null" json:"name"`
	Proficiency       string    `gorm:"not null;default:Beginner" json:"proficiency"`
	Description       string    `gorm:"type:text" json:"description"`
	YearsOfExperience int       `gorm:"not null;default:0" json:"years_of_experience"`
	Category          string    `json:"category"`
	SkillIcon         Asset     `gorm:"embedded;embeddedPrefix:skill_icon_" json:"skill_icon"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// IsValidProficiency reports whether p is one of the known levels.
func IsValidProficiency(p string) bool {
	switch p {
	case ProficiencyBeginner, ProficiencyIntermediate, ProficiencyAdvanced:
		return true
	}
	return false
}

// IsValidSkillCategory reports whether c is one of SkillCategories.
func IsValidSkillCategory(c string) bool {
	for _, known := range SkillCategories {
		if c == known {
			return true
		}
	}
	return false
}

// SkillUpdate is a partial update of a skill. Nil fields are untouched.
type SkillUpdate struct {
	Name              *string
	Proficiency       *string
	Description       *string
	YearsOfExperience *int
	Category          *string
	SkillIcon         *Asset
}

// Columns converts the update into a GORM column map.
func (u SkillUpdate) Columns() map[string]any {
	cols := map[string]any{}
	if u.Name != nil {
		cols["name"] = *u.Name
	}
	if u.Proficiency != nil {
		cols["proficiency"] = *u.Proficiency
	}
	if u.Description != nil {
		cols["description"] = *u.Description
	}
	if u.YearsOfExperience != nil {
		cols["years_of_experience"] = *u.YearsOfExperience
	}
	if u.Category != nil {
		cols["category"] = *u.Category
	}
	if u.SkillIcon != nil {
		cols["skill_icon_public_id"] = u.SkillIcon.PublicID
		cols["skill_icon_url"] = u.SkillIcon.URL
	}
	return cols
}
