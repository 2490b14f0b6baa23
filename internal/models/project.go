package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// StringList is a string slice persisted as a JSON array column.
type StringList []string

// Value implements driver.Valuer.
func (l StringList) Value() (driver.Value, error) {
	if l == nil {
		return "[]", nil
	}
	b, err := json.Marshal([]string(l))
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan implements sql.Scanner.
func (l *StringList) Scan(src any) error {
	var raw []byte
	switch v := src.(type) {
	case nil:
		*l = StringList{}
		return nil
	case string:
		raw = []byte(v)
	case []byte:
		raw = v
	default:
		return fmt.Errorf("unsupported technologies column type %T", src)
	}
	return json.Unmarshal(raw, (*[]string)(l))
}

// Project is a showcased project.
type Project struct {
	ID           uint       `gorm:"primaryKey" json:"id"`
	Title        string     `gorm:"not null" json:"title"`
	Description  string     `gorm:"type:text" json:"description"`
	LiveLink     string     `json:"live_link"`
	RepoLink     string     `json:"repo_link"`
	Technologies StringList `gorm:"type:text" json:"technologies"`
	ProjectIcon  Asset      `gorm:"embedded;embeddedPrefix:project_icon_" json:"project_icon"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// SplitTechnologies parses a comma separated technology list, dropping blanks.
func SplitTechnologies(raw string) StringList {
	parts := strings.Split(raw, ",")
	out := make(StringList, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// ProjectUpdate is a partial update of a project. Nil fields are untouched.
type ProjectUpdate struct {
	Title        *string
	Description  *string
	LiveLink     *string
	RepoLink     *string
	Technologies StringList
	ProjectIcon  *Asset
}

// Columns converts the update into a GORM column map.
func (u ProjectUpdate) Columns() map[string]any {
	cols := map[string]any{}
	if u.Title != nil {
		cols["title"] = *u.Title
	}
	if u.Description != nil {
		cols["description"] = *u.Description
	}
	if u.LiveLink != nil {
		cols["live_link"] = *u.LiveLink
	}
	if u.RepoLink != nil {
		cols["repo_link"] = *u.RepoLink
	}
	if u.Technologies != nil {
		cols["technologies"] = u.Technologies
	}
	if u.ProjectIcon != nil {
		cols["project_icon_public_id"] = u.ProjectIcon.PublicID
		cols["project_icon_url"] = u.ProjectIcon.URL
	}
	return cols
}
