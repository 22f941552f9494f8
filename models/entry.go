// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import (
	"strings"
	"time"
)

// MaskedSecret replaces secret fields in responses that do not decrypt them.
const MaskedSecret = "******"

// PasswordEntry is a stored credential.
//
// At the persistence layer Password and Notes hold stored secrets
// (salt:iv:ciphertext). Services decrypt them only for the owner.
type PasswordEntry struct {
	ID       string   `json:"id"`
	UserID   string   `json:"userId"`
	Title    string   `json:"title"`
	Username string   `json:"username"`
	Password string   `json:"password"`
	URL      *string  `json:"url,omitempty"`
	Notes    *string  `json:"notes,omitempty"`
	Category *string  `json:"category,omitempty"`
	Tags     []string `json:"tags"`

	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt"`
	LastUsed  *time.Time `json:"lastUsed,omitempty"`
}

// TableName returns the name of the database table
// associated with the PasswordEntry model.
func (e PasswordEntry) TableName() string {
	return "password_entries"
}

// Masked returns a copy of e with its secret fields replaced by MaskedSecret.
func (e PasswordEntry) Masked() PasswordEntry {
	e.Password = MaskedSecret
	if e.Notes != nil {
		masked := MaskedSecret
		e.Notes = &masked
	}
	return e
}

// EntryUpdate is a partial update of a PasswordEntry.
// Only non-nil fields are applied.
type EntryUpdate struct {
	Title    *string   `json:"title,omitempty"`
	Username *string   `json:"username,omitempty"`
	Password *string   `json:"password,omitempty"`
	URL      *string   `json:"url,omitempty"`
	Notes    *string   `json:"notes,omitempty"`
	Category *string   `json:"category,omitempty"`
	Tags     *[]string `json:"tags,omitempty"`
}

// IsEmpty reports whether the update carries no fields.
func (u EntryUpdate) IsEmpty() bool {
	return u.Title == nil && u.Username == nil && u.Password == nil &&
		u.URL == nil && u.Notes == nil && u.Category == nil && u.Tags == nil
}

// HasSecrets reports whether the update touches encrypted fields.
func (u EntryUpdate) HasSecrets() bool {
	return u.Password != nil || u.Notes != nil
}

// JoinTags renders tags in their stored comma-separated form.
func JoinTags(tags []string) string {
	cleaned := make([]string, 0, len(tags))
	for _, tag := range tags {
		if tag = strings.TrimSpace(tag); tag != "" {
			cleaned = append(cleaned, tag)
		}
	}
	return strings.Join(cleaned, ",")
}

// SplitTags parses the stored comma-separated form of tags.
func SplitTags(stored string) []string {
	tags := []string{}
	for _, tag := range strings.Split(stored, ",") {
		if tag = strings.TrimSpace(tag); tag != "" {
			tags = append(tags, tag)
		}
	}
	return tags
}
