// Copyright 2026 Gastro Catalogo. All rights reserved.
// Use of this source code is governed by a BSD-style license
// specified in the Github project LICENSE file.

package stor

import (
	"time"
	"unicode/utf8"
)

const (
	EventLoginOTP      = "login_otp"
	EventLoginFirebase = "login_firebase"
)

// Event data model, the login history of owners.
// we don't include the full gorm model here, has no update nor soft deletion occurs on events
type Event struct {
	ID        uint      `json:"-" gorm:"primaryKey"`
	Timestamp time.Time `json:"timestamp"`
	Type      string    `json:"type" gorm:"type:varchar(32)"`
	UserAgent string    `json:"user_agent,omitempty" gorm:"type:varchar(255)"`
	RemoteIP  string    `json:"remote_ip,omitempty" gorm:"type:varchar(64)"`
	OwnerID   string    `json:"-" gorm:"type:varchar(100);index"` // implicit foreign key to the owner uuid
}

// List returns the latest events of an owner, most recent first.
func (s eventStore) List(ownerID string) (*[]Event, error) {
	events := []Event{}
	// security: limited to 100 results
	return &events, s.db.Limit(100).Where("owner_id = ?", ownerID).Order("id DESC").Find(&events).Error
}

func (s eventStore) Count(ownerID string) (int64, error) {
	var count int64
	return count, s.db.Model(Event{}).Where("owner_id = ?", ownerID).Count(&count).Error
}

func (s eventStore) Create(newEvent *Event) error {
	newEvent.UserAgent = truncate(newEvent.UserAgent, 255)
	return s.db.Create(newEvent).Error
}

// truncate cuts s to at most n bytes, on a rune boundary
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}
