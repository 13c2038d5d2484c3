// Copyright 2026 Gastro Catalogo. All rights reserved.
// Use of this source code is governed by a BSD-style license
// specified in the Github project LICENSE file.

package stor

import (
	"time"

	"gorm.io/gorm"
)

// Passcode data model, a one-time code sent by SMS.
// we don't include the full model here, passcodes are hard deleted once expired.
type Passcode struct {
	ID         uint       `gorm:"primaryKey"`
	CreatedAt  time.Time
	Phone      string     `gorm:"type:varchar(32);index"`
	CodeHash   string     `gorm:"type:varchar(100)"`
	ExpiresAt  time.Time  `gorm:"index"`
	Attempts   int
	ConsumedAt *time.Time `gorm:"index"`
}

// GetPending returns the latest unconsumed passcode of a phone number, expired or not.
func (s passcodeStore) GetPending(phone string) (*Passcode, error) {
	var passcode Passcode
	return &passcode, s.db.Where("phone = ? AND consumed_at IS NULL", phone).Order("id DESC").First(&passcode).Error
}

// Create stores a new passcode and invalidates the pending ones of the same phone number.
func (s passcodeStore) Create(newPasscode *Passcode) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		now := time.Now()
		err := tx.Model(&Passcode{}).
			Where("phone = ? AND consumed_at IS NULL", newPasscode.Phone).
			Update("consumed_at", now).Error
		if err != nil {
			return err
		}
		return tx.Create(newPasscode).Error
	})
}

func (s passcodeStore) Update(changedPasscode *Passcode) error {
	return s.db.Save(changedPasscode).Error
}

// PurgeExpired deletes the passcodes expired before a given time.
func (s passcodeStore) PurgeExpired(before time.Time) (int64, error) {
	res := s.db.Where("expires_at < ?", before).Delete(&Passcode{})
	return res.RowsAffected, res.Error
}
