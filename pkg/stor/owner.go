// Copyright 2026 Gastro Catalogo. All rights reserved.
// Use of this source code is governed by a BSD-style license
// specified in the Github project LICENSE file.

package stor

import (
	"time"

	"github.com/google/uuid"
)

// Owner data model. An owner is identified by a verified phone number.
type Owner struct {
	Model
	UUID        string     `json:"uuid" validate:"required,uuid" gorm:"type:varchar(100);uniqueIndex"`
	Phone       string     `json:"phone" validate:"required,e164" gorm:"type:varchar(32);uniqueIndex"`
	FirebaseUID string     `json:"firebase_uid,omitempty" gorm:"type:varchar(128);index"`
	LastLogin   *time.Time `json:"last_login,omitempty"`
}

// Validate checks required fields and values
func (o *Owner) Validate() error {
	return validate.Struct(o)
}

func (s ownerStore) Count() (int64, error) {
	var count int64
	return count, s.db.Model(Owner{}).Count(&count).Error
}

func (s ownerStore) Get(uuid string) (*Owner, error) {
	var owner Owner
	return &owner, s.db.Where("uuid = ?", uuid).First(&owner).Error
}

func (s ownerStore) GetByPhone(phone string) (*Owner, error) {
	var owner Owner
	return &owner, s.db.Where("phone = ?", phone).First(&owner).Error
}

// FindOrCreate returns the owner of a phone number, created on first use.
func (s ownerStore) FindOrCreate(phone string) (*Owner, error) {
	var owner Owner
	err := s.db.Where(Owner{Phone: phone}).
		Attrs(Owner{UUID: uuid.New().String()}).
		FirstOrCreate(&owner).Error
	return &owner, err
}

func (s ownerStore) Update(changedOwner *Owner) error {
	return s.db.Save(changedOwner).Error
}
