// Copyright 2026 Gastro Catalogo. All rights reserved.
// Use of this source code is governed by a BSD-style license
// specified in the Github project LICENSE file.

package stor

import (
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/gastrocatalogo/gastro-server/pkg/search"
)

// Restaurant data model
type Restaurant struct {
	Model
	Name        string     `json:"name" validate:"required,max=255" gorm:"type:varchar(255);not null"`
	Description string     `json:"description,omitempty" validate:"max=4000" gorm:"type:text"`
	Address     string     `json:"address,omitempty" validate:"max=512" gorm:"type:varchar(512)"`
	Phone       string     `json:"phone,omitempty" validate:"max=32" gorm:"type:varchar(32)"`
	Image       string     `json:"image,omitempty" validate:"omitempty,url" gorm:"type:varchar(1024)"`
	Schedule    string     `json:"schedule,omitempty" validate:"max=255" gorm:"type:varchar(255)"`
	Coords      string     `json:"coords,omitempty" validate:"omitempty,coords" gorm:"type:varchar(64)"`
	OwnerID     string     `json:"owner_id" validate:"required,uuid" gorm:"type:varchar(100);index"` // implicit foreign key to the owner uuid
	SearchKey   string     `json:"-" gorm:"type:text"`
	MenuItems   []MenuItem `json:"menu,omitempty" validate:"dive" gorm:"foreignKey:RestaurantID"`
}

// Validate checks required fields and values
func (r *Restaurant) Validate() error {
	return validate.Struct(r)
}

// ValidatePayload checks a restaurant received from a client, which does not carry its owner.
func (r *Restaurant) ValidatePayload() error {
	return validate.StructExcept(r, "OwnerID")
}

// BeforeSave is a gorm hook maintaining the search key.
func (r *Restaurant) BeforeSave(tx *gorm.DB) error {
	r.SearchKey = search.Key(r.Name, r.Description)
	if r.Coords != "" {
		r.Coords = NormalizeCoords(r.Coords)
	}
	return nil
}

// withMenu preloads menu items in a stable order
func withMenu(db *gorm.DB) *gorm.DB {
	return db.Preload("MenuItems", func(db *gorm.DB) *gorm.DB {
		return db.Order("menu_items.id ASC")
	})
}

func (s restaurantStore) ListAll() (*[]Restaurant, error) {
	restaurants := []Restaurant{}
	// security: limited to 1000 results, in descending order of ID to have a stable order
	return &restaurants, withMenu(s.db).Limit(1000).Order("id DESC").Find(&restaurants).Error
}

func (s restaurantStore) List(pageNum, pageSize int) (*[]Restaurant, error) {
	restaurants := []Restaurant{}
	// pageNum starts at 1
	return &restaurants, withMenu(s.db).Offset((pageNum - 1) * pageSize).Limit(pageSize).Order("id DESC").Find(&restaurants).Error
}

// Search returns the restaurants whose name or description contain every word of the term,
// ignoring case and accents. A page size of 0 returns every match.
func (s restaurantStore) Search(term string, pageNum, pageSize int) (*[]Restaurant, error) {
	restaurants := []Restaurant{}
	words := strings.Fields(search.Normalize(term))
	if len(words) == 0 {
		return &restaurants, nil
	}
	query := withMenu(s.db).Limit(1000)
	if pageNum > 0 && pageSize > 0 {
		// pageNum starts at 1
		query = withMenu(s.db).Offset((pageNum - 1) * pageSize).Limit(pageSize)
	}
	for _, w := range words {
		// normalized words only contain letters and digits, no LIKE wildcard
		query = query.Where("search_key LIKE ?", "%"+w+"%")
	}
	return &restaurants, query.Order("id DESC").Find(&restaurants).Error
}

func (s restaurantStore) FindByOwner(ownerID string) (*[]Restaurant, error) {
	restaurants := []Restaurant{}
	return &restaurants, withMenu(s.db).Limit(1000).Where("owner_id = ?", ownerID).Order("id DESC").Find(&restaurants).Error
}

// CreatedBetween returns the restaurants created in [from, to).
func (s restaurantStore) CreatedBetween(from, to time.Time) (*[]Restaurant, error) {
	restaurants := []Restaurant{}
	return &restaurants, withMenu(s.db).Limit(10000).
		Where("created_at >= ? AND created_at < ?", from, to).
		Order("id ASC").Find(&restaurants).Error
}

func (s restaurantStore) Count() (int64, error) {
	var count int64
	return count, s.db.Model(Restaurant{}).Count(&count).Error
}

func (s restaurantStore) Get(id uint) (*Restaurant, error) {
	var restaurant Restaurant
	return &restaurant, withMenu(s.db).First(&restaurant, id).Error
}

// Create stores a restaurant, with its menu items if any.
func (s restaurantStore) Create(newRestaurant *Restaurant) error {
	return s.db.Create(newRestaurant).Error
}

// Update stores the restaurant properties; menu items are managed separately.
func (s restaurantStore) Update(changedRestaurant *Restaurant) error {
	return s.db.Omit("MenuItems").Save(changedRestaurant).Error
}

// Delete (soft) deletes a restaurant and its menu items.
func (s restaurantStore) Delete(deletedRestaurant *Restaurant) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("restaurant_id = ?", deletedRestaurant.ID).Delete(&MenuItem{}).Error; err != nil {
			return err
		}
		return tx.Delete(deletedRestaurant).Error
	})
}
