// Copyright 2026 Gastro Catalogo. All rights reserved.
// Use of this source code is governed by a BSD-style license
// specified in the Github project LICENSE file.

package stor

import (
	"gorm.io/gorm"
)

// MenuItem data model
type MenuItem struct {
	Model
	RestaurantID uint    `json:"restaurant_id" gorm:"index;not null"` // the item belongs to the restaurant
	Name         string  `json:"name" validate:"required,max=255" gorm:"type:varchar(255);not null"`
	Description  string  `json:"description,omitempty"`
	Price        float64 `json:"price" validate:"gte=0"`
	Image        string  `json:"image,omitempty" validate:"omitempty,url" gorm:"type:varchar(1024)"`
}

// Validate checks required fields and values
func (m *MenuItem) Validate() error {
	return validate.Struct(m)
}

func (s menuItemStore) List(restaurantID uint) (*[]MenuItem, error) {
	items := []MenuItem{}
	// security: limited to 500 results
	return &items, s.db.Limit(500).Where("restaurant_id = ?", restaurantID).Order("id ASC").Find(&items).Error
}

func (s menuItemStore) Count() (int64, error) {
	var count int64
	return count, s.db.Model(MenuItem{}).Count(&count).Error
}

// Get returns a menu item, checking that it belongs to the restaurant.
func (s menuItemStore) Get(restaurantID, id uint) (*MenuItem, error) {
	var item MenuItem
	return &item, s.db.Where("id = ? AND restaurant_id = ?", id, restaurantID).First(&item).Error
}

func (s menuItemStore) Create(newItem *MenuItem) error {
	return s.db.Create(newItem).Error
}

func (s menuItemStore) Update(changedItem *MenuItem) error {
	return s.db.Save(changedItem).Error
}

func (s menuItemStore) Delete(deletedItem *MenuItem) error {
	return s.db.Delete(deletedItem).Error
}

// ReplaceAll replaces the whole menu of a restaurant.
func (s menuItemStore) ReplaceAll(restaurantID uint, items []MenuItem) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("restaurant_id = ?", restaurantID).Delete(&MenuItem{}).Error; err != nil {
			return err
		}
		if len(items) == 0 {
			return nil
		}
		for i := range items {
			items[i].ID = 0
			items[i].RestaurantID = restaurantID
		}
		return tx.Create(&items).Error
	})
}
