// Copyright 2026 Gastro Catalogo. All rights reserved.
// Use of this source code is governed by a BSD-style license
// specified in the Github project LICENSE file.

package stor

import (
	"time"
)

// OwnerCount is the number of restaurants of an owner
type OwnerCount struct {
	OwnerID         string `json:"ownerId"`
	Phone           string `json:"phone"`
	RestaurantCount int    `json:"restaurants"`
}

type ChartDataPoint struct {
	Month       string `json:"month"`
	Restaurants int    `json:"restaurants"`
}

// DashboardData data model
type DashboardData struct {
	TotalRestaurants       int              `json:"totalRestaurants"`
	TotalMenuItems         int              `json:"totalMenuItems"`
	TotalOwners            int              `json:"totalOwners"`
	RestaurantsLastMonth   int              `json:"restaurantsLastMonth"`
	RestaurantsLastWeek    int              `json:"restaurantsLastWeek"`
	RestaurantsWithoutMenu int              `json:"restaurantsWithoutMenu"`
	AveragePrice           float64          `json:"averagePrice"`
	OldestRestaurantDate   string           `json:"oldestRestaurantDate"`
	LatestRestaurantDate   string           `json:"latestRestaurantDate"`
	TopOwners              []OwnerCount     `json:"topOwners"`
	ChartData              []ChartDataPoint `json:"chartData"`
}

// GetDashboard provides a summary of key metrics and statistics about the catalog.
func (s dashboardStore) GetDashboard(topOwners int) (*DashboardData, error) {
	var data DashboardData

	// Temporary variables for counts (GORM uses int64)
	var totalRestaurants, totalMenuItems, totalOwners int64

	if err := s.db.Model(&Restaurant{}).Count(&totalRestaurants).Error; err != nil {
		return nil, err
	}
	data.TotalRestaurants = int(totalRestaurants)

	if err := s.db.Model(&MenuItem{}).Count(&totalMenuItems).Error; err != nil {
		return nil, err
	}
	data.TotalMenuItems = int(totalMenuItems)

	if err := s.db.Model(&Owner{}).Count(&totalOwners).Error; err != nil {
		return nil, err
	}
	data.TotalOwners = int(totalOwners)

	now := time.Now()
	last12Months := now.AddDate(-1, 0, 0)
	lastMonth := now.AddDate(0, -1, 0)
	lastWeek := now.AddDate(0, 0, -7)

	var restaurantsLastMonth, restaurantsLastWeek, withoutMenu int64

	if err := s.db.Model(&Restaurant{}).Where("created_at >= ?", lastMonth).Count(&restaurantsLastMonth).Error; err != nil {
		return nil, err
	}
	data.RestaurantsLastMonth = int(restaurantsLastMonth)

	if err := s.db.Model(&Restaurant{}).Where("created_at >= ?", lastWeek).Count(&restaurantsLastWeek).Error; err != nil {
		return nil, err
	}
	data.RestaurantsLastWeek = int(restaurantsLastWeek)

	if err := s.db.Model(&Restaurant{}).
		Where("NOT EXISTS (SELECT 1 FROM menu_items WHERE menu_items.restaurant_id = restaurants.id AND menu_items.deleted_at IS NULL)").
		Count(&withoutMenu).Error; err != nil {
		return nil, err
	}
	data.RestaurantsWithoutMenu = int(withoutMenu)

	var avg float64
	if err := s.db.Model(&MenuItem{}).Select("COALESCE(AVG(price), 0)").Scan(&avg).Error; err != nil {
		return nil, err
	}
	data.AveragePrice = avg

	// Date of the oldest restaurant
	var oldest Restaurant
	if err := s.db.Model(&Restaurant{}).Order("created_at ASC").First(&oldest).Error; err == nil {
		data.OldestRestaurantDate = oldest.CreatedAt.Format("2006-01-02")
	}

	// Date of the most recent restaurant
	var latest Restaurant
	if err := s.db.Model(&Restaurant{}).Order("created_at DESC").First(&latest).Error; err == nil {
		data.LatestRestaurantDate = latest.CreatedAt.Format("2006-01-02")
	}

	// Owners with the most restaurants
	data.TopOwners = []OwnerCount{}
	if err := s.db.Model(&Restaurant{}).
		Select("restaurants.owner_id AS owner_id, owners.phone AS phone, COUNT(restaurants.id) AS restaurant_count").
		Joins("LEFT JOIN owners ON owners.uuid = restaurants.owner_id").
		Group("restaurants.owner_id, owners.phone").
		Order("restaurant_count DESC").
		Limit(topOwners).
		Scan(&data.TopOwners).Error; err != nil {
		return nil, err
	}

	// Chart data - restaurants created per month for the last 12 months
	// processed in Go, to work across all database dialects
	var restaurants []Restaurant
	if err := s.db.Model(&Restaurant{}).
		Select("created_at").
		Where("created_at >= ?", last12Months).
		Find(&restaurants).Error; err != nil {
		return nil, err
	}
	monthCounts := make(map[string]int)
	for _, r := range restaurants {
		monthCounts[r.CreatedAt.Format("2006-01")]++
	}
	// oldest month first, months without restaurants included
	first := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location()).AddDate(0, -11, 0)
	for i := 0; i < 12; i++ {
		month := first.AddDate(0, i, 0)
		data.ChartData = append(data.ChartData, ChartDataPoint{
			Month:       month.Format("2006-01"),
			Restaurants: monthCounts[month.Format("2006-01")],
		})
	}

	return &data, nil
}
