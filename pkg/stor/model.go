// Copyright 2026 Gastro Catalogo. All rights reserved.
// Use of this source code is governed by a BSD-style license
// specified in the Github project LICENSE file.

package stor

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"gorm.io/gorm"
)

// Model replaces gorm.Model, with json names fitting the api.
type Model struct {
	ID        uint           `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time      `json:"created_at" gorm:"index"` // index on created_at, useful for dashboard queries
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}

var validate = newValidator()

var coordsRegexp = regexp.MustCompile(`^\s*(-?\d+(\.\d+)?)\s*,\s*(-?\d+(\.\d+)?)\s*$`)

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterValidation("coords", validateCoords)
	return v
}

// validateCoords checks a "latitude,longitude" pair, e.g. "19.432608,-99.133209"
func validateCoords(fl validator.FieldLevel) bool {
	m := coordsRegexp.FindStringSubmatch(fl.Field().String())
	if m == nil {
		return false
	}
	lat, err := strconv.ParseFloat(m[1], 64)
	if err != nil || lat < -90 || lat > 90 {
		return false
	}
	lng, err := strconv.ParseFloat(m[3], 64)
	if err != nil || lng < -180 || lng > 180 {
		return false
	}
	return true
}

// NormalizeCoords removes blanks around the coordinates.
func NormalizeCoords(coords string) string {
	parts := strings.Split(coords, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return strings.Join(parts, ",")
}
