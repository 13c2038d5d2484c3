// Copyright 2026 Gastro Catalogo. All rights reserved.
// Use of this source code is governed by a BSD-style license
// specified in the Github project LICENSE file.

package api

import (
	"errors"
	"net/http"

	"github.com/go-chi/render"
	"github.com/golang-jwt/jwt/v5"
	log "github.com/sirupsen/logrus"

	"github.com/gastrocatalogo/gastro-server/pkg/auth"
	"github.com/gastrocatalogo/gastro-server/pkg/otp"
	"github.com/gastrocatalogo/gastro-server/pkg/stor"
)

// AdminContext gives admin rights to requests authenticated by other means than a token,
// e.g. basic auth.
func AdminContext(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims := &auth.Claims{
			Role:             auth.RoleAdmin,
			RegisteredClaims: jwt.RegisteredClaims{Subject: "admin"},
		}
		if user, _, ok := r.BasicAuth(); ok {
			claims.Subject = user
		}
		next.ServeHTTP(w, r.WithContext(auth.NewContext(r.Context(), claims)))
	})
}

// ImportRestaurant creates a restaurant on behalf of the owner of a phone number.
// The owner is created if needed.
func (a *APICtrl) ImportRestaurant(w http.ResponseWriter, r *http.Request) {
	data := &ImportRequest{}
	if err := render.Bind(r, data); err != nil {
		render.Render(w, r, ErrInvalidRequest(err))
		return
	}

	phone, err := otp.NormalizePhone(data.OwnerPhone, a.Config.OTP.DefaultCountry)
	if err != nil {
		render.Render(w, r, ErrInvalidRequest(err))
		return
	}
	owner, err := a.Store.Owner().FindOrCreate(phone)
	if err != nil {
		render.Render(w, r, ErrServer(err))
		return
	}

	restaurant := data.Restaurant
	restaurant.ID = 0
	restaurant.OwnerID = owner.UUID
	for i := range restaurant.MenuItems {
		restaurant.MenuItems[i].ID = 0
		restaurant.MenuItems[i].RestaurantID = 0
	}
	if err := restaurant.Validate(); err != nil {
		render.Render(w, r, ErrInvalidRequest(err))
		return
	}

	err = a.Store.Restaurant().Create(restaurant)
	if err != nil {
		render.Render(w, r, ErrServer(err))
		return
	}
	log.Infof("Restaurant %d imported for owner %s (%s)", restaurant.ID, owner.UUID, phone)

	render.Status(r, http.StatusCreated)
	if err := render.Render(w, r, a.NewRestaurantResponse(restaurant)); err != nil {
		render.Render(w, r, ErrRender(err))
		return
	}
}

// ImportRequest is the payload of a restaurant import.
type ImportRequest struct {
	*stor.Restaurant
	OwnerPhone string `json:"owner_phone"`
}

// Bind post-processes requests after unmarshalling.
func (i *ImportRequest) Bind(r *http.Request) error {
	if i.Restaurant == nil {
		return errors.New("missing required restaurant fields")
	}
	if i.OwnerPhone == "" {
		return errors.New("missing required owner_phone")
	}
	return i.Restaurant.ValidatePayload()
}
