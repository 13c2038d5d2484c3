// Copyright 2026 Gastro Catalogo. All rights reserved.
// Use of this source code is governed by a BSD-style license
// specified in the Github project LICENSE file.

// Package api manages the api controllers
package api

import (
	"github.com/jtacoma/uritemplates"
	log "github.com/sirupsen/logrus"

	"github.com/gastrocatalogo/gastro-server/pkg/conf"
	"github.com/gastrocatalogo/gastro-server/pkg/otp"
	"github.com/gastrocatalogo/gastro-server/pkg/stor"
)

// APICtrl contains the context required by http handlers.
type APICtrl struct {
	*conf.Config
	stor.Store
	OTP         *otp.Service
	mapTemplate *uritemplates.UriTemplate
}

// NewAPICtrl returns a new API controller
func NewAPICtrl(cf *conf.Config, st stor.Store, o *otp.Service) *APICtrl {
	a := &APICtrl{
		Config: cf,
		Store:  st,
		OTP:    o,
	}
	if cf.Maps.LinkTemplate != "" {
		tpl, err := uritemplates.Parse(cf.Maps.LinkTemplate)
		if err != nil {
			log.Errorf("Invalid map link template %q: %v", cf.Maps.LinkTemplate, err)
		} else {
			a.mapTemplate = tpl
		}
	}
	return a
}

// mapURL returns a link to a map showing the restaurant, located by its coordinates or its address.
func (a *APICtrl) mapURL(r *stor.Restaurant) string {
	if a.mapTemplate == nil {
		return ""
	}
	query := r.Coords
	if query == "" {
		query = r.Address
	}
	if query == "" {
		return ""
	}
	link, err := a.mapTemplate.Expand(map[string]interface{}{"query": query})
	if err != nil {
		log.Warnf("Failed to expand the map link of restaurant %d: %v", r.ID, err)
		return ""
	}
	return link
}
