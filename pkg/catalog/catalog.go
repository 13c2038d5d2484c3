// Copyright 2026 Gastro Catalogo. All rights reserved.
// Use of this source code is governed by a BSD-style license
// specified in the Github project LICENSE file.

// Package catalog reads restaurant catalog files, JSON arrays of restaurants with their menu.
package catalog

import (
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	log "github.com/sirupsen/logrus"
	jsonschema "github.com/xeipuuv/gojsonschema"

	"github.com/gastrocatalogo/gastro-server/pkg/stor"
)

//go:embed data/catalog.schema.json data/menu_item.schema.json
var jsfs embed.FS

var ErrNoOwner = errors.New("no owner phone for the restaurant")

// MenuItem of a catalog entry
type MenuItem struct {
	Name        string  `json:"name"`
	Description string  `json:"description,omitempty"`
	Price       float64 `json:"price"`
	Image       string  `json:"image,omitempty"`
}

// Entry is a restaurant of a catalog file
type Entry struct {
	Name        string     `json:"name"`
	Description string     `json:"description,omitempty"`
	Phone       string     `json:"phone,omitempty"`
	Coords      string     `json:"coords,omitempty"`
	Address     string     `json:"address,omitempty"`
	Schedule    string     `json:"schedule,omitempty"`
	Image       string     `json:"image,omitempty"`
	Menu        []MenuItem `json:"menu,omitempty"`
	OwnerPhone  string     `json:"ownerPhone,omitempty"`
}

// SchemaError lists the violations of the catalog schema.
type SchemaError struct {
	Errors []string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("invalid catalog: %s", strings.Join(e.Errors, "; "))
}

// Validate checks a catalog file against the json schema.
// Schema violations are returned as a *SchemaError.
func Validate(bytes []byte) error {

	catalogSchema, err := jsfs.ReadFile("data/catalog.schema.json")
	if err != nil {
		return err
	}
	menuItemSchema, err := jsfs.ReadFile("data/menu_item.schema.json")
	if err != nil {
		return err
	}

	sl := jsonschema.NewSchemaLoader()
	err = sl.AddSchemas(jsonschema.NewStringLoader(string(menuItemSchema)))
	if err != nil {
		return err
	}
	schema, err := sl.Compile(jsonschema.NewStringLoader(string(catalogSchema)))
	if err != nil {
		return err
	}

	result, err := schema.Validate(jsonschema.NewBytesLoader(bytes))
	if err != nil {
		return err
	}
	if result.Valid() {
		log.Debug("The catalog is valid vs the json schema")
		return nil
	}

	schemaErr := &SchemaError{}
	for _, desc := range result.Errors() {
		schemaErr.Errors = append(schemaErr.Errors, desc.String())
	}
	return schemaErr
}

// Parse validates then decodes a catalog file.
func Parse(bytes []byte) ([]Entry, error) {
	if err := Validate(bytes); err != nil {
		return nil, err
	}
	var entries []Entry
	if err := json.Unmarshal(bytes, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

// Restaurant converts an entry to a restaurant, checked as it will be by the server.
func (e *Entry) Restaurant() (*stor.Restaurant, error) {
	r := &stor.Restaurant{
		Name:        e.Name,
		Description: e.Description,
		Address:     e.Address,
		Phone:       e.Phone,
		Image:       e.Image,
		Schedule:    e.Schedule,
		Coords:      e.Coords,
	}
	for _, item := range e.Menu {
		r.MenuItems = append(r.MenuItems, stor.MenuItem{
			Name:        item.Name,
			Description: item.Description,
			Price:       item.Price,
			Image:       item.Image,
		})
	}
	if err := r.ValidatePayload(); err != nil {
		return nil, fmt.Errorf("restaurant %q: %w", e.Name, err)
	}
	return r, nil
}

// ImportRequest is the payload posted to the admin import endpoint.
type ImportRequest struct {
	Name        string     `json:"name"`
	Description string     `json:"description,omitempty"`
	Phone       string     `json:"phone,omitempty"`
	Coords      string     `json:"coords,omitempty"`
	Address     string     `json:"address,omitempty"`
	Schedule    string     `json:"schedule,omitempty"`
	Image       string     `json:"image,omitempty"`
	Menu        []MenuItem `json:"menu"`
	OwnerPhone  string     `json:"owner_phone"`
}

// ImportRequest returns the import payload of an entry, owned by defaultOwner
// when the entry has no owner phone.
func (e *Entry) ImportRequest(defaultOwner string) (*ImportRequest, error) {
	if _, err := e.Restaurant(); err != nil {
		return nil, err
	}
	owner := e.OwnerPhone
	if owner == "" {
		owner = defaultOwner
	}
	if owner == "" {
		return nil, fmt.Errorf("restaurant %q: %w", e.Name, ErrNoOwner)
	}
	menu := e.Menu
	if menu == nil {
		menu = []MenuItem{}
	}
	return &ImportRequest{
		Name:        e.Name,
		Description: e.Description,
		Phone:       e.Phone,
		Coords:      e.Coords,
		Address:     e.Address,
		Schedule:    e.Schedule,
		Image:       e.Image,
		Menu:        menu,
		OwnerPhone:  owner,
	}, nil
}

// Summary describes the content of a catalog.
type Summary struct {
	Restaurants  int
	MenuItems    int
	WithoutOwner int
	WithoutMenu  int
}

// Summarize counts the restaurants and menu items of a catalog.
func Summarize(entries []Entry) Summary {
	var s Summary
	for _, e := range entries {
		s.Restaurants++
		s.MenuItems += len(e.Menu)
		if e.OwnerPhone == "" {
			s.WithoutOwner++
		}
		if len(e.Menu) == 0 {
			s.WithoutMenu++
		}
	}
	return s
}
