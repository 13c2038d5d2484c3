// Copyright 2026 Gastro Catalogo. All rights reserved.
// Use of this source code is governed by a BSD-style license
// specified in the Github project LICENSE file.

package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/gastrocatalogo/gastro-server/pkg/catalog"
)

// problem is the error payload of the server
type problem struct {
	Title  string `json:"title"`
	Detail string `json:"detail"`
}

// postRestaurant imports a restaurant through the admin api and returns its id.
func postRestaurant(server, username, password string, req *catalog.ImportRequest) (uint, error) {

	if !strings.HasPrefix(server, "http://") && !strings.HasPrefix(server, "https://") {
		server = "http://" + server
	}
	importURL, err := url.JoinPath(server, "admin", "restaurants")
	if err != nil {
		return 0, err
	}

	body, err := json.Marshal(req)
	if err != nil {
		return 0, err
	}

	httpReq, err := http.NewRequest("POST", importURL, bytes.NewReader(body))
	if err != nil {
		return 0, err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if username != "" {
		httpReq.SetBasicAuth(username, password)
	}

	client := &http.Client{
		Timeout: 15 * time.Second,
	}
	resp, err := client.Do(httpReq)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		var p problem
		if err := json.NewDecoder(resp.Body).Decode(&p); err == nil && p.Title != "" {
			return 0, fmt.Errorf("the server returned %d: %s %s", resp.StatusCode, p.Title, p.Detail)
		}
		return 0, fmt.Errorf("the server returned %d", resp.StatusCode)
	}

	var created struct {
		ID uint `json:"id"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
		return 0, fmt.Errorf("unable to decode the created restaurant: %w", err)
	}
	log.Debugf("Restaurant %d created on %s", created.ID, server)
	return created.ID, nil
}
