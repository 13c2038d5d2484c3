// Copyright 2026 Gastro Catalogo. All rights reserved.
// Use of this source code is governed by a BSD-style license
// specified in the Github project LICENSE file.

package main

import (
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/gastrocatalogo/gastro-server/pkg/catalog"
)

// processFile imports a single catalog file
func processFile(c Config, fileName string) error {
	log.Infof("Processing file: %s", fileName)

	inputFilePath := filepath.Join(c.InputPath, fileName)

	bytes, err := os.ReadFile(inputFilePath)
	if err != nil {
		return err
	}

	// the whole file is checked before anything is imported
	entries, err := catalog.Parse(bytes)
	if err != nil {
		return err
	}
	requests := make([]*catalog.ImportRequest, 0, len(entries))
	for i := range entries {
		req, err := entries[i].ImportRequest(c.OwnerPhone)
		if err != nil {
			return err
		}
		requests = append(requests, req)
	}

	// extract the username and password from the url, remove them from the url
	serverURL := c.ServerUrl
	var username, password string
	err = getUsernamePassword(&serverURL, &username, &password)
	if err != nil {
		return err
	}

	start := time.Now()
	var failed []catalog.Entry
	for i, req := range requests {
		id, err := postRestaurant(serverURL, username, password, req)
		if err != nil {
			log.Errorf("Failed to import %q: %v", req.Name, err)
			failed = append(failed, entries[i])
			continue
		}
		log.Infof("Imported %q as restaurant %d", req.Name, id)
	}
	if len(failed) > 0 {
		// the file is left with the restaurants not imported, unless kept as is
		if len(failed) < len(requests) && !c.Keep {
			if err := rewriteCatalog(inputFilePath, failed); err != nil {
				return err
			}
			log.Infof("File %s rewritten with the %d restaurants to import", fileName, len(failed))
		}
		return fmt.Errorf("%d of %d restaurants not imported", len(failed), len(requests))
	}

	log.Infof("%d restaurants imported in %v", len(requests), time.Since(start))

	if c.Keep {
		return nil
	}
	// delete the file
	if err := os.Remove(inputFilePath); err != nil {
		return err
	}
	log.Infof("File deleted: %s", fileName)
	return nil
}

// rewriteCatalog replaces a catalog file with the given entries.
// The temporary file is a dotfile, ignored by the watcher.
func rewriteCatalog(filePath string, entries []catalog.Entry) error {
	bytes, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return err
	}
	tmpPath := filepath.Join(filepath.Dir(filePath), "."+filepath.Base(filePath)+".tmp")
	if err := os.WriteFile(tmpPath, bytes, 0o644); err != nil {
		return err
	}
	return os.Rename(tmpPath, filePath)
}

// getUsernamePassword looks for the username and password in the url
func getUsernamePassword(serverURL, username, password *string) error {
	u, err := url.Parse(*serverURL)
	if err != nil {
		return err
	}
	un := u.User.Username()
	pw, pwfound := u.User.Password()
	if un != "" && pwfound {
		*username = un
		*password = pw
		u.User = nil
		*serverURL = u.String() // serverURL is updated
	}
	return nil
}
