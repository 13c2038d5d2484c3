// Copyright 2026 Gastro Catalogo. All rights reserved.
// Use of this source code is governed by a BSD-style license
// specified in the Github project LICENSE file.

// gastroimport server mode

package main

import (
	"context"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"sync"
	"syscall"

	"github.com/fsnotify/fsnotify"
	log "github.com/sirupsen/logrus"
)

func activateServer(c Config) {
	// system signals
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	w := newWatcher(c)

	// process files already present in the input directory
	w.processExistingFiles()

	fw, err := w.watch()
	if err != nil {
		log.Fatalf("Error watching directory: %v", err)
	}
	w.serve(ctx, fw)
	log.Println("Server halted.")
}

// watcher imports the catalog files of a directory
type watcher struct {
	c Config

	// imports a file of the input directory
	process func(c Config, fileName string) error

	// semaphore, limits processing to 4 concurrent files
	sem chan struct{}

	// files being imported, true when a file changed during its import
	mu       sync.Mutex
	inflight map[string]bool
}

func newWatcher(c Config) *watcher {
	return &watcher{
		c:        c,
		process:  processFile,
		sem:      make(chan struct{}, 4),
		inflight: make(map[string]bool),
	}
}

// isCatalog filters the files to import
func isCatalog(fileName string) bool {
	return strings.EqualFold(filepath.Ext(fileName), ".json") && !strings.HasPrefix(fileName, ".")
}

// processExistingFiles imports the files already present in the input directory
func (w *watcher) processExistingFiles() {
	files, err := os.ReadDir(w.c.InputPath)
	if err != nil {
		log.Errorf("Error reading directory: %v", err)
		return
	}

	for _, file := range files {
		if file.IsDir() || !isCatalog(file.Name()) {
			continue
		}
		log.Infof("File found: %s", file.Name())
		if err := w.process(w.c, file.Name()); err != nil {
			log.Errorf("Error processing file %s: %v", file.Name(), err)
		}
	}
}

// acquire marks a file as being imported. If it already is, the file is flagged
// to be imported again once the running import ends, and acquire returns false.
func (w *watcher) acquire(fileName string) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	if _, ok := w.inflight[fileName]; ok {
		w.inflight[fileName] = true
		return false
	}
	w.inflight[fileName] = false
	return true
}

// release ends the import of a file, unless the file changed meanwhile:
// release then returns true and the file stays acquired.
func (w *watcher) release(fileName string) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.inflight[fileName] {
		w.inflight[fileName] = false
		return true
	}
	delete(w.inflight, fileName)
	return false
}

// importFile imports an acquired file until it no longer changes during its import
func (w *watcher) importFile(fileName string) {
	for {
		// the file is gone once imported
		if _, err := os.Stat(filepath.Join(w.c.InputPath, fileName)); err == nil {
			if err := w.process(w.c, fileName); err != nil {
				log.Errorf("Error processing file %s: %v", fileName, err)
			}
		}
		if !w.release(fileName) {
			return
		}
		log.Debugf("File %s changed during its import", fileName)
	}
}

// handle imports a created or modified file in the background
func (w *watcher) handle(filePath string, wg *sync.WaitGroup) {
	fileName := filepath.Base(filePath)
	if !isCatalog(fileName) || !w.acquire(fileName) {
		return
	}
	w.sem <- struct{}{} // block if 4 imports are already running
	wg.Add(1)
	go func() {
		defer wg.Done()
		defer func() { <-w.sem }() // free up a slot in the semaphore
		w.importFile(fileName)
	}()
}

// watch starts monitoring the input directory
func (w *watcher) watch() (*fsnotify.Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := fw.Add(w.c.InputPath); err != nil {
		fw.Close()
		return nil, err
	}
	log.Infof("Monitoring directory: %s", w.c.InputPath)
	return fw, nil
}

// serve imports the files created or modified in the input directory until ctx is done,
// then waits for the running imports.
func (w *watcher) serve(ctx context.Context, fw *fsnotify.Watcher) {
	defer fw.Close()

	var wg sync.WaitGroup
	defer wg.Wait() // no import starts once the loop is over

	for {
		select {
		case <-ctx.Done():
			log.Println("Shutdown requested, waiting for running imports...")
			return
		case event, ok := <-fw.Events:
			if !ok {
				return
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) {
				log.Debugf("File modified or created: %s", event.Name)
				w.handle(event.Name, &wg)
			}
		case err, ok := <-fw.Errors:
			if !ok {
				return
			}
			log.Errorf("Error watching: %v", err)
		}
	}
}
