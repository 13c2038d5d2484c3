// Copyright 2026 Gastro Catalogo. All rights reserved.
// Use of this source code is governed by a BSD-style license
// specified in the Github project LICENSE file.

// gastrocheck validates restaurant catalog files before their import

package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	log "github.com/sirupsen/logrus"

	"github.com/gastrocatalogo/gastro-server/pkg/catalog"
	"github.com/gastrocatalogo/gastro-server/pkg/otp"
)

func init() {
	// Output to stdout instead of the default stderr
	log.SetOutput(os.Stdout)

	log.SetFormatter(&log.TextFormatter{
		DisableTimestamp: true,
	})
}

func usage() {
	fmt.Println("Usage: gastrocheck [-country] [-verbose] filepath")
	flag.PrintDefaults()
}

func main() {

	// parse the command line
	country := flag.String("country", "+52", "calling code applied to owner phone numbers without one")
	verbose := flag.Bool("verbose", false, "if set, display info messages; if not set, display only warnings and errors.")
	flag.Parse()

	// the verbose flag acts on the info level
	if !*verbose {
		log.SetLevel(log.WarnLevel)
	}

	filepath := flag.Arg(0)
	if filepath == "" {
		usage()
		os.Exit(1)
	}

	bytes, err := os.ReadFile(filepath)
	if err != nil {
		log.Fatal("Error: ", err)
	}
	fmt.Println("Checking ", filepath)

	if err := check(os.Stdout, bytes, *country); err != nil {
		os.Exit(1)
	}
}

// check validates a catalog and prints a summary, or the problems found.
func check(w io.Writer, bytes []byte, country string) error {
	entries, err := catalog.Parse(bytes)
	if err != nil {
		var schemaErr *catalog.SchemaError
		if errors.As(err, &schemaErr) {
			fmt.Fprintln(w, "The catalog is invalid vs the json schema")
			for _, desc := range schemaErr.Errors {
				fmt.Fprintf(w, "- %s\n", desc)
			}
		} else {
			fmt.Fprintf(w, "The catalog cannot be read: %v\n", err)
		}
		return err
	}

	// the restaurants are checked as the server will
	var invalid int
	for i := range entries {
		if _, err := entries[i].Restaurant(); err != nil {
			fmt.Fprintf(w, "- %v\n", err)
			invalid++
		}
		if phone := entries[i].OwnerPhone; phone != "" {
			if _, err := otp.NormalizePhone(phone, country); err != nil {
				fmt.Fprintf(w, "- restaurant %q: owner phone %q: %v\n", entries[i].Name, phone, err)
				invalid++
			}
		}
	}

	s := catalog.Summarize(entries)
	fmt.Fprintf(w, "%d restaurants, %d menu items\n", s.Restaurants, s.MenuItems)
	if s.WithoutMenu > 0 {
		fmt.Fprintf(w, "%d restaurants without menu\n", s.WithoutMenu)
	}
	if s.WithoutOwner > 0 {
		fmt.Fprintf(w, "%d restaurants without owner phone, gastroimport requires -owner\n", s.WithoutOwner)
	}
	if invalid > 0 {
		return fmt.Errorf("%d problems found", invalid)
	}
	fmt.Fprintln(w, "The catalog is valid")
	return nil
}
