// Copyright 2026 Gastro Catalogo. All rights reserved.
// Use of this source code is governed by a BSD-style license
// specified in the Github project LICENSE file.

package otp

import (
	"strings"
)

// NormalizePhone returns a phone number in E.164 format.
// Spaces, dashes, dots and parentheses are ignored. A national number (no + or 00 prefix)
// must have at least 10 digits and receives the default country code.
func NormalizePhone(raw, defaultCountry string) (string, error) {
	s := strings.TrimSpace(raw)
	international := false
	switch {
	case strings.HasPrefix(s, "+"):
		international = true
		s = s[1:]
	case strings.HasPrefix(s, "00"):
		international = true
		s = s[2:]
	}

	var digits strings.Builder
	for _, r := range s {
		switch {
		case r >= '0' && r <= '9':
			digits.WriteRune(r)
		case r == ' ' || r == '-' || r == '.' || r == '(' || r == ')':
		default:
			return "", ErrInvalidPhone
		}
	}
	d := digits.String()

	if !international {
		if len(d) < 10 {
			return "", ErrInvalidPhone
		}
		d = strings.TrimPrefix(defaultCountry, "+") + d
	}
	if len(d) < 10 || len(d) > 15 || d[0] == '0' {
		return "", ErrInvalidPhone
	}
	return "+" + d, nil
}
