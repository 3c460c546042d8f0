/* Copyright © 2025-2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package internal

import (
	"strings"
	"time"
	"unicode"

	"github.com/araddon/dateparse"
)

// ParseDateOrZero returns a parsed time or zero if input is empty or "null".
func ParseDateOrZero(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" || s == "null" {
		return time.Time{}, nil
	}
	return dateparse.ParseAny(s)
}

// NormalizeName folds a display name for matching: lower case, punctuation
// dropped, runs of whitespace collapsed to one space.
func NormalizeName(name string) string {
	var sb strings.Builder
	space := false
	for _, r := range strings.TrimSpace(name) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			if space && sb.Len() > 0 {
				sb.WriteRune(' ')
			}
			space = false
			sb.WriteRune(unicode.ToLower(r))
		case unicode.IsSpace(r) || r == ',':
			space = true
		}
	}
	return sb.String()
}
