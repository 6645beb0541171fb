// Package isbn normalizes International Standard Book Numbers into the
// forms used for document identifiers.
package isbn

import (
	"strconv"
	"strings"
)

// Normalize strips separators from an ISBN, keeping digits and a
// check-digit X, and completes a bare 9-digit ISBN-10 core with its
// check digit.
func Normalize(s string) string {
	s = strings.ToUpper(strings.TrimSpace(s))
	core := make([]rune, 0, len(s))
	for _, r := range s {
		if r >= '0' && r <= '9' || r == 'X' {
			core = append(core, r)
		}
	}
	digitsOnly := true
	for _, r := range core {
		if r < '0' || r > '9' {
			digitsOnly = false
			break
		}
	}
	if len(core) == 9 && digitsOnly {
		return string(core) + checkDigit10(string(core))
	}
	return string(core)
}

// checkDigit10 computes the ISBN-10 check digit for a 9-digit core:
// the position-weighted digit sum mod 11, with 10 written as X.
func checkDigit10(s string) string {
	sum := 0
	for i, ch := range s {
		sum += (i + 1) * int(ch-'0')
	}
	cd := sum % 11
	if cd == 10 {
		return "X"
	}
	return strconv.Itoa(cd)
}

// Dash13 regroups a 13-character ISBN into dashed groups of 3-1-4-4-1.
func Dash13(s string) string {
	return s[0:3] + "-" + s[3:4] + "-" + s[4:8] + "-" + s[8:12] + "-" + s[12:13]
}
