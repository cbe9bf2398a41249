// Unless explicitly stated otherwise all files in this repository are
// licensed under the Apache License Version 2.0.
// Copyright 2024 Wavefront SDK Authors.

// Package sanitize implements the identifier and value escaping rules
// required by the Wavefront line protocol.
package sanitize

import "strings"

// Name sanitizes a metric name or tag key. A leading '"' and trailing '"'
// wrap the result. Characters outside [-,./0-9A-Za-z_] are replaced with
// '-', except for prefix exceptions: '~' (internal-metric marker) and
// 'Δ'/'∆' (delta marker) are allowed at position 0, and '~' is also allowed
// at position 1 when position 0 is a delta marker.
func Name(s string) string {
	var b strings.Builder
	b.WriteByte('"')
	runes := []rune(s)
	for i, r := range runes {
		if isNameRune(r) {
			b.WriteRune(r)
			continue
		}
		if i == 0 && (isDeltaMarker(r) || r == '~') {
			b.WriteRune(r)
			continue
		}
		if i == 1 && r == '~' && len(runes) > 0 && isDeltaMarker(runes[0]) {
			b.WriteRune(r)
			continue
		}
		b.WriteByte('-')
	}
	b.WriteByte('"')
	return b.String()
}

func isNameRune(r rune) bool {
	switch {
	case r >= '0' && r <= '9':
		return true
	case r >= 'A' && r <= 'Z':
		return true
	case r >= 'a' && r <= 'z':
		return true
	case r == '-' || r == ',' || r == '.' || r == '/' || r == '_':
		return true
	}
	return false
}

// DeltaPrefixMinus and DeltaPrefixCapDelta are the two sentinel characters
// that mark a delta counter's name (U+2206 and U+0394 respectively).
const (
	DeltaPrefixMinus    = '∆'
	DeltaPrefixCapDelta = 'Δ'
)

func isDeltaMarker(r rune) bool {
	return r == DeltaPrefixMinus || r == DeltaPrefixCapDelta
}

// Value sanitizes a tag value or source: it trims outer whitespace,
// backslash-escapes '"' and newline, and wraps the result in quotes.
func Value(s string) string {
	trimmed := strings.TrimSpace(s)
	trimmed = strings.ReplaceAll(trimmed, "\"", "\\\"")
	trimmed = strings.ReplaceAll(trimmed, "\n", "\\n")
	var b strings.Builder
	b.WriteByte('"')
	b.WriteString(trimmed)
	b.WriteByte('"')
	return b.String()
}

// IsBlank reports whether s is empty or consists entirely of whitespace.
func IsBlank(s string) bool {
	return len(strings.TrimSpace(s)) == 0
}

// HasDeltaPrefix reports whether name already begins with one of the two
// delta-counter sentinel characters.
func HasDeltaPrefix(name string) bool {
	if name == "" {
		return false
	}
	r := []rune(name)[0]
	return isDeltaMarker(r)
}
