// Package sysex implements the fixed-length SysEx pattern matcher (C10):
// structural validation of a pattern, wildcard-aware matching, and display
// formatting.
package sysex

import (
	"fmt"
	"strings"
)

const (
	statusStart    byte = 0xF0
	statusEnd      byte = 0xF7
	wildcardByte   byte = 0xFF
	maxLiteralByte byte = 0x7F
)

// Valid reports whether pattern satisfies §4.10: length >= 3, first byte
// 0xF0, last byte 0xF7, and every interior byte is either <= 0x7F (literal)
// or exactly 0xFF (wildcard).
func Valid(pattern []byte) bool {
	if len(pattern) < 3 {
		return false
	}
	if pattern[0] != statusStart || pattern[len(pattern)-1] != statusEnd {
		return false
	}
	for _, b := range pattern[1 : len(pattern)-1] {
		if b != wildcardByte && b > maxLiteralByte {
			return false
		}
	}
	return true
}

// Matches reports whether received matches pattern: equal length and
// byte-by-byte equality with 0xFF positions matching anything.
func Matches(received, pattern []byte) bool {
	if len(received) != len(pattern) {
		return false
	}
	for i, p := range pattern {
		if p == wildcardByte {
			continue
		}
		if p != received[i] {
			return false
		}
	}
	return true
}

// Format renders pattern for display: 0xFF as "XX", other bytes as
// two-digit uppercase hex, space separated.
func Format(pattern []byte) string {
	parts := make([]string, len(pattern))
	for i, b := range pattern {
		if b == wildcardByte {
			parts[i] = "XX"
			continue
		}
		parts[i] = fmt.Sprintf("%02X", b)
	}
	return strings.Join(parts, " ")
}
