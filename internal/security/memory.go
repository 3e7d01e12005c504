// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package security

import "strings"

// SecureString holds a detected identifier with best-effort scrubbing on Clear.
//
// Go may copy string memory at any time; Clear only zeroes the internal
// buffer and cannot erase copies made by String.
type SecureString struct {
	data []byte
}

// NewSecureString copies s into a mutable buffer.
func NewSecureString(s string) *SecureString {
	data := make([]byte, len(s))
	copy(data, s)
	return &SecureString{data: data}
}

// String returns the stored value. Each call creates a copy Clear cannot reach.
func (ss *SecureString) String() string {
	if ss == nil {
		return ""
	}
	return string(ss.data)
}

// Len returns the stored length without copying.
func (ss *SecureString) Len() int {
	if ss == nil {
		return 0
	}
	return len(ss.data)
}

// Masked returns the value with every digit and OCR marker except the last
// visible ones replaced by mask. Separators and spaces are kept in place.
func (ss *SecureString) Masked(mask byte, visible int, unrecognized byte) string {
	if ss == nil {
		return ""
	}
	total := 0
	for _, b := range ss.data {
		if isMaskable(b, unrecognized) {
			total++
		}
	}

	var sb strings.Builder
	sb.Grow(len(ss.data))
	seen := 0
	for _, b := range ss.data {
		if !isMaskable(b, unrecognized) {
			sb.WriteByte(b)
			continue
		}
		seen++
		if seen > total-visible {
			sb.WriteByte(b)
		} else {
			sb.WriteByte(mask)
		}
	}
	return sb.String()
}

// Clear zeroes the buffer and releases it.
func (ss *SecureString) Clear() {
	if ss == nil || ss.data == nil {
		return
	}
	for i := range ss.data {
		ss.data[i] = 0
	}
	ss.data = nil
}

func isMaskable(b, unrecognized byte) bool {
	return (b >= '0' && b <= '9') || b == unrecognized
}
