// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package security

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewSecureString_StoresValue(t *testing.T) {
	ss := NewSecureString("123-45-6789")
	assert.Equal(t, "123-45-6789", ss.String())
	assert.Equal(t, 11, ss.Len())
}

func TestSecureString_Clear(t *testing.T) {
	ss := NewSecureString("123-45-6789")
	ss.Clear()
	assert.Equal(t, "", ss.String())
	assert.Equal(t, 0, ss.Len())

	// Idempotent
	ss.Clear()
}

func TestSecureString_NilSafe(t *testing.T) {
	var ss *SecureString
	assert.Equal(t, "", ss.String())
	assert.Equal(t, "", ss.Masked('X', 4, '^'))
	ss.Clear()
}

func TestSecureString_Masked(t *testing.T) {
	cases := []struct {
		in      string
		visible int
		want    string
	}{
		{"123-45-6789", 4, "XXX-XX-6789"},
		{"123-45-6789", 0, "XXX-XX-XXXX"},
		{"12^ 4-56-78^0", 4, "XXX X-XX-78^0"},
		{"12-3", 10, "12-3"},
	}
	for _, tc := range cases {
		ss := NewSecureString(tc.in)
		assert.Equal(t, tc.want, ss.Masked('X', tc.visible, '^'), "input %q", tc.in)
	}
}
