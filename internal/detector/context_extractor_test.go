// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package detector

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractFromContent(t *testing.T) {
	content := "Employee record\nName: Jane  SSN: 123-45-6789  Dept: HR\nSigned"
	start := strings.Index(content, "123")
	end := start + len("123-45-6789")

	info := NewContextExtractor().ExtractFromContent(content, start, end)

	assert.Equal(t, "Name: Jane  SSN: 123-45-6789  Dept: HR", info.FullLine)
	assert.Equal(t, "Employee record\nName: Jane  SSN: ", info.BeforeText)
	assert.Equal(t, "  Dept: HR\nSigned", info.AfterText)
}

func TestExtractFromContent_CharWindow(t *testing.T) {
	content := "aaaaaaaaaa123-45-6789bbbbbbbbbb"
	ce := NewContextExtractor().WithContextLines(0).WithContextChars(3)

	info := ce.ExtractFromContent(content, 10, 21)
	assert.Equal(t, "aaa", info.BeforeText)
	assert.Equal(t, "bbb", info.AfterText)
	assert.Equal(t, content, info.FullLine)
}

func TestExtractFromContent_InvalidRange(t *testing.T) {
	info := NewContextExtractor().ExtractFromContent("abc", 3, 1)
	assert.Equal(t, ContextInfo{}, info)
}

func TestLineNumber(t *testing.T) {
	content := "one\r\ntwo\nthree\rfour"
	assert.Equal(t, 1, LineNumber(content, 0))
	assert.Equal(t, 2, LineNumber(content, strings.Index(content, "two")))
	assert.Equal(t, 3, LineNumber(content, strings.Index(content, "three")))
	assert.Equal(t, 4, LineNumber(content, strings.Index(content, "four")))
	assert.Equal(t, 4, LineNumber(content, 1000))
}

func TestMatchClear(t *testing.T) {
	m := Match{Text: "123-45-6789", Context: ContextInfo{FullLine: "x 123-45-6789"}}
	m.Clear()
	assert.Empty(t, m.Text)
	assert.Empty(t, m.Context.FullLine)
	assert.Nil(t, m.SecureText)
}
