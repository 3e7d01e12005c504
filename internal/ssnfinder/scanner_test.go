// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package ssnfinder

import (
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func scanAll(text string) []StringSegment {
	return Default().Scan(text, 0, len(text))
}

func spanTexts(text string, segs []StringSegment) []string {
	out := make([]string, 0, len(segs))
	for _, s := range segs {
		out = append(out, s.Text(text))
	}
	return out
}

func TestScan_NoHyphen(t *testing.T) {
	for _, text := range []string{"", "123456789", "SSN 123 45 6789", "no digits here"} {
		assert.Empty(t, scanAll(text), "input %q", text)
	}
}

func TestScan_Canonical(t *testing.T) {
	text := "123-45-6789"
	segs := scanAll(text)
	require.Len(t, segs, 1)
	assert.Equal(t, StringSegment{Start: 0, End: len(text)}, segs[0])
	assert.Equal(t, "123-45-6789", text, "scan must not modify its input")
}

func TestScan_MinimumTotalDigits(t *testing.T) {
	segs := scanAll("12-3-45")
	require.Len(t, segs, 1)
	assert.Equal(t, StringSegment{Start: 0, End: 7}, segs[0])

	assert.Empty(t, scanAll("1-2-3"))
	assert.Empty(t, scanAll("12-3-4"))
}

func TestScan_DoubledHyphen(t *testing.T) {
	single := "123-45-6789"
	doubled := "123--45-6789"

	a := scanAll(single)
	b := scanAll(doubled)
	require.Len(t, a, 1)
	require.Len(t, b, 1)
	assert.Equal(t, StringSegment{Start: 0, End: len(doubled)}, b[0])

	f := Default()
	assert.Equal(t, f.Describe(single, a[0]).Normalized, f.Describe(doubled, b[0]).Normalized)
	assert.Equal(t, "3-2-4", f.Describe(doubled, b[0]).Shape())
}

func TestScan_TripleHyphenLeavesEmptyMiddle(t *testing.T) {
	assert.Empty(t, scanAll("123---4567"))
}

func TestScan_OverlappingSpansMerge(t *testing.T) {
	text := "123-45-6789-12-3456"
	segs := scanAll(text)
	require.Len(t, segs, 1)
	assert.Equal(t, StringSegment{Start: 0, End: len(text)}, segs[0])
}

func TestScan_TouchingSpansMerge(t *testing.T) {
	// The first trailing group stops after five digits, the second leading
	// group begins on the very next byte.
	text := "123-45-678901234-56-7890"
	segs := scanAll(text)
	require.Len(t, segs, 1)
	assert.Equal(t, StringSegment{Start: 0, End: len(text)}, segs[0])
}

func TestScan_SeparateSpans(t *testing.T) {
	text := "A 123-45-6789 and B 987-65-4321."
	segs := scanAll(text)
	assert.Equal(t, []string{"123-45-6789", "987-65-4321"}, spanTexts(text, segs))
}

func TestScan_WhitespaceBudget(t *testing.T) {
	cases := []struct {
		name  string
		input string
		want  []string
	}{
		{"two spaces", "12 3-45-678 9", []string{"12 3-45-678 9"}},
		{"underscores count as spaces", "12_3-45-678_9", []string{"12_3-45-678_9"}},
		{"space in middle", "123- 45-6789", []string{"123- 45-6789"}},
		{"three spaces rejected", "1 2 3-45-678 9", nil},
		{"spaces around separators rejected", "123 - 45 - 6789", nil},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			segs := scanAll(tc.input)
			if tc.want == nil {
				assert.Empty(t, segs)
				return
			}
			assert.Equal(t, tc.want, spanTexts(tc.input, segs))
		})
	}
}

func TestScan_LeadingSpacesNotIncluded(t *testing.T) {
	text := "ID:  123-45-6789"
	segs := scanAll(text)
	assert.Equal(t, []string{"123-45-6789"}, spanTexts(text, segs))
}

func TestScan_DisqualifyingCharacters(t *testing.T) {
	t.Run("prefix letter bounds the start", func(t *testing.T) {
		text := "SSN:123-45-6789"
		assert.Equal(t, []string{"123-45-6789"}, spanTexts(text, scanAll(text)))
	})
	t.Run("letter inside leading group", func(t *testing.T) {
		assert.Empty(t, scanAll("12A3-45-6789"))
	})
	t.Run("letter inside middle group", func(t *testing.T) {
		assert.Empty(t, scanAll("123-4B-6789"))
	})
	t.Run("letter inside trailing group is excluded", func(t *testing.T) {
		text := "123-45-67X89"
		segs := scanAll(text)
		require.Len(t, segs, 1)
		assert.Equal(t, "123-45-67", segs[0].Text(text))
		assert.NotContains(t, segs[0].Text(text), "X")
	})
	t.Run("letter right after separator", func(t *testing.T) {
		assert.Empty(t, scanAll("123-45-X789"))
	})
}

func TestScan_GroupLimits(t *testing.T) {
	t.Run("middle too long", func(t *testing.T) {
		assert.Empty(t, scanAll("123-4567-890"))
	})
	t.Run("leading longer than maximum is trimmed", func(t *testing.T) {
		text := "12345-67-8901"
		assert.Equal(t, []string{"2345-67-8901"}, spanTexts(text, scanAll(text)))
	})
	t.Run("trailing longer than maximum is trimmed", func(t *testing.T) {
		text := "123-45-6789012"
		assert.Equal(t, []string{"123-45-67890"}, spanTexts(text, scanAll(text)))
	})
	t.Run("single leading digit", func(t *testing.T) {
		assert.Empty(t, scanAll("1-23-4567"))
	})
}

func TestScan_UnrecognizedCharacters(t *testing.T) {
	t.Run("marker stands in for a digit", func(t *testing.T) {
		text := "12^-45-6789"
		assert.Equal(t, []string{text}, spanTexts(text, scanAll(text)))
	})
	t.Run("three markers allowed", func(t *testing.T) {
		text := "1^^-45-^789"
		assert.Equal(t, []string{text}, spanTexts(text, scanAll(text)))
	})
	t.Run("four markers rejected", func(t *testing.T) {
		assert.Empty(t, scanAll("1^^-^5-^789"))
	})
	t.Run("markers do not count toward total digits", func(t *testing.T) {
		assert.Empty(t, scanAll("1^-^^-^2"))
	})
	t.Run("custom marker", func(t *testing.T) {
		f, err := New(DefaultBounds(), '~')
		require.NoError(t, err)
		text := "12~-45-6789"
		assert.Len(t, f.Scan(text, 0, len(text)), 1)
		assert.Empty(t, scanAll(text))
	})
}

func TestScan_RetriesWithNextPair(t *testing.T) {
	// The first pair has a one-digit leading group; the second pair is valid.
	text := "1-800-55-1234"
	assert.Equal(t, []string{"800-55-1234"}, spanTexts(text, scanAll(text)))
}

func TestScan_LineRange(t *testing.T) {
	text := "xx 123-45-6789 yy 987-65-4321"
	f := Default()

	segs := f.Scan(text, 15, len(text))
	assert.Equal(t, []string{"987-65-4321"}, spanTexts(text, segs))

	// Range ends before the second separator of the only pair
	assert.Empty(t, f.Scan(text, 0, 8))

	assert.Equal(t, f.Scan(text, 0, len(text)), f.Scan(text, -10, len(text)+10))
	assert.Empty(t, f.Scan(text, 10, 10))
	assert.Empty(t, f.Scan(text, 12, 4))
}

func TestFindAll_SplitsLines(t *testing.T) {
	text := "Employee SSN 123-45-6789\r\nSpouse 987-65-4321\nphone 555-1234\rdone 12_3-45-6789"
	segs := Default().FindAll(text)
	assert.Equal(t, []string{"123-45-6789", "987-65-4321", "12_3-45-6789"}, spanTexts(text, segs))

	for i := 1; i < len(segs); i++ {
		assert.Less(t, segs[i-1].End, segs[i].Start)
	}
}

func TestFindAll_MatchDoesNotSpanLines(t *testing.T) {
	assert.Empty(t, Default().FindAll("123-45\n-6789"))
}

func TestNew_RejectsBadConfiguration(t *testing.T) {
	bad := DefaultBounds()
	bad.MinLeadingDigits = 5
	_, err := New(bad, DefaultUnrecognizedChar)
	assert.Error(t, err)

	neg := DefaultBounds()
	neg.MaxSpaces = -1
	_, err = New(neg, DefaultUnrecognizedChar)
	assert.Error(t, err)

	for _, marker := range []byte{'5', '-', ' ', '_', '\n'} {
		_, err = New(DefaultBounds(), marker)
		assert.Error(t, err, "marker %q", marker)
	}
}

func TestScan_CustomBounds(t *testing.T) {
	b := DefaultBounds()
	b.MaxSpaces = 0
	f, err := New(b, DefaultUnrecognizedChar)
	require.NoError(t, err)

	assert.Empty(t, f.Scan("12 3-45-6789", 0, 12))
	assert.Len(t, f.Scan("123-45-6789", 0, 11), 1)
}

func TestDescribe(t *testing.T) {
	f := Default()
	text := "12^ 4-5_6-7890"
	stats := f.Describe(text, StringSegment{Start: 0, End: len(text)})

	assert.Equal(t, 9, stats.Digits)
	assert.Equal(t, 1, stats.Unrecognized)
	assert.Equal(t, 2, stats.Spaces)
	assert.Equal(t, 2, stats.Separators)
	assert.Equal(t, "4-2-4", stats.Shape())
	assert.Equal(t, "12^4567890", stats.Normalized)
	assert.False(t, stats.IsCanonical())

	clean := f.Describe("123-45-6789", StringSegment{Start: 0, End: 11})
	assert.True(t, clean.IsCanonical())
}

func TestScan_ConcurrentUse(t *testing.T) {
	f := Default()
	text := strings.Repeat("SSN 123-45-6789, ", 50)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.Len(t, f.FindAll(text), 50)
		}()
	}
	wg.Wait()
}
