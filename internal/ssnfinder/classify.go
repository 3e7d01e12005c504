// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package ssnfinder

// charClass is the role a single byte plays inside a candidate segment.
type charClass int

const (
	classDisqualifying charClass = iota
	classDigit
	classUnrecognized
	classSpace
)

func (c charClass) String() string {
	switch c {
	case classDigit:
		return "digit"
	case classUnrecognized:
		return "unrecognized"
	case classSpace:
		return "space"
	default:
		return "disqualifying"
	}
}

// counts accumulates the classes seen while walking a segment.
type counts struct {
	digits       int
	unrecognized int
	spaces       int
}

func (c *counts) add(class charClass) {
	switch class {
	case classDigit:
		c.digits++
	case classUnrecognized:
		c.unrecognized++
	case classSpace:
		c.spaces++
	}
}

// digitLike is the count compared against per-segment bounds. An
// unrecognized marker stands in for a digit the engine could not read.
func (c counts) digitLike() int {
	return c.digits + c.unrecognized
}

func (c counts) plus(o counts) counts {
	return counts{
		digits:       c.digits + o.digits,
		unrecognized: c.unrecognized + o.unrecognized,
		spaces:       c.spaces + o.spaces,
	}
}

func (f *Finder) classify(b byte) charClass {
	switch {
	case b >= '0' && b <= '9':
		return classDigit
	case b == f.unrecognized:
		return classUnrecognized
	case b == ' ' || b == '_':
		return classSpace
	default:
		return classDisqualifying
	}
}
