// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at http://mozilla.org/MPL/2.0/.

package instant

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseDuration(t *testing.T) {
	tests := []struct {
		input       string
		want        Duration
		expectError error
	}{
		{input: "PT1H", want: Secs(3600)},
		{input: "PT1M", want: Secs(60)},
		{input: "PT1S", want: Secs(1)},
		{input: "PT1H30M", want: Secs(5400)},
		{input: "PT1H30M1S", want: Secs(5401)},
		{input: "P15DT5H0M20S", want: Secs(15*86400 + 5*3600 + 20)},
		{input: "+P15DT5H0M20S", want: Secs(15*86400 + 5*3600 + 20)},
		{input: "-P15DT5H0M20S", want: Secs(-(15*86400 + 5*3600 + 20))},
		{input: "P15D", want: DaysDur(15)},
		{input: "-P2W", want: DaysDur(-14)},
		{input: "", want: Duration{}, expectError: ErrEmptyDuration},
		{input: "+Q15DT5H0M20S", expectError: ErrBadDurationPrefix},
		{input: "+P15DT5H0M20G", expectError: ErrUnexpectedChar},
		{input: "+P15DT5H0M20", expectError: ErrMissingUnit},
		{input: "+P15DT5H0M20S20S", expectError: ErrDuplicateUnit},
	}
	for _, test := range tests {
		got, err := ParseDuration(test.input)
		if test.expectError != nil {
			assert.ErrorIs(t, err, test.expectError)
			continue
		}
		assert.NoError(t, err)
		assert.Equal(t, test.want, got)
	}
}

func BenchmarkParseDuration(b *testing.B) {
	for b.Loop() {
		_, err := ParseDuration("P15DT5H0M20S")
		if err != nil {
			b.Fatal(err)
		}
	}
}

func TestParseUTCDateTime(t *testing.T) {
	tests := []struct {
		name        string
		input       string
		want        Instant
		expectError bool
	}{
		{
			name:  "valid UTC date-time",
			input: "20250928T183000Z",
			want:  New(2025, 9, 28, 18, 30, 0, SpecUTC()),
		},
		{
			name:  "year boundary",
			input: "20231231T235959Z",
			want:  New(2023, 12, 31, 23, 59, 59, SpecUTC()),
		},
		{
			name:  "midday",
			input: "20000101T120000Z",
			want:  New(2000, 1, 1, 12, 0, 0, SpecUTC()),
		},
		{
			name:        "missing Z is not a valid UTC form",
			input:       "20240101T000000",
			expectError: true,
		},
		{
			name:        "truncated time",
			input:       "20250928T1830Z",
			expectError: true,
		},
		{
			name:        "hyphenated ISO form unsupported",
			input:       "2025-09-28T18:30:00Z",
			expectError: true,
		},
		{
			name:        "empty input",
			input:       "",
			expectError: true,
		},
		{
			name:        "garbage input",
			input:       "invalid",
			expectError: true,
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			got, err := ParseUTCDateTime(test.input)
			if test.expectError {
				assert.ErrorIs(t, err, ErrBadUTCDateTime)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, test.want, got)
		})
	}
}

func BenchmarkParseUTCDateTime(b *testing.B) {
	times := []string{
		"20250928T183000Z",
		"20240101T000000Z",
		"20231231T235959Z",
		"20000101T120000Z",
	}
	for b.Loop() {
		for _, s := range times {
			if _, err := ParseUTCDateTime(s); err != nil {
				b.Fatal(err)
			}
		}
	}
}
