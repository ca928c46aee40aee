package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseStatus(t *testing.T) {
	testCases := []struct {
		raw    string
		want   Status
		wantOK bool
	}{
		{raw: "anxiety", want: StatusAnxiety, wantOK: true},
		{raw: "fatigue", want: StatusFatigue, wantOK: true},
		{raw: "tension", want: StatusTension, wantOK: true},
		{raw: "rage", wantOK: false},
		{raw: "", wantOK: false},
	}

	for _, tc := range testCases {
		t.Run(tc.raw, func(t *testing.T) {
			got, ok := ParseStatus(tc.raw)
			assert.Equal(t, tc.wantOK, ok)
			if tc.wantOK {
				assert.Equal(t, tc.want, got)
			}
		})
	}
}

func TestParseFrequency(t *testing.T) {
	testCases := []struct {
		raw    string
		want   Frequency
		wantOK bool
	}{
		{raw: "rare", want: FrequencyRare, wantOK: true},
		{raw: "weekly", want: FrequencyWeekly, wantOK: true},
		{raw: "daily", want: FrequencyDaily, wantOK: true},
		{raw: "hourly", wantOK: false},
	}

	for _, tc := range testCases {
		t.Run(tc.raw, func(t *testing.T) {
			got, ok := ParseFrequency(tc.raw)
			assert.Equal(t, tc.wantOK, ok)
			if tc.wantOK {
				assert.Equal(t, tc.want, got)
			}
		})
	}
}

func TestLabels(t *testing.T) {
	for _, s := range []Status{StatusAnxiety, StatusFatigue, StatusTension} {
		assert.NotEmpty(t, s.Label())
		assert.NotEqual(t, string(s), s.Label())
	}

	for _, f := range []Frequency{FrequencyRare, FrequencyWeekly, FrequencyDaily} {
		assert.NotEmpty(t, f.Label())
		assert.NotEqual(t, string(f), f.Label())
	}
}
