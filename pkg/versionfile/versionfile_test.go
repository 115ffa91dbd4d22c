package versionfile

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolve(t *testing.T) {
	testcases := []struct {
		name     string
		fields   Fields
		expected string
	}{
		{
			name:     "allZero",
			expected: "0.0.0-0",
		},
		{
			name:     "noPreRelease",
			fields:   Fields{Major: 1, Minor: 2, Release: 3, Build: 4},
			expected: "1.2.3-4",
		},
		{
			name:     "alpha",
			fields:   Fields{Major: 1, Minor: 2, Release: 3, Build: 4, Alpha: 5},
			expected: "1.2.3-4-alpha5",
		},
		{
			name:     "beta",
			fields:   Fields{Major: 1, Minor: 2, Release: 3, Build: 4, Beta: 2},
			expected: "1.2.3-4-beta2",
		},
		{
			name:     "alphaWinsOverBeta",
			fields:   Fields{Major: 1, Minor: 2, Release: 3, Build: 4, Alpha: 5, Beta: 2},
			expected: "1.2.3-4-alpha5",
		},
		{
			name:     "negativeAlphaIsIgnored",
			fields:   Fields{Major: 2, Build: 7, Alpha: -1, Beta: 3},
			expected: "2.0.0-7-beta3",
		},
		{
			name:     "appDateIsNotPartOfVersion",
			fields:   Fields{Major: 4, Minor: 1, AppDate: "01/02/2024"},
			expected: "4.1.0-0",
		},
	}

	for _, tc := range testcases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, Resolve(&tc.fields))
			assert.Equal(t, tc.expected, tc.fields.Version())
		})
	}
}
