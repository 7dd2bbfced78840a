package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCleanMoney(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"20", "20.00"},
		{"19.995", "20.00"},
		{"19.994", "19.99"},
		{"$1,234.5", "1234.50"},
		{" 15.00 ", "15.00"},
		{"0.005", "0.01"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			d, err := CleanMoney(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, FormatTotal(d))
		})
	}
}

func TestCleanMoney_Invalid(t *testing.T) {
	for _, input := range []string{"", "abc", "0", "-5", "1.2.3"} {
		t.Run(input, func(t *testing.T) {
			_, err := CleanMoney(input)
			require.Error(t, err)
			assert.True(t, IsDomainError(err, ErrorCodeValidationAmountInvalid))
		})
	}
}

func TestAmountCents(t *testing.T) {
	d, err := CleanMoney("19.995")
	require.NoError(t, err)
	assert.Equal(t, int64(2000), AmountCents(d))
}
