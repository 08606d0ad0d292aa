package currency

import (
	"strings"
	"testing"
	"unicode"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

// digitsOf убирает разделители групп, оставляя только цифры
func digitsOf(s string) string {
	var b strings.Builder
	for _, r := range s {
		if unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func TestFormatInt_GroupsThousandsAndAppendsSuffix(t *testing.T) {
	got := FormatInt(1234567)

	// Суффикс валюты фиксированный
	assert.True(t, strings.HasSuffix(got, " "+Suffix), "expected suffix, got %q", got)

	// Цифры сохранены, но между ними появились разделители групп
	numberPart := strings.TrimSuffix(got, " "+Suffix)
	assert.Equal(t, "1234567", digitsOf(numberPart))
	assert.Greater(t, len([]rune(numberPart)), 7, "expected group separators in %q", numberPart)
}

func TestFormatInt_SmallAmountHasNoSeparators(t *testing.T) {
	got := FormatInt(250)
	assert.Equal(t, "250", digitsOf(got))

	numberPart := strings.TrimSuffix(got, " "+Suffix)
	assert.Equal(t, 3, len([]rune(numberPart)))
}

func TestFormat_DecimalAmount(t *testing.T) {
	got := Format(decimal.NewFromInt(25000))

	assert.True(t, strings.HasSuffix(got, " "+Suffix))
	assert.Equal(t, "25000", digitsOf(strings.TrimSuffix(got, " "+Suffix)))
}

func TestFormat_Zero(t *testing.T) {
	got := Format(decimal.Zero)
	assert.Equal(t, "0", digitsOf(strings.TrimSuffix(got, " "+Suffix)))
}
