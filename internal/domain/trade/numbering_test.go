package trade

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsAutoNumber(t *testing.T) {
	assert.True(t, IsAutoNumber("260001"))
	assert.True(t, IsAutoNumber("T260001"))
	assert.False(t, IsAutoNumber("26/27"))
	assert.False(t, IsAutoNumber("TX-001"))
	assert.False(t, IsAutoNumber("26 001"))
	assert.False(t, IsAutoNumber(""))
}

func TestAutoNumericValue(t *testing.T) {
	t.Run("plain digits", func(t *testing.T) {
		n, ok := AutoNumericValue("260006", "")
		assert.True(t, ok)
		assert.Equal(t, int64(260006), n)
	})

	t.Run("strips configured prefix", func(t *testing.T) {
		n, ok := AutoNumericValue("T260006", "T")
		assert.True(t, ok)
		assert.Equal(t, int64(260006), n)
	})

	t.Run("rejects manual numbers", func(t *testing.T) {
		_, ok := AutoNumericValue("2026/15", "")
		assert.False(t, ok)
	})

	t.Run("rejects bodies longer than nine digits", func(t *testing.T) {
		_, ok := AutoNumericValue("20260101120000", "")
		assert.False(t, ok)
	})

	t.Run("rejects bodies without digits", func(t *testing.T) {
		_, ok := AutoNumericValue("ABC", "")
		assert.False(t, ok)
	})
}

func TestExtractNumericPart(t *testing.T) {
	cases := map[string]int64{
		"12345":       12345,
		"TX-00123":    123,
		"ABC00456DEF": 456,
		"T-2024-001":  2024001,
		"INV001":      1,
	}
	for in, want := range cases {
		n, ok := ExtractNumericPart(in)
		assert.True(t, ok, in)
		assert.Equal(t, want, n, in)
	}

	_, ok := ExtractNumericPart("ABCDEF")
	assert.False(t, ok)
	_, ok = ExtractNumericPart("")
	assert.False(t, ok)
}

func TestIsNumericTransaction(t *testing.T) {
	cases := map[string]bool{
		"26000":   true,
		"T26000":  true,
		"TX26000": true,
		"123":     false,
		"ABCDEF":  false,
		"TX-A001": false,
		"260001":  true,
	}
	for in, want := range cases {
		assert.Equal(t, want, IsNumericTransaction(in), in)
	}
}

func TestFormatNumber(t *testing.T) {
	assert.Equal(t, "42", FormatNumber(42, ""))
	assert.Equal(t, "TX-42", FormatNumber(42, "TX-"))
	assert.Equal(t, "T260001", FormatNumber(260001, "T"))
}
