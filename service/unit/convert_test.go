package unit

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"backoffice.GO/core/apperr"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestConvert_Scenarios(t *testing.T) {
	got, err := Convert(d("1"), "Kg", "Gram")
	require.NoError(t, err)
	assert.True(t, got.Equal(d("1000")), "1 Kg = %s gram", got)

	got, err = Convert(d("1"), "Liter", "ML")
	require.NoError(t, err)
	assert.True(t, got.Equal(d("1000")), "1 Liter = %s ml", got)

	_, err = Convert(d("1"), "Kg", "Pcs")
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperr.ErrIncompatibleUnit))
	var ue *apperr.IncompatibleUnitError
	require.ErrorAs(t, err, &ue)
	assert.Equal(t, "Kg", ue.From)
	assert.Equal(t, "Pcs", ue.To)
}

func TestConvert_Volume(t *testing.T) {
	cases := []struct {
		value, from, to, want string
	}{
		{"300", "ml", "liter", "0.3"},
		{"2", "tablespoon", "ml", "30"},
		{"3", "teaspoon", "tablespoon", "1"},
		{"1", "sdm", "sdt", "3"},
		{"0.5", "L", "ml", "500"},
		{"250", "gr", "kg", "0.25"},
	}
	for _, tc := range cases {
		got, err := Convert(d(tc.value), tc.from, tc.to)
		require.NoError(t, err, "%s %s -> %s", tc.value, tc.from, tc.to)
		assert.True(t, got.Equal(d(tc.want)), "%s %s -> %s = %s, want %s", tc.value, tc.from, tc.to, got, tc.want)
	}
}

func TestConvert_SameUnitPassThrough(t *testing.T) {
	got, err := Convert(d("7"), "porsi", "Porsi")
	require.NoError(t, err)
	assert.True(t, got.Equal(d("7")))
}

func TestConvert_UnknownUnit(t *testing.T) {
	_, err := Convert(d("1"), "furlong", "meter")
	assert.ErrorIs(t, err, apperr.ErrIncompatibleUnit)
}

func TestConvert_CountFamily(t *testing.T) {
	got, err := Convert(d("4"), "box", "pcs")
	require.NoError(t, err)
	assert.True(t, got.Equal(d("4")))
}

func TestCompatibleUnits(t *testing.T) {
	assert.Equal(t, []string{Gram, Kilogram}, CompatibleUnits("KG"))
	assert.Equal(t, []string{Milliliter, Liter, Tablespoon, Teaspoon}, CompatibleUnits("ml"))
	assert.Equal(t, []string{Pcs, Box, Carton, Pack}, CompatibleUnits("Pcs"))
	assert.Equal(t, []string{Meter}, CompatibleUnits("m"))
	assert.Nil(t, CompatibleUnits("bogus"))
}

func TestCompatible(t *testing.T) {
	assert.True(t, Compatible("g", "kg"))
	assert.False(t, Compatible("g", "ml"))
	assert.False(t, Compatible("g", "bogus"))
}
