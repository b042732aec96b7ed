// Package unit converts quantities between measurement units of the same
// family (mass, volume, count, length).
package unit

import (
	"strings"

	"github.com/shopspring/decimal"

	"backoffice.GO/core/apperr"
)

// Family groups units that can be converted into one another.
type Family string

const (
	FamilyMass   Family = "mass"
	FamilyVolume Family = "volume"
	FamilyCount  Family = "count"
	FamilyLength Family = "length"
)

// Canonical unit names.
const (
	Gram       = "gram"
	Kilogram   = "kg"
	Milliliter = "ml"
	Liter      = "liter"
	Tablespoon = "tablespoon"
	Teaspoon   = "teaspoon"
	Pcs        = "pcs"
	Box        = "box"
	Carton     = "carton"
	Pack       = "pack"
	Meter      = "meter"
)

type definition struct {
	family Family
	// factor relative to the family base unit (gram, ml, pcs, meter)
	factor decimal.Decimal
}

var definitions = map[string]definition{
	Gram:       {FamilyMass, decimal.NewFromInt(1)},
	Kilogram:   {FamilyMass, decimal.NewFromInt(1000)},
	Milliliter: {FamilyVolume, decimal.NewFromInt(1)},
	Liter:      {FamilyVolume, decimal.NewFromInt(1000)},
	Tablespoon: {FamilyVolume, decimal.NewFromInt(15)},
	Teaspoon:   {FamilyVolume, decimal.NewFromInt(5)},
	Pcs:        {FamilyCount, decimal.NewFromInt(1)},
	Box:        {FamilyCount, decimal.NewFromInt(1)},
	Carton:     {FamilyCount, decimal.NewFromInt(1)},
	Pack:       {FamilyCount, decimal.NewFromInt(1)},
	Meter:      {FamilyLength, decimal.NewFromInt(1)},
}

// order in which CompatibleUnits lists a family
var familyUnits = map[Family][]string{
	FamilyMass:   {Gram, Kilogram},
	FamilyVolume: {Milliliter, Liter, Tablespoon, Teaspoon},
	FamilyCount:  {Pcs, Box, Carton, Pack},
	FamilyLength: {Meter},
}

var aliases = map[string]string{
	"g": Gram, "gr": Gram, "gram": Gram, "grams": Gram, "gramm": Gram,
	"kg": Kilogram, "kilo": Kilogram, "kilogram": Kilogram,
	"ml": Milliliter, "milliliter": Milliliter, "mililiter": Milliliter,
	"l": Liter, "lt": Liter, "liter": Liter, "litre": Liter, "ltr": Liter,
	"tbsp": Tablespoon, "sdm": Tablespoon, "tablespoon": Tablespoon,
	"tsp": Teaspoon, "sdt": Teaspoon, "teaspoon": Teaspoon,
	"pcs": Pcs, "pc": Pcs, "piece": Pcs, "buah": Pcs,
	"box": Box, "carton": Carton, "karton": Carton, "pack": Pack, "pak": Pack,
	"m": Meter, "meter": Meter, "metre": Meter,
}

// Normalize maps a user-entered unit name to its canonical form. The
// second return is false for unknown units.
func Normalize(u string) (string, bool) {
	c, ok := aliases[strings.ToLower(strings.TrimSpace(u))]
	return c, ok
}

// FamilyOf returns the family of u.
func FamilyOf(u string) (Family, bool) {
	c, ok := Normalize(u)
	if !ok {
		return "", false
	}
	return definitions[c].family, true
}

// Convert converts value from one unit to another. Identical unit names
// (case-insensitive) pass through even when the unit is not in the table.
func Convert(value decimal.Decimal, from, to string) (decimal.Decimal, error) {
	if strings.EqualFold(strings.TrimSpace(from), strings.TrimSpace(to)) {
		return value, nil
	}
	fc, okFrom := Normalize(from)
	tc, okTo := Normalize(to)
	if !okFrom || !okTo {
		return decimal.Zero, &apperr.IncompatibleUnitError{From: from, To: to}
	}
	fd, td := definitions[fc], definitions[tc]
	if fd.family != td.family {
		return decimal.Zero, &apperr.IncompatibleUnitError{From: from, To: to}
	}
	if fc == tc {
		return value, nil
	}
	return value.Mul(fd.factor).Div(td.factor), nil
}

// CompatibleUnits returns every canonical unit in the family of u, or nil
// when u is unknown.
func CompatibleUnits(u string) []string {
	f, ok := FamilyOf(u)
	if !ok {
		return nil
	}
	out := make([]string, len(familyUnits[f]))
	copy(out, familyUnits[f])
	return out
}

// Compatible reports whether a and b belong to the same family.
func Compatible(a, b string) bool {
	fa, okA := FamilyOf(a)
	fb, okB := FamilyOf(b)
	return okA && okB && fa == fb
}
