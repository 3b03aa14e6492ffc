// Package units provides units of measure and unit-tagged quantities.
//
// Every unit belongs to a dimension and carries a factor that converts one of
// it into the dimension's base unit (byte, second, item). Quantities can only
// be converted, compared and added within a dimension.
package units

import (
	"fmt"
	"sort"
	"strings"

	"github.com/shopspring/decimal"
)

// Dimension groups mutually convertible units
type Dimension string

const (
	DimensionData  Dimension = "data"
	DimensionTime  Dimension = "time"
	DimensionCount Dimension = "count"
)

// Unit is a named unit of measure
type Unit struct {
	name      string
	dimension Dimension
	factor    decimal.Decimal
}

var (
	secondsPerDay  = decimal.NewFromInt(86400)
	secondsPerYear = decimal.NewFromInt(31556952) // 365.2425 days
)

var (
	ByteUnit     = Unit{"byte", DimensionData, decimal.NewFromInt(1)}
	KilobyteUnit = Unit{"kilobyte", DimensionData, decimal.NewFromInt(1_000)}
	MegabyteUnit = Unit{"megabyte", DimensionData, decimal.NewFromInt(1_000_000)}
	GigabyteUnit = Unit{"gigabyte", DimensionData, decimal.NewFromInt(1_000_000_000)}
	TerabyteUnit = Unit{"terabyte", DimensionData, decimal.NewFromInt(1_000_000_000_000)}

	SecondUnit = Unit{"second", DimensionTime, decimal.NewFromInt(1)}
	MinuteUnit = Unit{"minute", DimensionTime, decimal.NewFromInt(60)}
	HourUnit   = Unit{"hour", DimensionTime, decimal.NewFromInt(3600)}
	DayUnit    = Unit{"day", DimensionTime, secondsPerDay}
	MonthUnit  = Unit{"month", DimensionTime, secondsPerYear.Div(decimal.NewFromInt(12))}
	YearUnit   = Unit{"year", DimensionTime, secondsPerYear}

	ItemUnit = Unit{"item", DimensionCount, decimal.NewFromInt(1)}
)

var byName = map[string]Unit{}

func register(u Unit, aliases ...string) {
	byName[u.name] = u
	byName[u.name+"s"] = u
	for _, a := range aliases {
		byName[strings.ToLower(a)] = u
	}
}

func init() {
	register(ByteUnit, "b")
	register(KilobyteUnit, "kb")
	register(MegabyteUnit, "mb")
	register(GigabyteUnit, "gb")
	register(TerabyteUnit, "tb")
	register(SecondUnit, "s", "sec")
	register(MinuteUnit, "min")
	register(HourUnit, "h")
	register(DayUnit, "d")
	register(MonthUnit, "mon")
	register(YearUnit, "y", "yr")
	register(ItemUnit, "pcs", "unit", "units")
}

// Lookup finds a unit by name or alias, case-insensitively.
func Lookup(name string) (Unit, error) {
	u, ok := byName[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return Unit{}, fmt.Errorf("unknown unit %q", name)
	}
	return u, nil
}

// Names returns the canonical unit names, sorted.
func Names() []string {
	seen := map[string]bool{}
	for _, u := range byName {
		seen[u.name] = true
	}
	names := make([]string, 0, len(seen))
	for n := range seen {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Name returns the canonical unit name
func (u Unit) Name() string { return u.name }

// Dimension returns the unit dimension
func (u Unit) Dimension() Dimension { return u.dimension }

// IsZero reports whether u is the zero Unit
func (u Unit) IsZero() bool { return u.name == "" }

// Equals compares units by name
func (u Unit) Equals(other Unit) bool { return u.name == other.name }

// IsConvertible reports whether quantities of u can be expressed in other
func (u Unit) IsConvertible(other Unit) bool { return u.dimension == other.dimension }

func (u Unit) String() string { return u.name }
