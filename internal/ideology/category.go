package ideology

import (
	"fmt"
	"strings"
)

// Category is the topic label attached to a legislative item.
type Category string

const (
	CategoryEconomy       Category = "economy"
	CategoryValues        Category = "values"
	CategoryEnvironment   Category = "environment"
	CategoryRegional      Category = "regional"
	CategoryInternational Category = "international"
	CategorySecurity      Category = "security"
	CategoryOther         Category = "other"
)

// categoryAxes is the single Category → Axis table. Aggregation, discrepancy
// scoring and profile evolution all read it through CategoryAxis.
var categoryAxes = map[Category]Axis{
	CategoryEconomy:       AxisEconomic,
	CategoryValues:        AxisValues,
	CategoryEnvironment:   AxisEnvironment,
	CategoryRegional:      AxisRegional,
	CategoryInternational: AxisInternational,
	CategorySecurity:      AxisSecurity,
}

// Categories lists every category in axis order, Other last.
var Categories = []Category{
	CategoryEconomy,
	CategoryValues,
	CategoryEnvironment,
	CategoryRegional,
	CategoryInternational,
	CategorySecurity,
	CategoryOther,
}

// CategoryAxis returns the axis a category maps to. Other maps to none.
func CategoryAxis(c Category) (Axis, bool) {
	a, ok := categoryAxes[c]
	return a, ok
}

// AxisCategory is the inverse of CategoryAxis.
func AxisCategory(a Axis) Category {
	for c, ax := range categoryAxes {
		if ax == a {
			return c
		}
	}
	return CategoryOther
}

func (c Category) IsValid() bool {
	if c == CategoryOther {
		return true
	}
	_, ok := categoryAxes[c]
	return ok
}

// Rank is the category's position in Categories, used for stable ordering.
func (c Category) Rank() int {
	for i, x := range Categories {
		if x == c {
			return i
		}
	}
	return len(Categories)
}

// ParseCategory accepts the lower-case name, case-insensitively.
func ParseCategory(s string) (Category, error) {
	c := Category(strings.ToLower(strings.TrimSpace(s)))
	if !c.IsValid() {
		return "", fmt.Errorf("unknown category %q", s)
	}
	return c, nil
}
