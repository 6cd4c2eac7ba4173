package primitive

import "strings"

//go:generate go tool stringer -type=Category -trimprefix=Category -output=category_string.go

// Category is the human-readable type family a parse error message refers to.
type Category int

const (
	CategoryObject    Category = iota // anything without a more specific family
	CategoryNumber                    // int, uint of any width
	CategoryDecimal                   // float32, float64
	CategoryDate                      // time.Time, time.Duration
	CategoryText                      // string
	CategoryLogical                   // bool
	CategoryCharacter                 // single characters, only produced by custom formatters
)

// Categorized is implemented by formatters that know the category of the values they parse.
type Categorized interface {
	Category() Category
}

// Name returns the lower-case category name used in message keys, e.g. "number".
func (c Category) Name() string {
	return strings.ToLower(c.String())
}
