package css

import (
	"strings"
	"unicode"
)

// Value represents a parsed CSS property value.
type Value struct {
	Raw       string  // Original CSS value string (e.g., "25%", "120px", "center")
	Value     float64 // Numeric value if applicable
	Unit      string  // Unit if applicable: "%", "px", "em", etc.
	Keyword   string  // Keyword if applicable: "auto", "center", etc.
	Important bool    // Declaration was marked !important
}

// IsNumeric returns true if the value has a numeric component.
// This includes explicit zero values like "0" or "0px".
func (v Value) IsNumeric() bool {
	if v.Unit != "" {
		return true
	}
	if v.Value != 0 && v.Keyword == "" {
		return true
	}
	// handles "0"
	if v.Raw != "" && v.Keyword == "" {
		firstChar := rune(v.Raw[0])
		if unicode.IsDigit(firstChar) || firstChar == '.' || firstChar == '-' || firstChar == '+' {
			return true
		}
	}
	return false
}

// IsKeyword returns true if the value is a keyword (no numeric component).
func (v Value) IsKeyword() bool {
	return v.Keyword != "" && v.Unit == ""
}

// IsPercentage returns true for values like "25%".
func (v Value) IsPercentage() bool {
	return v.Unit == "%"
}

// Length returns numeric value of a length which can be used for
// proportions: percentages, pixels and unitless numbers.
func (v Value) Length() (float64, bool) {
	if !v.IsNumeric() {
		return 0, false
	}
	switch v.Unit {
	case "", "%", "px":
		return v.Value, true
	}
	return 0, false
}

// Declarations holds properties of an inline style attribute. Later
// declarations of the same property replace earlier ones, but keep their
// original place.
type Declarations struct {
	names  []string
	values map[string]Value
}

// Get returns the value for a property, or empty Value if not found.
func (d Declarations) Get(name string) (Value, bool) {
	v, ok := d.values[strings.ToLower(name)]
	return v, ok
}

// Names returns property names in source order.
func (d Declarations) Names() []string {
	out := make([]string, len(d.names))
	copy(out, d.names)
	return out
}

func (d Declarations) Len() int {
	return len(d.names)
}

// Set adds or replaces the property.
func (d *Declarations) Set(name string, v Value) {
	name = strings.ToLower(name)
	if d.values == nil {
		d.values = make(map[string]Value)
	}
	if _, ok := d.values[name]; !ok {
		d.names = append(d.names, name)
	}
	d.values[name] = v
}

// Delete removes the property.
func (d *Declarations) Delete(name string) {
	name = strings.ToLower(name)
	if _, ok := d.values[name]; !ok {
		return
	}
	delete(d.values, name)
	for i, n := range d.names {
		if n == name {
			d.names = append(d.names[:i], d.names[i+1:]...)
			break
		}
	}
}

// String returns the declarations as style attribute text.
func (d Declarations) String() string {
	var sb strings.Builder
	for i, name := range d.names {
		if i > 0 {
			sb.WriteByte(';')
		}
		v := d.values[name]
		sb.WriteString(name)
		sb.WriteByte(':')
		sb.WriteString(v.Raw)
		if v.Important {
			sb.WriteString(" !important")
		}
	}
	return sb.String()
}
