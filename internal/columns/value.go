package columns

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/campus-events/backend/internal/models"
)

// Value is a typed cell value interpreted against a column definition.
// The definition table is the single source of truth for how a raw
// customData entry is read; rows never carry type information themselves.
type Value struct {
	Type models.ColumnType

	Text   string
	Number float64
	Bool   bool
}

// String renders the value the way list surfaces display it.
func (v Value) String() string {
	switch v.Type {
	case models.ColumnNumber:
		return strconv.FormatFloat(v.Number, 'f', -1, 64)
	case models.ColumnCheckbox:
		return strconv.FormatBool(v.Bool)
	default:
		return v.Text
	}
}

// ZeroValue is the type-appropriate fallback for a column with no default:
// false for checkbox, 0 for number, empty string otherwise.
func ZeroValue(t models.ColumnType) Value {
	switch t {
	case models.ColumnNumber:
		return Value{Type: models.ColumnNumber}
	case models.ColumnCheckbox:
		return Value{Type: models.ColumnCheckbox}
	default:
		return Value{Type: t}
	}
}

// Parse interprets a raw cell against the column definition. Untyped JSON
// values arrive as string, float64 or bool depending on how they were stored.
func Parse(col *models.CustomColumn, raw any) (Value, error) {
	switch col.DataType {
	case models.ColumnNumber:
		switch n := raw.(type) {
		case float64:
			return Value{Type: models.ColumnNumber, Number: n}, nil
		case string:
			f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
			if err != nil {
				return Value{}, fmt.Errorf("column %q: not a number: %q", col.Name, n)
			}
			return Value{Type: models.ColumnNumber, Number: f}, nil
		}
		return Value{}, fmt.Errorf("column %q: unexpected number value %T", col.Name, raw)
	case models.ColumnCheckbox:
		switch b := raw.(type) {
		case bool:
			return Value{Type: models.ColumnCheckbox, Bool: b}, nil
		case string:
			return Value{Type: models.ColumnCheckbox, Bool: strings.EqualFold(b, "true")}, nil
		}
		return Value{}, fmt.Errorf("column %q: unexpected checkbox value %T", col.Name, raw)
	case models.ColumnDropdown:
		s, ok := raw.(string)
		if !ok {
			return Value{}, fmt.Errorf("column %q: unexpected dropdown value %T", col.Name, raw)
		}
		for _, opt := range col.Options {
			if opt == s {
				return Value{Type: models.ColumnDropdown, Text: s}, nil
			}
		}
		return Value{}, fmt.Errorf("column %q: %q is not an option", col.Name, s)
	default:
		s, ok := raw.(string)
		if !ok {
			return Value{}, fmt.Errorf("column %q: unexpected value %T", col.Name, raw)
		}
		return Value{Type: col.DataType, Text: s}, nil
	}
}

// Resolve reads the cell for col out of customData, falling back to the
// column default and then the type-appropriate zero value. A backfilled
// default and an absent key resolve identically.
func Resolve(col *models.CustomColumn, customData map[string]any) Value {
	if raw, ok := customData[col.ID.String()]; ok && raw != nil {
		if v, err := Parse(col, raw); err == nil {
			return v
		}
	}
	if col.DefaultValue != "" {
		if v, err := Parse(col, col.DefaultValue); err == nil {
			return v
		}
	}
	return ZeroValue(col.DataType)
}
