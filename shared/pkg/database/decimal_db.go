package database

import (
	"database/sql/driver"
	"fmt"

	"github.com/shopspring/decimal"
)

// NullDecimal is a nullable shopspring.Decimal with DB compatibility.
// Catalog numeric columns are NUMERIC or TEXT and may be NULL, so a plain
// float64 scan would silently turn NULL into zero.
type NullDecimal struct {
	Decimal decimal.Decimal
	Valid   bool
	// Malformed is set when the column held a value that could not be parsed.
	Malformed bool
}

// Value implements the driver.Valuer interface for database serialization.
func (d NullDecimal) Value() (driver.Value, error) {
	if !d.Valid {
		return nil, nil
	}
	return d.Decimal.String(), nil
}

// Scan implements the sql.Scanner interface for database deserialization.
func (d *NullDecimal) Scan(value interface{}) error {
	d.Decimal, d.Valid, d.Malformed = decimal.Zero, false, false

	switch v := value.(type) {
	case nil:
		return nil
	case []byte:
		d.parse(string(v))
	case string:
		d.parse(v)
	case float64:
		d.Decimal, d.Valid = decimal.NewFromFloat(v), true
	case int64:
		d.Decimal, d.Valid = decimal.NewFromInt(v), true
	default:
		return fmt.Errorf("cannot scan decimal value: %v", value)
	}
	return nil
}

// Float64 returns the value for the normalization step. ok is false for NULL.
func (d NullDecimal) Float64() (value float64, ok bool) {
	if !d.Valid {
		return 0, false
	}
	f, _ := d.Decimal.Float64()
	return f, true
}

func (d *NullDecimal) parse(s string) {
	if s == "" {
		return
	}
	d.Valid = true
	dec, err := decimal.NewFromString(s)
	if err != nil {
		d.Malformed = true
		return
	}
	d.Decimal = dec
}
