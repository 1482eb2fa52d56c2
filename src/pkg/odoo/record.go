package odoo

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

/*
Record is one row returned by search_read: a field→value map as decoded from
JSON. Odoo is loose about absent data — a missing relation or an empty char
field comes back as boolean false, not null — so every accessor here is
permissive: wrong type or missing field yields the zero value, never an
error. Rejecting rows at this boundary would drop whole documents from a
report over one bad field.
*/
type Record map[string]any

/*
Ref is a decoded many2one value. Odoo serializes those as [id, "display
name"] pairs, or false when the relation is empty.
*/
type Ref struct {
	ID   int
	Name string
}

// Str returns the field as a string, "" for anything that is not one.
func (r Record) Str(field string) string {
	value, ok := r[field].(string)
	if !ok {
		return ""
	}
	return value
}

// Float returns the field as a float64, 0 for anything that is not numeric.
func (r Record) Float(field string) float64 {
	switch value := r[field].(type) {
	case float64:
		return value
	case int:
		return float64(value)
	default:
		return 0
	}
}

/*
Dec returns the field as a decimal. Conversion happens once here so all
downstream accumulation is exact.
*/
func (r Record) Dec(field string) decimal.Decimal {
	return decimal.NewFromFloat(r.Float(field))
}

// Int returns the field as an int. JSON numbers decode as float64.
func (r Record) Int(field string) int {
	switch value := r[field].(type) {
	case float64:
		return int(value)
	case int:
		return value
	default:
		return 0
	}
}

// Bool returns the field as a bool, false otherwise.
func (r Record) Bool(field string) bool {
	value, ok := r[field].(bool)
	return ok && value
}

/*
Ref decodes a many2one field. An empty relation (false) or a malformed pair
yields the zero Ref, which callers treat as "no linked record".
*/
func (r Record) Ref(field string) Ref {
	pair, ok := r[field].([]any)
	if !ok || len(pair) != 2 {
		return Ref{}
	}

	ref := Ref{}
	if id, idOk := pair[0].(float64); idOk {
		ref.ID = int(id)
	}
	if name, nameOk := pair[1].(string); nameOk {
		ref.Name = name
	}
	return ref
}

/*
IDs decodes a one2many/many2many field (a plain list of ids). Empty or
missing relations yield a nil slice.
*/
func (r Record) IDs(field string) []int {
	list, ok := r[field].([]any)
	if !ok {
		return nil
	}

	ids := make([]int, 0, len(list))
	for _, entry := range list {
		if id, idOk := entry.(float64); idOk {
			ids = append(ids, int(id))
		}
	}
	return ids
}

/*
Date parses a date or datetime field ("2006-01-02" or "2006-01-02 15:04:05",
only the date part is kept). Missing or unparseable values yield the zero
time; callers decide what that means (e.g. an invoice without a due date is
not yet due).
*/
func (r Record) Date(field string) time.Time {
	raw := r.Str(field)
	if len(raw) > 10 {
		raw = raw[:10]
	}
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}
	}

	parsed, parseErr := time.Parse("2006-01-02", raw)
	if parseErr != nil {
		return time.Time{}
	}
	return parsed
}
