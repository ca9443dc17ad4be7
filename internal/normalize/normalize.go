// Package normalize turns an untrusted extraction-service response into a
// validated productivity record, or a typed [*Error].
//
// A record returned without error always has a valid period and at least one
// entry with a positive quantity.
package normalize

import (
	"encoding/json"
	"fmt"
	"math"
	"slices"
	"strings"
	"sync"

	"github.com/calvinalkan/pontos/internal/catalog"
	"github.com/calvinalkan/pontos/internal/period"

	"github.com/kaptinlin/jsonschema"
	"github.com/shopspring/decimal"
	"github.com/tidwall/gjson"
)

const (
	minYear     = 1900
	maxYear     = 9999
	maxQuantity = math.MaxInt32
)

// Record is a normalized extraction.
type Record struct {
	// ServerName is empty when the response carried none.
	ServerName string
	Period     period.Period
	// YearSupplied is false when Period.Year came from Options.FallbackYear.
	YearSupplied bool
	// Entries maps task id to a positive count. Never empty.
	Entries map[int]int
	// UnknownTaskIDs lists entry ids that are not in the catalog, sorted.
	UnknownTaskIDs []int
}

// Options tunes [Normalize].
type Options struct {
	// FallbackYear is used when the response has no usable year.
	// Zero means no fallback.
	FallbackYear int
}

// responseSchema describes the shapes accepted from the service. "data" may
// be the requested entry list or the {"<id>": qty} map the text prompt
// sometimes gets back.
const responseSchema = `{
  "type": "object",
  "required": ["data"],
  "properties": {
    "serverName": {"type": ["string", "null"]},
    "month": {"type": ["string", "number", "null"]},
    "year": {"type": ["number", "string", "null"]},
    "data": {
      "type": ["array", "object"],
      "items": {
        "type": "object",
        "properties": {
          "taskId": {"type": ["number", "string", "null"]},
          "quantity": {"type": ["number", "string", "null"]}
        }
      },
      "additionalProperties": {"type": ["number", "string", "null"]}
    }
  }
}`

var (
	compileOnce sync.Once
	compiled    *jsonschema.Schema
	compileErr  error
)

func responseValidator() (*jsonschema.Schema, error) {
	compileOnce.Do(func() {
		compiled, compileErr = jsonschema.NewCompiler().Compile([]byte(responseSchema))
	})

	return compiled, compileErr
}

// Normalize validates raw and returns the record it describes.
func Normalize(raw string, opts Options) (Record, error) {
	text := StripFences(raw)

	if text == "" || !gjson.Valid(text) {
		return Record{}, &Error{Kind: KindFormat, Raw: raw}
	}

	if err := validate(text); err != nil {
		return Record{}, &Error{Kind: KindFormat, Raw: raw, Err: err}
	}

	doc := gjson.Parse(text)

	entries, unknown := collectEntries(doc.Get("data"))

	month, err := resolveMonth(doc.Get("month"))
	if err != nil {
		err.Raw = raw

		return Record{}, err
	}

	year, supplied, err := resolveYear(doc.Get("year"), opts.FallbackYear)
	if err != nil {
		err.Raw = raw

		return Record{}, err
	}

	if len(entries) == 0 {
		return Record{}, &Error{Kind: KindEmpty, Raw: raw}
	}

	var serverName string
	if name := doc.Get("serverName"); name.Type == gjson.String {
		serverName = strings.TrimSpace(name.String())
	}

	return Record{
		ServerName:     serverName,
		Period:         period.New(year, month),
		YearSupplied:   supplied,
		Entries:        entries,
		UnknownTaskIDs: unknown,
	}, nil
}

// StripFences removes Markdown code fences and surrounding whitespace.
func StripFences(raw string) string {
	s := strings.ReplaceAll(raw, "```json", "")
	s = strings.ReplaceAll(s, "```JSON", "")
	s = strings.ReplaceAll(s, "```", "")

	return strings.TrimSpace(s)
}

func validate(text string) error {
	schema, err := responseValidator()
	if err != nil {
		return fmt.Errorf("compile response schema: %w", err)
	}

	var value any
	if err := json.Unmarshal([]byte(text), &value); err != nil {
		return err
	}

	result := schema.Validate(value)
	if !result.Valid {
		return fmt.Errorf("schema validation failed: %v", result.Errors)
	}

	return nil
}

// collectEntries keeps entries with a positive integer id and a positive
// quantity. Later entries for the same id replace earlier ones.
func collectEntries(data gjson.Result) (map[int]int, []int) {
	entries := make(map[int]int)

	add := func(idValue, qtyValue gjson.Result) {
		id, ok := integerOf(idValue, 1, math.MaxInt32)
		if !ok {
			return
		}

		qty, ok := quantityOf(qtyValue)
		if !ok || qty <= 0 {
			return
		}

		entries[int(id)] = qty
	}

	if data.IsArray() {
		data.ForEach(func(_, item gjson.Result) bool {
			add(item.Get("taskId"), item.Get("quantity"))

			return true
		})
	} else if data.IsObject() {
		data.ForEach(func(key, value gjson.Result) bool {
			add(key, value)

			return true
		})
	}

	var unknown []int

	for id := range entries {
		if !catalog.Has(id) {
			unknown = append(unknown, id)
		}
	}

	slices.Sort(unknown)

	return entries, unknown
}

func decimalOf(v gjson.Result) (decimal.Decimal, bool) {
	if v.Type != gjson.Number && v.Type != gjson.String {
		return decimal.Decimal{}, false
	}

	raw := strings.TrimSpace(v.String())
	if v.Type == gjson.Number {
		raw = v.Raw
	}

	d, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Decimal{}, false
	}

	return d, true
}

// integerOf accepts whole numbers in [lo, hi] written as JSON numbers or
// strings. The range is checked on the decimal so values beyond int64 are
// rejected instead of wrapping.
func integerOf(v gjson.Result, lo, hi int64) (int64, bool) {
	d, ok := decimalOf(v)
	if !ok || !d.IsInteger() {
		return 0, false
	}

	if d.LessThan(decimal.NewFromInt(lo)) || d.GreaterThan(decimal.NewFromInt(hi)) {
		return 0, false
	}

	return d.IntPart(), true
}

// quantityOf truncates fractional quantities and caps huge ones.
func quantityOf(v gjson.Result) (int, bool) {
	d, ok := decimalOf(v)
	if !ok {
		return 0, false
	}

	d = d.Truncate(0)

	if !d.IsPositive() {
		return 0, true
	}

	if d.GreaterThan(decimal.NewFromInt(maxQuantity)) {
		return maxQuantity, true
	}

	return int(d.IntPart()), true
}

func resolveMonth(v gjson.Result) (period.Month, *Error) {
	if !v.Exists() || v.Type == gjson.Null {
		return "", &Error{Kind: KindPeriod, Field: FieldMonth}
	}

	raw := v.String()

	if v.Type == gjson.String {
		if m, ok := period.NormalizeMonthToken(raw); ok {
			return m, nil
		}
	}

	if v.Type == gjson.Number {
		raw = v.Raw
	}

	return "", &Error{Kind: KindPeriod, Field: FieldMonth, Value: raw}
}

func resolveYear(v gjson.Result, fallback int) (int, bool, *Error) {
	if year, ok := integerOf(v, minYear, maxYear); ok {
		return int(year), true, nil
	}

	if fallback != 0 {
		return fallback, false, nil
	}

	value := ""
	if v.Exists() && v.Type != gjson.Null {
		value = v.String()
	}

	return 0, false, &Error{Kind: KindPeriod, Field: FieldYear, Value: value}
}
