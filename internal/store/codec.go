package store

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/calvinalkan/pontos/internal/period"

	"github.com/tailscale/hujson"
)

// Encode serialises s as {"<year>-<month>": {"<taskId>": count}}.
// Output is deterministic: encoding/json sorts map keys.
func Encode(s *Store) ([]byte, error) {
	doc := make(map[string]map[string]int, len(s.data))

	for p, rec := range s.data {
		entry := make(map[string]int, len(rec))
		for taskID, n := range rec {
			entry[strconv.Itoa(taskID)] = n
		}

		doc[p.Key()] = entry
	}

	return json.MarshalIndent(doc, "", "  ")
}

// Decode parses a document written by [Encode]. Comments and trailing commas
// are tolerated. Negative counts are clamped to 0.
func Decode(data []byte) (*Store, error) {
	standardized, err := hujson.Standardize(data)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid JSONC: %w", ErrCorrupt, err)
	}

	var doc map[string]map[string]int

	if err := json.Unmarshal(standardized, &doc); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCorrupt, err)
	}

	s := New()

	for key, entry := range doc {
		p, err := period.ParseKey(key)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrCorrupt, err)
		}

		rec := make(Record, len(entry))

		for idStr, n := range entry {
			taskID, err := strconv.Atoi(idStr)
			if err != nil || taskID <= 0 {
				return nil, fmt.Errorf("%w: invalid task id %q in %s", ErrCorrupt, idStr, key)
			}

			rec[taskID] = clamp(n)
		}

		s.data[p] = rec
	}

	return s, nil
}
