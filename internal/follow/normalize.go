package follow

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/preston-bernstein/esports-dashboard/internal/domain/teams"
)

// NormalizeValues coerces loosely typed input into a set of valid team IDs.
// Integers and integral floats are kept, decimal strings are parsed, and everything
// else (bools, nil, fractions, junk) is dropped along with non-positive values.
func NormalizeValues(values []any) teams.IDSet {
	ids := make([]teams.ID, 0, len(values))
	for _, v := range values {
		if id, ok := coerceID(v); ok {
			ids = append(ids, id)
		}
	}
	return teams.NewIDSet(ids...)
}

func coerceID(v any) (teams.ID, bool) {
	switch n := v.(type) {
	case teams.ID:
		return n, n.Valid()
	case int:
		return teams.ID(n), n > 0
	case int32:
		return teams.ID(n), n > 0
	case int64:
		return teams.ID(n), n > 0
	case uint:
		return fromUint(uint64(n))
	case uint32:
		return fromUint(uint64(n))
	case uint64:
		return fromUint(n)
	case float32:
		return fromFloat(float64(n))
	case float64:
		return fromFloat(n)
	case json.Number:
		return fromString(string(n))
	case string:
		return fromString(n)
	default:
		return 0, false
	}
}

func fromUint(n uint64) (teams.ID, bool) {
	if n == 0 || n > math.MaxInt64 {
		return 0, false
	}
	return teams.ID(n), true
}

func fromFloat(f float64) (teams.ID, bool) {
	if math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) || f <= 0 || f >= math.MaxInt64 {
		return 0, false
	}
	return teams.ID(f), true
}

func fromString(s string) (teams.ID, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return teams.ID(n), n > 0
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return fromFloat(f)
}

// decode parses a persisted slot. Anything other than a JSON array yields ok=false.
func decode(data []byte) (teams.IDSet, bool) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var raw any
	if err := dec.Decode(&raw); err != nil {
		return teams.IDSet{}, false
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return teams.IDSet{}, false
	}
	values, ok := raw.([]any)
	if !ok {
		return teams.IDSet{}, false
	}
	return NormalizeValues(values), true
}

// encode renders the canonical form: a sorted integer array.
func encode(set teams.IDSet) ([]byte, error) {
	return json.Marshal(set.IDs())
}
