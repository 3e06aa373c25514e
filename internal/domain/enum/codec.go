package enum

import (
	"encoding/json"
	"fmt"
	"strings"
)

// decodeName resolves a JSON string (case-insensitive) or a JSON integer to
// the index of names. Unknown values are rejected.
func decodeName(data []byte, names []string, kind string) (int, error) {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		var i int
		if err := json.Unmarshal(data, &i); err != nil {
			return 0, err
		}
		if i < 0 || i >= len(names) {
			return 0, fmt.Errorf("invalid %s: %d", kind, i)
		}
		return i, nil
	}
	return parseName(str, names, kind)
}

func parseName(str string, names []string, kind string) (int, error) {
	normalized := strings.ToUpper(strings.TrimSpace(str))
	for i, name := range names {
		if name == normalized {
			return i, nil
		}
	}
	return 0, fmt.Errorf("invalid %s: %q", kind, str)
}

func nameOf(i int, names []string) string {
	if i < 0 || i >= len(names) {
		return "UNKNOWN"
	}
	return names[i]
}

func scanInt(value interface{}) (int, error) {
	switch v := value.(type) {
	case int64:
		return int(v), nil
	case int32:
		return int(v), nil
	case int:
		return v, nil
	case []byte:
		var i int
		_, err := fmt.Sscan(string(v), &i)
		return i, err
	case string:
		var i int
		_, err := fmt.Sscan(v, &i)
		return i, err
	}
	return 0, fmt.Errorf("unsupported enum value type %T", value)
}
