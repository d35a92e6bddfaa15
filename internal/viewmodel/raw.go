package viewmodel

import (
	"encoding/json"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Raw is a backend row as decoded from JSON. Field types are whatever the
// store returned, so every accessor below tolerates the wrong shape.
type Raw = map[string]any

func rawMap(row Raw, key string) Raw {
	if m, ok := row[key].(map[string]any); ok {
		return m
	}
	return nil
}

func rawSlice(row Raw, key string) []any {
	if s, ok := row[key].([]any); ok {
		return s
	}
	return nil
}

// str returns the first present, non-empty string among keys. Numeric values
// are stringified since id columns arrive as either.
func str(row Raw, keys ...string) string {
	for _, key := range keys {
		switch v := row[key].(type) {
		case string:
			if trimmed := strings.TrimSpace(v); trimmed != "" {
				return trimmed
			}
		case float64:
			return formatNumber(v)
		case int:
			return strconv.Itoa(v)
		case int64:
			return strconv.FormatInt(v, 10)
		case json.Number:
			return v.String()
		}
	}
	return ""
}

// strOr is str with a fallback for absent values.
func strOr(row Raw, fallback string, keys ...string) string {
	if v := str(row, keys...); v != "" {
		return v
	}
	return fallback
}

// num returns the first present numeric value among keys. Numeric strings
// are parsed; anything else reports absent.
func num(row Raw, keys ...string) (float64, bool) {
	for _, key := range keys {
		switch v := row[key].(type) {
		case float64:
			return v, true
		case int:
			return float64(v), true
		case int64:
			return float64(v), true
		case json.Number:
			if f, err := v.Float64(); err == nil {
				return f, true
			}
		case string:
			if f, err := strconv.ParseFloat(strings.TrimSpace(v), 64); err == nil {
				return f, true
			}
		}
	}
	return 0, false
}

func numOrZero(row Raw, keys ...string) float64 {
	v, _ := num(row, keys...)
	return v
}

func numPtr(row Raw, keys ...string) *float64 {
	if v, ok := num(row, keys...); ok {
		return &v
	}
	return nil
}

func intVal(row Raw, keys ...string) int {
	v, _ := num(row, keys...)
	return int(v)
}

// boolVal coerces the usual JSON representations of a flag. Absent, null and
// unrecognized values are false.
func boolVal(row Raw, keys ...string) bool {
	for _, key := range keys {
		switch v := row[key].(type) {
		case bool:
			return v
		case float64:
			return v != 0
		case string:
			switch strings.ToLower(strings.TrimSpace(v)) {
			case "true", "1", "yes":
				return true
			case "false", "0", "no", "":
			default:
			}
		}
	}
	return false
}

// activeVal reads an active flag that defaults to true when no key is
// present. Only an explicit falsy value deactivates.
func activeVal(row Raw, keys ...string) bool {
	for _, key := range keys {
		v, ok := row[key]
		if !ok || v == nil {
			continue
		}
		switch b := v.(type) {
		case bool:
			return b
		case float64:
			return b != 0
		case string:
			switch strings.ToLower(strings.TrimSpace(b)) {
			case "false", "0", "no":
				return false
			}
		}
		return true
	}
	return true
}

func boolPtr(row Raw, keys ...string) *bool {
	for _, key := range keys {
		if v, ok := row[key].(bool); ok {
			b := v
			return &b
		}
	}
	return nil
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05.999999",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// timeVal parses the first present timestamp among keys. Unparseable values
// report absent rather than a zero time.
func timeVal(row Raw, keys ...string) *time.Time {
	for _, key := range keys {
		switch v := row[key].(type) {
		case time.Time:
			t := v
			return &t
		case string:
			trimmed := strings.TrimSpace(v)
			if trimmed == "" {
				continue
			}
			for _, layout := range timestampLayouts {
				if t, err := time.Parse(layout, trimmed); err == nil {
					return &t
				}
			}
		}
	}
	return nil
}

// Placeholder is rendered for absent display values.
const Placeholder = "—"

// FormatDate renders a timestamp as "05 Mar 2024", or the placeholder when
// absent.
func FormatDate(t *time.Time) string {
	if t == nil {
		return Placeholder
	}
	return t.Format("02 Jan 2006")
}

// FormatDateTime renders a timestamp as "05 Mar 2024, 14:30", or the
// placeholder when absent.
func FormatDateTime(t *time.Time) string {
	if t == nil {
		return Placeholder
	}
	return t.Format("02 Jan 2006, 15:04")
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

var listDelimiters = regexp.MustCompile(`[,;|/]`)

// parseStringList accepts the three shapes list columns arrive in: a native
// JSON array, a JSON-array string, or a delimited string. Elements are
// trimmed, stripped of stray quotes and brackets, and empties dropped.
func parseStringList(value any) []string {
	switch v := value.(type) {
	case nil:
		return nil
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			if s := cleanListItem(item); s != "" {
				out = append(out, s)
			}
		}
		return out
	case []string:
		out := make([]string, 0, len(v))
		for _, item := range v {
			if s := cleanListItem(item); s != "" {
				out = append(out, s)
			}
		}
		return out
	case string:
		trimmed := strings.TrimSpace(v)
		if trimmed == "" {
			return nil
		}
		if strings.HasPrefix(trimmed, "[") {
			var parsed []any
			if err := json.Unmarshal([]byte(trimmed), &parsed); err == nil {
				return parseStringList(parsed)
			}
		}
		parts := listDelimiters.Split(trimmed, -1)
		out := make([]string, 0, len(parts))
		for _, part := range parts {
			if s := cleanListItem(part); s != "" {
				out = append(out, s)
			}
		}
		return out
	default:
		if s := cleanListItem(v); s != "" {
			return []string{s}
		}
		return nil
	}
}

func cleanListItem(item any) string {
	var s string
	switch v := item.(type) {
	case string:
		s = v
	case float64:
		s = formatNumber(v)
	default:
		return ""
	}
	s = strings.Trim(strings.TrimSpace(s), `[]"'`)
	return strings.TrimSpace(s)
}

// extractCount unwraps the aggregate-count artifact a count sub-select leaves
// behind: a list of {count: n} objects. A bare number passes through; any
// other shape counts as zero.
func extractCount(value any) int {
	switch v := value.(type) {
	case nil:
		return 0
	case float64:
		return int(v)
	case int:
		return v
	case []any:
		total := 0
		for _, item := range v {
			if m, ok := item.(map[string]any); ok {
				if n, ok := num(m, "count"); ok {
					total += int(n)
				}
			}
		}
		return total
	default:
		return 0
	}
}

// metadataDenyList holds the keys owned by first-class struct fields; metadata
// keeps whatever scalar keys remain.
func metadata(row Raw, denied ...string) map[string]any {
	deniedSet := make(map[string]struct{}, len(denied))
	for _, key := range denied {
		deniedSet[key] = struct{}{}
	}
	var out map[string]any
	for key, value := range row {
		if _, skip := deniedSet[key]; skip {
			continue
		}
		switch value.(type) {
		case string, float64, bool, int, int64:
		default:
			continue
		}
		if out == nil {
			out = make(map[string]any)
		}
		out[key] = value
	}
	return out
}

// initials derives up to two uppercase letters from a display name.
func initials(name string) string {
	fields := strings.Fields(name)
	switch len(fields) {
	case 0:
		return ""
	case 1:
		return strings.ToUpper(firstRune(fields[0]))
	default:
		return strings.ToUpper(firstRune(fields[0]) + firstRune(fields[len(fields)-1]))
	}
}

func firstRune(s string) string {
	for _, r := range s {
		return string(r)
	}
	return ""
}
