// Package searchindex flattens arbitrary nested records into a single
// lowercase token string used for free-text substring search. The index is
// built once at normalization time; query time is a plain substring test.
package searchindex

import (
	"math"
	"reflect"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"
)

// Separator joins the token set into the stored index string.
const Separator = " | "

var (
	nonDigit    = regexp.MustCompile(`[^0-9]`)
	nonAlphaNum = regexp.MustCompile(`[^a-z0-9]`)
	clockValue  = regexp.MustCompile(`^(\d{1,2}):(\d{2})$`)
)

// dateLayouts are tried in order when a string is indexed as a date.
var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05.999999",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
	"02 Jan 2006, 15:04",
	"02 Jan 2006 15:04",
	"02 Jan 2006",
}

// Builder accumulates deduplicated search tokens for one record. Insertion
// order is preserved so the rendered index is deterministic for a fixed input.
type Builder struct {
	seen    map[string]struct{}
	tokens  []string
	visited map[uintptr]struct{}
}

// New returns an empty Builder.
func New() *Builder {
	return &Builder{
		seen:    make(map[string]struct{}),
		visited: make(map[uintptr]struct{}),
	}
}

// Index is a convenience wrapper: build an index over the given values in one
// call.
func Index(values ...any) string {
	b := New()
	b.Add(values...)
	return b.String()
}

// String renders the accumulated token set.
func (b *Builder) String() string {
	return strings.Join(b.tokens, Separator)
}

func (b *Builder) emit(token string) {
	if token == "" {
		return
	}
	if _, ok := b.seen[token]; ok {
		return
	}
	b.seen[token] = struct{}{}
	b.tokens = append(b.tokens, token)
}

// Add visits every value recursively and emits tokens for each scalar found.
// Maps and slices are flattened; a previously visited map or slice is skipped
// so shared or circular references terminate. Empty strings, nil values and
// the "—" placeholder contribute nothing; zero is preserved.
func (b *Builder) Add(values ...any) {
	for _, value := range values {
		b.add(value)
	}
}

func (b *Builder) add(value any) {
	switch v := value.(type) {
	case nil:
		return
	case string:
		b.addString(v)
		return
	case bool:
		if v {
			b.addString("true")
		}
		return
	case time.Time:
		b.AddDate(v)
		return
	case *time.Time:
		if v != nil {
			b.AddDate(*v)
		}
		return
	case int:
		b.addFloat(float64(v))
		return
	case int32:
		b.addFloat(float64(v))
		return
	case int64:
		b.addFloat(float64(v))
		return
	case float32:
		b.addFloat(float64(v))
		return
	case float64:
		b.addFloat(v)
		return
	}

	rv := reflect.ValueOf(value)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Interface:
		if rv.IsNil() {
			return
		}
		b.add(rv.Elem().Interface())
	case reflect.Slice:
		if rv.IsNil() {
			return
		}
		if !b.visit(rv.Pointer()) {
			return
		}
		for i := 0; i < rv.Len(); i++ {
			b.add(rv.Index(i).Interface())
		}
	case reflect.Array:
		for i := 0; i < rv.Len(); i++ {
			b.add(rv.Index(i).Interface())
		}
	case reflect.Map:
		if rv.IsNil() {
			return
		}
		if !b.visit(rv.Pointer()) {
			return
		}
		// Sorted keys keep the rendered index deterministic.
		keys := rv.MapKeys()
		sort.Slice(keys, func(i, j int) bool {
			return keyString(keys[i]) < keyString(keys[j])
		})
		for _, key := range keys {
			b.add(rv.MapIndex(key).Interface())
		}
	case reflect.Struct:
		for i := 0; i < rv.NumField(); i++ {
			if !rv.Type().Field(i).IsExported() {
				continue
			}
			b.add(rv.Field(i).Interface())
		}
	}
}

// visit marks a reference as seen; reports false when already visited.
func (b *Builder) visit(ptr uintptr) bool {
	if _, ok := b.visited[ptr]; ok {
		return false
	}
	b.visited[ptr] = struct{}{}
	return true
}

func keyString(v reflect.Value) string {
	if v.Kind() == reflect.String {
		return v.String()
	}
	return v.String()
}

func (b *Builder) addString(value string) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" || trimmed == "—" {
		return
	}
	lower := strings.ToLower(trimmed)
	b.emit(lower)
	compact := nonAlphaNum.ReplaceAllString(lower, "")
	if compact != "" && compact != lower {
		b.emit(compact)
	}
}

func (b *Builder) addFloat(value float64) {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return
	}
	raw := strconv.FormatFloat(value, 'f', -1, 64)
	b.emit(raw)
	b.emit(strconv.FormatFloat(value, 'f', 2, 64))
	digits := nonDigit.ReplaceAllString(raw, "")
	if digits != "" {
		b.emit(digits)
	}
}

// AddTimeVariants indexes a clock value such as "14:30" together with its
// 12-hour renderings so "2:30 pm" and "2:30pm" both match.
func (b *Builder) AddTimeVariants(value string) {
	normalized := strings.TrimSpace(value)
	if normalized == "" || normalized == "—" || normalized == "-" {
		return
	}

	b.addString(normalized)
	compact := strings.Join(strings.Fields(normalized), "")
	if compact != normalized {
		b.addString(compact)
	}

	match := clockValue.FindStringSubmatch(normalized)
	if match == nil {
		return
	}
	hour, err := strconv.Atoi(match[1])
	if err != nil {
		return
	}
	minutes := match[2]
	hour12 := (hour+11)%12 + 1
	suffix := "am"
	if hour >= 12 {
		suffix = "pm"
	}
	b.addString(strconv.Itoa(hour12) + ":" + minutes + " " + suffix)
	b.addString(strconv.Itoa(hour12) + ":" + minutes + suffix)
}

// AddDate indexes a timestamp under every textual form a user might type:
// day-first and month-first orderings, short and long month names, the common
// separator styles, 24-hour and 12-hour time suffixes and the ISO-8601 string.
// String inputs that do not parse as dates are indexed as plain strings.
func (b *Builder) AddDate(value any) {
	var parsed time.Time
	switch v := value.(type) {
	case nil:
		return
	case time.Time:
		parsed = v
	case *time.Time:
		if v == nil {
			return
		}
		parsed = *v
	case string:
		trimmed := strings.TrimSpace(v)
		if trimmed == "" || trimmed == "—" || trimmed == "-" {
			return
		}
		t, ok := parseDate(trimmed)
		if !ok {
			b.addString(trimmed)
			return
		}
		parsed = t
	case int64:
		parsed = time.Unix(v, 0)
	default:
		return
	}
	if parsed.IsZero() {
		return
	}

	day := parsed.Day()
	month := int(parsed.Month())
	year := parsed.Year()
	dayPadded := pad2(day)
	monthPadded := pad2(month)
	monthShort := parsed.Format("Jan")
	monthLong := parsed.Format("January")
	hours := parsed.Hour()
	minutes := pad2(parsed.Minute())
	time24 := pad2(hours) + ":" + minutes
	hour12 := (hours+11)%12 + 1
	suffix := "am"
	if hours >= 12 {
		suffix = "pm"
	}
	time12 := strconv.Itoa(hour12) + ":" + minutes + " " + suffix
	yearStr := strconv.Itoa(year)
	dayStr := strconv.Itoa(day)
	monthStr := strconv.Itoa(month)

	variants := []string{
		dayPadded + " " + monthShort + " " + yearStr,
		dayPadded + " " + monthLong + " " + yearStr,
		dayStr + "-" + monthStr + "-" + yearStr,
		dayPadded + "-" + monthStr + "-" + yearStr,
		dayPadded + "-" + monthPadded + "-" + yearStr,
		dayPadded + "/" + monthPadded + "/" + yearStr,
		dayStr + "/" + monthStr + "/" + yearStr,
		monthStr + "/" + dayStr + "/" + yearStr,
		monthPadded + "/" + dayPadded + "/" + yearStr,
		yearStr + "-" + monthPadded + "-" + dayPadded,
		dayPadded + " " + monthShort + " " + yearStr + " " + time24,
		dayPadded + "-" + monthPadded + "-" + yearStr + " " + time24,
		dayPadded + "/" + monthPadded + "/" + yearStr + " " + time24,
		dayPadded + " " + monthShort + " " + yearStr + ", " + time24,
		dayPadded + " " + monthShort + " " + yearStr + " " + time12,
	}
	for _, variant := range variants {
		b.addString(variant)
	}
	b.addString(parsed.UTC().Format(time.RFC3339))
	b.AddTimeVariants(time24)
	b.AddTimeVariants(time12)
}

// AddCurrencyVariants indexes a money amount so "1200", "1,200.00",
// "INR 1200" and "₹1,200.00" all match.
func (b *Builder) AddCurrencyVariants(amount float64, currency string) {
	if math.IsNaN(amount) || math.IsInf(amount, 0) {
		return
	}
	b.addFloat(amount)
	b.addString(strconv.FormatFloat(amount, 'f', 2, 64))
	b.addString(strconv.FormatFloat(math.Round(amount), 'f', -1, 64))
	if currency != "" {
		plain := strconv.FormatFloat(amount, 'f', -1, 64)
		b.addString(currency + " " + plain)
		b.addString(plain + " " + currency)
	}
	b.addString(FormatCurrency(amount, currency))
}

// FormatCurrency renders an amount the way the panel displays it: the rupee
// symbol for INR, the code otherwise, with thousands grouping and two decimals.
func FormatCurrency(amount float64, currency string) string {
	symbol := currency
	if currency == "" || strings.EqualFold(currency, "INR") {
		symbol = "₹"
	} else {
		symbol = currency + " "
	}
	return symbol + group(strconv.FormatFloat(amount, 'f', 2, 64))
}

// group inserts comma separators into the integer part of a fixed decimal.
func group(fixed string) string {
	neg := strings.HasPrefix(fixed, "-")
	if neg {
		fixed = fixed[1:]
	}
	intPart, frac, _ := strings.Cut(fixed, ".")
	var out strings.Builder
	for i, r := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			out.WriteByte(',')
		}
		out.WriteRune(r)
	}
	result := out.String()
	if frac != "" {
		result += "." + frac
	}
	if neg {
		result = "-" + result
	}
	return result
}

func parseDate(value string) (time.Time, bool) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func pad2(n int) string {
	if n < 10 {
		return "0" + strconv.Itoa(n)
	}
	return strconv.Itoa(n)
}
