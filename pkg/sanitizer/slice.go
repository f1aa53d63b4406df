package sanitizer

import (
	"sort"
	"strings"
)

func NormalizeStringSlice(items []string, normalizer func(string) string) []string {
	if len(items) == 0 {
		return []string{}
	}

	seen := make(map[string]bool)
	result := make([]string, 0, len(items))

	for _, item := range items {
		normalized := normalizer(item)

		if normalized == "" {
			continue
		}

		if seen[normalized] {
			continue
		}

		seen[normalized] = true
		result = append(result, normalized)
	}

	return result
}

// SplitList splits comma (or newline) separated input into normalized, unique items.
func SplitList(input string) []string {
	parts := strings.FieldsFunc(input, func(r rune) bool {
		return r == ',' || r == '\n' || r == '\r'
	})
	return NormalizeStringSlice(parts, TrimAndNormalize)
}

func NormalizeThemes(themes []string) []string {
	return NormalizeStringSlice(themes, TrimAndNormalize)
}

// NormalizeSlots trims, deduplicates and sorts HH:mm values. Zero padded
// HH:mm strings sort chronologically as plain strings.
func NormalizeSlots(slots []string) []string {
	out := NormalizeStringSlice(slots, func(s string) string {
		return strings.ReplaceAll(strings.TrimSpace(s), " ", "")
	})
	sort.Strings(out)
	return out
}

// UniqueCities returns the distinct trimmed cities sorted case and accent insensitively.
func UniqueCities(cities []string) []string {
	seen := make(map[string]bool)
	out := make([]string, 0, len(cities))
	for _, c := range cities {
		c = NormalizeCity(c)
		if c == "" {
			continue
		}
		key := FoldCity(c)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, c)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return FoldCity(out[i]) < FoldCity(out[j])
	})
	return out
}
