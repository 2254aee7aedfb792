package record

import "unicode/utf8"

// TitleDisplayLimit is the number of title characters shown in table cells
// and chart hover text.
const TitleDisplayLimit = 50

// Truncate returns the first n runes of s.
func Truncate(s string, n int) string {
	if n <= 0 {
		return ""
	}
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	i := 0
	for pos := range s {
		if i == n {
			return s[:pos]
		}
		i++
	}
	return s
}

// Abbreviate truncates s to n runes and appends "..." only when something was
// cut off.
func Abbreviate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return Truncate(s, n) + "..."
}

//Personal.AI order the ending
