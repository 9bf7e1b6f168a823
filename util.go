package store

import (
	"strconv"
	"strings"

	"github.com/spf13/cast"
)

func Map[In any, Out any](list []In, mapFn func(val In) Out) []Out {
	var newSlice = make([]Out, len(list))
	for i, val := range list {
		newSlice[i] = mapFn(val)
	}

	return newSlice
}

func SliceContains[T comparable](list []T, val T) bool {
	for _, item := range list {
		if item == val {
			return true
		}
	}

	return false
}

// coerceInt turns untyped limit/offset input into an int. Strings keep only
// their leading integer ("5; DROP TABLE x" is 5, "abc" is 0), anything else
// goes through cast and falls back to 0.
func coerceInt(v any) int {
	switch val := v.(type) {
	case nil:
		return 0
	case string:
		return leadingInt(val)
	case []byte:
		return leadingInt(string(val))
	}

	n, err := cast.ToIntE(v)
	if err != nil {
		return 0
	}
	return n
}

func leadingInt(s string) int {
	s = strings.TrimSpace(s)
	end := 0
	if end < len(s) && (s[end] == '-' || s[end] == '+') {
		end++
	}
	digits := end
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == digits {
		return 0
	}

	n, err := strconv.Atoi(s[:end])
	if err != nil {
		return 0
	}
	return n
}
