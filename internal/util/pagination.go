package util

import (
	"strconv"
	"strings"
)

const (
	DefaultPageSize = 10
	MaxPageSize     = 100
)

func Calculate(page, size int) (offset, limit int) {
	if page < 1 {
		page = 1
	}
	if size <= 0 || size > MaxPageSize {
		size = DefaultPageSize
	}
	offset = (page - 1) * size
	return offset, size
}

func ParseIntDefault(s string, def int) int {
	if s == "" {
		return def
	}
	if v, err := strconv.Atoi(s); err == nil {
		return v
	}
	return def
}

// ParseIDs converts repeated query values such as ?ids=1&ids=2 (or ids=1,2)
// into ids. The second return is the first value that failed to parse.
func ParseIDs(values []string) ([]int64, string) {
	out := make([]int64, 0, len(values))
	for _, v := range values {
		for _, part := range strings.FieldsFunc(v, isComma) {
			part = strings.TrimSpace(part)
			id, err := strconv.ParseInt(part, 10, 64)
			if err != nil {
				return nil, part
			}
			out = append(out, id)
		}
	}
	return out, ""
}

func isComma(r rune) bool { return r == ',' }
