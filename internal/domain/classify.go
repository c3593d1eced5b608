package domain

import "strings"

type Category int

const (
	CategoryUnknown Category = iota
	CategoryCSV
	CategoryJSON
	CategoryPlainText
)

func (c Category) String() string {
	switch c {
	case CategoryCSV:
		return "csv"
	case CategoryJSON:
		return "json"
	case CategoryPlainText:
		return "text"
	}

	return "unknown"
}

// Classify maps an object key to its processing category by suffix. The match
// is case-sensitive and total: any key that is not .csv, .json or .txt is
// CategoryUnknown.
func Classify(key string) Category {
	switch {
	case strings.HasSuffix(key, ".csv"):
		return CategoryCSV
	case strings.HasSuffix(key, ".json"):
		return CategoryJSON
	case strings.HasSuffix(key, ".txt"):
		return CategoryPlainText
	}

	return CategoryUnknown
}
