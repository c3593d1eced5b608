package domain

import "strings"

const (
	PrefixFilter = "prefix"
	SuffixFilter = "suffix"
)

type FilterRule struct {
	Name  string
	Value string
}

func (f FilterRule) FilterKey(key string) bool {
	if f.Name == PrefixFilter {
		return strings.HasPrefix(key, f.Value)
	}

	if f.Name == SuffixFilter {
		return strings.HasSuffix(key, f.Value)
	}

	panic("expected FilterRule Name to be prefix or suffix but was " + f.Name)
}

// RecordFilter restricts which notification records are accepted for
// processing. An empty bucket list accepts every bucket; rules apply to the
// object key and must all match.
type RecordFilter struct {
	Buckets []string
	Rules   []FilterRule
}

func (f RecordFilter) Accept(record NotificationRecord) bool {
	if len(f.Buckets) > 0 {
		found := false
		for _, bucket := range f.Buckets {
			if bucket == record.Bucket {
				found = true
				break
			}
		}

		if !found {
			return false
		}
	}

	for _, rule := range f.Rules {
		if !rule.FilterKey(record.Key) {
			return false
		}
	}

	return true
}
