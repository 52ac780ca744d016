package core

import (
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// SortKey selects the ordering applied by SearchAndSort. An unknown or empty
// key leaves the relative order of the input unchanged.
type SortKey string

const (
	SortNone         SortKey = ""
	SortDateAsc      SortKey = "date-asc"
	SortDateDesc     SortKey = "date-desc"
	SortAmountAsc    SortKey = "amount-asc"
	SortAmountDesc   SortKey = "amount-desc"
	SortCategoryAsc  SortKey = "category-asc"
	SortCategoryDesc SortKey = "category-desc"
)

// Criteria are the user-supplied filter and ordering controls.
type Criteria struct {
	Query    string
	Regex    bool // treat Query as a regular expression when possible
	Category string
	Sort     SortKey
}

// Collation for category ordering mirrors a locale-aware string comparison:
// case, width and accent differences do not dominate the order.
var categoryCollator = collate.New(language.Und, collate.Loose)

// MatchPattern compiles the active search query into a case-insensitive
// pattern. In regex mode a malformed query falls back to literal substring
// matching rather than failing the whole search. Returns nil when the query
// is empty.
func MatchPattern(query string, regexMode bool) *regexp.Regexp {
	q := strings.TrimSpace(query)
	if q == "" {
		return nil
	}
	if regexMode {
		if re, err := regexp.Compile("(?i)" + q); err == nil {
			return re
		}
	}
	return regexp.MustCompile("(?i)" + regexp.QuoteMeta(q))
}

// SearchAndSort filters, searches and orders records per the criteria. The
// input is never mutated; ties keep their relative input order for every sort
// key (the sort is stable).
func SearchAndSort(records []Record, c Criteria) []Record {
	filtered := make([]Record, 0, len(records))

	pattern := MatchPattern(c.Query, c.Regex)
	for _, r := range records {
		if c.Category != "" && !strings.EqualFold(r.Category, c.Category) {
			continue
		}
		if pattern != nil && !pattern.MatchString(r.Description) {
			continue
		}
		filtered = append(filtered, r)
	}

	if less := lessFor(c.Sort); less != nil {
		sort.SliceStable(filtered, func(i, j int) bool {
			return less(filtered[i], filtered[j])
		})
	}
	return filtered
}

func lessFor(key SortKey) func(a, b Record) bool {
	switch key {
	case SortDateAsc:
		return func(a, b Record) bool { return sortDate(a).Before(sortDate(b)) }
	case SortDateDesc:
		return func(a, b Record) bool { return sortDate(b).Before(sortDate(a)) }
	case SortAmountAsc:
		return func(a, b Record) bool { return sortAmount(a) < sortAmount(b) }
	case SortAmountDesc:
		return func(a, b Record) bool { return sortAmount(b) < sortAmount(a) }
	case SortCategoryAsc:
		return func(a, b Record) bool { return categoryCollator.CompareString(a.Category, b.Category) < 0 }
	case SortCategoryDesc:
		return func(a, b Record) bool { return categoryCollator.CompareString(b.Category, a.Category) < 0 }
	default:
		return nil
	}
}

// sortDate treats a missing or malformed date as the epoch so such records
// order before every real one ascending.
func sortDate(r Record) time.Time {
	if t, ok := r.ParsedDate(); ok {
		return t
	}
	return time.Unix(0, 0).UTC()
}

// sortAmount compares amounts as floating-point magnitudes; non-numeric
// amounts count as zero.
func sortAmount(r Record) float64 {
	v, err := strconv.ParseFloat(r.Amount, 64)
	if err != nil {
		return 0
	}
	return v
}
