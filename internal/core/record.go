package core

import (
	"errors"
	"regexp"
	"strings"
	"time"
)

// Field rules, applied in fixed order by ValidateRecord. The category value
// "Income" (any case) is the sole marker distinguishing inflow from outflow.
var (
	descriptionRule = regexp.MustCompile(`^\S(?:.*\S)?$`)
	amountRule      = regexp.MustCompile(`^(0|[1-9]\d*)(\.\d{1,2})?$`)
	categoryRule    = regexp.MustCompile(`^[A-Za-z]+(?:[ -][A-Za-z]+)*$`)
	dateRule        = regexp.MustCompile(`^\d{4}-(0[1-9]|1[0-2])-(0[1-9]|[12]\d|3[01])$`)
)

var (
	ErrInvalidDescription = errors.New("invalid description: cannot be empty or start/end with whitespace")
	ErrInvalidAmount      = errors.New("invalid amount: must be a non-negative number with up to 2 decimal places")
	ErrInvalidCategory    = errors.New("invalid category: only letters, single spaces and hyphens allowed")
	ErrInvalidDate        = errors.New("invalid date: must be YYYY-MM-DD")
	ErrRecordNotFound     = errors.New("record not found")
)

// DateLayout is the calendar date form records carry.
const DateLayout = "2006-01-02"

// Record is one transaction. Amount is kept as the decimal text the user
// entered; it is always non-negative, direction is inferred from Category.
type Record struct {
	ID          string `json:"id"`
	Amount      string `json:"amount"`
	Description string `json:"description"`
	Category    string `json:"category"`
	Date        string `json:"date"`
	CreatedAt   string `json:"createdAt,omitempty"`
	UpdatedAt   string `json:"updatedAt,omitempty"`
}

// IsIncome reports whether the record is inflow rather than outflow.
func (r Record) IsIncome() bool {
	return strings.EqualFold(r.Category, "Income")
}

// ParsedDate returns the calendar date, or false when the date is missing or
// malformed.
func (r Record) ParsedDate() (time.Time, bool) {
	t, err := time.Parse(DateLayout, r.Date)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// Normalized returns a copy with interior whitespace runs in the description
// and category collapsed to single spaces and outer whitespace trimmed. It is
// applied after validation, immediately before persistence.
func (r Record) Normalized() Record {
	r.Description = collapseWhitespace(r.Description)
	r.Category = collapseWhitespace(r.Category)
	return r
}

func collapseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// RecordPatch carries the fields of a partial update. Nil fields are left
// untouched by Apply.
type RecordPatch struct {
	Amount      *string `json:"amount,omitempty"`
	Description *string `json:"description,omitempty"`
	Category    *string `json:"category,omitempty"`
	Date        *string `json:"date,omitempty"`
}

// Apply merges the patch over r and returns the result. Identity and
// timestamps are never patched; UpdatedAt is refreshed by the store on write.
func (p RecordPatch) Apply(r Record) Record {
	if p.Amount != nil {
		r.Amount = *p.Amount
	}
	if p.Description != nil {
		r.Description = *p.Description
	}
	if p.Category != nil {
		r.Category = *p.Category
	}
	if p.Date != nil {
		r.Date = *p.Date
	}
	return r
}

// ValidationResult is the outcome of checking a candidate record. Err holds
// the first blocking failure, or nil when the record is accepted. Warnings
// are non-blocking advisories that never prevent persistence.
type ValidationResult struct {
	Err      error
	Warnings []string
}

// OK reports whether the candidate may be persisted.
func (v ValidationResult) OK() bool { return v.Err == nil }

// ValidateRecord checks a candidate against the field rules in fixed order:
// description, amount, category, date. The first blocking failure
// short-circuits. A description with an immediately repeated word is reported
// as an advisory but still accepted. Every outcome is also reported through
// the notifier; pass nil to skip reporting.
func ValidateRecord(r Record, n Notifier) ValidationResult {
	if n == nil {
		n = NopNotifier{}
	}

	res := ValidationResult{}
	switch {
	case !descriptionRule.MatchString(r.Description):
		res.Err = ErrInvalidDescription
	case !amountRule.MatchString(r.Amount):
		res.Err = ErrInvalidAmount
	case !categoryRule.MatchString(r.Category):
		res.Err = ErrInvalidCategory
	case !dateRule.MatchString(r.Date):
		res.Err = ErrInvalidDate
	}
	if res.Err != nil {
		n.Notify(res.Err.Error(), SeverityBlocking)
		return res
	}

	if hasRepeatedWord(r.Description) {
		const msg = "description contains a repeated word"
		res.Warnings = append(res.Warnings, msg)
		n.Notify(msg, SeverityAdvisory)
	}
	return res
}

// hasRepeatedWord reports whether the text contains two identical words
// separated only by whitespace, case-insensitively.
func hasRepeatedWord(s string) bool {
	words := strings.Fields(s)
	for i := 1; i < len(words); i++ {
		if strings.EqualFold(words[i-1], words[i]) {
			return true
		}
	}
	return false
}
