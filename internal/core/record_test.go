package core

import (
	"errors"
	"testing"
)

func TestValidateRecordBlocking(t *testing.T) {
	base := Record{
		Amount:      "12.50",
		Description: "Lunch",
		Category:    "Food",
		Date:        "2024-03-15",
	}

	cases := []struct {
		name   string
		mutate func(*Record)
		want   error
	}{
		{"valid", func(r *Record) {}, nil},
		{"leading space description", func(r *Record) { r.Description = " hi" }, ErrInvalidDescription},
		{"trailing space description", func(r *Record) { r.Description = "hi " }, ErrInvalidDescription},
		{"empty description", func(r *Record) { r.Description = "" }, ErrInvalidDescription},
		{"two word description", func(r *Record) { r.Description = "hi there" }, nil},
		{"three decimals", func(r *Record) { r.Amount = "12.345" }, ErrInvalidAmount},
		{"leading zero", func(r *Record) { r.Amount = "012" }, ErrInvalidAmount},
		{"negative amount", func(r *Record) { r.Amount = "-5" }, ErrInvalidAmount},
		{"zero amount", func(r *Record) { r.Amount = "0" }, nil},
		{"hyphenated category", func(r *Record) { r.Category = "Rent-Utilities" }, nil},
		{"digit in category", func(r *Record) { r.Category = "Rent1" }, ErrInvalidCategory},
		{"trailing hyphen category", func(r *Record) { r.Category = "Rent-" }, ErrInvalidCategory},
		{"invalid month", func(r *Record) { r.Date = "2024-13-01" }, ErrInvalidDate},
		{"day zero", func(r *Record) { r.Date = "2024-01-00" }, ErrInvalidDate},
		{"missing date", func(r *Record) { r.Date = "" }, ErrInvalidDate},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := base
			tc.mutate(&r)
			res := ValidateRecord(r, nil)
			if !errors.Is(res.Err, tc.want) && res.Err != tc.want {
				t.Fatalf("got %v, want %v", res.Err, tc.want)
			}
		})
	}
}

func TestValidateRecordShortCircuits(t *testing.T) {
	// Both description and amount are invalid; only the first rule reports.
	r := Record{Description: " x ", Amount: "bad", Category: "1", Date: "nope"}
	res := ValidateRecord(r, nil)
	if res.Err != ErrInvalidDescription {
		t.Fatalf("got %v, want %v", res.Err, ErrInvalidDescription)
	}
}

func TestValidateRecordRepeatedWordWarns(t *testing.T) {
	r := Record{Amount: "1", Description: "go go now", Category: "Food", Date: "2024-01-02"}
	res := ValidateRecord(r, nil)
	if !res.OK() {
		t.Fatalf("expected accepted, got %v", res.Err)
	}
	if len(res.Warnings) != 1 {
		t.Fatalf("expected one warning, got %v", res.Warnings)
	}

	// Case-insensitive repetition still warns.
	r.Description = "Go go now"
	if res := ValidateRecord(r, nil); len(res.Warnings) != 1 {
		t.Fatalf("expected case-insensitive warning, got %v", res.Warnings)
	}

	// Same word not adjacent does not warn.
	r.Description = "go now go"
	if res := ValidateRecord(r, nil); len(res.Warnings) != 0 {
		t.Fatalf("unexpected warning: %v", res.Warnings)
	}
}

type recordingNotifier struct {
	messages   []string
	severities []Severity
}

func (r *recordingNotifier) Notify(msg string, sev Severity) {
	r.messages = append(r.messages, msg)
	r.severities = append(r.severities, sev)
}

func TestValidateRecordReportsThroughNotifier(t *testing.T) {
	n := &recordingNotifier{}
	ValidateRecord(Record{Description: " bad", Amount: "1", Category: "Food", Date: "2024-01-02"}, n)
	if len(n.messages) != 1 || n.severities[0] != SeverityBlocking {
		t.Fatalf("expected one blocking notification, got %v %v", n.messages, n.severities)
	}

	n = &recordingNotifier{}
	ValidateRecord(Record{Description: "go go", Amount: "1", Category: "Food", Date: "2024-01-02"}, n)
	if len(n.messages) != 1 || n.severities[0] != SeverityAdvisory {
		t.Fatalf("expected one advisory notification, got %v %v", n.messages, n.severities)
	}
}

func TestRecordNormalized(t *testing.T) {
	r := Record{Description: "coffee   at   the  corner", Category: "Food"}
	got := r.Normalized()
	if got.Description != "coffee at the corner" {
		t.Fatalf("got %q", got.Description)
	}
}

func TestRecordPatchApply(t *testing.T) {
	r := Record{ID: "a", Amount: "10", Description: "x", Category: "Food", Date: "2024-01-02"}
	amt := "20.50"
	got := RecordPatch{Amount: &amt}.Apply(r)
	if got.Amount != "20.50" || got.Description != "x" || got.ID != "a" {
		t.Fatalf("merge went wrong: %+v", got)
	}
}

func TestIsIncome(t *testing.T) {
	if !(Record{Category: "income"}).IsIncome() || !(Record{Category: "Income"}).IsIncome() {
		t.Fatal("income detection should be case-insensitive")
	}
	if (Record{Category: "Incomes"}).IsIncome() {
		t.Fatal("exact match only")
	}
}
