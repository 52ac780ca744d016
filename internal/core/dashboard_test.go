package core

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

var testNow = time.Date(2024, time.March, 20, 12, 0, 0, 0, time.UTC)

func TestComputeDashboardTotals(t *testing.T) {
	records := []Record{
		{Amount: "100", Category: "Income", Date: "2024-03-01"},
		{Amount: "40", Category: "Food", Date: "2024-03-02"},
	}
	d := ComputeDashboard(records, testNow, nil)
	if !d.Income.Equal(decimal.NewFromInt(100)) {
		t.Fatalf("income = %s", d.Income)
	}
	if !d.Expenses.Equal(decimal.NewFromInt(40)) {
		t.Fatalf("expenses = %s", d.Expenses)
	}
	if !d.Balance.Equal(decimal.NewFromInt(60)) {
		t.Fatalf("balance = %s", d.Balance)
	}
}

func TestComputeDashboardNonNumericAmountsCountZero(t *testing.T) {
	records := []Record{
		{Amount: "oops", Category: "Food", Date: "2024-03-02"},
		{Amount: "10", Category: "Food", Date: "2024-03-02"},
	}
	d := ComputeDashboard(records, testNow, nil)
	if !d.Expenses.Equal(decimal.NewFromInt(10)) {
		t.Fatalf("expenses = %s", d.Expenses)
	}
}

func TestComputeDashboardWeekdayHistogram(t *testing.T) {
	records := []Record{
		{Amount: "30", Category: "Food", Date: "2024-03-17"},   // Sunday
		{Amount: "10", Category: "Food", Date: "2024-03-18"},   // Monday
		{Amount: "5", Category: "Food", Date: "2024-03-25"},    // Monday again
		{Amount: "99", Category: "Income", Date: "2024-03-18"}, // income excluded
		{Amount: "7", Category: "Food", Date: "not-a-date"},    // skipped
	}
	d := ComputeDashboard(records, testNow, nil)
	if !d.WeekdaySpend[0].Equal(decimal.NewFromInt(30)) {
		t.Fatalf("sunday bucket = %s", d.WeekdaySpend[0])
	}
	if !d.WeekdaySpend[1].Equal(decimal.NewFromInt(15)) {
		t.Fatalf("monday bucket = %s", d.WeekdaySpend[1])
	}
}

func TestWeekdayBarsDisplayOrderAndScale(t *testing.T) {
	var d Dashboard
	for i := range d.WeekdaySpend {
		d.WeekdaySpend[i] = decimal.Zero
	}
	d.WeekdaySpend[0] = decimal.NewFromInt(50)  // Sunday
	d.WeekdaySpend[1] = decimal.NewFromInt(100) // Monday

	bars := d.WeekdayBars()
	labels := make([]string, len(bars))
	for i, b := range bars {
		labels[i] = b.Label
	}
	want := []string{"Mon", "Tue", "Wed", "Thu", "Fri", "Sat", "Sun"}
	for i := range want {
		if labels[i] != want[i] {
			t.Fatalf("display order %v, want %v", labels, want)
		}
	}

	if bars[0].HeightPct != 100 {
		t.Fatalf("monday height = %v", bars[0].HeightPct)
	}
	if bars[6].HeightPct != 50 {
		t.Fatalf("sunday height = %v", bars[6].HeightPct)
	}
	// Zero buckets floor at the minimum visible height.
	if bars[1].HeightPct != 5 {
		t.Fatalf("empty bucket height = %v", bars[1].HeightPct)
	}
}

func TestWeekdayBarsAllZero(t *testing.T) {
	var d Dashboard
	for i := range d.WeekdaySpend {
		d.WeekdaySpend[i] = decimal.Zero
	}
	for _, b := range d.WeekdayBars() {
		if b.HeightPct != 5 {
			t.Fatalf("height = %v, want floor", b.HeightPct)
		}
	}
}

func TestComputeDashboardMonthlyBudget(t *testing.T) {
	records := []Record{
		{Amount: "600", Category: "Rent", Date: "2024-03-01"},
		{Amount: "500", Category: "Food", Date: "2024-02-28"}, // previous month
	}
	n := &recordingNotifier{}
	d := ComputeDashboard(records, testNow, n)
	if !d.MonthlySpent.Equal(decimal.NewFromInt(600)) {
		t.Fatalf("monthly spent = %s", d.MonthlySpent)
	}
	if d.MonthlyUsedPct != 60 {
		t.Fatalf("monthly pct = %v", d.MonthlyUsedPct)
	}
	if len(n.messages) != 0 {
		t.Fatalf("unexpected notifications: %v", n.messages)
	}
}

func TestComputeDashboardMonthlyThresholds(t *testing.T) {
	n := &recordingNotifier{}
	d := ComputeDashboard([]Record{{Amount: "850", Category: "Rent", Date: "2024-03-05"}}, testNow, n)
	if len(n.messages) != 1 || n.severities[0] != SeverityInfo {
		t.Fatalf("expected one informational advisory, got %v %v", n.messages, n.severities)
	}
	if d.MonthlyUsedPct != 85 {
		t.Fatalf("pct = %v", d.MonthlyUsedPct)
	}

	n = &recordingNotifier{}
	d = ComputeDashboard([]Record{{Amount: "1200", Category: "Rent", Date: "2024-03-05"}}, testNow, n)
	if len(n.messages) != 1 || n.severities[0] != SeverityUrgent {
		t.Fatalf("expected urgent, got %v %v", n.messages, n.severities)
	}
	if d.MonthlyUsedPct != 100 {
		t.Fatalf("pct should clamp at 100, got %v", d.MonthlyUsedPct)
	}
}

func TestComputeDashboardEntertainmentBudget(t *testing.T) {
	// Exactly at the ceiling: 100% used, no advisory.
	records := []Record{
		{Amount: "150.00", Category: "Entertainment", Date: "2023-01-01"},
		{Amount: "50.00", Category: "Family-Entertainment", Date: "2022-06-01"},
	}
	n := &recordingNotifier{}
	d := ComputeDashboard(records, testNow, n)
	if !d.EntertainmentSpent.Equal(decimal.NewFromInt(200)) {
		t.Fatalf("entertainment spent = %s", d.EntertainmentSpent)
	}
	if d.EntertainmentUsedPct != 100 {
		t.Fatalf("pct = %v", d.EntertainmentUsedPct)
	}
	if len(n.messages) != 0 {
		t.Fatalf("boundary must not trigger advisory: %v", n.messages)
	}

	// One cent over triggers the urgent advisory.
	records[1].Amount = "50.01"
	n = &recordingNotifier{}
	ComputeDashboard(records, testNow, n)
	if len(n.messages) != 1 || n.severities[0] != SeverityUrgent {
		t.Fatalf("expected urgent advisory, got %v %v", n.messages, n.severities)
	}
}

func TestComputeDashboardRetriggersEachCall(t *testing.T) {
	records := []Record{{Amount: "300", Category: "Entertainment", Date: "2024-01-01"}}
	n := &recordingNotifier{}
	ComputeDashboard(records, testNow, n)
	ComputeDashboard(records, testNow, n)
	if len(n.messages) != 2 {
		t.Fatalf("thresholds are not deduplicated across calls, got %d messages", len(n.messages))
	}
}

func TestComputeDashboardEmpty(t *testing.T) {
	d := ComputeDashboard(nil, testNow, nil)
	if !d.Balance.IsZero() || !d.Income.IsZero() || !d.Expenses.IsZero() {
		t.Fatalf("empty input should be all zero: %+v", d)
	}
}
