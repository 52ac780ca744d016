package core

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Budget ceilings, in base currency units.
var (
	MonthlyBudgetLimit       = decimal.NewFromInt(1000)
	EntertainmentBudgetLimit = decimal.NewFromInt(200)
)

const monthlyWarnRatio = 0.8

// Dashboard holds the aggregated metrics rendered on the overview page.
// WeekdaySpend is accumulated Sunday-indexed (0=Sunday … 6=Saturday); the
// Monday-first display order is applied only by WeekdayBars.
type Dashboard struct {
	Income   decimal.Decimal
	Expenses decimal.Decimal
	Balance  decimal.Decimal

	WeekdaySpend [7]decimal.Decimal

	MonthlySpent       decimal.Decimal
	MonthlyUsedPct     float64
	EntertainmentSpent decimal.Decimal
	EntertainmentUsedPct float64
}

// ComputeDashboard aggregates the full record collection into dashboard
// metrics. It is a pure function of the records and now, except that crossing
// a budget threshold is reported through the notifier; thresholds are
// re-reported on every call, not deduplicated. Pass nil to skip reporting.
func ComputeDashboard(records []Record, now time.Time, n Notifier) Dashboard {
	if n == nil {
		n = NopNotifier{}
	}

	var d Dashboard
	d.Income = decimal.Zero
	d.Expenses = decimal.Zero
	d.MonthlySpent = decimal.Zero
	d.EntertainmentSpent = decimal.Zero
	for i := range d.WeekdaySpend {
		d.WeekdaySpend[i] = decimal.Zero
	}

	for _, r := range records {
		amount := amountOrZero(r.Amount)

		if r.IsIncome() {
			d.Income = d.Income.Add(amount)
		} else {
			d.Expenses = d.Expenses.Add(amount)

			if t, ok := r.ParsedDate(); ok {
				d.WeekdaySpend[int(t.Weekday())] = d.WeekdaySpend[int(t.Weekday())].Add(amount)
				if t.Year() == now.Year() && t.Month() == now.Month() {
					d.MonthlySpent = d.MonthlySpent.Add(amount)
				}
			}
		}

		if strings.Contains(strings.ToLower(r.Category), "entertainment") {
			d.EntertainmentSpent = d.EntertainmentSpent.Add(amount)
		}
	}
	d.Balance = d.Income.Sub(d.Expenses)
	d.MonthlyUsedPct = usedPct(d.MonthlySpent, MonthlyBudgetLimit)
	d.EntertainmentUsedPct = usedPct(d.EntertainmentSpent, EntertainmentBudgetLimit)

	switch {
	case d.MonthlySpent.GreaterThan(MonthlyBudgetLimit):
		n.Notify(fmt.Sprintf("monthly budget exceeded: %s spent of %s", d.MonthlySpent, MonthlyBudgetLimit), SeverityUrgent)
	case d.MonthlySpent.GreaterThan(MonthlyBudgetLimit.Mul(decimal.NewFromFloat(monthlyWarnRatio))):
		n.Notify(fmt.Sprintf("monthly budget above 80%%: %s spent of %s", d.MonthlySpent, MonthlyBudgetLimit), SeverityInfo)
	}
	if d.EntertainmentSpent.GreaterThan(EntertainmentBudgetLimit) {
		n.Notify(fmt.Sprintf("entertainment budget exceeded: %s spent of %s", d.EntertainmentSpent, EntertainmentBudgetLimit), SeverityUrgent)
	}

	return d
}

// usedPct is min(spent/limit*100, 100).
func usedPct(spent, limit decimal.Decimal) float64 {
	if limit.IsZero() {
		return 0
	}
	pct, _ := spent.Div(limit).Mul(decimal.NewFromInt(100)).Float64()
	if pct > 100 {
		return 100
	}
	return pct
}

// WeekdayBar is one column of the weekly spending chart.
type WeekdayBar struct {
	Label     string
	Amount    decimal.Decimal
	HeightPct float64
}

// weekday display order is Monday-first even though accumulation is
// Sunday-indexed. The permutation lives here and nowhere else.
var (
	weekdayOrder  = [7]int{1, 2, 3, 4, 5, 6, 0}
	weekdayLabels = [7]string{"Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat"}
)

// WeekdayBars returns the chart columns in display order. Each bar height is
// the bucket's percentage of the maximum bucket (denominator at least 1 so an
// all-zero week divides cleanly), floored at 5% so empty days stay visible.
func (d Dashboard) WeekdayBars() []WeekdayBar {
	maxSpend := decimal.NewFromInt(1)
	for _, v := range d.WeekdaySpend {
		if v.GreaterThan(maxSpend) {
			maxSpend = v
		}
	}

	bars := make([]WeekdayBar, 0, 7)
	for _, idx := range weekdayOrder {
		spent := d.WeekdaySpend[idx]
		pct, _ := spent.Div(maxSpend).Mul(decimal.NewFromInt(100)).Float64()
		if pct < 5 {
			pct = 5
		}
		bars = append(bars, WeekdayBar{
			Label:     weekdayLabels[idx],
			Amount:    spent,
			HeightPct: pct,
		})
	}
	return bars
}

// amountOrZero parses the stored decimal text; malformed amounts contribute
// zero to every aggregate.
func amountOrZero(s string) decimal.Decimal {
	v, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return decimal.Zero
	}
	return v
}
