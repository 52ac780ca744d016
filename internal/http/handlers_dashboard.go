package http

import (
	"net/http"

	"fintrack/internal/core"
)

type dashboardResponse struct {
	Income   string `json:"income"`
	Expenses string `json:"expenses"`
	Balance  string `json:"balance"`

	Monthly       budgetView   `json:"monthly"`
	Entertainment budgetView   `json:"entertainment"`
	Weekdays      []weekdayBar `json:"weekdays"`

	Currency core.Currency `json:"currency"`
}

type budgetView struct {
	Spent   string  `json:"spent"`
	Limit   string  `json:"limit"`
	UsedPct float64 `json:"usedPct"`
}

type weekdayBar struct {
	Label     string  `json:"label"`
	Amount    string  `json:"amount"`
	HeightPct float64 `json:"heightPct"`
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	currency := s.currency(r)

	// A cache hit skips the recompute, so budget advisories fire again
	// once the entry expires or a write invalidates it.
	cacheKey := "dashboard|" + string(currency)
	if cached, ok := s.dashboardCache.Get(cacheKey); ok {
		writeJSON(w, http.StatusOK, cached)
		return
	}

	d := s.svc.Dashboard(r.Context())

	bars := d.WeekdayBars()
	weekdays := make([]weekdayBar, 0, len(bars))
	for _, b := range bars {
		weekdays = append(weekdays, weekdayBar{
			Label:     b.Label,
			Amount:    core.FormatCurrencyValue(b.Amount, currency),
			HeightPct: b.HeightPct,
		})
	}

	resp := dashboardResponse{
		Income:   core.FormatCurrencyValue(d.Income, currency),
		Expenses: core.FormatCurrencyValue(d.Expenses, currency),
		Balance:  core.FormatCurrencyValue(d.Balance, currency),
		Monthly: budgetView{
			Spent:   core.FormatCurrencyValue(d.MonthlySpent, currency),
			Limit:   core.FormatCurrencyValue(core.MonthlyBudgetLimit, currency),
			UsedPct: d.MonthlyUsedPct,
		},
		Entertainment: budgetView{
			Spent:   core.FormatCurrencyValue(d.EntertainmentSpent, currency),
			Limit:   core.FormatCurrencyValue(core.EntertainmentBudgetLimit, currency),
			UsedPct: d.EntertainmentUsedPct,
		},
		Weekdays: weekdays,
		Currency: currency,
	}
	s.dashboardCache.Set(cacheKey, resp)
	writeJSON(w, http.StatusOK, resp)
}
