package amqp

import (
	"encoding/json"
	"time"
)

// BudgetAlertMessage carries a budget advisory out of the tracker so that
// external consumers (mail, chat bots) can deliver it. It is self contained:
// consumers never need to reach back into the store.
type BudgetAlertMessage struct {
	Message   string    `json:"message"`
	Severity  string    `json:"severity"`
	Timestamp time.Time `json:"timestamp"`
}

// NewBudgetAlertMessage creates a new budget alert message
func NewBudgetAlertMessage(message, severity string) *BudgetAlertMessage {
	return &BudgetAlertMessage{
		Message:   message,
		Severity:  severity,
		Timestamp: time.Now(),
	}
}

// ToJSON converts the message to JSON bytes
func (m *BudgetAlertMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// BudgetAlertMessageFromJSON creates a message from JSON bytes
func BudgetAlertMessageFromJSON(data []byte) (*BudgetAlertMessage, error) {
	var msg BudgetAlertMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}

// MonthlyReportMessage summarises a month of activity for subscribers that
// opted into periodic reports.
type MonthlyReportMessage struct {
	Month     string    `json:"month"` // YYYY-MM
	Income    string    `json:"income"`
	Expenses  string    `json:"expenses"`
	Balance   string    `json:"balance"`
	Timestamp time.Time `json:"timestamp"`
}

// NewMonthlyReportMessage creates a new monthly report message
func NewMonthlyReportMessage(month, income, expenses, balance string) *MonthlyReportMessage {
	return &MonthlyReportMessage{
		Month:     month,
		Income:    income,
		Expenses:  expenses,
		Balance:   balance,
		Timestamp: time.Now(),
	}
}

// ToJSON converts the message to JSON bytes
func (m *MonthlyReportMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// MonthlyReportMessageFromJSON creates a message from JSON bytes
func MonthlyReportMessageFromJSON(data []byte) (*MonthlyReportMessage, error) {
	var msg MonthlyReportMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
