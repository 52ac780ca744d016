package core

// Theme selects the UI colour scheme.
type Theme string

const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
)

// Settings are the user's display preferences, persisted separately from
// records. A missing key on load falls back to its default (merge, not
// replace).
type Settings struct {
	Theme         Theme    `json:"theme"`
	Currency      Currency `json:"currency"`
	Language      string   `json:"language"`
	MonthlyReport bool     `json:"monthlyReport"`
	DisplayName   string   `json:"displayName"`
}

// DefaultSettings returns the settings applied to a fresh profile.
func DefaultSettings() Settings {
	return Settings{
		Theme:         ThemeLight,
		Currency:      USD,
		Language:      "en",
		MonthlyReport: false,
		DisplayName:   "",
	}
}

// Sanitized fills invalid or missing enum values with their defaults.
func (s Settings) Sanitized() Settings {
	if s.Theme != ThemeLight && s.Theme != ThemeDark {
		s.Theme = ThemeLight
	}
	if _, ok := currencies[s.Currency]; !ok {
		s.Currency = USD
	}
	if s.Language == "" {
		s.Language = "en"
	}
	return s
}
