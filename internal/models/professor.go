package models

// Professor is one row of the faculty directory sheet. The directory is
// read-only reference data, fetched from Google Sheets and cached.
type Professor struct {
	Name       string `json:"name"`
	Campus     string `json:"campus"`
	Department string `json:"department"`
	Email      string `json:"email,omitempty"`
	Profile    string `json:"profile,omitempty"`
}
