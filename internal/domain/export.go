package domain

// ExportRow is a single row of the flat trip sheet.
// Every collection contributes rows tagged by Section, so one table can be
// written as JSON or CSV. Fields that do not apply to a section stay empty.
type ExportRow struct {
	Section string `json:"section"`
	Day     string `json:"day"`
	Title   string `json:"title"`
	Detail  string `json:"detail"`
	Start   string `json:"start"`
	End     string `json:"end"`
	Amount  string `json:"amount"`
}
