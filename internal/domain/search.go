package domain

// SummaryMatch is one corpus search hit: enough to render a result row with
// an optionally empty, already markup-escaped snippet. Never persisted.
type SummaryMatch struct {
	ContractID int64  `json:"id"`
	Filename   string `json:"original_filename"`
	Snippet    string `json:"snippet"`
	Type       string `json:"type"`
	TypeLabel  string `json:"type_label"`
}

// SentenceMatch is one sentence-level hit inside a single document.
// Page is a coarse estimate (unit index based), Confidence is 1.0 for an
// exact unit match and 0.8 for a substring match.
type SentenceMatch struct {
	Context    string  `json:"text"`
	Page       int     `json:"page"`
	Confidence float64 `json:"confidence"`
}
