package calculator

// Text shown in the result element and the lazily created panels.
const (
	InvalidSideMessage     = "Please enter a positive number"
	ConnectionErrorMessage = "Error: Could not connect to server"
	HistoryHeading         = "Recent Calculations:"
	EmptyHistoryMessage    = "No calculations yet"
	StatsHeading           = "Statistics:"
)

// Page is the rendered view: the result line followed by the stats panel
// and the history panel. Panels stay nil until their first successful load.
type Page struct {
	Result  string        `json:"result"`
	Stats   *StatsPanel   `json:"stats,omitempty"`
	History *HistoryPanel `json:"history,omitempty"`
}

// HistoryPanel keeps its heading across reloads. When the API returns no
// calculations Items is empty and EmptyMessage is set.
type HistoryPanel struct {
	Heading      string        `json:"heading"`
	Items        []HistoryItem `json:"items"`
	EmptyMessage string        `json:"empty_message,omitempty"`
}

// HistoryItem is one formatted calculation.
type HistoryItem struct {
	Shape  string `json:"shape"`
	Input  string `json:"input"`
	Result string `json:"result"`
	Time   string `json:"time"`
}

// Line renders the item the way the history list shows it.
func (h HistoryItem) Line() string {
	return h.Shape + " " + h.Input + " → " + h.Result + " (" + h.Time + ")"
}

// StatsPanel is re-rendered in full on every load.
type StatsPanel struct {
	Heading string `json:"heading"`
	Count   int64  `json:"count"`
	Text    string `json:"text"`
}

// calculateRequest is the JSON body of POST /api/calculate. Side is kept raw
// so both "5" and 5 reach the same validation as the HTML form.
type calculateRequest struct {
	Side any `json:"side"`
}

func (p Page) clone() Page {
	out := Page{Result: p.Result}
	if p.Stats != nil {
		s := *p.Stats
		out.Stats = &s
	}
	if p.History != nil {
		h := *p.History
		h.Items = append([]HistoryItem(nil), p.History.Items...)
		out.History = &h
	}
	return out
}
