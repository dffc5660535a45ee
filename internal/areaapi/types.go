package areaapi

// SquareRequest is the JSON body for POST /api/area/square.
type SquareRequest struct {
	Side float64 `json:"side"`
}

// SquareResponse is returned by POST /api/area/square. The API reports
// rejected input through Error with a 200 status, so callers check Error
// before reading Area.
type SquareResponse struct {
	Area          float64 `json:"area"`
	CalculationID *int64  `json:"calculation_id,omitempty"`
	Timestamp     string  `json:"timestamp,omitempty"`
	Error         string  `json:"error,omitempty"`
}

// Calculation is one stored calculation record.
type Calculation struct {
	ID         int64   `json:"id"`
	Shape      string  `json:"shape"`
	InputValue float64 `json:"input_value"`
	Result     float64 `json:"result"`
	CreatedAt  string  `json:"created_at"`
}

// Stats is the body of GET /api/stats/count.
type Stats struct {
	Count int64 `json:"count"`
}
