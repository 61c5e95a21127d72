package run_waitlist_sweep

// SweepRequest HTTP request model
type SweepRequest struct {
	Date string `json:"date"` // "2025-10-15"
}

// SweepResponse HTTP response model
type SweepResponse struct {
	BusinessID int64  `json:"businessId"`
	Date       string `json:"date"`
	Status     string `json:"status"`
}
