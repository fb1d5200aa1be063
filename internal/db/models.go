package db

// Batch represents a row in the batches table: one imported account list
type Batch struct {
	ID           string `json:"id"`
	Source       string `json:"source"`
	ImportedAt   int64  `json:"imported_at"` // Unix millis
	AccountCount int    `json:"account_count"`
}
