package sales

// BatchSummary is the pure aggregation of a committed batch.
type BatchSummary struct {
	LineCount  int
	TotalUnits int
	TotalCents int64
}

// Summarize totals a committed batch. Money stays in integer cents; no
// floating point is involved at any step.
func Summarize(committed []*CommittedSale) BatchSummary {
	summary := BatchSummary{LineCount: len(committed)}
	for _, sale := range committed {
		summary.TotalUnits += sale.Quantity
		summary.TotalCents += sale.TotalCents
	}
	return summary
}

// Committed builds the success result for a persisted batch.
func Committed(batchCode string, committed []*CommittedSale) *BatchResult {
	summary := Summarize(committed)
	return &BatchResult{
		Success:        true,
		CommittedCount: summary.LineCount,
		TotalUnits:     summary.TotalUnits,
		TotalCents:     summary.TotalCents,
		BatchCode:      batchCode,
		Message:        MessageCommitted,
	}
}
