package monitoring

// SaleBatchMetrics records the lifecycle of one batch attempt from the HTTP
// layer without the handler touching counters directly.
type SaleBatchMetrics struct {
	actorID int64
}

func NewSaleBatchMetrics(actorID int64) *SaleBatchMetrics {
	return &SaleBatchMetrics{
		actorID: actorID,
	}
}

func (m *SaleBatchMetrics) RecordAttempt() {
	RecordSaleAttempt()
}

func (m *SaleBatchMetrics) RecordRejected() {
	RecordSaleRejected()
}

func (m *SaleBatchMetrics) RecordFailed(reason string) {
	RecordSaleFailed(reason)
}
