package recorder

// NoopRecorder is a no-op implementation used when SQLite is not configured.
type NoopRecorder struct{}

func NewNoopRecorder() *NoopRecorder { return &NoopRecorder{} }

func (n *NoopRecorder) RecordBacktest(_ *BacktestRun) (string, error) { return "", nil }
func (n *NoopRecorder) RecordSweep(_ *SweepRun) (string, error)       { return "", nil }
func (n *NoopRecorder) RecentSweeps(_ int) ([]SweepSummary, error)    { return nil, nil }
func (n *NoopRecorder) Close() error                                  { return nil }
