package store

import "jobradar/internal/model"

// Ensure NopRunLog implements model.RunRecorder.
var _ model.RunRecorder = (*NopRunLog)(nil)

// NopRunLog discards run records. Used when run_log is not configured.
type NopRunLog struct{}

// NewNopRunLog returns a NopRunLog.
func NewNopRunLog() *NopRunLog { return &NopRunLog{} }

func (n *NopRunLog) Record(model.RunRecord) error { return nil }

func (n *NopRunLog) Recent(int) ([]model.RunRecord, error) { return nil, nil }
