package recorder

import (
	"context"

	"PriceDigest/internal/model"
)

// NoopRecorder is a no-op implementation used when nothing is configured.
type NoopRecorder struct{}

func NewNoopRecorder() *NoopRecorder { return &NoopRecorder{} }

func (n *NoopRecorder) Record(_ context.Context, _ *model.MarketDocument) error { return nil }
func (n *NoopRecorder) Close() error                                            { return nil }
