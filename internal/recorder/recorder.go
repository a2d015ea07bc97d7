package recorder

import (
	"context"
	"errors"

	"PriceDigest/internal/model"
)

// Recorder persists generated documents.
type Recorder interface {
	Record(ctx context.Context, doc *model.MarketDocument) error
	Close() error
}

// Multi fans a document out to several recorders. Every recorder is tried;
// failures are joined.
type Multi []Recorder

func (m Multi) Record(ctx context.Context, doc *model.MarketDocument) error {
	var errs []error
	for _, r := range m {
		if err := r.Record(ctx, doc); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (m Multi) Close() error {
	var errs []error
	for _, r := range m {
		if err := r.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
