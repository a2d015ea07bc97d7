package recorder

import (
	"fmt"

	"PriceDigest/internal/config"
	"PriceDigest/internal/logger"
)

// New builds the recorder set described by cfg.Output. With nothing
// configured it returns a NoopRecorder.
func New(cfg *config.Config, log *logger.Logger) (Recorder, error) {
	var multi Multi
	for _, format := range cfg.Output.Formats {
		switch format {
		case "json":
			r, err := NewJSONRecorder(cfg.Output.Dir)
			if err != nil {
				return nil, err
			}
			multi = append(multi, r)
		case "parquet":
			r, err := NewParquetRecorder(cfg.Output.Dir)
			if err != nil {
				return nil, err
			}
			multi = append(multi, r)
		default:
			return nil, fmt.Errorf("unknown output format %q", format)
		}
	}
	if cfg.Output.SQLitePath != "" {
		r, err := NewSQLiteRecorder(cfg.Output.SQLitePath, log)
		if err != nil {
			multi.Close()
			return nil, err
		}
		multi = append(multi, r)
	}

	switch len(multi) {
	case 0:
		return NewNoopRecorder(), nil
	case 1:
		return multi[0], nil
	}
	return multi, nil
}
