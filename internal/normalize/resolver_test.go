package normalize

import (
	"errors"
	"testing"

	"PriceDigest/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveColumns(t *testing.T) {
	tests := []struct {
		name   string
		labels []string
		want   model.ColumnMap
	}{
		{
			name:   "exact match wins over substring",
			labels: []string{"Close", "AdjClose"},
			want:   model.ColumnMap{model.RoleClose: "Close"},
		},
		{
			name:   "exact match wins even when listed later",
			labels: []string{"Adj Close", "Close"},
			want:   model.ColumnMap{model.RoleClose: "Close"},
		},
		{
			name:   "fuzzy fallback",
			labels: []string{"ClosingPrice"},
			want:   model.ColumnMap{model.RoleClose: "ClosingPrice"},
		},
		{
			name:   "yahoo style labels",
			labels: []string{"Open", "High", "Low", "Close", "Adj Close", "Volume"},
			want: model.ColumnMap{
				model.RoleClose:  "Close",
				model.RoleHigh:   "High",
				model.RoleLow:    "Low",
				model.RoleVolume: "Volume",
			},
		},
		{
			name:   "first substring match in label order",
			labels: []string{"DayHigh", "HighPrice", "last_close", "TotalVolume"},
			want: model.ColumnMap{
				model.RoleClose:  "last_close",
				model.RoleHigh:   "DayHigh",
				model.RoleVolume: "TotalVolume",
			},
		},
		{
			name:   "case insensitive",
			labels: []string{"CLOSE", "low"},
			want:   model.ColumnMap{model.RoleClose: "CLOSE", model.RoleLow: "low"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ResolveColumns(tt.labels)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestResolveColumns_MissingClose(t *testing.T) {
	labels := []string{"Open", "High", "Low", "Volume"}
	_, err := ResolveColumns(labels)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnresolvableColumn))

	var perr *PipelineError
	require.True(t, errors.As(err, &perr))
	assert.Equal(t, labels, perr.Columns)
	assert.Contains(t, err.Error(), "Open, High, Low, Volume")
}

func TestResolveColumns_Deterministic(t *testing.T) {
	labels := []string{"x_close", "Close_2", "hi_high", "HIGH", "lowish", "vol", "Volume (shares)"}
	first, err := ResolveColumns(labels)
	require.NoError(t, err)
	for i := 0; i < 20; i++ {
		again, err := ResolveColumns(labels)
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
}

func TestMatchPasses_Separately(t *testing.T) {
	labels := []string{"AdjClose", "Close"}

	exact := model.ColumnMap{}
	MatchExact(exact, labels)
	assert.Equal(t, model.ColumnMap{model.RoleClose: "Close"}, exact)

	fuzzy := model.ColumnMap{}
	MatchSubstring(fuzzy, labels)
	assert.Equal(t, model.ColumnMap{model.RoleClose: "AdjClose"}, fuzzy)

	// A role already assigned is left alone.
	MatchSubstring(exact, labels)
	assert.Equal(t, "Close", exact[model.RoleClose])
}
