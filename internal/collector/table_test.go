package collector

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCSVTable(t *testing.T) {
	in := "\ufeffDate,Open,Close,Volume\n" +
		"2024-01-02,99.5,100.25,\"1,200\"\n" +
		"2024-01-03,101,NaN,900\n" +
		"2024-01-04,102,n/a\n" +
		"2024-01-05,103,bad,10\n"

	table, err := ParseCSVTable(strings.NewReader(in))
	require.NoError(t, err)
	assert.Equal(t, []string{"Open", "Close", "Volume"}, table.Columns)
	require.Len(t, table.Rows, 4)

	first := table.Rows[0]
	assert.Equal(t, time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC), first.Index)
	v, err := first.Cell("Volume").Float()
	require.NoError(t, err)
	assert.Equal(t, 1200.0, v)

	assert.True(t, table.Rows[1].Cell("Close").Missing())
	assert.True(t, table.Rows[2].Cell("Close").Missing())
	assert.True(t, table.Rows[2].Cell("Volume").Missing())

	bad := table.Rows[3].Cell("Close")
	assert.False(t, bad.Missing())
	_, err = bad.Float()
	assert.Error(t, err)
}

func TestParseCSVTable_NonDateIndex(t *testing.T) {
	table, err := ParseCSVTable(strings.NewReader("Day,Close\nmonday,1\n"))
	require.NoError(t, err)
	require.Len(t, table.Rows, 1)
	assert.Equal(t, "monday", table.Rows[0].Index)
}

func TestTableFromRecords_DuplicateLabelKeepsFirst(t *testing.T) {
	table, err := TableFromRecords([][]string{
		{"Date", "Close", "Close"},
		{"2024-01-02", "1", "2"},
	})
	require.NoError(t, err)
	v, err := table.Rows[0].Cell("Close").Float()
	require.NoError(t, err)
	assert.Equal(t, 1.0, v)
}

func TestTableFromRecords_Edges(t *testing.T) {
	table, err := TableFromRecords(nil)
	require.NoError(t, err)
	assert.True(t, table.Empty())

	_, err = TableFromRecords([][]string{{"Date"}})
	assert.Error(t, err)
}

func TestLookbackDays(t *testing.T) {
	assert.Equal(t, 7, LookbackDays(1))
	assert.Equal(t, 7, LookbackDays(3))
	assert.Equal(t, 8, LookbackDays(4))
	assert.Equal(t, 60, LookbackDays(30))
}
