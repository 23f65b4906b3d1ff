package metrics

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_IndependentRegistries(t *testing.T) {
	first := New()
	second := New()

	first.ObjectsListed.Add(3)

	assert.Equal(t, 3.0, testutil.ToFloat64(first.ObjectsListed))
	assert.Equal(t, 0.0, testutil.ToFloat64(second.ObjectsListed))
}

func TestMetrics_ObserveRun(t *testing.T) {
	m := New()
	start := time.Unix(1_700_000_000, 0)

	m.ObserveRun(start, start.Add(2*time.Second), nil)
	m.ObserveRun(start, start.Add(time.Second), errors.New("boom"))

	assert.Equal(t, 2, testutil.CollectAndCount(m.RunDuration))
	assert.Equal(t, float64(start.Add(2*time.Second).Unix()), testutil.ToFloat64(m.LastSuccess))
}

func TestMetrics_FailedRunKeepsLastSuccess(t *testing.T) {
	m := New()
	start := time.Unix(1_700_000_000, 0)

	m.ObserveRun(start, start.Add(time.Second), errors.New("boom"))

	assert.Equal(t, 0.0, testutil.ToFloat64(m.LastSuccess))
}

func TestMetrics_WriteTextfile(t *testing.T) {
	m := New()
	m.ObjectsDownloaded.Add(4)
	m.RowsWritten.Add(120)

	path := filepath.Join(t.TempDir(), "museum_extract.prom")
	require.NoError(t, m.WriteTextfile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "museum_extract_objects_downloaded_total 4")
	assert.Contains(t, string(data), "museum_extract_rows_written_total 120")
}

func TestMetrics_Registry(t *testing.T) {
	m := New()
	count, err := testutil.GatherAndCount(m.Registry(), "museum_extract_files_merged_total")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}
