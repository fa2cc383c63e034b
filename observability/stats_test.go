package observability

import (
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"shopbot/domain"
)

func TestStats_Snapshot(t *testing.T) {
	req := require.New(t)
	stats := NewStats(slog.Default())

	stats.RecordPrediction("greeting", 120*time.Microsecond)
	stats.RecordPrediction("greeting", 80*time.Microsecond)
	stats.RecordPrediction(domain.TagUnknown, 100*time.Microsecond)
	stats.RecordNonEnglish()
	stats.RecordError()
	stats.RecordMasked()

	snapshot := stats.Snapshot()
	req.Equal(uint64(5), snapshot.Requests)
	req.Equal(uint64(1), snapshot.Fallbacks)
	req.Equal(uint64(1), snapshot.Errors)
	req.Equal(uint64(1), snapshot.NonEnglish)
	req.Equal(uint64(1), snapshot.Masked)
	req.Equal(uint64(2), snapshot.PerTag["greeting"])
	req.Equal(uint64(1), snapshot.PerTag["unknown"])
	req.Equal(int64(100), snapshot.AvgLatencyUs)
}
