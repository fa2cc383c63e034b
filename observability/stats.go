package observability

import (
	"log/slog"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/shirou/gopsutil/process"

	"shopbot/domain"
)

// Snapshot aggregates the service counters plus process health for /stats.
type Snapshot struct {
	Requests     uint64            `json:"requests"`
	Fallbacks    uint64            `json:"fallbacks"`
	Errors       uint64            `json:"errors"`
	NonEnglish   uint64            `json:"non_english"`
	Masked       uint64            `json:"masked"`
	PerTag       map[string]uint64 `json:"per_tag"`
	AvgLatencyUs int64             `json:"avg_latency_us"`

	CPUPercent float64 `json:"cpu_percent"`
	RSSMb      uint64  `json:"rss_mb"`
}

// Stats tracks classification traffic. Counters are atomic so the inference
// path never takes a lock; only the per-tag map needs one.
type Stats struct {
	log *slog.Logger

	requests   uint64
	fallbacks  uint64
	errors     uint64
	nonEnglish uint64
	masked     uint64

	latencyTotalUs int64
	latencyCount   int64

	mu     sync.Mutex
	perTag map[domain.Tag]uint64

	proc *process.Process
}

func NewStats(log *slog.Logger) *Stats {
	// Process handle resolution can fail on exotic platforms; stats then
	// simply omit CPU/RSS instead of refusing to start.
	proc, err := process.NewProcess(int32(os.Getpid()))
	if err != nil {
		log.Warn("Process stats unavailable", "error", err)
		proc = nil
	}
	return &Stats{
		log:    log,
		perTag: make(map[domain.Tag]uint64),
		proc:   proc,
	}
}

// RecordPrediction counts one served classification.
func (s *Stats) RecordPrediction(tag domain.Tag, elapsed time.Duration) {
	atomic.AddUint64(&s.requests, 1)
	if tag == domain.TagUnknown {
		atomic.AddUint64(&s.fallbacks, 1)
	}
	atomic.AddInt64(&s.latencyTotalUs, elapsed.Microseconds())
	atomic.AddInt64(&s.latencyCount, 1)

	s.mu.Lock()
	s.perTag[tag]++
	s.mu.Unlock()
}

func (s *Stats) RecordError() {
	atomic.AddUint64(&s.requests, 1)
	atomic.AddUint64(&s.errors, 1)
}

func (s *Stats) RecordNonEnglish() {
	atomic.AddUint64(&s.requests, 1)
	atomic.AddUint64(&s.nonEnglish, 1)
}

func (s *Stats) RecordMasked() {
	atomic.AddUint64(&s.masked, 1)
}

// Snapshot copies the counters and samples process CPU/RSS.
func (s *Stats) Snapshot() Snapshot {
	snapshot := Snapshot{
		Requests:   atomic.LoadUint64(&s.requests),
		Fallbacks:  atomic.LoadUint64(&s.fallbacks),
		Errors:     atomic.LoadUint64(&s.errors),
		NonEnglish: atomic.LoadUint64(&s.nonEnglish),
		Masked:     atomic.LoadUint64(&s.masked),
		PerTag:     make(map[string]uint64),
	}

	if count := atomic.LoadInt64(&s.latencyCount); count > 0 {
		snapshot.AvgLatencyUs = atomic.LoadInt64(&s.latencyTotalUs) / count
	}

	s.mu.Lock()
	for tag, n := range s.perTag {
		snapshot.PerTag[string(tag)] = n
	}
	s.mu.Unlock()

	if s.proc != nil {
		if cpu, err := s.proc.CPUPercent(); err == nil {
			snapshot.CPUPercent = cpu
		}
		if mem, err := s.proc.MemoryInfo(); err == nil {
			snapshot.RSSMb = mem.RSS / 1024 / 1024
		}
	}
	return snapshot
}
