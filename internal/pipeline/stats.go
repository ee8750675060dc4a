package pipeline

import "sync"

// RunStats tracks aggregate counters across a batch run. Counters are
// guarded by a mutex because workers update them concurrently.
type RunStats struct {
	mu sync.Mutex

	Total     int
	processed int

	Renamed int // files given a new canonical name
	Moved   int // files relocated into a year/month folder
	Skipped int // already placed, empty content, or OCR disabled
	Failed  int // extraction or filesystem errors
}

// next claims the next 1-based sequence number for progress display.
func (s *RunStats) next() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.processed++
	return s.processed
}

// Processed returns how many files have been picked up so far.
func (s *RunStats) Processed() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.processed
}

func (s *RunStats) addRenamed() { s.mu.Lock(); s.Renamed++; s.mu.Unlock() }
func (s *RunStats) addMoved()   { s.mu.Lock(); s.Moved++; s.mu.Unlock() }
func (s *RunStats) addSkipped() { s.mu.Lock(); s.Skipped++; s.mu.Unlock() }
func (s *RunStats) addFailed()  { s.mu.Lock(); s.Failed++; s.mu.Unlock() }
