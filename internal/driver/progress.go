package driver

import "time"

// Stage describes a high-level pipeline phase.
type Stage string

const (
	// StageLoad reads files from disk.
	StageLoad Stage = "load"
	// StageIndex parses a file and adds its declarations to the symbol index.
	StageIndex Stage = "index"
	// StageAnalyze runs the inspections over a file.
	StageAnalyze Stage = "analyze"
)

// Status captures progress state within a stage.
type Status string

const (
	// StatusQueued indicates the file is waiting to start.
	StatusQueued Status = "queued"
	// StatusWorking indicates the file is being processed.
	StatusWorking Status = "working"
	// StatusDone indicates the file is done.
	StatusDone Status = "done"
	// StatusCached indicates the file's findings came from the disk cache.
	StatusCached Status = "cached"
	// StatusSkipped indicates the prefilter ruled the file out.
	StatusSkipped Status = "skipped"
	// StatusError indicates the file could not be processed.
	StatusError Status = "error"
)

// Final reports whether no further events follow for the file.
func (s Status) Final() bool {
	switch s {
	case StatusDone, StatusCached, StatusSkipped, StatusError:
		return true
	}
	return false
}

// Event reports progress for a file (or for the overall run when File is empty).
type Event struct {
	File    string
	Stage   Stage
	Status  Status
	Err     error
	Elapsed time.Duration
}

// ProgressSink consumes progress events. Check calls OnEvent from worker
// goroutines, so implementations must be safe for concurrent use.
type ProgressSink interface {
	OnEvent(Event)
}

// ChannelSink forwards events into a channel.
type ChannelSink struct {
	Ch chan<- Event
}

func (s ChannelSink) OnEvent(evt Event) {
	if s.Ch == nil {
		return
	}
	s.Ch <- evt
}

// SinkFunc adapts a function to ProgressSink.
type SinkFunc func(Event)

func (f SinkFunc) OnEvent(evt Event) {
	if f != nil {
		f(evt)
	}
}

func emit(sink ProgressSink, evt Event) {
	if sink != nil {
		sink.OnEvent(evt)
	}
}

// MultiSink fans events out to every non-nil sink.
type MultiSink []ProgressSink

func (m MultiSink) OnEvent(evt Event) {
	for _, s := range m {
		emit(s, evt)
	}
}
