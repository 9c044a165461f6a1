package scan

import "github.com/TommyTiptoes/Atlas-Ai-sub004/internal/core"

// EventSink receives scan notifications. Callbacks fire synchronously from
// the scan worker and must be cheap and non-blocking; a slow consumer is
// protected by the traversal's report throttle, not by buffering here.
// Nil fields are simply skipped.
type EventSink struct {
	OnProgress     func(message string, percent int)
	OnThreatFound  func(core.Threat)
	OnFilesScanned func(count int64)
	OnCurrentFile  func(path string)
}

func (s *EventSink) progress(message string, percent int) {
	if s != nil && s.OnProgress != nil {
		s.OnProgress(message, percent)
	}
}

func (s *EventSink) threatFound(t core.Threat) {
	if s != nil && s.OnThreatFound != nil {
		s.OnThreatFound(t)
	}
}

func (s *EventSink) filesScanned(count int64) {
	if s != nil && s.OnFilesScanned != nil {
		s.OnFilesScanned(count)
	}
}

func (s *EventSink) currentFile(path string) {
	if s != nil && s.OnCurrentFile != nil {
		s.OnCurrentFile(path)
	}
}
