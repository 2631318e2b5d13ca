package domain

import "time"

// ModuleState tracks one module's input revision, busy flag and capture
type ModuleState struct {
	Revision  uint64         `json:"revision"`
	Busy      bool           `json:"busy"`
	BusySince *time.Time     `json:"busy_since,omitempty"`
	Capture   *ModuleCapture `json:"capture,omitempty"`
}

// State derives the lifecycle position from the stored fields
func (m *ModuleState) State() CaptureState {
	switch {
	case m == nil:
		return StateAbsent
	case m.Busy:
		return StateSolving
	case m.Capture != nil:
		return StateCaptured
	default:
		return StateAbsent
	}
}

// Session is one dashboard session: the drafts, the graph and the keyed capture store
type Session struct {
	ID        string                    `json:"id"`
	CreatedAt time.Time                 `json:"created_at"`
	UpdatedAt time.Time                 `json:"updated_at"`
	Linear    LinearDraft               `json:"linear"`
	Transport TransportDraft            `json:"transport"`
	Graph     []GraphEdge               `json:"graph"`
	Modules   map[ModuleID]*ModuleState `json:"modules"`
}

// NewSession returns an empty session with every module absent
func NewSession(id string, now time.Time) *Session {
	s := &Session{ID: id, CreatedAt: now, UpdatedAt: now, Graph: []GraphEdge{}}
	s.ensureModules()
	return s
}

func (s *Session) ensureModules() {
	if s.Modules == nil {
		s.Modules = make(map[ModuleID]*ModuleState, len(Modules))
	}
	for _, m := range Modules {
		if s.Modules[m] == nil {
			s.Modules[m] = &ModuleState{}
		}
	}
}

// Module returns the state for m, creating it when missing
func (s *Session) Module(m ModuleID) *ModuleState {
	s.ensureModules()
	return s.Modules[m]
}

// InvalidateInput records that m's input changed: the revision moves and the capture is dropped
func (s *Session) InvalidateInput(m ModuleID) {
	st := s.Module(m)
	st.Revision++
	st.Capture = nil
}

// BeginSolve marks m as busy and returns the input revision the solve is tied to.
// A busy flag older than staleAfter is treated as abandoned.
func (s *Session) BeginSolve(m ModuleID, now time.Time, staleAfter time.Duration) (uint64, error) {
	st := s.Module(m)
	if st.Busy && st.BusySince != nil && now.Sub(*st.BusySince) < staleAfter {
		return 0, ErrSolveInProgress
	}
	st.Busy = true
	st.BusySince = &now
	st.Capture = nil
	return st.Revision, nil
}

// FinishSolve clears the busy flag. When capture is non-nil it is recorded, provided the
// input revision still matches; otherwise the result is discarded with ErrStaleResult.
func (s *Session) FinishSolve(m ModuleID, revision uint64, capture *ModuleCapture) error {
	st := s.Module(m)
	st.Busy = false
	st.BusySince = nil
	if capture == nil {
		return nil
	}
	return s.RecordCapture(capture, revision)
}

// RecordCapture is the single write path into the capture store
func (s *Session) RecordCapture(capture *ModuleCapture, revision uint64) error {
	if !capture.ModuleID.Valid() {
		return ErrUnknownModule
	}
	st := s.Module(capture.ModuleID)
	if st.Revision != revision {
		return ErrStaleResult
	}
	st.Capture = capture
	return nil
}

// Captures returns a read-only snapshot of the settled captures
func (s *Session) Captures() map[ModuleID]ModuleCapture {
	out := make(map[ModuleID]ModuleCapture, len(Modules))
	for _, m := range Modules {
		if st := s.Modules[m]; st != nil && st.Capture != nil {
			out[m] = *st.Capture
		}
	}
	return out
}
