package capture

import (
	"errors"
	"fmt"
	"sync"
)

// State is the lifecycle stage of a capture session.
type State int

const (
	StateIdle State = iota
	StateRequesting
	StateActive
	StateCapturing
	StateFailed
	StateClosed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRequesting:
		return "requesting"
	case StateActive:
		return "active"
	case StateCapturing:
		return "capturing"
	case StateFailed:
		return "failed"
	case StateClosed:
		return "closed"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// ErrCameraUnavailable is reported when device access is denied or no camera
// exists.
var ErrCameraUnavailable = errors.New("camera unavailable")

// ErrCaptureFailed is reported when encoding the current frame yields no
// data. The camera stays open so the user can retry.
var ErrCaptureFailed = errors.New("capture failed")

// Session tracks one acquired camera stream from request to release. Its
// single hard invariant: the stream's tracks are stopped exactly once on
// every exit path, including a close that races the device grant.
type Session struct {
	mu       sync.Mutex
	state    State
	stream   Stream
	err      error
	released bool
}

// NewSession returns a session in the idle state.
func NewSession() *Session {
	return &Session{state: StateIdle}
}

// State reports the current lifecycle stage.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Err reports the camera error shown inside the capture surface, if any.
func (s *Session) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

// Begin marks the session as requesting device access.
func (s *Session) Begin() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateIdle {
		return fmt.Errorf("cannot request camera from state %s", s.state)
	}
	s.state = StateRequesting
	return nil
}

// Activate attaches the granted stream and reports whether the session still
// wants it. When the session was closed while the request was pending, the
// stream is released immediately and false is returned.
func (s *Session) Activate(stream Stream) bool {
	s.mu.Lock()
	if s.state != StateRequesting {
		s.mu.Unlock()
		stopTracks(stream)
		return false
	}
	s.state = StateActive
	s.stream = stream
	s.mu.Unlock()
	return true
}

// Fail records a denied or failed device request.
func (s *Session) Fail(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateRequesting {
		return
	}
	s.state = StateFailed
	s.err = err
}

// BeginCapture transitions an active session into capturing and hands back
// the stream. Capturing is invalid while the session is still loading or
// after it closed.
func (s *Session) BeginCapture() (Stream, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateActive {
		return nil, fmt.Errorf("%w: camera is %s", ErrCaptureFailed, s.state)
	}
	s.state = StateCapturing
	return s.stream, nil
}

// EndCapture returns a capturing session to active. The camera stays open
// whether or not the frame encoded.
func (s *Session) EndCapture() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == StateCapturing {
		s.state = StateActive
	}
}

// Close releases the stream and retires the session. A failed session
// returns to idle so the capture surface can be reopened; every other state
// ends in closed. Close is idempotent and safe to call from any state.
func (s *Session) Close() {
	s.mu.Lock()
	stream := s.stream
	alreadyReleased := s.released
	s.released = true
	s.stream = nil
	if s.state == StateFailed {
		// Back to idle: the session may be begun again, so the next
		// stream must be releasable.
		s.state = StateIdle
		s.err = nil
		s.released = false
	} else {
		s.state = StateClosed
	}
	s.mu.Unlock()

	if !alreadyReleased {
		stopTracks(stream)
	}
}
