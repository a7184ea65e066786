package capture

import (
	"context"
	"image"
)

// Constraints describes how a camera stream should be opened. The device
// negotiates the closest supported resolution to the ideal values.
type Constraints struct {
	FacingMode  string
	IdealWidth  int
	IdealHeight int
}

// DefaultConstraints requests the rear-facing camera at 1080p.
var DefaultConstraints = Constraints{
	FacingMode:  "environment",
	IdealWidth:  1920,
	IdealHeight: 1080,
}

// Track is a single media track of an open stream. Stopping a track releases
// its share of the underlying hardware; stopping twice is a no-op.
type Track interface {
	Stop()
	Live() bool
}

// Stream is an acquired camera stream.
type Stream interface {
	// Frame returns the most recent video frame. It may return nil without
	// an error when the device has not produced a frame yet.
	Frame() (image.Image, error)
	Tracks() []Track
}

// Device grants exclusive access to camera hardware. Implementations wrap
// whatever driver the host platform provides; tests use fakes.
type Device interface {
	Open(ctx context.Context, constraints Constraints) (Stream, error)
}

// stopTracks releases every track of a stream.
func stopTracks(s Stream) {
	if s == nil {
		return
	}
	for _, t := range s.Tracks() {
		t.Stop()
	}
}
