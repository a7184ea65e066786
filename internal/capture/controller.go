package capture

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	"image/draw"
	"image/jpeg"
	"net/http"
	"sync"

	"dishlens/internal/dish"
)

// jpegQuality is applied to captured frames before submission.
const jpegQuality = 95

// Identifier submits an image for identification. The implementation must
// observe ctx so a superseded request can be aborted in flight.
type Identifier interface {
	Identify(ctx context.Context, imageData []byte) (*dish.Result, error)
}

// Controller owns the image acquisition and identification lifecycle for one
// user surface: at most one camera session and at most one in-flight
// identification request at a time.
type Controller struct {
	device     Device
	identifier Identifier

	mu      sync.Mutex
	session *Session
	cancel  context.CancelFunc
	seq     uint64

	imageData []byte
	preview   string
	loading   bool
	result    *dish.Result
	errMsg    string
}

// NewController creates a controller in its initial state.
func NewController(device Device, identifier Identifier) *Controller {
	return &Controller{device: device, identifier: identifier}
}

// SelectFile accepts a user-chosen image, builds a local preview, and
// submits it for identification. The returned channel closes when the
// submission settles.
func (c *Controller) SelectFile(imageData []byte) <-chan struct{} {
	c.mu.Lock()
	c.imageData = imageData
	c.preview = dataURI(imageData)
	c.mu.Unlock()
	return c.Submit(imageData)
}

// StartCamera requests exclusive access to the rear-facing camera. On
// failure the error is recorded on the session for the capture surface;
// everything else, including an existing identification result, is left
// untouched. Starting while a session is already open is a no-op.
func (c *Controller) StartCamera(ctx context.Context) error {
	c.mu.Lock()
	if c.session != nil {
		switch c.session.State() {
		case StateRequesting, StateActive, StateCapturing:
			c.mu.Unlock()
			return nil
		}
	}
	session := NewSession()
	if err := session.Begin(); err != nil {
		c.mu.Unlock()
		return err
	}
	c.session = session
	c.mu.Unlock()

	stream, err := c.device.Open(ctx, DefaultConstraints)
	if err != nil {
		wrapped := fmt.Errorf("%w: %v", ErrCameraUnavailable, err)
		session.Fail(wrapped)
		return wrapped
	}
	session.Activate(stream)
	return nil
}

// CaptureFrame draws the current video frame into an offscreen buffer,
// encodes it as a JPEG, and submits it. Valid only while the camera session
// is active; an encode that yields no data reports ErrCaptureFailed and
// leaves the camera open. The returned channel closes when the submission
// settles.
func (c *Controller) CaptureFrame() (<-chan struct{}, error) {
	c.mu.Lock()
	session := c.session
	c.mu.Unlock()
	if session == nil {
		return nil, fmt.Errorf("%w: no camera session", ErrCaptureFailed)
	}

	stream, err := session.BeginCapture()
	if err != nil {
		return nil, err
	}
	defer session.EndCapture()

	frame, err := stream.Frame()
	if err != nil || frame == nil {
		return nil, fmt.Errorf("%w: no frame available", ErrCaptureFailed)
	}

	bounds := frame.Bounds()
	canvas := image.NewRGBA(bounds)
	draw.Draw(canvas, bounds, frame, bounds.Min, draw.Src)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, canvas, &jpeg.Options{Quality: jpegQuality}); err != nil || buf.Len() == 0 {
		return nil, fmt.Errorf("%w: frame did not encode", ErrCaptureFailed)
	}

	imageData := buf.Bytes()
	c.mu.Lock()
	c.imageData = imageData
	c.preview = dataURI(imageData)
	c.mu.Unlock()

	return c.Submit(imageData), nil
}

// Submit cancels any in-flight identification request and issues a new one.
// On success the result replaces the current one and the error clears; on
// failure the error message is set and the previous result stays. A request
// superseded by a newer one settles silently. The returned channel closes
// when the request settles.
func (c *Controller) Submit(imageData []byte) <-chan struct{} {
	c.mu.Lock()
	if c.cancel != nil {
		c.cancel()
	}
	ctx, cancel := context.WithCancel(context.Background())
	c.cancel = cancel
	c.seq++
	seq := c.seq
	c.loading = true
	c.mu.Unlock()

	done := make(chan struct{})
	go func() {
		defer close(done)
		defer cancel()

		result, err := c.identifier.Identify(ctx, imageData)

		c.mu.Lock()
		defer c.mu.Unlock()
		if seq != c.seq {
			// Superseded: a newer request owns the state now.
			return
		}
		c.loading = false
		c.cancel = nil
		if err != nil {
			if errors.Is(err, context.Canceled) || ctx.Err() != nil {
				return
			}
			c.errMsg = "Could not identify the dish. Please try again."
			return
		}
		c.result = result
		c.errMsg = ""
	}()
	return done
}

// RemoveImage cancels any in-flight request and resets image, preview,
// result, and error back to the initial state.
func (c *Controller) RemoveImage() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
	c.seq++ // orphan any in-flight completion
	c.imageData = nil
	c.preview = ""
	c.loading = false
	c.result = nil
	c.errMsg = ""
}

// CloseCamera releases the device stream and retires the camera session,
// whether or not a capture happened.
func (c *Controller) CloseCamera() {
	c.mu.Lock()
	session := c.session
	c.mu.Unlock()
	if session != nil {
		session.Close()
	}
}

// Close tears the controller down: the in-flight request is cancelled
// silently and the camera is released.
func (c *Controller) Close() {
	c.mu.Lock()
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
	c.seq++
	c.loading = false
	c.mu.Unlock()
	c.CloseCamera()
}

// Session exposes the current camera session, nil before the first
// StartCamera.
func (c *Controller) Session() *Session {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.session
}

// Result returns the latest identification, nil when none has arrived.
func (c *Controller) Result() *dish.Result {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.result
}

// ErrMessage returns the user-visible error message, empty when none.
func (c *Controller) ErrMessage() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.errMsg
}

// Loading reports whether an identification request is in flight.
func (c *Controller) Loading() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.loading
}

// Preview returns the current image as a data URI for local display.
func (c *Controller) Preview() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.preview
}

func dataURI(imageData []byte) string {
	contentType := http.DetectContentType(imageData)
	return "data:" + contentType + ";base64," + base64.StdEncoding.EncodeToString(imageData)
}
