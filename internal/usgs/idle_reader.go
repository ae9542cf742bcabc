package usgs

import (
	"io"
	"time"
)

// idleTimeoutReader fires onTimeout when no bytes arrive for d.
type idleTimeoutReader struct {
	r     io.Reader
	d     time.Duration
	timer *time.Timer
}

func newIdleTimeoutReader(r io.Reader, d time.Duration, onTimeout func()) *idleTimeoutReader {
	return &idleTimeoutReader{r: r, d: d, timer: time.AfterFunc(d, onTimeout)}
}

func (r *idleTimeoutReader) Read(p []byte) (int, error) {
	n, err := r.r.Read(p)
	if n > 0 {
		r.timer.Reset(r.d)
	}
	return n, err
}

func (r *idleTimeoutReader) stop() {
	r.timer.Stop()
}
