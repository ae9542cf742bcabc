package display

import (
	"fmt"
	"io"
	"sync"
)

// Console prints each region update as "region: text".
type Console struct {
	mu sync.Mutex
	w  io.Writer
}

func NewConsole(w io.Writer) *Console {
	return &Console{w: w}
}

func (c *Console) SetText(region Region, text string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, _ = fmt.Fprintf(c.w, "%s: %s\n", region, text)
}
