package server

import (
	"fmt"
	"log"
	"strings"
	"sync"
	"time"
)

// maxConsoleMessages caps the lines kept for a single render
const maxConsoleMessages = 100

// ConsoleMessage is one log line produced while serving a render
type ConsoleMessage struct {
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
	Level     string    `json:"level"` // "info" or "warning"
}

// RenderConsole is the logger of one render request. Every line goes to the
// server log tagged with the render ID and is kept for the JSON response.
type RenderConsole struct {
	renderID string

	mu       sync.Mutex
	messages []ConsoleMessage
	dropped  int
}

// NewRenderConsole creates the console for the render identified by renderID
func NewRenderConsole(renderID string) *RenderConsole {
	return &RenderConsole{renderID: renderID}
}

// Printf implements core.Logger
func (c *RenderConsole) Printf(format string, args ...interface{}) {
	c.add("info", format, args...)
}

// Warnf records a warning line
func (c *RenderConsole) Warnf(format string, args ...interface{}) {
	c.add("warning", format, args...)
}

func (c *RenderConsole) add(level, format string, args ...interface{}) {
	message := fmt.Sprintf(format, args...)
	log.Printf("[%s] %s", c.renderID, strings.TrimRight(message, "\n"))

	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.messages) >= maxConsoleMessages {
		c.dropped++
		return
	}
	c.messages = append(c.messages, ConsoleMessage{
		Message:   message,
		Timestamp: time.Now(),
		Level:     level,
	})
}

// Messages returns a copy of the kept lines in logging order
func (c *RenderConsole) Messages() []ConsoleMessage {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]ConsoleMessage{}, c.messages...)
}

// Dropped returns how many lines arrived after the cap was reached
func (c *RenderConsole) Dropped() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.dropped
}
