package server

import (
	"fmt"
	"time"

	"github.com/df07/go-viewfactor-raytracer/pkg/core"
)

// ConsoleMessage represents a render log line with timestamp
type ConsoleMessage struct {
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
	Level     string    `json:"level"` // "info", "warning", "error"
}

// WebLogger implements core.Logger by sending messages to a console channel
type WebLogger struct {
	consoleChan chan<- ConsoleMessage
}

// NewWebLogger creates a logger whose output is forwarded to consoleChan
func NewWebLogger(consoleChan chan<- ConsoleMessage) core.Logger {
	return &WebLogger{consoleChan: consoleChan}
}

// Printf implements core.Logger. Messages also go to stdout for server
// logs; the channel send never blocks, full channels drop the message.
func (wl *WebLogger) Printf(format string, args ...interface{}) {
	message := fmt.Sprintf(format, args...)

	fmt.Print(message)

	if wl.consoleChan != nil {
		select {
		case wl.consoleChan <- ConsoleMessage{
			Message:   message,
			Timestamp: time.Now(),
			Level:     "info",
		}:
		default:
		}
	}
}
