package analysis

import (
	"fmt"
	"io"
	"sync"
)

// ProgressEvent is a single progress update during a run.
type ProgressEvent struct {
	Type    string `json:"type"` // "info", "record", "error"
	Index   int    `json:"index,omitempty"`
	Total   int    `json:"total,omitempty"`
	Message string `json:"message,omitempty"`
}

// ProgressEmitter receives progress events during analysis.
type ProgressEmitter interface {
	Emit(event ProgressEvent)
}

// TextEmitter formats progress events as human-readable text. Records are
// analyzed concurrently, so writes are serialized.
type TextEmitter struct {
	W  io.Writer
	mu sync.Mutex
}

// Emit writes a formatted progress line to the underlying writer.
func (e *TextEmitter) Emit(ev ProgressEvent) {
	e.mu.Lock()
	defer e.mu.Unlock()
	switch ev.Type {
	case "record":
		fmt.Fprintf(e.W, "[%d/%d] %s\n", ev.Index, ev.Total, ev.Message)
	case "error":
		fmt.Fprintf(e.W, "Error: %s\n", ev.Message)
	default:
		fmt.Fprintf(e.W, "  %s\n", ev.Message)
	}
}

func emitInfo(emitter ProgressEmitter, message string) {
	if emitter != nil {
		emitter.Emit(ProgressEvent{Type: "info", Message: message})
	}
}

func emitRecord(emitter ProgressEmitter, index, total int, message string) {
	if emitter != nil {
		emitter.Emit(ProgressEvent{Type: "record", Index: index, Total: total, Message: message})
	}
}
