// Package klog is the kernel's logging backend: a slog.Handler printing a
// single fixed-format line per record (time, level, message, attrs) under
// one mutex, with a debug flag that gates whether sub-Info records pass
// through at all. It writes through a console.Writer rather than a file,
// since nothing resembling a log file exists until SimpleFs is mounted,
// and SimpleFs is read-only.
package klog

import (
	"context"
	"log/slog"
	"strings"
	"sync"

	"github.com/justeres/eres-os/console"
)

// Handler implements slog.Handler over a console.Writer.
type Handler struct {
	out   console.Writer
	mu    *sync.Mutex
	attrs []slog.Attr
	debug bool
}

// NewHandler builds a Handler writing to out. debug additionally passes
// through every record instead of just Info-and-above.
func NewHandler(out console.Writer, debug bool) *Handler {
	return &Handler{out: out, mu: &sync.Mutex{}, debug: debug}
}

func (h *Handler) Enabled(_ context.Context, level slog.Level) bool {
	if h.debug {
		return true
	}
	return level >= slog.LevelInfo
}

func (h *Handler) WithAttrs(attrs []slog.Attr) slog.Handler {
	next := make([]slog.Attr, 0, len(h.attrs)+len(attrs))
	next = append(next, h.attrs...)
	next = append(next, attrs...)
	return &Handler{out: h.out, mu: h.mu, attrs: next, debug: h.debug}
}

func (h *Handler) WithGroup(_ string) slog.Handler {
	return h
}

func (h *Handler) Handle(_ context.Context, r slog.Record) error {
	level := r.Level.String() + ":"
	formattedTime := r.Time.Format("15:04:05.000")

	strs := []string{formattedTime, level, r.Message}
	for _, a := range h.attrs {
		strs = append(strs, a.Value.String())
	}
	if r.NumAttrs() != 0 {
		r.Attrs(func(a slog.Attr) bool {
			strs = append(strs, a.Key+"="+a.Value.String())
			return true
		})
	}
	line := strings.Join(strs, " ") + "\n"

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := h.out.Write([]byte(line))
	return err
}

// Default returns a ready-to-use *slog.Logger writing to out.
func Default(out console.Writer, debug bool) *slog.Logger {
	return slog.New(NewHandler(out, debug))
}
