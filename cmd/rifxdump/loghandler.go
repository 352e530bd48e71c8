package main

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/golang/glog"
)

// glogHandler forwards library records to glog. Debug records are only
// emitted at -v=2 and above.
type glogHandler struct {
	attrs  []slog.Attr
	prefix string
}

func newGlogHandler() *glogHandler { return &glogHandler{} }

func (h *glogHandler) Enabled(_ context.Context, level slog.Level) bool {
	if level < slog.LevelInfo {
		return bool(glog.V(2))
	}
	return true
}

func (h *glogHandler) Handle(_ context.Context, r slog.Record) error {
	var b strings.Builder
	b.WriteString(r.Message)
	write := func(a slog.Attr) {
		fmt.Fprintf(&b, " %s%s=%v", h.prefix, a.Key, a.Value.Resolve())
	}
	for _, a := range h.attrs {
		write(a)
	}
	r.Attrs(func(a slog.Attr) bool {
		write(a)
		return true
	})
	msg := b.String()
	switch {
	case r.Level >= slog.LevelError:
		glog.ErrorDepth(3, msg)
	case r.Level >= slog.LevelWarn:
		glog.WarningDepth(3, msg)
	default:
		glog.InfoDepth(3, msg)
	}
	return nil
}

func (h *glogHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &glogHandler{attrs: append(append([]slog.Attr(nil), h.attrs...), attrs...), prefix: h.prefix}
}

func (h *glogHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	return &glogHandler{attrs: h.attrs, prefix: h.prefix + name + "."}
}
