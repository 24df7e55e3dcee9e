package slogobs

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sort"
	"sync"
	"time"
)

const timeLayout = "2006-01-02 15:04:05"

// HandlerOptions configures NewHandler.
type HandlerOptions struct {
	Format Format
	Level  slog.Leveler
	// Output defaults to os.Stderr.
	Output io.Writer
}

// NewHandler returns a slog.Handler for the requested format.
func NewHandler(opts HandlerOptions) slog.Handler {
	if opts.Output == nil {
		opts.Output = os.Stderr
	}
	if opts.Level == nil {
		opts.Level = slog.LevelInfo
	}
	if opts.Format == FormatJSON {
		return slog.NewJSONHandler(opts.Output, &slog.HandlerOptions{Level: opts.Level})
	}
	return &lineHandler{
		pretty: opts.Format == FormatPretty,
		level:  opts.Level,
		out:    opts.Output,
		mu:     &sync.Mutex{},
	}
}

// lineHandler renders compact and pretty records.
type lineHandler struct {
	pretty bool
	level  slog.Leveler
	out    io.Writer
	mu     *sync.Mutex
	attrs  []slog.Attr
	group  string
}

func (h *lineHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level.Level()
}

func (h *lineHandler) Handle(_ context.Context, r slog.Record) error {
	fields := make(map[string]any, len(h.attrs)+r.NumAttrs())
	for _, attr := range h.attrs {
		addField(fields, "", attr)
	}
	r.Attrs(func(attr slog.Attr) bool {
		addField(fields, h.group, attr)
		return true
	})

	ts := r.Time
	if ts.IsZero() {
		ts = time.Now()
	}

	var buf bytes.Buffer
	if h.pretty {
		fmt.Fprintf(&buf, "[%s] %-5s | %s\n", ts.Format(timeLayout), levelName(r.Level), r.Message)
		keys := make([]string, 0, len(fields))
		for k := range fields {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			fmt.Fprintf(&buf, "    %s = %v\n", k, fields[k])
		}
	} else {
		fmt.Fprintf(&buf, "%s %-5s %s", ts.Format(timeLayout), levelName(r.Level), r.Message)
		if len(fields) > 0 {
			encoded, err := json.Marshal(fields)
			if err != nil {
				encoded = []byte(fmt.Sprintf("%q", err.Error()))
			}
			buf.WriteString(" ")
			buf.Write(encoded)
		}
		buf.WriteByte('\n')
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := h.out.Write(buf.Bytes())
	return err
}

func (h *lineHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	next := *h
	next.attrs = make([]slog.Attr, 0, len(h.attrs)+len(attrs))
	next.attrs = append(next.attrs, h.attrs...)
	for _, attr := range attrs {
		if h.group != "" {
			attr.Key = h.group + "." + attr.Key
		}
		next.attrs = append(next.attrs, attr)
	}
	return &next
}

func (h *lineHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	next := *h
	if h.group != "" {
		next.group = h.group + "." + name
	} else {
		next.group = name
	}
	return &next
}

func addField(fields map[string]any, prefix string, attr slog.Attr) {
	attr.Value = attr.Value.Resolve()
	if attr.Equal(slog.Attr{}) {
		return
	}
	key := attr.Key
	if prefix != "" {
		key = prefix + "." + key
	}
	if attr.Value.Kind() == slog.KindGroup {
		for _, inner := range attr.Value.Group() {
			addField(fields, key, inner)
		}
		return
	}
	switch v := attr.Value.Any().(type) {
	case error:
		fields[key] = v.Error()
	case time.Duration:
		fields[key] = v.String()
	default:
		fields[key] = v
	}
}
