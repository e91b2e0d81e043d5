package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/mesh-intelligence/notebook/pkg/notebook"
	"github.com/mesh-intelligence/notebook/pkg/sqlite"
	"github.com/mesh-intelligence/notebook/pkg/types"
)

// newLogger builds the process logger from the configured level and format.
func newLogger(level, format string, w io.Writer) (*slog.Logger, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		return nil, fmt.Errorf("invalid log level %q", level)
	}
	opts := &slog.HandlerOptions{Level: lvl}
	switch strings.ToLower(format) {
	case "", "text":
		return slog.New(slog.NewTextHandler(w, opts)), nil
	case "json":
		return slog.New(slog.NewJSONHandler(w, opts)), nil
	default:
		return nil, fmt.Errorf("invalid log format %q", format)
	}
}

// session is an attached store and the service over it.
type session struct {
	settings *settings
	logger   *slog.Logger
	store    types.Store
	svc      *notebook.Service
}

// openSession loads settings, attaches the store and builds the service.
// The caller must call close.
func openSession(ctx context.Context, flags *rootFlags, logOut io.Writer) (*session, error) {
	s, err := loadSettings(flags)
	if err != nil {
		return nil, userError("%v", err)
	}
	logger, err := newLogger(s.logLevel, s.logFormat, logOut)
	if err != nil {
		return nil, userError("%v", err)
	}

	store := sqlite.NewBackend()
	if err := store.Attach(s.store); err != nil {
		return nil, sysError("attach %s store: %v", s.store.Backend, err)
	}
	logger.DebugContext(ctx, "store attached", "backend", s.store.Backend, "data_dir", s.store.DataDir)

	svc := notebook.New(store,
		notebook.WithLogger(logger),
		notebook.WithCascadeDeletes(s.cascadeDeletes))
	return &session{settings: s, logger: logger, store: store, svc: svc}, nil
}

func (s *session) close() {
	if err := s.store.Detach(); err != nil {
		s.logger.Error("detach store", "error", err)
	}
}

// storeError maps a service error onto an exit code.
func storeError(err error) error {
	if notebook.KindOf(err) == notebook.KindStorage {
		return sysError("%v", err)
	}
	return userError("%v", err)
}
