package apimodel

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"path"
	"sort"
	"strings"
	"sync"
	"time"

	derrors "git.home.luguber.info/inful/docsite/internal/foundation/errors"
	"git.home.luguber.info/inful/docsite/internal/foundation/segment"
	"git.home.luguber.info/inful/docsite/internal/logfields"
	"git.home.luguber.info/inful/docsite/internal/metrics"
)

// FileSuffix is appended to the version to form a model file name.
const FileSuffix = ".api.json"

type storeKey struct {
	pkg     string
	version string
}

// Store loads API models from <package>/<version>.api.json inside an fs.FS.
type Store struct {
	fsys     fs.FS
	cache    bool
	recorder metrics.Recorder
	logger   *slog.Logger

	mu     sync.RWMutex
	models map[storeKey]*Model
	// gen is bumped by Invalidate and Purge; a load only caches its result
	// if gen is unchanged since the load started.
	gen uint64
}

// StoreOption configures a Store.
type StoreOption func(*Store)

// WithCache toggles in-memory caching of decoded models (default on).
func WithCache(enabled bool) StoreOption {
	return func(s *Store) { s.cache = enabled }
}

// WithRecorder sets the metrics recorder.
func WithRecorder(r metrics.Recorder) StoreOption {
	return func(s *Store) { s.recorder = metrics.OrNoop(r) }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) StoreOption {
	return func(s *Store) {
		if l != nil {
			s.logger = l
		}
	}
}

// NewStore returns a Store reading from fsys.
func NewStore(fsys fs.FS, opts ...StoreOption) *Store {
	s := &Store{
		fsys:     fsys,
		cache:    true,
		recorder: metrics.NoopRecorder{},
		logger:   slog.Default(),
		models:   make(map[storeKey]*Model),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Load returns the model for pkg at version.
func (s *Store) Load(ctx context.Context, pkg, version string) (*Model, error) {
	if err := segment.Validate("package", pkg); err != nil {
		return nil, err
	}
	if err := segment.Validate("version", version); err != nil {
		return nil, err
	}
	key := storeKey{pkg: pkg, version: version}

	var gen uint64
	if s.cache {
		s.mu.RLock()
		m, ok := s.models[key]
		gen = s.gen
		s.mu.RUnlock()
		s.recorder.IncCacheLookup(metrics.CacheModel, ok)
		if ok {
			return m, nil
		}
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	start := time.Now()
	m, err := s.read(pkg, version)
	s.recorder.ObserveModelLoad(time.Since(start), err == nil)
	if err != nil {
		return nil, err
	}
	s.logger.DebugContext(ctx, "Loaded API model",
		logfields.Package(pkg),
		logfields.Version(version),
		logfields.Duration(time.Since(start)),
		slog.Int("members", len(m.Members())))

	if s.cache {
		s.mu.Lock()
		if existing, ok := s.models[key]; ok {
			m = existing
		} else if s.gen == gen {
			s.models[key] = m
		}
		s.mu.Unlock()
	}
	return m, nil
}

func (s *Store) read(pkg, version string) (*Model, error) {
	name := path.Join(pkg, version+FileSuffix)
	f, err := s.fsys.Open(name)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, derrors.NotFoundError("API model not found").
				WithContext("package", pkg).
				WithContext("version", version).
				Build()
		}
		return nil, derrors.FileSystemError("failed to open API model").
			WithCause(err).
			WithContext("path", name).
			Build()
	}
	defer func() { _ = f.Close() }()

	root, err := Decode(f)
	if err != nil {
		return nil, err
	}
	return NewModel(pkg, version, root), nil
}

// Packages lists the package directories that contain at least one model.
func (s *Store) Packages() ([]string, error) {
	entries, err := fs.ReadDir(s.fsys, ".")
	if err != nil {
		return nil, derrors.FileSystemError("failed to list API models").WithCause(err).Build()
	}
	var out []string
	for _, e := range entries {
		if !e.IsDir() || strings.HasPrefix(e.Name(), ".") {
			continue
		}
		if versions, err := s.Versions(e.Name()); err == nil && len(versions) > 0 {
			out = append(out, e.Name())
		}
	}
	return out, nil
}

// Versions lists the model versions available for pkg, sorted.
func (s *Store) Versions(pkg string) ([]string, error) {
	if err := segment.Validate("package", pkg); err != nil {
		return nil, err
	}
	entries, err := fs.ReadDir(s.fsys, pkg)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, derrors.NotFoundError("package not found").WithContext("package", pkg).Build()
		}
		return nil, derrors.FileSystemError("failed to list versions").WithCause(err).WithContext("package", pkg).Build()
	}
	var out []string
	for _, e := range entries {
		if v, ok := strings.CutSuffix(e.Name(), FileSuffix); ok && !e.IsDir() && v != "" {
			out = append(out, v)
		}
	}
	sort.Strings(out)
	return out, nil
}

// Invalidate drops every cached version of pkg.
func (s *Store) Invalidate(pkg string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for k := range s.models {
		if k.pkg == pkg {
			delete(s.models, k)
		}
	}
	s.gen++
	s.recorder.IncCacheInvalidation(metrics.CacheModel)
}

// Purge drops all cached models.
func (s *Store) Purge() {
	s.mu.Lock()
	s.models = make(map[storeKey]*Model)
	s.gen++
	s.mu.Unlock()
	s.recorder.IncCacheInvalidation(metrics.CacheModel)
}

// Cached reports how many models are held in memory.
func (s *Store) Cached() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.models)
}
