// Package app implements the application layer: the memoization runtime
// hosts embed, and the CLI-facing use cases.
package app

import (
	"fmt"
	"sync"
	"sync/atomic"

	"go.trai.ch/memo/internal/adapters/cache"     //nolint:depguard // Wired in app layer
	"go.trai.ch/memo/internal/adapters/lifecycle" //nolint:depguard // Wired in app layer
	telemetryadapter "go.trai.ch/memo/internal/adapters/telemetry"
	"go.trai.ch/memo/internal/core/domain"
	"go.trai.ch/memo/internal/core/ports"
	"go.trai.ch/memo/internal/engine/eviction"
	"go.trai.ch/zerr"
)

// RuntimeConfig carries the runtime's collaborators and settings.
// Builder may be nil for hosts that only resolve; construction then
// fails with ErrBuilderUnavailable. Nav and Monitor are optional.
type RuntimeConfig struct {
	Encoder   ports.Encoder
	Resolver  ports.ThemeResolver
	Builder   ports.ArtifactBuilder
	Nav       ports.NavigationSource
	Monitor   ports.MemoryMonitor
	Logger    ports.Logger
	Telemetry ports.Telemetry
	Settings  *domain.Settings

	// ProcessFunctions forwards to theme resolution for function leaves.
	ProcessFunctions bool
}

// Runtime is the process-scoped composition of encoder, resolver, caches,
// mount tracking, and eviction. All state lives here explicitly; there
// are no hidden package globals, so tests construct isolated runtimes.
type Runtime struct {
	encoder     ports.Encoder
	resolver    ports.ThemeResolver
	builder     ports.ArtifactBuilder
	resolutions ports.ResolutionCache
	elements    ports.ElementCache
	tracker     ports.MountTracker
	controller  *eviction.Controller
	logger      ports.Logger
	telemetry   ports.Telemetry
	opts        domain.ResolveOptions

	themeMu  sync.RWMutex
	theme    *domain.Theme
	themeSig domain.Signature

	elementHits   atomic.Uint64
	elementMisses atomic.Uint64
}

// NewRuntime assembles a Runtime from config. Settings default when nil.
func NewRuntime(cfg RuntimeConfig) *Runtime {
	settings := cfg.Settings
	if settings == nil {
		settings = domain.DefaultSettings()
	}
	telemetry := cfg.Telemetry
	if telemetry == nil {
		telemetry = telemetryadapter.NewNoop()
	}

	tracker := lifecycle.NewTracker(cfg.Logger)
	elements := cache.NewElementCache()
	resolutions := cache.NewResolutionCache(settings.Resolution, telemetry)

	r := &Runtime{
		encoder:     cfg.Encoder,
		resolver:    cfg.Resolver,
		builder:     cfg.Builder,
		resolutions: resolutions,
		elements:    elements,
		tracker:     tracker,
		logger:      cfg.Logger,
		telemetry:   telemetry,
		opts:        domain.ResolveOptions{ProcessFunctions: cfg.ProcessFunctions},
	}
	r.controller = eviction.NewController(eviction.Config{
		Elements:    elements,
		Resolutions: resolutions,
		Tracker:     tracker,
		Nav:         cfg.Nav,
		Monitor:     cfg.Monitor,
		Logger:      cfg.Logger,
		Telemetry:   telemetry,
		Settings:    settings.Eviction,
	})
	r.SetTheme(settings.Theme)
	return r
}

// ConstructNode runs the memoization pipeline for one node: signature,
// element cache lookup, theme resolution, artifact construction, and
// lifecycle wrapping. A cache hit returns the identical handle with its
// boundary untouched.
func (r *Runtime) ConstructNode(elementType string, props any, key domain.NodeKey) (*domain.Handle, error) {
	sig := r.encoder.Encode(props)

	if !key.Cacheable() {
		// No dependency list means always-miss: build fresh, never cache.
		artifact, err := r.build(elementType, props, sig)
		if err != nil {
			return nil, err
		}
		return &domain.Handle{
			Signature: sig,
			Artifact:  artifact,
			Boundary:  lifecycle.Detached(),
		}, nil
	}

	stableKey := r.stableKey(key)

	// The cache signature chains the props signature with the active
	// theme signature. A theme swap then reads as new content for every
	// slot and flows through the in-place refresh below instead of
	// serving artifacts resolved against the previous theme.
	cacheSig := r.cacheSignature(sig)

	if handle, ok := r.elements.Lookup(stableKey, cacheSig); ok {
		r.elementHits.Add(1)
		r.telemetry.RecordElementLookup(true)
		return handle, nil
	}
	r.elementMisses.Add(1)
	r.telemetry.RecordElementLookup(false)

	artifact, err := r.build(elementType, props, sig)
	if err != nil {
		return nil, err
	}

	// Same slot, new content: update in place and keep the boundary. A
	// fresh boundary here would fire a stale unmount for a live slot.
	if handle, ok := r.elements.Entry(stableKey); ok {
		r.elements.Refresh(stableKey, cacheSig, artifact)
		return handle, nil
	}

	handle := &domain.Handle{
		Key:       stableKey,
		Signature: cacheSig,
		Artifact:  artifact,
		Boundary:  lifecycle.NewBoundary(stableKey, r.tracker),
	}
	r.elements.Store(handle)
	return handle, nil
}

// build resolves the props against the theme and hands them to the
// artifact builder.
func (r *Runtime) build(elementType string, props any, sig domain.Signature) (*domain.Artifact, error) {
	if r.builder == nil {
		return nil, zerr.With(zerr.Wrap(domain.ErrBuilderUnavailable, ""), "element_type", elementType)
	}
	resolved := r.ResolveProps(props, sig)
	artifact, err := r.builder.Build(elementType, resolved)
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, "artifact construction failed"), "element_type", elementType)
	}
	return artifact, nil
}

// ResolveProps resolves theme placeholders in props, going through the
// resolution cache. sig must be the encoder signature of props; callers
// that do not have one pass the empty signature and it is computed here.
// Resolution failure degrades to the unresolved input, never to a panic
// escaping into the host's render.
func (r *Runtime) ResolveProps(props any, sig domain.Signature) (resolved any) {
	r.themeMu.RLock()
	theme, themeSig := r.theme, r.themeSig
	r.themeMu.RUnlock()

	if theme == nil {
		return props
	}
	if sig == "" {
		sig = r.encoder.Encode(props)
	}

	defer func() {
		if rec := recover(); rec != nil {
			r.logger.Warn("theme resolution panicked, using unresolved props", "panic", fmt.Sprint(rec))
			resolved = props
		}
	}()

	key := cache.ResolutionKey(sig, themeSig, theme.Mode)
	return r.resolutions.GetOrResolve(key, func() any {
		return r.resolver.Resolve(props, theme, r.opts)
	})
}

// cacheSignature derives the element cache comparison signature from the
// props signature and the active theme. With no theme set, the props
// signature is used as is.
func (r *Runtime) cacheSignature(propsSig domain.Signature) domain.Signature {
	r.themeMu.RLock()
	themeSig := r.themeSig
	r.themeMu.RUnlock()

	if themeSig == "" {
		return propsSig
	}
	digest := cache.KeyDigest(propsSig.String(), themeSig.String())
	return domain.Signature(fmt.Sprintf("%s@%016x", propsSig, digest))
}

// stableKey returns the explicit key or derives one from the dependency
// list and structural position.
func (r *Runtime) stableKey(key domain.NodeKey) domain.StableKey {
	if key.Explicit != "" {
		return key.Explicit
	}
	depsSig := r.encoder.Encode(key.Deps)
	digest := cache.KeyDigest(key.Position, depsSig.String())
	return domain.StableKey(fmt.Sprintf("%s#%016x", key.Position, digest))
}

// SetTheme swaps the active theme. The theme signature is computed once
// here so every resolution cache key derives from it cheaply.
func (r *Runtime) SetTheme(theme *domain.Theme) {
	var sig domain.Signature
	if theme != nil {
		sig = r.encoder.Encode(map[string]any{
			"mode": theme.Mode,
			"vars": theme.Vars,
		})
	}
	r.themeMu.Lock()
	r.theme = theme
	r.themeSig = sig
	r.themeMu.Unlock()
}

// Theme returns the active theme.
func (r *Runtime) Theme() *domain.Theme {
	r.themeMu.RLock()
	defer r.themeMu.RUnlock()
	return r.theme
}

// Start launches the eviction controller. Safe to call repeatedly.
func (r *Runtime) Start() { r.controller.Start() }

// Stop tears the eviction controller down. Safe to call repeatedly.
func (r *Runtime) Stop() { r.controller.Stop() }

// ClearCaches drops both caches. Mount state is preserved: the host's
// tree is still on screen, and entries repopulate on the next render.
func (r *Runtime) ClearCaches() {
	r.elements.Clear()
	r.resolutions.Clear()
}

// ForceSweep runs an eviction sweep immediately.
func (r *Runtime) ForceSweep() int { return r.controller.ForceSweep() }

// ThemeLoader is the slice of the config loader hot reload needs.
type ThemeLoader interface {
	LoadTheme(path string) (*domain.Theme, error)
}

// FileWatcher invokes a callback after settled changes to a file.
type FileWatcher interface {
	Watch(path string, onChange func()) error
	Close() error
}

// WatchTheme wires theme hot reload: each settled change to the file at
// path reloads its theme section, swaps it in, and clears both caches so
// the next render resolves against the new dictionary. A reload failure
// keeps the active theme. Returns a stop function.
func (r *Runtime) WatchTheme(path string, loader ThemeLoader, watcher FileWatcher) (stop func(), err error) {
	err = watcher.Watch(path, func() {
		theme, lerr := loader.LoadTheme(path)
		if lerr != nil {
			r.logger.Warn("theme reload failed, keeping active theme", "path", path, "error", lerr)
			return
		}
		r.SetTheme(theme)
		r.ClearCaches()
		r.logger.Info("theme reloaded", "path", path, "mode", theme.Mode)
	})
	if err != nil {
		return nil, err
	}
	return func() { _ = watcher.Close() }, nil
}

// Tracker exposes the mount tracker for host lifecycle integration.
func (r *Runtime) Tracker() ports.MountTracker { return r.tracker }

// WatchHandleToken attaches a leak net to a host-owned token object for
// handle: if the host drops the token without the unmount notification
// ever firing, a garbage collection cleanup untracks the handle's key so
// the next sweep can reclaim its cache entry. Detached handles have no
// key and are skipped. Explicit unmount through the boundary remains the
// primary cleanup path.
func WatchHandleToken[T any](r *Runtime, token *T, handle *domain.Handle) {
	if handle == nil || handle.Key == "" {
		return
	}
	lifecycle.WatchToken(token, handle.Key, r.tracker, r.logger)
}

// Stats is a snapshot of runtime activity for diagnostics.
type Stats struct {
	ElementEntries    int
	ResolutionEntries int
	LiveMounts        int
	ElementHits       uint64
	ElementMisses     uint64
	Eviction          eviction.Stats
}

// Stats returns a snapshot of cache population and counters.
func (r *Runtime) Stats() Stats {
	return Stats{
		ElementEntries:    r.elements.Len(),
		ResolutionEntries: r.resolutions.Len(),
		LiveMounts:        r.tracker.Len(),
		ElementHits:       r.elementHits.Load(),
		ElementMisses:     r.elementMisses.Load(),
		Eviction:          r.controller.Stats(),
	}
}
