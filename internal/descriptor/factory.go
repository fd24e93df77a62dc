// Package descriptor maps configured descriptor kinds to extractor
// implementations. Extractors themselves live outside this module and are
// plugged in through Register.
package descriptor

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"

	"github.com/phrazzld/descbench/internal/bridge"
	"github.com/phrazzld/descbench/internal/experiment"
	"github.com/phrazzld/descbench/internal/legacy"
	"github.com/phrazzld/descbench/internal/platform/logger"
)

var (
	// ErrUnsupportedDescriptor is returned when no constructor is registered
	// for a descriptor kind.
	ErrUnsupportedDescriptor = errors.New("unsupported descriptor type")

	// ErrInvalidRegistration is returned by Register for a nil constructor or
	// the unresolved DescriptorNone kind.
	ErrInvalidRegistration = errors.New("invalid descriptor registration")
)

// Extractor computes descriptors for one configured descriptor entry.
type Extractor interface {
	Name() string
	Type() experiment.DescriptorType
}

// Constructor builds an Extractor for a descriptor entry.
type Constructor func(cfg experiment.DescriptorConfig) (Extractor, error)

// Factory is a registry of extractor constructors keyed by descriptor kind.
// It is safe for concurrent use.
type Factory struct {
	mu     sync.RWMutex
	ctors  map[experiment.DescriptorType]Constructor
	logger *slog.Logger
}

// NewFactory creates an empty Factory. A nil logger falls back to the
// default logger.
func NewFactory(l *slog.Logger) *Factory {
	if l == nil {
		l = slog.Default()
	}
	return &Factory{
		ctors:  make(map[experiment.DescriptorType]Constructor),
		logger: l.With(slog.String("component", "descriptor_factory")),
	}
}

// Register installs ctor for kind, replacing any earlier constructor.
func (f *Factory) Register(kind experiment.DescriptorType, ctor Constructor) error {
	if ctor == nil || kind == experiment.DescriptorNone {
		return fmt.Errorf("%w: %s", ErrInvalidRegistration, kind)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.ctors[kind] = ctor
	return nil
}

// IsSupported reports whether a constructor is registered for kind.
func (f *Factory) IsSupported(kind experiment.DescriptorType) bool {
	f.mu.RLock()
	defer f.mu.RUnlock()
	_, ok := f.ctors[kind]
	return ok
}

// Create builds the extractor for a descriptor entry.
func (f *Factory) Create(ctx context.Context, cfg experiment.DescriptorConfig) (Extractor, error) {
	log := logger.FromContextOrDefault(ctx, f.logger)

	f.mu.RLock()
	ctor, ok := f.ctors[cfg.Type]
	f.mu.RUnlock()
	if !ok {
		log.DebugContext(ctx, "no extractor registered",
			slog.String("descriptor", cfg.Name),
			slog.String("type", cfg.Type.String()))
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedDescriptor, cfg.Type)
	}

	ext, err := ctor(cfg)
	if err != nil {
		return nil, fmt.Errorf("create %s extractor for %q: %w", cfg.Type, cfg.Name, err)
	}

	log.DebugContext(ctx, "created extractor",
		slog.String("descriptor", cfg.Name),
		slog.String("type", cfg.Type.String()))
	return ext, nil
}

// CreateFromLegacy builds the extractor for the single descriptor of a
// legacy configuration.
func (f *Factory) CreateFromLegacy(ctx context.Context, l legacy.Config) (Extractor, error) {
	cfg := bridge.FromLegacy(l)
	return f.Create(ctx, cfg.Descriptors[0])
}

// SupportedTypes lists the canonical names of all registered kinds in
// sorted order.
func (f *Factory) SupportedTypes() []string {
	f.mu.RLock()
	defer f.mu.RUnlock()
	types := make([]string, 0, len(f.ctors))
	for kind := range f.ctors {
		types = append(types, kind.String())
	}
	sort.Strings(types)
	return types
}
