// Package matching maps legacy matching strategies to matcher
// implementations supplied by the caller.
package matching

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"

	"github.com/phrazzld/descbench/internal/legacy"
	"github.com/phrazzld/descbench/internal/platform/logger"
)

var (
	// ErrNotImplemented is returned for strategies that are reserved in the
	// configuration but have no registered matcher.
	ErrNotImplemented = errors.New("matching strategy not yet implemented")

	// ErrUnknownStrategy is returned for values outside the known strategies.
	ErrUnknownStrategy = errors.New("unknown matching strategy")
)

// reserved strategies are accepted in configurations ahead of an
// implementation.
var reserved = map[legacy.MatchingStrategy]bool{
	legacy.MatchingFLANN:     true,
	legacy.MatchingRatioTest: true,
}

// Matcher pairs descriptors between two images.
type Matcher interface {
	Name() string
}

// Constructor builds a Matcher for a legacy configuration.
type Constructor func(cfg legacy.Config) (Matcher, error)

// Factory is a registry of matcher constructors. It is safe for concurrent use.
type Factory struct {
	mu     sync.RWMutex
	ctors  map[legacy.MatchingStrategy]Constructor
	logger *slog.Logger
}

// NewFactory creates an empty Factory. A nil logger falls back to the
// default logger.
func NewFactory(l *slog.Logger) *Factory {
	if l == nil {
		l = slog.Default()
	}
	return &Factory{
		ctors:  make(map[legacy.MatchingStrategy]Constructor),
		logger: l.With(slog.String("component", "matching_factory")),
	}
}

// Register installs ctor for strategy, replacing any earlier constructor.
func (f *Factory) Register(strategy legacy.MatchingStrategy, ctor Constructor) error {
	if ctor == nil {
		return fmt.Errorf("register %s: nil constructor", strategy)
	}
	if !strategy.Valid() {
		return fmt.Errorf("%w: %d", ErrUnknownStrategy, int(strategy))
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.ctors[strategy] = ctor
	return nil
}

// Create builds the matcher for strategy using the default legacy settings.
func (f *Factory) Create(ctx context.Context, strategy legacy.MatchingStrategy) (Matcher, error) {
	cfg := legacy.Default()
	cfg.MatchingStrategy = strategy
	return f.CreateFromLegacy(ctx, cfg)
}

// CreateFromLegacy builds the matcher selected by cfg.MatchingStrategy.
func (f *Factory) CreateFromLegacy(ctx context.Context, cfg legacy.Config) (Matcher, error) {
	log := logger.FromContextOrDefault(ctx, f.logger)
	strategy := cfg.MatchingStrategy

	f.mu.RLock()
	ctor, ok := f.ctors[strategy]
	f.mu.RUnlock()
	if !ok {
		if reserved[strategy] {
			log.WarnContext(ctx, "matching strategy requested before it is available",
				slog.String("strategy", strategy.String()))
			return nil, fmt.Errorf("%w: %s", ErrNotImplemented, strategy)
		}
		return nil, fmt.Errorf("%w: %s", ErrUnknownStrategy, strategy)
	}

	m, err := ctor(cfg)
	if err != nil {
		return nil, fmt.Errorf("create %s matcher: %w", strategy, err)
	}
	return m, nil
}

// AvailableStrategies lists registered strategies by name, followed by the
// reserved ones that are still missing, marked "(planned)".
func (f *Factory) AvailableStrategies() []string {
	f.mu.RLock()
	defer f.mu.RUnlock()

	var available, planned []string
	for s := range f.ctors {
		available = append(available, s.String())
	}
	for s := range reserved {
		if _, ok := f.ctors[s]; !ok {
			planned = append(planned, s.String()+" (planned)")
		}
	}
	sort.Strings(available)
	sort.Strings(planned)
	return append(available, planned...)
}
