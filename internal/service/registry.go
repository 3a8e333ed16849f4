// Package service provides business logic for the application.
package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/snaplink/snaplink/internal/clock"
	"github.com/snaplink/snaplink/internal/metrics"
	"github.com/snaplink/snaplink/internal/model"
	"github.com/snaplink/snaplink/internal/repository"
)

// Service errors.
var (
	ErrInvalidURL        = errors.New("invalid url")
	ErrInvalidValidity   = errors.New("validity must be a positive integer number of minutes")
	ErrInvalidShortcode  = errors.New("shortcode must be alphanumeric and 1-20 characters")
	ErrShortcodeConflict = errors.New("shortcode already exists")
	ErrShortcodeNotFound = errors.New("shortcode not found")
	ErrShortcodeExpired  = errors.New("short link has expired")
)

// DefaultValidityMinutes is used when neither the caller nor the
// configuration supplies a validity window.
const DefaultValidityMinutes = 30

// CodeGenerator produces candidate short codes.
type CodeGenerator interface {
	Generate() (string, error)
}

// Registry owns the shortcode to link mapping. It validates input,
// allocates codes and inserts records atomically.
type Registry struct {
	store           *repository.Memory
	generator       CodeGenerator
	clock           clock.Clock
	metrics         metrics.Recorder
	defaultValidity int64
}

// RegistryConfig holds Registry dependencies.
type RegistryConfig struct {
	Store     *repository.Memory
	Generator CodeGenerator
	Clock     clock.Clock
	Metrics   metrics.Recorder

	// DefaultValidityMinutes applies when CreateInput.ValidityMinutes is nil.
	DefaultValidityMinutes int64
}

// NewRegistry creates a Registry. Nil Clock and Metrics fall back to the
// system clock and a no-op recorder.
func NewRegistry(cfg RegistryConfig) *Registry {
	if cfg.Clock == nil {
		cfg.Clock = clock.Real{}
	}
	if cfg.Metrics == nil {
		cfg.Metrics = metrics.NewNoop()
	}
	if cfg.DefaultValidityMinutes <= 0 {
		cfg.DefaultValidityMinutes = DefaultValidityMinutes
	}
	return &Registry{
		store:           cfg.Store,
		generator:       cfg.Generator,
		clock:           cfg.Clock,
		metrics:         cfg.Metrics,
		defaultValidity: cfg.DefaultValidityMinutes,
	}
}

// CreateInput defines input for creating a short link.
type CreateInput struct {
	TargetURL       string
	ValidityMinutes *int64
	CustomCode      string
}

// Create validates input, allocates a code and stores a new link.
// Validation happens before any mutation.
func (r *Registry) Create(ctx context.Context, input CreateInput) (*model.Link, error) {
	if err := validateTargetURL(input.TargetURL); err != nil {
		return nil, err
	}

	validity := r.defaultValidity
	if input.ValidityMinutes != nil {
		validity = *input.ValidityMinutes
	}
	if err := validateValidity(validity); err != nil {
		return nil, err
	}

	custom := input.CustomCode != ""
	if custom {
		if err := validateCustomCode(input.CustomCode); err != nil {
			return nil, err
		}
		if isReservedCode(input.CustomCode) {
			return nil, ErrShortcodeConflict
		}
	}

	now := r.clock.Now()
	link := &model.Link{
		Code:      input.CustomCode,
		TargetURL: input.TargetURL,
		CreatedAt: now,
		ExpiresAt: now.Add(time.Duration(validity) * time.Minute),
	}

	if custom {
		if err := r.store.InsertIfAbsent(ctx, link); err != nil {
			if errors.Is(err, repository.ErrCodeExists) {
				return nil, ErrShortcodeConflict
			}
			return nil, fmt.Errorf("insert link: %w", err)
		}
	} else if err := r.insertGenerated(ctx, link); err != nil {
		return nil, err
	}

	r.metrics.IncLinkCreated(custom)

	return link, nil
}

// Get returns a copy of the link stored under code, expired or not.
func (r *Registry) Get(ctx context.Context, code string) (*model.Link, error) {
	link, err := r.store.Get(ctx, code)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrShortcodeNotFound
		}
		return nil, fmt.Errorf("get link: %w", err)
	}
	return link, nil
}

// List returns every link in insertion order, without click logs.
func (r *Registry) List(ctx context.Context) ([]*model.Link, error) {
	links, err := r.store.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list links: %w", err)
	}
	return links, nil
}

// Now returns the registry clock's current time.
func (r *Registry) Now() time.Time {
	return r.clock.Now()
}

// insertGenerated draws codes until one is inserted. The loop has no attempt
// limit: with 62^6 possible codes a collision is rare until the store nears
// the keyspace, which an in-memory store never does.
func (r *Registry) insertGenerated(ctx context.Context, link *model.Link) error {
	for {
		code, err := r.generator.Generate()
		if err != nil {
			return fmt.Errorf("generate short code: %w", err)
		}
		if isReservedCode(code) {
			continue
		}

		link.Code = code
		err = r.store.InsertIfAbsent(ctx, link)
		if err == nil {
			return nil
		}
		if !errors.Is(err, repository.ErrCodeExists) {
			return fmt.Errorf("insert link: %w", err)
		}
	}
}
