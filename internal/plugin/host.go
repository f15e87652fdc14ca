package plugin

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
)

var (
	ErrUnknownTag   = errors.New("unknown template tag")
	ErrDuplicateTag = errors.New("template tag already registered")
)

// Arg describes one template tag argument as shown by the host.
type Arg struct {
	DisplayName string `json:"displayName"`
	Type        string `json:"type"`
	Placeholder string `json:"placeholder,omitempty"`
	Optional    bool   `json:"optional,omitempty"`
}

// RunFunc renders a tag. Args arrive in declaration order; trailing
// optional args may be missing.
type RunFunc func(ctx context.Context, args ...string) (string, error)

type TemplateTag struct {
	Name        string  `json:"name"`
	DisplayName string  `json:"displayName"`
	Description string  `json:"description"`
	Args        []Arg   `json:"args"`
	Run         RunFunc `json:"-"`
}

// Host is what an embedding application offers the plugin.
type Host interface {
	RegisterTemplateTag(tag TemplateTag) error
	// OnShutdown registers fn to run when the host unloads the plugin.
	OnShutdown(fn func(context.Context) error)
}

var _ Host = &Registry{}

// Registry is an in-process Host.
type Registry struct {
	mu    sync.Mutex
	tags  []TemplateTag
	hooks []func(context.Context) error
}

func NewRegistry() *Registry {
	return &Registry{}
}

func (r *Registry) RegisterTemplateTag(tag TemplateTag) error {
	if tag.Name == "" {
		return fmt.Errorf("template tag has no name")
	}
	if tag.Run == nil {
		return fmt.Errorf("template tag %q has no run function", tag.Name)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if slices.ContainsFunc(r.tags, func(t TemplateTag) bool { return t.Name == tag.Name }) {
		return fmt.Errorf("%w: %s", ErrDuplicateTag, tag.Name)
	}
	r.tags = append(r.tags, tag)
	return nil
}

func (r *Registry) OnShutdown(fn func(context.Context) error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.hooks = append(r.hooks, fn)
}

// Tags returns the registered tags in registration order.
func (r *Registry) Tags() []TemplateTag {
	r.mu.Lock()
	defer r.mu.Unlock()
	return slices.Clone(r.tags)
}

// Invoke runs the named tag with args.
func (r *Registry) Invoke(ctx context.Context, name string, args ...string) (string, error) {
	r.mu.Lock()
	idx := slices.IndexFunc(r.tags, func(t TemplateTag) bool { return t.Name == name })
	var tag TemplateTag
	if idx >= 0 {
		tag = r.tags[idx]
	}
	r.mu.Unlock()

	if idx < 0 {
		return "", fmt.Errorf("%w: %s", ErrUnknownTag, name)
	}

	required := 0
	for _, a := range tag.Args {
		if !a.Optional {
			required++
		}
	}
	if len(args) < required {
		return "", fmt.Errorf("template tag %s needs %d arguments, got %d", name, required, len(args))
	}
	if len(args) > len(tag.Args) {
		return "", fmt.Errorf("template tag %s takes at most %d arguments, got %d", name, len(tag.Args), len(args))
	}
	return tag.Run(ctx, args...)
}

// Shutdown runs the hooks once, most recently registered first, and joins
// their errors.
func (r *Registry) Shutdown(ctx context.Context) error {
	r.mu.Lock()
	hooks := r.hooks
	r.hooks = nil
	r.mu.Unlock()

	var errs []error
	for i := len(hooks) - 1; i >= 0; i-- {
		if err := hooks[i](ctx); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
