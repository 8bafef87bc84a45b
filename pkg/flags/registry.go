package flags

import (
	"cmp"
	"errors"
	"fmt"
	"slices"
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"
	orderedmap "github.com/wk8/go-ordered-map/v2"
)

var (
	// ErrDuplicateAlias is returned when an alias is already taken by another
	// flag of the same command.
	ErrDuplicateAlias = errors.New("duplicate flag alias")
	// ErrDuplicateName is returned when two flags share a canonical name.
	ErrDuplicateName = errors.New("duplicate flag name")
)

// Spec describes one logical flag. All aliases of a flag share one *Spec.
type Spec struct {
	Name      string
	Converter Converter
	Greedy    bool
}

// AliasGroup is a flag together with every alias that selects it.
type AliasGroup struct {
	Spec    *Spec
	Aliases []string
}

// Option customises a flag declaration.
type Option func(*Spec)

// WithConverter sets the value converter. The default is String.
func WithConverter(c Converter) Option {
	return func(s *Spec) { s.Converter = c }
}

// Greedy makes the flag join all of its tokens with single spaces and convert
// the joined string once.
func Greedy() Option {
	return func(s *Spec) { s.Greedy = true }
}

type declaration struct {
	Name    string   `validate:"required,flagtoken"`
	Aliases []string `validate:"required,min=1,unique,dive,flagtoken"`
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("flagtoken", func(fl validator.FieldLevel) bool {
		s := fl.Field().String()
		return s != "" && !strings.ContainsFunc(s, unicode.IsSpace)
	})
	return v
}

// Registry holds the flags of a single command in declaration order. It is
// filled while the command is built and only read afterwards.
type Registry struct {
	groups []AliasGroup
	index  *orderedmap.OrderedMap[string, *Spec]
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{index: orderedmap.New[string, *Spec]()}
}

// Add declares a flag named name, selected by any of aliases.
func (r *Registry) Add(name string, aliases []string, opts ...Option) (*Spec, error) {
	if err := validate.Struct(declaration{Name: name, Aliases: aliases}); err != nil {
		return nil, fmt.Errorf("flag %q: %w", name, err)
	}

	for _, g := range r.groups {
		if g.Spec.Name == name {
			return nil, fmt.Errorf("flag %q: %w", name, ErrDuplicateName)
		}
	}
	for _, a := range aliases {
		if owner, ok := r.Lookup(a); ok {
			return nil, fmt.Errorf("flag %q: alias %q already used by %q: %w", name, a, owner.Name, ErrDuplicateAlias)
		}
	}

	if r.index == nil {
		r.index = orderedmap.New[string, *Spec]()
	}

	spec := &Spec{Name: name}
	for _, opt := range opts {
		opt(spec)
	}

	group := AliasGroup{Spec: spec, Aliases: slices.Clone(aliases)}
	r.groups = append(r.groups, group)
	for _, a := range group.Aliases {
		r.index.Set(a, spec)
	}
	return spec, nil
}

// Lookup resolves an alias to its flag.
func (r *Registry) Lookup(alias string) (*Spec, bool) {
	if r == nil || r.index == nil {
		return nil, false
	}
	return r.index.Get(alias)
}

// Len returns the number of declared flags (groups, not aliases).
func (r *Registry) Len() int {
	if r == nil {
		return 0
	}
	return len(r.groups)
}

// Groups returns the declared flags in declaration order.
func (r *Registry) Groups() []AliasGroup {
	if r == nil {
		return nil
	}
	return slices.Clone(r.groups)
}

// Aliases returns every alias in declaration order.
func (r *Registry) Aliases() []string {
	if r == nil || r.index == nil {
		return nil
	}
	out := make([]string, 0, r.index.Len())
	for pair := r.index.Oldest(); pair != nil; pair = pair.Next() {
		out = append(out, pair.Key)
	}
	return out
}

// Usage renders one "-a | --alias [...]" element per flag, aliases ordered
// shortest first.
func (r *Registry) Usage() []string {
	if r == nil {
		return nil
	}
	out := make([]string, 0, len(r.groups))
	for _, g := range r.groups {
		aliases := slices.Clone(g.Aliases)
		slices.SortStableFunc(aliases, func(a, b string) int {
			return cmp.Compare(len(a), len(b))
		})
		out = append(out, strings.Join(aliases, " | ")+" [...]")
	}
	return out
}
