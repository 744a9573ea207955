package sorting

import (
	"fmt"
	"strings"

	"github.com/aretw0/stepsort/pkg/domain"
)

// Algorithm is the canonical name of a sorter.
type Algorithm string

const (
	Bubble    Algorithm = "bubble"
	Selection Algorithm = "selection"
	Insertion Algorithm = "insertion"
	Merge     Algorithm = "merge"
	Bogo      Algorithm = "bogo"
	Quick     Algorithm = "quick"
	Heap      Algorithm = "heap"
	Counting  Algorithm = "counting"
	Cocktail  Algorithm = "cocktail"
	Gnome     Algorithm = "gnome"
	Pancake   Algorithm = "pancake"
	Shell     Algorithm = "shell"
	Comb      Algorithm = "comb"
	OddEven   Algorithm = "odd-even"
)

// Algorithms lists every registered algorithm in menu order.
func Algorithms() []Algorithm {
	return []Algorithm{
		Bubble, Selection, Insertion, Merge, Bogo, Quick, Heap,
		Counting, Cocktail, Gnome, Pancake, Shell, Comb, OddEven,
	}
}

var aliases = map[string]Algorithm{
	"shaker":   Cocktail,
	"oddeven":  OddEven,
	"odd_even": OddEven,
}

// config collects the options accepted by New.
type config struct {
	seed   uint64
	source Source
}

// Option configures a sorter created by New.
type Option func(*config)

// WithSeed seeds randomized sorters. Deterministic sorters ignore it.
func WithSeed(seed uint64) Option {
	return func(c *config) {
		c.seed = seed
	}
}

// WithSource injects a randomness source for randomized sorters.
// A sorter built with a custom source cannot reseed itself on Reset.
func WithSource(src Source) Option {
	return func(c *config) {
		c.source = src
	}
}

// Lookup resolves a user-supplied name (case-insensitive, aliases allowed)
// to its canonical algorithm.
func Lookup(name string) (Algorithm, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	key = strings.TrimSuffix(key, " sort")
	key = strings.TrimSuffix(key, "sort")
	key = strings.TrimSpace(key)
	if alg, ok := aliases[key]; ok {
		return alg, nil
	}
	for _, alg := range Algorithms() {
		if string(alg) == key {
			return alg, nil
		}
	}
	return "", fmt.Errorf("%w: %q", domain.ErrUnknownAlgorithm, name)
}

// New instantiates the sorter registered under name.
func New(name string, opts ...Option) (Sorter, error) {
	alg, err := Lookup(name)
	if err != nil {
		return nil, err
	}

	cfg := config{seed: DefaultSeed}
	for _, opt := range opts {
		opt(&cfg)
	}

	switch alg {
	case Bubble:
		return NewBubble(), nil
	case Selection:
		return NewSelection(), nil
	case Insertion:
		return NewInsertion(), nil
	case Merge:
		return NewMerge(), nil
	case Bogo:
		if cfg.source != nil {
			return NewBogoWithSource(cfg.source), nil
		}
		return NewBogo(cfg.seed), nil
	case Quick:
		return NewQuick(), nil
	case Heap:
		return NewHeap(), nil
	case Counting:
		return NewCounting(), nil
	case Cocktail:
		return NewCocktail(), nil
	case Gnome:
		return NewGnome(), nil
	case Pancake:
		return NewPancake(), nil
	case Shell:
		return NewShell(), nil
	case Comb:
		return NewComb(), nil
	case OddEven:
		return NewOddEven(), nil
	}
	return nil, fmt.Errorf("%w: %q", domain.ErrUnknownAlgorithm, name)
}

// MustNew is like New but panics on an unknown name.
// It is intended for tests and static tables.
func MustNew(name string, opts ...Option) Sorter {
	s, err := New(name, opts...)
	if err != nil {
		panic(err)
	}
	return s
}
