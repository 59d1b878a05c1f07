// Package prompts builds the candidate text prompts submitted to zero-shot
// classifiers and maps a winning prompt back to its bare class name.
package prompts

import (
	"fmt"
	"slices"
)

// Catalog is an immutable, deduplicated, ordered prompt set.
// Classifiers may return an index into Prompts, so order is stable for the
// lifetime of a catalog.
type Catalog struct {
	prompts []string
	index   map[string]int
	stages  []string
	prefix  string
}

// Build generates the cross-product of labels and stages.
//
// Labels listed in exceptions collapse to a single stage-less prompt.
// Empty stage entries contribute nothing, so an empty string in stages does
// not produce stage-less prompts for ordinary labels.
func Build(labels, stages, exceptions []string) (*Catalog, error) {
	return BuildWithPrefix(labels, stages, exceptions, DefaultPrefix)
}

// BuildWithPrefix is Build with a custom leading phrase.
func BuildWithPrefix(labels, stages, exceptions []string, prefix string) (*Catalog, error) {
	if len(labels) == 0 {
		return nil, fmt.Errorf("%w: no labels", ErrEmptyCatalog)
	}
	if len(stages) == 0 {
		return nil, fmt.Errorf("%w: no stages", ErrEmptyCatalog)
	}

	exempt := make(map[string]struct{}, len(exceptions))
	for _, e := range exceptions {
		exempt[e] = struct{}{}
	}

	c := &Catalog{
		index:  make(map[string]int),
		prefix: prefix,
	}

	for _, stage := range stages {
		if stage != "" && !slices.Contains(c.stages, stage) {
			c.stages = append(c.stages, stage)
		}
	}

	for _, label := range labels {
		for _, stage := range stages {
			if stage == "" {
				continue
			}
			if _, ok := exempt[label]; ok {
				c.add(prefix + label)
			} else {
				c.add(prefix + stage + " " + label)
			}
		}
	}

	if len(c.prompts) == 0 {
		return nil, fmt.Errorf("%w: every stage is empty", ErrEmptyCatalog)
	}

	return c, nil
}

func (c *Catalog) add(p string) {
	if _, ok := c.index[p]; ok {
		return
	}
	c.index[p] = len(c.prompts)
	c.prompts = append(c.prompts, p)
}

// Prompts returns a copy of the ordered prompt list.
func (c *Catalog) Prompts() []string {
	return slices.Clone(c.prompts)
}

// Len returns the number of distinct prompts.
func (c *Catalog) Len() int {
	return len(c.prompts)
}

// At returns the prompt at index i.
func (c *Catalog) At(i int) (string, bool) {
	if i < 0 || i >= len(c.prompts) {
		return "", false
	}
	return c.prompts[i], true
}

// IndexOf returns the position of p, or -1 when p is not in the catalog.
func (c *Catalog) IndexOf(p string) int {
	if i, ok := c.index[p]; ok {
		return i
	}
	return -1
}

// Contains reports whether p is one of the catalog prompts.
func (c *Catalog) Contains(p string) bool {
	_, ok := c.index[p]
	return ok
}

// Normalizer returns a normalizer using the stages and prefix this catalog was built with.
func (c *Catalog) Normalizer() Normalizer {
	return NewNormalizer(c.stages, c.prefix)
}
