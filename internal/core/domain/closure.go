package domain

import (
	"iter"
	"slices"
)

// BuildClassification tells whether a package is compiled for the build machine or for the
// platform of the final artifact.
type BuildClassification int

const (
	// Target means the package runs on the eventual target platform.
	Target BuildClassification = iota
	// Host means the package runs on the build machine: build-script dependencies and host
	// code generators, and everything beneath them.
	Host
)

// String returns "target" or "host".
func (c BuildClassification) String() string {
	if c == Host {
		return "host"
	}
	return "target"
}

// ClosureEntry is one package of a closure together with its classification.
type ClosureEntry struct {
	ID    PackageID
	Class BuildClassification
}

// String renders the entry as name@version (class).
func (e ClosureEntry) String() string {
	return e.ID.String() + " (" + e.Class.String() + ")"
}

// Compare orders entries by package id, then Target before Host.
func (e ClosureEntry) Compare(other ClosureEntry) int {
	if c := e.ID.Compare(other.ID); c != 0 {
		return c
	}
	return int(e.Class) - int(other.Class)
}

// Closure is the set of entries needed to build a root entry. Each package appears once;
// its classification only ever moves from Target to Host.
type Closure struct {
	root    ClosureEntry
	classes map[PackageID]BuildClassification
}

// NewClosure creates a closure containing only its root.
func NewClosure(root ClosureEntry) *Closure {
	return &Closure{
		root:    root,
		classes: map[PackageID]BuildClassification{root.ID: root.Class},
	}
}

// Root returns the entry the closure was computed for.
func (c *Closure) Root() ClosureEntry {
	return c.root
}

// Add inserts an entry, or upgrades an existing Target entry to Host.
// It reports whether the closure changed. The root keeps its initial classification.
func (c *Closure) Add(e ClosureEntry) bool {
	current, ok := c.classes[e.ID]
	switch {
	case !ok:
		c.classes[e.ID] = e.Class
		return true
	case e.ID == c.root.ID:
		return false
	case current == Target && e.Class == Host:
		c.classes[e.ID] = Host
		return true
	default:
		return false
	}
}

// Class returns the classification of a package in the closure.
func (c *Closure) Class(id PackageID) (BuildClassification, bool) {
	class, ok := c.classes[id]
	return class, ok
}

// Contains reports whether the entry is part of the closure with that classification.
func (c *Closure) Contains(e ClosureEntry) bool {
	class, ok := c.classes[e.ID]
	return ok && class == e.Class
}

// Len returns the number of entries including the root.
func (c *Closure) Len() int {
	return len(c.classes)
}

// Entries returns all entries sorted with ClosureEntry.Compare.
func (c *Closure) Entries() []ClosureEntry {
	out := make([]ClosureEntry, 0, len(c.classes))
	for id, class := range c.classes {
		out = append(out, ClosureEntry{ID: id, Class: class})
	}
	slices.SortFunc(out, ClosureEntry.Compare)
	return out
}

// Deps yields the sorted entries excluding the root.
func (c *Closure) Deps() iter.Seq[ClosureEntry] {
	return func(yield func(ClosureEntry) bool) {
		for _, e := range c.Entries() {
			if e.ID == c.root.ID {
				continue
			}
			if !yield(e) {
				return
			}
		}
	}
}

// ByClass returns the sorted entries of one classification.
func (c *Closure) ByClass(class BuildClassification) []ClosureEntry {
	var out []ClosureEntry
	for _, e := range c.Entries() {
		if e.Class == class {
			out = append(out, e)
		}
	}
	return out
}
