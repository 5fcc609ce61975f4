package scoped

import (
	"fmt"

	"github.com/cespare/xxhash/v2"
)

// cell holds a signal's value together with the flavor that decides whether a
// replacement counts as a change. With neither equal nor hasher set every
// replacement is a change.
type cell[T any] struct {
	v      T
	hash   uint64
	equal  func(a, b T) bool
	hasher func(v T) uint64
}

func (c *cell[T]) init(v T) {
	c.v = v
	if c.hasher != nil {
		c.hash = c.hasher(v)
	}
}

func (c *cell[T]) replace(v T) (changed bool) {
	switch {
	case c.hasher != nil:
		h := c.hasher(v)
		changed = h != c.hash
		c.hash = h
	case c.equal != nil:
		changed = !c.equal(c.v, v)
	default:
		changed = true
	}
	c.v = v
	return changed
}

func (c *cell[T]) modify(f func(v *T)) (changed bool) {
	switch {
	case c.hasher != nil:
		f(&c.v)
		h := c.hasher(c.v)
		changed = h != c.hash
		c.hash = h
	case c.equal != nil:
		old := c.v
		f(&c.v)
		changed = !c.equal(old, c.v)
	default:
		f(&c.v)
		changed = true
	}
	return changed
}

func equal[T comparable](a, b T) bool {
	return a == b
}

// HashString is a hasher for HashData and HashFunc signals holding strings.
func HashString(s string) uint64 {
	return xxhash.Sum64String(s)
}

func HashBytes(b []byte) uint64 {
	return xxhash.Sum64(b)
}

// HashFormatted hashes the Go-syntax representation of v. Map keys print
// sorted so maps hash deterministically; pointers hash by address.
func HashFormatted[T any](v T) uint64 {
	d := xxhash.New()
	fmt.Fprintf(d, "%#v", v)
	return d.Sum64()
}
