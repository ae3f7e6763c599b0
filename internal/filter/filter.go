// Package filter derives the visible subset of an in-memory collection from a
// set of independent predicates.
package filter

import (
	"sort"

	"github.com/frahmantamala/school-admin/internal/calendar"
	"github.com/frahmantamala/school-admin/internal/textnorm"
)

// Predicate decides whether an item stays in the view. A nil Predicate is
// inactive and matches everything.
type Predicate[T any] func(T) bool

// Apply keeps the items that satisfy every active predicate, preserving input
// order. With no active predicates the input slice is returned as is.
func Apply[T any](items []T, preds ...Predicate[T]) []T {
	active := compact(preds)
	if len(active) == 0 {
		return items
	}

	out := make([]T, 0, len(items))
	for _, item := range items {
		if matchesAll(item, active) {
			out = append(out, item)
		}
	}
	return out
}

// All combines predicates with logical AND.
func All[T any](preds ...Predicate[T]) Predicate[T] {
	active := compact(preds)
	if len(active) == 0 {
		return nil
	}
	return func(item T) bool {
		return matchesAll(item, active)
	}
}

// Any combines predicates with logical OR. Inactive predicates are ignored.
func Any[T any](preds ...Predicate[T]) Predicate[T] {
	active := compact(preds)
	if len(active) == 0 {
		return nil
	}
	return func(item T) bool {
		for _, p := range active {
			if p(item) {
				return true
			}
		}
		return false
	}
}

// When returns p if cond holds and an inactive predicate otherwise.
func When[T any](cond bool, p Predicate[T]) Predicate[T] {
	if !cond {
		return nil
	}
	return p
}

// Count returns how many of preds are active.
func Count[T any](preds ...Predicate[T]) int {
	return len(compact(preds))
}

func compact[T any](preds []Predicate[T]) []Predicate[T] {
	active := make([]Predicate[T], 0, len(preds))
	for _, p := range preds {
		if p != nil {
			active = append(active, p)
		}
	}
	return active
}

func matchesAll[T any](item T, preds []Predicate[T]) bool {
	for _, p := range preds {
		if !p(item) {
			return false
		}
	}
	return true
}

// Text matches when needle occurs in any of the fields, ignoring case and
// accents. An empty needle yields an inactive predicate.
func Text[T any](needle string, fields ...func(T) string) Predicate[T] {
	if needle == "" || len(fields) == 0 {
		return nil
	}
	norm := textnorm.Normalize(needle)
	return func(item T) bool {
		for _, f := range fields {
			if textnorm.Contains(f(item), norm) {
				return true
			}
		}
		return false
	}
}

// Equal matches items whose field equals want. The zero value of V means
// "no filter".
func Equal[T any, V comparable](want V, get func(T) V) Predicate[T] {
	var zero V
	if want == zero {
		return nil
	}
	return func(item T) bool {
		return get(item) == want
	}
}

// DatePreset matches items whose date falls inside preset p. The clock is
// read once, when the predicate is built, so predicates must be rebuilt on
// every filter pass.
func DatePreset[T any](clock calendar.Clock, p calendar.Preset, get func(T) calendar.Date) Predicate[T] {
	if p == calendar.PresetNone {
		return nil
	}
	now := clock.Now()
	return func(item T) bool {
		return p.Contains(now, get(item))
	}
}

// DateRange matches items whose date lies in [from, to]. A zero bound is open.
func DateRange[T any](from, to calendar.Date, get func(T) calendar.Date) Predicate[T] {
	if from.IsZero() && to.IsZero() {
		return nil
	}
	return func(item T) bool {
		d := get(item)
		if d.IsZero() {
			return false
		}
		if !from.IsZero() && d.Compare(from) < 0 {
			return false
		}
		if !to.IsZero() && d.Compare(to) > 0 {
			return false
		}
		return true
	}
}

// SortByIDDesc returns a copy of items ordered by id, most recent first. Ties
// keep their input order.
func SortByIDDesc[T any](items []T, id func(T) int64) []T {
	out := make([]T, len(items))
	copy(out, items)
	sort.SliceStable(out, func(i, j int) bool {
		return id(out[i]) > id(out[j])
	})
	return out
}
