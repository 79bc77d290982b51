package splitter

import (
	"regexp"

	"github.com/gobwas/glob"

	"github.com/asynkron/spatch/pkg/diffsplit"
)

// Filter decides whether a parsed patch should be split out or skipped.
type Filter interface {
	Keep(patch *diffsplit.Patch) bool
}

// All keeps every patch.
func All() Filter { return allFilter{} }

// Regex keeps patches whose present filenames all match expr.
func Regex(expr *regexp.Regexp) Filter { return regexFilter{expr: expr} }

// Glob keeps patches whose present filenames all match the glob pattern.
// Patterns use the usual shell syntax with '/' as separator, so "**" is
// needed to cross directories.
func Glob(pattern string) (Filter, error) {
	matcher, err := glob.Compile(pattern, '/')
	if err != nil {
		return nil, err
	}
	return globFilter{matcher: matcher}, nil
}

// OnlyNew keeps patches for newly added files (no old side).
func OnlyNew() Filter { return onlyNewFilter{} }

// OnlyRemoved keeps patches for removed files (no new side).
func OnlyRemoved() Filter { return onlyRemovedFilter{} }

type allFilter struct{}

func (allFilter) Keep(*diffsplit.Patch) bool { return true }

type regexFilter struct {
	expr *regexp.Regexp
}

func (f regexFilter) Keep(patch *diffsplit.Patch) bool {
	return matchNames(patch, f.expr.MatchString)
}

type globFilter struct {
	matcher glob.Glob
}

func (f globFilter) Keep(patch *diffsplit.Patch) bool {
	return matchNames(patch, f.matcher.Match)
}

// matchNames applies the predicate to every filename present on the patch.
// A patch with neither side present is an input-format violation and is
// simply skipped.
func matchNames(patch *diffsplit.Patch, match func(string) bool) bool {
	oldName, hasOld := patch.OldFilename()
	newName, hasNew := patch.NewFilename()
	switch {
	case hasOld && hasNew:
		return match(oldName) && match(newName)
	case hasOld:
		return match(oldName)
	case hasNew:
		return match(newName)
	default:
		return false
	}
}

type onlyNewFilter struct{}

func (onlyNewFilter) Keep(patch *diffsplit.Patch) bool {
	_, hasOld := patch.OldFilename()
	return !hasOld
}

type onlyRemovedFilter struct{}

func (onlyRemovedFilter) Keep(patch *diffsplit.Patch) bool {
	_, hasNew := patch.NewFilename()
	return !hasNew
}
