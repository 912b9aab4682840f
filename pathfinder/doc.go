/*
Package pathfinder resolves rule paths against a rule index.

A path is a list of (name, occurrence) components, one per nesting level.
Locate descends the index level by level and reports how far the path
resolves:

    Exact    every component matched
    Nearest  every level was found, but at least one occurrence had to be
             clamped to the last existing one
    Partial  some level has no candidate at all; Rest holds the unmatched
             components, Index the live position where they would have to be
             inserted

Hints steer the insertion position of rules which do not exist yet: a new
rule is placed before the first resolving Before sibling, or after the last
resolving After sibling.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>
*/
package pathfinder

import "github.com/npillmayer/schuko/tracing"

// tracer traces with key 'cssom.pathfinder'.
func tracer() tracing.Trace {
	return tracing.Select("cssom.pathfinder")
}
