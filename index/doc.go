/*
Package index maintains an address index over a live CSS rule tree.

Rules of a stylesheet are identified by paths of (name, occurrence) pairs:

    [["@media print", 1], ["a", 2]]

addresses the second rule with selector "a" inside the first "@media print"
rule. The index is a tree of RuleNodes mirroring the live rule tree. Every node
knows the live position of its rule (the sibling index) and the occurrence of
its name among its siblings.

The index is built once per stylesheet and then kept in lockstep with every
structural change: after inserting into or deleting from a live rule list,
clients call Inserted or Deleted on the parent node. Verify checks an index
against its live tree.

Policy

Whether @charset and @import rules are nodes of the index is decided by a
Policy. With HideImports they are invisible to paths, but still occupy slots
of their parent's live rule list. Sibling indices of visible nodes may
therefore skip values.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>
*/
package index

import "github.com/npillmayer/schuko/tracing"

// tracer traces with key 'cssom.index'.
func tracer() tracing.Trace {
	return tracing.Select("cssom.index")
}
