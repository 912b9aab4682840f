/*
Package cssompatch applies structural patches to live CSS stylesheets.

A patch addresses a rule by a path of (name, occurrence) pairs and adds,
updates or removes it. Missing rules along the path are synthesized. Every
change is reported as an op on a top-level rule, so that a mirror of the
stylesheet can be kept in sync by replaying the ops.

    patcher := cssompatch.New(cssompatch.DefaultConfig(), sheets.Static(list))
    ops, err := patcher.PatchURL("http://example.com/main.css", patches...)

The engine works on the interfaces of package cssom only. Package
cssom/douceuradapter provides an in-memory implementation.

Packages

Sub-packages build on each other:

    tree, result, maybe, split, style   general helpers
    cssom, cssom/douceuradapter         host object model
    sheets                              stylesheet enumeration by URL
    index                               address index over a rule tree
    pathfinder                          path lookup
    patch, oplog                        input patches and output ops
    applier                             patch sessions

______________________________________________________________________

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>
*/
package cssompatch

import "github.com/npillmayer/schuko/tracing"

// tracer traces with key 'cssom.patch'.
func tracer() tracing.Trace {
	return tracing.Select("cssom.patch")
}
