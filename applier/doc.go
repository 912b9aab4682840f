/*
Package applier applies patches to a live stylesheet.

A Session holds a stylesheet together with its rule index. Each patch is
located in the index and then carried out against the live rule tree; the
index is updated in lockstep with every insertion and deletion. Changes are
recorded as ops on top-level rules (see package oplog), which may be
replayed onto a mirror of the stylesheet.

Patches of a batch are applied in order, later patches seeing the effects of
earlier ones. If the host rejects rule text, the current patch is abandoned
and a warning is recorded; changes the patch already made stay in place.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>
*/
package applier

import "github.com/npillmayer/schuko/tracing"

// tracer traces with key 'cssom.applier'.
func tracer() tracing.Trace {
	return tracing.Select("cssom.applier")
}
