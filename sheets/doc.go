/*
Package sheets enumerates the stylesheets of a document.

Patch targets may be addressed by URL. A Provider maps absolute URLs to live
stylesheets; Find builds such a mapping from a list of top-level sheets,
following nested @import rules. Stylesheets loaded from a foreign origin do
not expose their rules; their imports are silently skipped.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>
*/
package sheets

import "github.com/npillmayer/schuko/tracing"

// tracer traces with key 'cssom.sheets'.
func tracer() tracing.Trace {
	return tracing.Select("cssom.sheets")
}
