/*
Package cssom defines the interfaces of a live CSS object model.

Overview

CSSOM is the "CSS Object Model", similar to the DOM for HTML. Browsers
expose stylesheets as ordered, mutable lists of rules; grouping rules like
@media in turn hold rule lists of their own. Rules are inserted
from text (insertRule) and removed by index (deleteRule), and declaration
blocks are edited property by property.

The patch engine of this module never touches CSS text directly. It works
on these interfaces only, which lets it drive a browser CSSOM bridge just as
well as the in-memory implementation in sub-package douceuradapter.

Rule variants are a closed set (type RuleKind). Each rule reports its kind
once, and consumers resolve kind-specific naming from it instead of probing
for the presence of accessors.

Operations which regularly fail in host environments report errors:
ErrInsertRejected for rule text the host refuses, ErrCrossOriginAccessDenied
for rules of foreign stylesheets, ErrNoRuleList for leaf rules.

___________________________________________________________________________

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>
*/
package cssom
