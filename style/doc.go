/*
Package style holds knowledge about CSS declarations: property values and
their priority, accessor name variants, and which shorthand properties reset
which longhands.

Host CSS engines differ in how they treat shorthands. Setting `background`
alone will reset a previously set `background-size` in most of them. Clients
which patch live rules therefore need to know about these relations, even
though they never compute styles.

___________________________________________________________________________

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/
package style
