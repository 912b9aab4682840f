/*
Package tree implements a general purpose ordered tree.

Rule indexes, styled trees and other kinds of document trees are built
on top of this type by composition: a node sub-type embeds a
tree.Node[*SubType] and lets the payload point back to itself.
Clients then provide an adapter to get from the generic node back to
the sub-type.

Children of a node are kept gap-free and in order. Inserting or removing a
child shifts the positions of all later children, mirroring the behaviour
of ordered host collections like CSS rule lists.

___________________________________________________________________________

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/
package tree
