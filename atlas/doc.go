// Package atlas packs glyph bitmaps into a growing set of fixed-size textures.
//
// [Packer] is the pure placement policy: a single row cursor with one texel
// of padding between bitmaps, wrapping to a new row when the current one is
// full and to a new texture when the rows run out. [Atlas] couples a Packer
// with a [texture.Device] and allocates textures as the packer moves on.
//
// The initial texture size comes from a fixed table, see [ChooseSize]. Every
// texture of an atlas has that size, and no placement is ever moved, so
// texture coordinates handed out earlier stay valid while the atlas grows.
package atlas
