// Package xmed decodes XMED styled-text resources into plain text plus a
// run and style model.
//
// An XMED buffer starts with a fixed 0x50-byte little-endian header (magic
// "DEMX", layout width, base style flags, alignment, line spacing, font size
// and a text length hint). A directory of 20-character ASCII hex tokens
// follows at 0x50; each token names a region of the buffer:
//
//	0002  text blocks, "<len>,<bytes>" each
//	0003  font table, "40," + color byte + name + NUL each
//	0004  run map, 20 decimal digits + NUL each
//	0008  style descriptors, flags + alignment + 20 decimal digits + NUL each
//
// Read is a pure function of its input and safe for concurrent use.
// Carriage returns are kept in Document.Text as paragraph separators and
// always end the run they fall in.
package xmed
