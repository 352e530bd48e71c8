// Package rifxtest builds RIFX/XFIR archives and resource payloads for
// tests. The writers produce the minimum structure the readers need and
// make no attempt to reproduce authoring-tool output byte for byte.
package rifxtest
