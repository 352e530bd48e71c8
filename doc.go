// Package rifx reads Director movie and cast archives (.dir, .dxr, .dcr,
// .cst, .cxt and projectors that embed them).
//
// An archive is a RIFX container (XFIR when written little-endian) holding
// tagged chunks. Two storage schemes exist:
//   - Classic files list every chunk in an imap/mmap pair and store the
//     chunks uncompressed at absolute offsets.
//   - Afterburner files (codec FGDM or FGDC) carry a compressed resource map
//     in Fver, Fcdr, ABMP and FGEI chunks. Payloads are zlib-compressed and
//     either follow the FGEI header or sit in the inline segment container.
//
// [Open] resolves either scheme into one [ResourceTable]; [Archive.Load]
// returns decoded payload bytes whichever loader the entry needs.
//
// # Basic Usage
//
//	f, _ := os.Open("movie.dcr")
//	defer f.Close()
//	st, _ := f.Stat()
//	a, err := rifx.Open(f, st.Size())
//	if err != nil {
//		return err
//	}
//	for _, t := range a.ReadTexts() {
//		doc, err := t.Document()
//		...
//	}
//
// Styled text (XMED) is decoded by the xmed package, which has no dependency
// on the container.
//
// # Security Considerations
//
// Sizes read from the file are bounded by [Limits] before any allocation or
// decompression. Corrupt resources are reported per resource; only a broken
// container header or resource map fails [Open].
package rifx
