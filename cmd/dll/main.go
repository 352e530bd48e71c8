// Package main provides C-compatible exports for the rifx library.
// Build with: go build -buildmode=c-shared -o rifx.dll
package main

/*
#include <stdlib.h>
#include <stdint.h>

// Result structure for operations that return data
typedef struct {
    char* data;
    int   data_len;
    char* error;
} RifxResult;
*/
import "C"

import (
	"encoding/base64"
	"encoding/json"
	"unsafe"

	"github.com/logicossoftware/go-rifx"
	"github.com/logicossoftware/go-rifx/xmed"
)

func main() {}

// libraryVersion is bumped when the JSON shapes below change.
const libraryVersion = 1

// RifxVersion returns the version of the JSON result shapes.
//
//export RifxVersion
func RifxVersion() C.uint16_t {
	return C.uint16_t(libraryVersion)
}

// RifxFreeResult frees memory allocated by other Rifx functions.
// Must be called to avoid memory leaks.
//
//export RifxFreeResult
func RifxFreeResult(result C.RifxResult) {
	if result.data != nil {
		C.free(unsafe.Pointer(result.data))
	}
	if result.error != nil {
		C.free(unsafe.Pointer(result.error))
	}
}

// RifxFreeString frees a C string allocated by Go.
//
//export RifxFreeString
func RifxFreeString(s *C.char) {
	if s != nil {
		C.free(unsafe.Pointer(s))
	}
}

// makeResult creates a result with data.
func makeResult(data []byte) C.RifxResult {
	var result C.RifxResult
	if len(data) > 0 {
		result.data = (*C.char)(C.CBytes(data))
		result.data_len = C.int(len(data))
	}
	return result
}

// makeError creates a result with an error message.
func makeError(err error) C.RifxResult {
	var result C.RifxResult
	result.error = C.CString(err.Error())
	return result
}

func makeJSON(v any) C.RifxResult {
	b, err := json.Marshal(v)
	if err != nil {
		return makeError(err)
	}
	return makeResult(b)
}

func openArchive(data *C.char, dataLen C.int) (*rifx.Archive, error) {
	return rifx.OpenBytes(C.GoBytes(unsafe.Pointer(data), dataLen))
}

// RifxReadTexts opens a movie or cast file and returns its text resources as
// JSON: an array of {resourceId, format, plain, data} where data is base64
// and plain is the decoded text when decoding succeeds.
//
//export RifxReadTexts
func RifxReadTexts(data *C.char, dataLen C.int) C.RifxResult {
	a, err := openArchive(data, dataLen)
	if err != nil {
		return makeError(err)
	}
	out := []map[string]any{}
	for _, t := range a.ReadTexts() {
		item := map[string]any{
			"resourceId": t.ResourceID,
			"format":     t.Format.String(),
			"data":       base64.StdEncoding.EncodeToString(t.Bytes),
		}
		if doc, err := t.Document(); err == nil {
			item["plain"] = doc.Text
		}
		out = append(out, item)
	}
	return makeJSON(out)
}

// RifxReadSounds returns the sound resources as JSON: an array of
// {resourceId, castMemberId, tag, format, data} with base64 data.
//
//export RifxReadSounds
func RifxReadSounds(data *C.char, dataLen C.int) C.RifxResult {
	a, err := openArchive(data, dataLen)
	if err != nil {
		return makeError(err)
	}
	out := []map[string]any{}
	for _, s := range a.ReadSounds() {
		out = append(out, map[string]any{
			"resourceId":   s.ResourceID,
			"castMemberId": s.CastMemberID,
			"tag":          s.Tag.String(),
			"format":       s.Format.String(),
			"data":         base64.StdEncoding.EncodeToString(s.Bytes),
		})
	}
	return makeJSON(out)
}

// RifxDecodeXmed decodes one XMED payload and returns the document as JSON.
//
//export RifxDecodeXmed
func RifxDecodeXmed(data *C.char, dataLen C.int) C.RifxResult {
	doc, err := xmed.Read(C.GoBytes(unsafe.Pointer(data), dataLen))
	if err != nil {
		return makeError(err)
	}
	return makeJSON(doc)
}

// RifxValidate opens an archive and reports the first structural error.
// Returns NULL on success. Call RifxFreeString on the result if non-NULL.
//
//export RifxValidate
func RifxValidate(data *C.char, dataLen C.int) *C.char {
	if _, err := openArchive(data, dataLen); err != nil {
		return C.CString(err.Error())
	}
	return nil
}

// RifxGetResourceCount returns the number of map entries, or -1 on error.
//
//export RifxGetResourceCount
func RifxGetResourceCount(data *C.char, dataLen C.int) C.int {
	a, err := openArchive(data, dataLen)
	if err != nil {
		return -1
	}
	return C.int(a.Resources().Len())
}
