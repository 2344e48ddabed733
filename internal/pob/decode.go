// Package pob imports desktop-tool build artifacts: either the raw XML
// document or the base64+zlib transfer code players paste around.
package pob

import (
	"bytes"
	"compress/zlib"
	"encoding/base64"
	"fmt"
	"io"
	"strings"
)

// ImportError is the fatal import failure: the artifact could not be
// decoded or parsed at all. A build is never partially populated.
type ImportError struct {
	Reason string
	Err    error
}

func (e *ImportError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("build import failed: %s: %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("build import failed: %s", e.Reason)
}

func (e *ImportError) Unwrap() error { return e.Err }

const transferCodeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789+/=-_"

// DecodeTransferCode reverses the build-sharing convention: URL-safe or
// standard base64 over a zlib-compressed XML document. Whitespace is
// stripped first since codes get mangled by chat clients and pastebins.
func DecodeTransferCode(code string) (string, error) {
	cleaned := strings.Join(strings.Fields(code), "")
	if cleaned == "" {
		return "", &ImportError{Reason: "transfer code is empty after removing whitespace"}
	}

	for _, c := range cleaned {
		if !strings.ContainsRune(transferCodeAlphabet, c) {
			return "", &ImportError{Reason: fmt.Sprintf("transfer code contains invalid character %q", c)}
		}
	}

	// The desktop tool emits URL-safe base64; older exports and some
	// third-party tools use the standard alphabet. Detect by content.
	var (
		compressed []byte
		err        error
	)
	if strings.ContainsAny(cleaned, "-_") {
		compressed, err = base64.URLEncoding.WithPadding(base64.NoPadding).DecodeString(strings.TrimRight(cleaned, "="))
	} else {
		compressed, err = base64.StdEncoding.WithPadding(base64.NoPadding).DecodeString(strings.TrimRight(cleaned, "="))
	}
	if err != nil {
		return "", &ImportError{Reason: "transfer code is not valid base64", Err: err}
	}

	zr, err := zlib.NewReader(bytes.NewReader(compressed))
	if err != nil {
		return "", &ImportError{Reason: decompressHint(len(cleaned)), Err: err}
	}
	defer zr.Close()

	doc, err := io.ReadAll(zr)
	if err != nil {
		return "", &ImportError{Reason: decompressHint(len(cleaned)), Err: err}
	}
	return string(doc), nil
}

// decompressHint phrases the failure by code length: truncated pastes are
// by far the most common cause, and typical codes run tens of thousands
// of characters.
func decompressHint(codeLen int) string {
	switch {
	case codeLen < 1000:
		return fmt.Sprintf("transfer code is too short (%d chars); typical codes are 10,000+", codeLen)
	case codeLen < 5000:
		return fmt.Sprintf("transfer code may be incomplete (%d chars); typical codes are 10,000+", codeLen)
	default:
		return "transfer code failed to decompress; it may be corrupted"
	}
}
