package util

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"unicode/utf8"
)

const maxBinaryCheckBytes = 512

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// charReplacementMap fixes the mojibake that scraped datasets routinely
// carry (Windows-1252 smart quotes and dashes pasted into UTF-8 exports).
var charReplacementMap = map[string]string{
	"\u2018": "'", "\u2019": "'", "\u201C": "\"", "\u201D": "\"",
	"\u2013": "-", "\u2014": "--", "\u2026": "...", "\u00a0": " ",
	"\u0091": "'", "\u0092": "'", "\u0093": "\"", "\u0094": "\"",
	"\u0096": "-", "\u0097": "--",
}

// IsLikelyBinary sniffs the first bytes of a file for NUL bytes. Dataset
// files are always text; anything binary is a caller mistake worth
// rejecting before the CSV reader produces garbage rows.
func IsLikelyBinary(path string) (bool, error) {
	file, err := os.Open(path)
	if err != nil {
		return false, err
	}
	defer file.Close()

	buffer := make([]byte, maxBinaryCheckBytes)
	n, err := file.Read(buffer)
	if err != nil && !errors.Is(err, io.EOF) {
		return false, err
	}

	return bytes.Contains(buffer[:n], []byte{0}), nil
}

// CleanDatasetText strips a UTF-8 BOM, repairs invalid UTF-8 and replaces
// common mojibake sequences. src is only used for log context.
func CleanDatasetText(raw []byte, src string) (string, error) {
	raw = bytes.TrimPrefix(raw, utf8BOM)

	if !utf8.Valid(raw) {
		log.Printf("WARN: %s invalid UTF-8, replacing invalid chars", src)
		raw = bytes.ToValidUTF8(raw, []byte(string(utf8.RuneError)))
	}

	str := string(raw)
	for bad, good := range charReplacementMap {
		str = strings.ReplaceAll(str, bad, good)
	}

	if !utf8.ValidString(str) {
		return "", fmt.Errorf("invalid UTF-8 after replacements: %s", src)
	}
	return str, nil
}
