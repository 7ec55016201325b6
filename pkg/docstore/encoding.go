package docstore

import (
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/simplifiedchinese"
	"golang.org/x/text/transform"
)

// decodeText tries the prioritized encoding list: UTF-8, then GBK, then
// Latin-1 as the permissive last resort (it accepts any byte sequence).
// The x/text decoders substitute U+FFFD for undecodable bytes instead of
// failing, so a substitution in the output is treated as a failed attempt.
func decodeText(data []byte) (string, string, error) {
	if utf8.Valid(data) {
		return string(data), "utf-8", nil
	}

	if decoded, _, err := transform.Bytes(simplifiedchinese.GBK.NewDecoder(), data); err == nil {
		if !strings.ContainsRune(string(decoded), utf8.RuneError) {
			return string(decoded), "gbk", nil
		}
	}

	decoded, _, err := transform.Bytes(charmap.ISO8859_1.NewDecoder(), data)
	if err != nil {
		return "", "", err
	}
	return string(decoded), "latin-1", nil
}
