package value

import (
	"fmt"
	"strconv"
	"strings"
)

const rlePrefix = "\x00RLE:"

// parseRLE recognizes the packed run-length-encoded string form used by
// unfold: "\x00RLE:<count>:<payload>". It returns ok=false for anything
// else, including ordinary strings that happen to start with a null byte
// but don't parse as "count:payload".
func parseRLE(s string) (count int, payload string, ok bool) {
	if !strings.HasPrefix(s, rlePrefix) {
		return 0, "", false
	}
	rest := s[len(rlePrefix):]
	idx := strings.IndexByte(rest, ':')
	if idx < 0 {
		return 0, "", false
	}
	n, err := strconv.Atoi(rest[:idx])
	if err != nil || n < 0 {
		return 0, "", false
	}
	return n, rest[idx+1:], true
}

// EncodeRLE packs n copies of payload into the compressed form that
// Value.Apply(Unfold) recognizes. Exposed for test fixtures and for any
// producer that wants to emit a compressed array element.
func EncodeRLE(n int, payload string) string {
	return fmt.Sprintf("%s%d:%s", rlePrefix, n, payload)
}
