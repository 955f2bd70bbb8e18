package shard

import (
	"fmt"
	"strconv"
	"strings"
)

// Extension is the suffix shared by every shard file name.
const Extension = ".cache"

// nameSeparator splits the begin and end line numbers in a shard name.
const nameSeparator = "_"

// ParseError reports a shard file name that does not encode a line range.
type ParseError struct {
	Name   string
	Reason string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("shard: invalid name %q: %s", e.Name, e.Reason)
}

// FormatName returns the file name for a shard covering [begin, end].
func FormatName(begin, end int64) string {
	return strconv.FormatInt(begin, 10) + nameSeparator + strconv.FormatInt(end, 10) + Extension
}

// ParseName decodes a shard file name of the form "<begin>_<end>.cache".
// Both numbers must be non-negative decimal integers and begin must not
// exceed end.
func ParseName(name string) (begin, end int64, err error) {
	stem, ok := strings.CutSuffix(name, Extension)
	if !ok {
		return 0, 0, &ParseError{Name: name, Reason: "missing " + Extension + " extension"}
	}

	left, right, ok := strings.Cut(stem, nameSeparator)
	if !ok {
		return 0, 0, &ParseError{Name: name, Reason: "missing separator " + strconv.Quote(nameSeparator)}
	}

	if begin, err = parseLine(left); err != nil {
		return 0, 0, &ParseError{Name: name, Reason: "begin line: " + err.Error()}
	}
	if end, err = parseLine(right); err != nil {
		return 0, 0, &ParseError{Name: name, Reason: "end line: " + err.Error()}
	}
	if begin > end {
		return 0, 0, &ParseError{Name: name, Reason: fmt.Sprintf("begin line %d after end line %d", begin, end)}
	}

	return begin, end, nil
}

// parseLine accepts only ASCII digits; signs, spaces and empty strings are
// rejected before strconv sees them.
func parseLine(s string) (int64, error) {
	if s == "" {
		return 0, fmt.Errorf("empty")
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return 0, fmt.Errorf("%q is not a non-negative integer", s)
		}
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%q: %w", s, err)
	}
	return n, nil
}
