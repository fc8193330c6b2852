package utils

import (
	"fmt"
	"strconv"
	"strings"
)

// ToInt parses a decimal string, returning def when it is empty or malformed.
func ToInt(val string, def int) int {
	i, err := strconv.Atoi(strings.TrimSpace(val))
	if err != nil {
		return def
	}
	return i
}

// ToBool reports whether a string is a truthy flag ("1", "true", "yes", "on").
func ToBool(val string) bool {
	switch strings.ToLower(strings.TrimSpace(val)) {
	case "1", "true", "yes", "on":
		return true
	default:
		return false
	}
}

// ToOptionalBool parses a tri-state flag. An empty string yields nil.
func ToOptionalBool(val string) (*bool, error) {
	switch strings.ToLower(strings.TrimSpace(val)) {
	case "":
		return nil, nil
	case "1", "true", "yes", "on":
		b := true
		return &b, nil
	case "0", "false", "no", "off":
		b := false
		return &b, nil
	default:
		return nil, fmt.Errorf("invalid boolean %q", val)
	}
}
