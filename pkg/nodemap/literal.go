package nodemap

import (
	"fmt"
	"strconv"
	"strings"
)

// parseInt parses a decimal or 0x-prefixed hexadecimal integer. Hexadecimal
// literals are read as unsigned 64-bit patterns.
func parseInt(s string) (int64, error) {
	s = strings.TrimSpace(s)
	neg := false
	body := s
	if strings.HasPrefix(body, "-") {
		neg, body = true, body[1:]
	} else if strings.HasPrefix(body, "+") {
		body = body[1:]
	}
	if strings.HasPrefix(body, "&h") || strings.HasPrefix(body, "&H") {
		return 0, fmt.Errorf("unsupported hexadecimal prefix in %q (use 0x)", s)
	}
	if strings.HasPrefix(body, "0x") || strings.HasPrefix(body, "0X") {
		u, err := strconv.ParseUint(body[2:], 16, 64)
		if err != nil {
			return 0, fmt.Errorf("invalid hexadecimal number %q", s)
		}
		if neg {
			return -int64(u), nil
		}
		return int64(u), nil
	}
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid integer %q", s)
	}
	return v, nil
}

// parseFloat parses a float literal, also accepting hexadecimal integers.
func parseFloat(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if strings.Contains(s, "0x") || strings.Contains(s, "0X") || strings.Contains(s, "&") {
		i, err := parseInt(s)
		return float64(i), err
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid number %q", s)
	}
	return f, nil
}

// parseBool accepts true, false, 1 and 0 in any case.
func parseBool(s string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true", "1":
		return true, nil
	case "false", "0":
		return false, nil
	}
	return false, fmt.Errorf("invalid boolean %q", s)
}
