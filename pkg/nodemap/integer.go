package nodemap

import (
	"fmt"
	"net"
	"strconv"
	"strings"
)

// Integer is the integer view of a node.
type Integer struct{ *Node }

// Value returns the current value.
func (i Integer) Value(opts ...AccessOption) (int64, error) {
	i.m.lock()
	defer i.m.unlock()
	return i.intGet(getConfig(opts))
}

// SetValue writes v.
func (i Integer) SetValue(v int64, opts ...AccessOption) error {
	i.m.lock()
	defer i.m.unlock()
	return i.intSet(v, setConfig(opts))
}

// Min returns the smallest valid value.
func (i Integer) Min() (int64, error) {
	i.m.lock()
	defer i.m.unlock()
	return i.intMin()
}

// Max returns the largest valid value.
func (i Integer) Max() (int64, error) {
	i.m.lock()
	defer i.m.unlock()
	return i.intMax()
}

// Inc returns the increment between valid values.
func (i Integer) Inc() (int64, error) {
	i.m.lock()
	defer i.m.unlock()
	return i.intInc()
}

// Representation returns how the value is meant to be shown.
func (i Integer) Representation() Representation { return i.representation() }

// Unit returns the physical unit.
func (i Integer) Unit() string {
	if i.num == nil {
		return ""
	}
	return i.num.unit
}

func (n *Node) representation() Representation {
	if n.num == nil {
		return PureNumber
	}
	return n.num.representation
}

// formatInt renders v according to r.
func formatInt(v int64, r Representation) string {
	switch r {
	case HexNumber:
		return fmt.Sprintf("0x%x", uint64(v))
	case IPV4Address:
		u := uint32(v)
		return fmt.Sprintf("%d.%d.%d.%d", byte(u>>24), byte(u>>16), byte(u>>8), byte(u))
	case MACAddress:
		u := uint64(v)
		return fmt.Sprintf("%02x:%02x:%02x:%02x:%02x:%02x",
			byte(u>>40), byte(u>>32), byte(u>>24), byte(u>>16), byte(u>>8), byte(u))
	}
	return strconv.FormatInt(v, 10)
}

// parseIntAs parses s, also accepting the dotted and colon forms of the
// address representations.
func parseIntAs(s string, r Representation) (int64, error) {
	s = strings.TrimSpace(s)
	switch {
	case r == IPV4Address && strings.Count(s, ".") == 3:
		ip := net.ParseIP(s).To4()
		if ip == nil {
			return 0, fmt.Errorf("invalid IPv4 address %q", s)
		}
		return int64(ip[0])<<24 | int64(ip[1])<<16 | int64(ip[2])<<8 | int64(ip[3]), nil
	case r == MACAddress && (strings.Contains(s, ":") || strings.Count(s, "-") == 5):
		mac, err := net.ParseMAC(s)
		if err != nil || len(mac) != 6 {
			return 0, fmt.Errorf("invalid MAC address %q", s)
		}
		var v int64
		for _, b := range mac {
			v = v<<8 | int64(b)
		}
		return v, nil
	}
	return parseInt(s)
}
