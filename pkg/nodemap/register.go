package nodemap

import (
	"bytes"
	"encoding/hex"
	"math"
	"strings"
	"time"

	"golang.org/x/text/encoding/charmap"

	"github.com/nodemap-go/nodemap/pkg/log"
	"github.com/nodemap-go/nodemap/pkg/port"
)

// address resolves Σ Address + Σ pAddress + pIndex × Offset.
func (n *Node) address() (int64, error) {
	var addr int64
	for _, a := range n.reg.addresses {
		addr += a
	}
	for _, p := range n.reg.pAddress {
		v, err := p.intGet(accessConfig{})
		if err != nil {
			return 0, err
		}
		addr += v
	}
	if n.reg.index != nil {
		idx, err := n.reg.index.intGet(accessConfig{})
		if err != nil {
			return 0, err
		}
		off, err := refInt(n.reg.offset)
		if err != nil {
			return 0, err
		}
		addr += idx * off
	}
	return addr, nil
}

// length resolves Length or pLength.
func (n *Node) length() (int64, error) {
	l, err := refInt(n.reg.length)
	if err != nil {
		return 0, err
	}
	if l <= 0 {
		return 0, newError(LogicalError, n.name, "register length %d", l)
	}
	return l, nil
}

// conn returns the port the register is anchored to, checking that it
// currently allows the operation.
func (n *Node) conn(write bool) (port.Port, error) {
	p := n.reg.port.port.conn
	if p == nil {
		return nil, newError(AccessError, n.name, "port %s is not connected", n.reg.port.name)
	}
	mode := p.AccessMode()
	if write && !mode.CanWrite() || !write && !mode.CanRead() {
		return nil, newError(AccessError, n.name, "port %s is %s", n.reg.port.name, mode)
	}
	return p, nil
}

// readRaw reads the register bytes from the port.
func (n *Node) readRaw() ([]byte, error) {
	addr, err := n.address()
	if err != nil {
		return nil, err
	}
	length, err := n.length()
	if err != nil {
		return nil, err
	}
	p, err := n.conn(false)
	if err != nil {
		return nil, err
	}
	b, err := p.Read(addr, length)
	n.m.logPortIO(n, log.DirectionRead, addr, length, b, err)
	if err != nil {
		return nil, portError(n.name, err)
	}
	if int64(len(b)) != length {
		return nil, newError(GenericError, n.name, "port returned %d bytes, want %d", len(b), length)
	}
	return b, nil
}

// writeRaw writes the register bytes to the port.
func (n *Node) writeRaw(b []byte) error {
	addr, err := n.address()
	if err != nil {
		return err
	}
	p, err := n.conn(true)
	if err != nil {
		return err
	}
	err = p.Write(addr, b)
	n.m.logPortIO(n, log.DirectionWrite, addr, int64(len(b)), b, err)
	if err != nil {
		return portError(n.name, err)
	}
	return nil
}

func (m *NodeMap) logPortIO(n *Node, dir log.Direction, addr, length int64, data []byte, err error) {
	ev := log.Event{
		Timestamp: time.Now(),
		SessionID: m.session,
		Direction: dir,
		Layer:     log.LayerPort,
		Category:  log.CategoryPortIO,
		Node:      n.name,
		Port:      log.NewPortEvent(addr, length, data),
	}
	if err != nil {
		ev.Category = log.CategoryError
		ev.Error = &log.ErrorEventData{Layer: log.LayerPort, Message: err.Error(), Context: dir.String()}
	}
	m.events.Log(ev)
}

// bitField returns the shift and width of a masked field, converting the
// declared bit numbers of a big endian register (bit 0 is the MSB).
func (n *Node) bitField(length int64) (shift, width uint, err error) {
	bits := int(length * 8)
	lsb, msb := n.reg.lsb, n.reg.msb
	if n.reg.order == port.BigEndian {
		lsb, msb = bits-1-lsb, bits-1-msb
	}
	if lsb < 0 || msb < lsb || msb >= bits {
		return 0, 0, newError(LogicalError, n.name, "bit field %d..%d does not fit a %d bit register", n.reg.lsb, n.reg.msb, bits)
	}
	return uint(lsb), uint(msb - lsb + 1), nil
}

func fieldMask(width uint) uint64 {
	if width >= 64 {
		return math.MaxUint64
	}
	return 1<<width - 1
}

// regRange is the range of values the register can hold.
func (n *Node) regRange() (lo, hi int64, err error) {
	length, err := n.length()
	if err != nil {
		return 0, 0, err
	}
	bits := uint(length * 8)
	if n.reg.masked {
		_, width, err := n.bitField(length)
		if err != nil {
			return 0, 0, err
		}
		bits = width
	}
	if bits > 64 {
		bits = 64
	}
	if n.reg.signed {
		return -1 << (bits - 1), 1<<(bits-1) - 1, nil
	}
	if bits >= 64 {
		return 0, math.MaxInt64, nil
	}
	return 0, 1<<bits - 1, nil
}

func (n *Node) decodeInt(b []byte) (int64, error) {
	u, err := port.Uint(b, n.reg.order)
	if err != nil {
		return 0, newError(LogicalError, n.name, "%v", err)
	}
	bits := uint(len(b) * 8)
	if n.reg.masked {
		shift, width, err := n.bitField(int64(len(b)))
		if err != nil {
			return 0, err
		}
		u = u >> shift & fieldMask(width)
		bits = width
	}
	if n.reg.signed {
		return port.SignExtend(u, bits), nil
	}
	return int64(u), nil
}

func (n *Node) regIntGet(c accessConfig) (int64, error) {
	if n.cached(c) {
		return n.cache.i, nil
	}
	b, err := n.readRaw()
	if err != nil {
		return 0, err
	}
	v, err := n.decodeInt(b)
	if err != nil {
		return 0, err
	}
	n.store(cacheEntry{i: v})
	return v, nil
}

func (n *Node) regIntSet(v int64, c accessConfig) error {
	if c.verify {
		lo, hi, err := n.regRange()
		if err != nil {
			return err
		}
		if v < lo || v > hi {
			return newError(OutOfRange, n.name, "value %d not in [%d, %d]", v, lo, hi)
		}
	}
	length, err := n.length()
	if err != nil {
		return err
	}
	u := uint64(v)
	if n.reg.masked {
		shift, width, err := n.bitField(length)
		if err != nil {
			return err
		}
		cur, err := n.readRaw()
		if err != nil {
			return err
		}
		word, err := port.Uint(cur, n.reg.order)
		if err != nil {
			return newError(LogicalError, n.name, "%v", err)
		}
		mask := fieldMask(width) << shift
		u = word&^mask | u<<shift&mask
	}
	b, err := port.PutUint(u, int(length), n.reg.order)
	if err != nil {
		return newError(LogicalError, n.name, "%v", err)
	}
	if err := n.writeRaw(b); err != nil {
		return err
	}
	n.written(cacheEntry{i: v})
	return nil
}

func (n *Node) regFloatGet(c accessConfig) (float64, error) {
	if n.cached(c) {
		return n.cache.f, nil
	}
	b, err := n.readRaw()
	if err != nil {
		return 0, err
	}
	u, err := port.Uint(b, n.reg.order)
	if err != nil {
		return 0, newError(LogicalError, n.name, "%v", err)
	}
	var v float64
	switch len(b) {
	case 4:
		v = float64(math.Float32frombits(uint32(u)))
	case 8:
		v = math.Float64frombits(u)
	default:
		return 0, newError(LogicalError, n.name, "float register length %d", len(b))
	}
	n.store(cacheEntry{f: v})
	return v, nil
}

func (n *Node) regFloatSet(v float64, c accessConfig) error {
	length, err := n.length()
	if err != nil {
		return err
	}
	var u uint64
	switch length {
	case 4:
		if c.verify && !math.IsInf(v, 0) && math.Abs(v) > math.MaxFloat32 {
			return newError(OutOfRange, n.name, "value %g does not fit a 32 bit float", v)
		}
		u = uint64(math.Float32bits(float32(v)))
	case 8:
		u = math.Float64bits(v)
	default:
		return newError(LogicalError, n.name, "float register length %d", length)
	}
	b, err := port.PutUint(u, int(length), n.reg.order)
	if err != nil {
		return newError(LogicalError, n.name, "%v", err)
	}
	if err := n.writeRaw(b); err != nil {
		return err
	}
	if length == 4 {
		v = float64(float32(v))
	}
	n.written(cacheEntry{f: v})
	return nil
}

// latin1 is the byte encoding of string registers.
var latin1 = charmap.ISO8859_1

func (n *Node) regStringGet(c accessConfig) (string, error) {
	if n.cached(c) {
		return n.cache.s, nil
	}
	b, err := n.readRaw()
	if err != nil {
		return "", err
	}
	if i := bytes.IndexByte(b, 0); i >= 0 {
		b = b[:i]
	}
	s, err := latin1.NewDecoder().Bytes(b)
	if err != nil {
		return "", newError(GenericError, n.name, "decoding string: %v", err)
	}
	n.store(cacheEntry{s: string(s)})
	return string(s), nil
}

func (n *Node) regStringSet(s string) error {
	length, err := n.length()
	if err != nil {
		return err
	}
	enc, err := latin1.NewEncoder().Bytes([]byte(s))
	if err != nil {
		return newError(InvalidArgument, n.name, "string %q is not representable in ISO-8859-1", s)
	}
	if int64(len(enc)) > length {
		return newError(OutOfRange, n.name, "string of %d bytes exceeds register length %d", len(enc), length)
	}
	b := make([]byte, length)
	copy(b, enc)
	if err := n.writeRaw(b); err != nil {
		return err
	}
	n.written(cacheEntry{s: s})
	return nil
}

func (n *Node) regBytesGet(c accessConfig) ([]byte, error) {
	if n.kind == KindRegister && n.cached(c) {
		return append([]byte(nil), n.cache.b...), nil
	}
	b, err := n.readRaw()
	if err != nil {
		return nil, err
	}
	if n.kind == KindRegister {
		n.store(cacheEntry{b: append([]byte(nil), b...)})
	}
	return b, nil
}

func (n *Node) regBytesSet(b []byte) error {
	length, err := n.length()
	if err != nil {
		return err
	}
	if int64(len(b)) != length {
		return newError(InvalidArgument, n.name, "got %d bytes, register length is %d", len(b), length)
	}
	if err := n.writeRaw(b); err != nil {
		return err
	}
	if n.kind == KindRegister {
		n.written(cacheEntry{b: append([]byte(nil), b...)})
		return nil
	}
	// Typed registers keep their decoded value, not raw bytes.
	n.cache = cacheEntry{}
	n.m.changed(n)
	return nil
}

// formatBytes renders b as 0x followed by lowercase hex pairs.
func formatBytes(b []byte) string {
	return "0x" + hex.EncodeToString(b)
}

// parseBytes parses the form produced by formatBytes.
func parseBytes(s string) ([]byte, bool) {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "0x") && !strings.HasPrefix(s, "0X") {
		return nil, false
	}
	b, err := hex.DecodeString(s[2:])
	return b, err == nil
}
