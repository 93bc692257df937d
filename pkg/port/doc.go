// Package port defines the byte-level transport contract of a node map.
//
// A Port is the only component that touches the device. Register nodes
// translate typed values into byte ranges and move them through a Port:
//
//	data, err := p.Read(0x1000, 4)
//	err = p.Write(0x1000, []byte{0x01, 0x00, 0x00, 0x00})
//
// # Access
//
// Every port reports an AccessMode (RW, RO, WO or NA). Register nodes combine
// it with their own declared mode, so a read-only transport makes every
// register behind it read-only.
//
// # MemoryPort
//
// MemoryPort is a sparse in-memory register bank. It backs tests and the
// interactive shell, and supports memory-mapped regions whose reads and
// writes are served by callbacks, the way an emulator maps peripheral
// registers onto its bus.
//
// # Byte Order
//
// The codec helpers (PutUint, Uint, Int) encode and decode unsigned and
// two's-complement integers of 1 to 8 bytes in either byte order.
package port
