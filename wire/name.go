package wire

const (
	// 0xC0 on the two high bits of a length octet marks a compression
	// pointer, the remaining 14 bits are an offset from the message start
	pointerMask = 0xC0

	// jump ceiling while chasing compression pointers, a legitimate name
	// never needs more
	maxJumps = 10
)

// unpackName decodes a possibly compressed domain name starting at off and
// returns the name in dotted form together with the offset of the first
// byte after the name at its original position.
func unpackName(buf []byte, off int) (string, int, error) {
	var name []byte
	next := -1 // resume offset once the first pointer is taken
	jumps := 0

	for {
		if off >= len(buf) {
			return "", 0, errNameOffset
		}

		length := int(buf[off])

		if length&pointerMask == pointerMask {
			if off+1 >= len(buf) {
				return "", 0, errNameOffset
			}

			if jumps++; jumps > maxJumps {
				return "", 0, errNameJumps
			}

			if next < 0 {
				next = off + 2
			}

			target := (length&^pointerMask)<<8 | int(buf[off+1])
			if target >= len(buf) {
				return "", 0, errNamePointer
			}
			off = target
			continue
		}

		off++
		if length == 0 {
			break
		}

		if off+length > len(buf) {
			return "", 0, errNameLabel
		}

		if len(name) > 0 {
			name = append(name, '.')
		}
		name = append(name, buf[off:off+length]...)
		off += length
	}

	if next >= 0 {
		off = next
	}

	return string(name), off, nil
}
