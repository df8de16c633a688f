package sentence

import "fmt"

// Six-bit ASCII armoring as used by IEC 61162-1 encapsulation sentences.
// Each 6-bit group maps to a printable character: values 0-39 to '0'-'W',
// values 40-63 to '`'-'w'. The final character of a payload may carry up to
// 5 fill bits of padding, counted separately in the sentence.

// armorChar maps a 6-bit value to its armoring character.
func armorChar(v byte) byte {
	c := v + 48
	if c > 87 {
		c += 8
	}
	return c
}

// dearmorChar maps an armoring character back to its 6-bit value.
func dearmorChar(c byte) (byte, bool) {
	switch {
	case c >= 48 && c <= 87:
		return c - 48, true
	case c >= 96 && c <= 119:
		return c - 56, true
	default:
		return 0, false
	}
}

// invalidArmorIndex returns the index of the first character outside the
// armoring alphabet, or -1 if all characters are valid.
func invalidArmorIndex(s string) int {
	for i := 0; i < len(s); i++ {
		if _, ok := dearmorChar(s[i]); !ok {
			return i
		}
	}
	return -1
}

// Armor encodes a binary payload into its six-bit armored form, padding the
// final character with zero bits. The returned fill bit count is in [0,5].
func Armor(data []byte) (string, int) {
	return ArmorBits(data, len(data)*8)
}

// ArmorBits encodes the first bitLen bits of data. bitLen may be shorter
// than the buffer for payloads that are not byte-aligned.
func ArmorBits(data []byte, bitLen int) (string, int) {
	if bitLen > len(data)*8 {
		bitLen = len(data) * 8
	}
	fill := (6 - bitLen%6) % 6
	out := make([]byte, 0, (bitLen+fill)/6)

	var acc uint16
	var nacc int
	bit := 0
	for _, b := range data {
		take := 8
		if bitLen-bit < take {
			take = bitLen - bit
		}
		if take <= 0 {
			break
		}
		acc = acc<<uint(take) | uint16(b>>(8-uint(take)))
		nacc += take
		bit += take
		for nacc >= 6 {
			nacc -= 6
			out = append(out, armorChar(byte(acc>>uint(nacc))&0x3F))
		}
	}
	if nacc > 0 {
		out = append(out, armorChar(byte(acc<<uint(6-nacc))&0x3F))
	}
	return string(out), fill
}

// Dearmor decodes a six-bit armored payload back into bytes, returning the
// raw data and its length in bits. Fill bits outside [0,5] violate the
// sentence grammar; a character outside the armoring alphabet fails with
// ErrInvalidPayloadCharacter.
func Dearmor(payload string, fillBits int) ([]byte, int, error) {
	if fillBits < 0 || fillBits > 5 {
		return nil, 0, fmt.Errorf("%w: fill bits %d out of range [0,5]", ErrMalformedField, fillBits)
	}
	bitLen := len(payload)*6 - fillBits
	if bitLen < 0 {
		return nil, 0, fmt.Errorf("%w: %d fill bits but no payload", ErrMalformedField, fillBits)
	}
	out := make([]byte, 0, (bitLen+7)/8)

	var acc uint16
	var nacc int
	taken := 0
	for i := 0; i < len(payload); i++ {
		v, ok := dearmorChar(payload[i])
		if !ok {
			return nil, 0, fmt.Errorf("%w: %q at offset %d", ErrInvalidPayloadCharacter, payload[i], i)
		}
		take := 6
		if bitLen-taken < take {
			take = bitLen - taken
			v >>= 6 - uint(take)
		}
		acc = acc<<uint(take) | uint16(v)
		nacc += take
		taken += take
		for nacc >= 8 {
			nacc -= 8
			out = append(out, byte(acc>>uint(nacc)))
		}
	}
	if nacc > 0 {
		out = append(out, byte(acc<<uint(8-nacc)))
	}
	return out, bitLen, nil
}
