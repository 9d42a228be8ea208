package screenshot

// The screenshot stream is run-length encoded in units of two pixels: a
// signed control byte followed by either a verbatim block (negative) or a
// single unit to repeat (non-negative).

// rleUnit returns the byte length of one run-length unit, the storage for
// two pixels at the given bit depth. Sub-byte depths still decode one byte
// at a time, so the unit is never smaller than a byte.
func rleUnit(bpp uint8) int {
	unit := int(bpp) * 2 / 8
	if unit < 1 {
		unit = 1
	}
	return unit
}

// rleDecode expands src into dst and returns the number of bytes written.
// A control byte c < 0 starts a literal run of (-c+1)*unit bytes, clamped to
// the bytes remaining on both sides. A control byte c >= 0 repeats the next
// unit c+1 times, stopping early once dst cannot hold a whole unit; the
// input advances past that unit exactly once. A repeat run without a full
// unit of input left ends the decode. dst bytes past the returned count are
// untouched: a truncated or corrupt stream yields a short decode, not an
// error.
func rleDecode(bpp uint8, src, dst []byte) int {
	unit := rleUnit(bpp)
	in, out := 0, 0
	for len(src)-in > 1 && out < len(dst) {
		code := int8(src[in])
		in++
		if code < 0 {
			// Negate after widening: -int8(-128) wraps, -int(-128) does not.
			n := (-int(code) + 1) * unit
			if rem := len(dst) - out; n > rem {
				n = rem
			}
			if rem := len(src) - in; n > rem {
				n = rem
			}
			copy(dst[out:out+n], src[in:in+n])
			in += n
			out += n
		} else {
			if len(src)-in < unit {
				return out
			}
			for i := 0; i <= int(code); i++ {
				if len(dst)-out < unit {
					break
				}
				copy(dst[out:out+unit], src[in:in+unit])
				out += unit
			}
			in += unit
		}
	}
	return out
}

// rleEncode compresses src with the same scheme, for bridge servers and
// fixtures that have to speak the device's wire format. len(src) must be a
// multiple of the unit size; a single unit encodes as a repeat of one.
func rleEncode(bpp uint8, src []byte) []byte {
	unit := rleUnit(bpp)
	units := len(src) / unit
	out := make([]byte, 0, len(src)+units/128+1)

	for i := 0; i < units; {
		run := 1
		for i+run < units && run < 128 && unitEqual(src, i, i+run, unit) {
			run++
		}
		if run > 1 {
			out = append(out, byte(run-1))
			out = append(out, src[i*unit:(i+1)*unit]...)
			i += run
			continue
		}

		// Literal control bytes cover two units or more; collect distinct
		// units until a run of two starts or the record is full.
		lit := 1
		for i+lit < units && lit < 128 && !unitEqual(src, i+lit, i+lit-1, unit) {
			lit++
		}
		if lit == 1 {
			// Lone distinct unit before a run: emit as a repeat of one.
			out = append(out, 0)
			out = append(out, src[i*unit:(i+1)*unit]...)
			i++
			continue
		}
		out = append(out, byte(-(int8(lit - 1))))
		out = append(out, src[i*unit:(i+lit)*unit]...)
		i += lit
	}
	return out
}

func unitEqual(buf []byte, a, b, unit int) bool {
	for k := 0; k < unit; k++ {
		if buf[a*unit+k] != buf[b*unit+k] {
			return false
		}
	}
	return true
}
