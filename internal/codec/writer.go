package codec

// writer is the two-phase output sink. In counting mode it only advances
// the offset; in buffer mode it additionally copies bytes and fails with
// ErrBufferTooSmall on overflow. Both passes run the same emitter code,
// which keeps the size pass exact by construction.
type writer struct {
	buf      []byte
	off      int
	counting bool
	err      error
}

func (w *writer) write(p []byte) {
	if w.err != nil {
		return
	}
	if !w.counting {
		if w.off+len(p) > len(w.buf) {
			w.err = ErrBufferTooSmall
			return
		}
		copy(w.buf[w.off:], p)
	}
	w.off += len(p)
}

func (w *writer) writeByte(b byte) {
	if w.err != nil {
		return
	}
	if !w.counting {
		if w.off >= len(w.buf) {
			w.err = ErrBufferTooSmall
			return
		}
		w.buf[w.off] = b
	}
	w.off++
}

func (w *writer) writeString(s string) {
	if w.err != nil {
		return
	}
	if !w.counting {
		if w.off+len(s) > len(w.buf) {
			w.err = ErrBufferTooSmall
			return
		}
		copy(w.buf[w.off:], s)
	}
	w.off += len(s)
}

func (w *writer) writeUint16(v uint16) {
	w.writeByte(byte(v))
	w.writeByte(byte(v >> 8))
}

func (w *writer) writeUint32(v uint32) {
	w.writeByte(byte(v))
	w.writeByte(byte(v >> 8))
	w.writeByte(byte(v >> 16))
	w.writeByte(byte(v >> 24))
}

// patchUint32 overwrites a previously written little-endian u32. It is a
// no-op in counting mode, where the final value contributes no size
// difference.
func (w *writer) patchUint32(off int, v uint32) {
	if w.err != nil || w.counting {
		return
	}
	w.buf[off] = byte(v)
	w.buf[off+1] = byte(v >> 8)
	w.buf[off+2] = byte(v >> 16)
	w.buf[off+3] = byte(v >> 24)
}
