package domain

import (
	"bytes"
	"database/sql/driver"
	"encoding/binary"
	"fmt"
	"math"
)

// Value implements driver.Valuer so gorm can persist an Embedding as a flat
// big-endian float32 blob. This repo serves dense search entirely
// in-process (see package bucketindex); the column only needs to round-trip
// losslessly, not support SQL-side vector operators.
func (e Embedding) Value() (driver.Value, error) {
	if len(e) == 0 {
		return []byte{}, nil
	}
	buf := make([]byte, 4*len(e))
	for i, f := range e {
		binary.BigEndian.PutUint32(buf[i*4:], math.Float32bits(f))
	}
	return buf, nil
}

// Scan implements sql.Scanner.
func (e *Embedding) Scan(src any) error {
	if src == nil {
		*e = nil
		return nil
	}
	b, ok := src.([]byte)
	if !ok {
		return fmt.Errorf("domain.Embedding: unsupported scan type %T", src)
	}
	if len(b)%4 != 0 {
		return fmt.Errorf("domain.Embedding: invalid byte length %d", len(b))
	}
	out := make(Embedding, len(b)/4)
	r := bytes.NewReader(b)
	for i := range out {
		var bits uint32
		if err := binary.Read(r, binary.BigEndian, &bits); err != nil {
			return err
		}
		out[i] = math.Float32frombits(bits)
	}
	*e = out
	return nil
}
