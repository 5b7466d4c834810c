package header

import "testing"

func validMeta() Metadata {
	return Metadata{
		ChannelID:    42,
		Capacity:     4096,
		MaxRecordLen: 1024,
		TimeoutNs:    0,
		CreationNs:   1700000000000000000,
	}
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	m := validMeta()
	buf, err := Encode(m)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if len(buf) != Len {
		t.Fatalf("encoded length = %d, want %d", len(buf), Len)
	}
	got, err := Decode(buf)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if got != m {
		t.Fatalf("round trip mismatch: got %+v, want %+v", got, m)
	}
}

func TestDecodeRejectsBitFlips(t *testing.T) {
	buf, err := Encode(validMeta())
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	for byteIdx := 0; byteIdx < len(buf); byteIdx++ {
		for bit := 0; bit < 8; bit++ {
			corrupt := append([]byte(nil), buf...)
			corrupt[byteIdx] ^= 1 << bit
			if _, err := Decode(corrupt); err == nil {
				t.Fatalf("bit flip at byte %d bit %d was not rejected", byteIdx, bit)
			}
		}
	}
}

func TestDecodeBadMagic(t *testing.T) {
	buf, _ := Encode(validMeta())
	buf[0] ^= 0xFF
	_, err := Decode(buf)
	var herr *Error
	if err == nil {
		t.Fatal("expected error")
	}
	if !asHeaderErr(err, &herr) || herr.Kind != KindBadMagic {
		t.Fatalf("expected BadMagic, got %v", err)
	}
}

func TestDecodeShortBuffer(t *testing.T) {
	if _, err := Decode(make([]byte, 10)); err == nil {
		t.Fatal("expected error for short buffer")
	}
}

func TestValidateInvalidCapacity(t *testing.T) {
	m := validMeta()
	m.Capacity = 100 // not a multiple of 8
	if err := m.Validate(); err == nil {
		t.Fatal("expected InvalidCapacity error")
	}
}

func TestValidateInvalidMaxRecord(t *testing.T) {
	m := validMeta()
	m.MaxRecordLen = m.Capacity // too large relative to capacity
	if err := m.Validate(); err == nil {
		t.Fatal("expected InvalidMaxRecord error")
	}
}

func asHeaderErr(err error, out **Error) bool {
	he, ok := err.(*Error)
	if !ok {
		return false
	}
	*out = he
	return true
}
