package types

import (
	"encoding/json"
	"testing"
)

func TestChainIDParseAndString(t *testing.T) {
	const hexStr = "00112233445566778899aabbccddeeff"
	c, err := ParseChainID(hexStr)
	if err != nil {
		t.Fatalf("ParseChainID: %v", err)
	}
	if got := c.String(); got != hexStr {
		t.Fatalf("String() = %q, want %q", got, hexStr)
	}
}

func TestParseChainIDWrongLength(t *testing.T) {
	if _, err := ParseChainID("ab"); err == nil {
		t.Fatal("expected an error for a too-short chain id")
	}
}

func TestBlockHashJSONRoundTrip(t *testing.T) {
	var h BlockHash
	for i := range h {
		h[i] = byte(i)
	}

	b, err := json.Marshal(h)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}

	var got BlockHash
	if err := json.Unmarshal(b, &got); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if got != h {
		t.Fatalf("round trip mismatch: got %x, want %x", got, h)
	}
}

func TestAddressLess(t *testing.T) {
	var a, b Address
	a[19] = 1
	b[19] = 2
	if !a.Less(b) {
		t.Fatal("expected a < b")
	}
	if b.Less(a) {
		t.Fatal("expected b to not be less than a")
	}
}

func TestZeroChainID(t *testing.T) {
	if !ZeroChainID.IsZero() {
		t.Fatal("ZeroChainID should be zero")
	}
	var c ChainID
	c[0] = 1
	if c.IsZero() {
		t.Fatal("non-zero chain id reported as zero")
	}
}
