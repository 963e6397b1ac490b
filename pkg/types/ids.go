package types

import (
	"bytes"
	"encoding/hex"
	"encoding/json"
	"fmt"
)

// ChainID identifies a chain. Distinct ChainIDs are fully isolated across
// every per-chain collection the engine maintains.
type ChainID [16]byte

// BlockHash is the content-addressed key of a block in the Blob Store.
type BlockHash [32]byte

// TxID is the content-addressed key of a transaction in the Transaction Store.
type TxID [32]byte

// Address identifies a signer. It appears as a key in nonce and
// state-reference records.
type Address [20]byte

// ZeroChainID is the all-zero ChainID, commonly used as a genesis/default
// chain identifier in tests and by callers with only one chain.
var ZeroChainID ChainID

func (c ChainID) String() string { return hex.EncodeToString(c[:]) }
func (h BlockHash) String() string { return hex.EncodeToString(h[:]) }
func (t TxID) String() string { return hex.EncodeToString(t[:]) }
func (a Address) String() string { return hex.EncodeToString(a[:]) }

func (c ChainID) IsZero() bool   { return c == ChainID{} }
func (h BlockHash) IsZero() bool { return h == BlockHash{} }
func (t TxID) IsZero() bool      { return t == TxID{} }
func (a Address) IsZero() bool   { return a == Address{} }

func (c ChainID) MarshalJSON() ([]byte, error)   { return json.Marshal(c.String()) }
func (h BlockHash) MarshalJSON() ([]byte, error) { return json.Marshal(h.String()) }
func (t TxID) MarshalJSON() ([]byte, error)      { return json.Marshal(t.String()) }
func (a Address) MarshalJSON() ([]byte, error)   { return json.Marshal(a.String()) }

func (c *ChainID) UnmarshalJSON(data []byte) error {
	b, err := unmarshalHexJSON(data, len(c))
	if err != nil {
		return err
	}
	copy(c[:], b)
	return nil
}

func (h *BlockHash) UnmarshalJSON(data []byte) error {
	b, err := unmarshalHexJSON(data, len(h))
	if err != nil {
		return err
	}
	copy(h[:], b)
	return nil
}

func (t *TxID) UnmarshalJSON(data []byte) error {
	b, err := unmarshalHexJSON(data, len(t))
	if err != nil {
		return err
	}
	copy(t[:], b)
	return nil
}

func (a *Address) UnmarshalJSON(data []byte) error {
	b, err := unmarshalHexJSON(data, len(a))
	if err != nil {
		return err
	}
	copy(a[:], b)
	return nil
}

func unmarshalHexJSON(data []byte, size int) ([]byte, error) {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, err
	}
	b, err := hex.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("types: invalid hex identifier %q: %w", s, err)
	}
	if len(b) != size {
		return nil, fmt.Errorf("types: identifier %q has length %d, want %d bytes", s, len(b), size)
	}
	return b, nil
}

// ParseChainID decodes a hex-encoded ChainID.
func ParseChainID(s string) (ChainID, error) {
	var c ChainID
	b, err := hex.DecodeString(s)
	if err != nil {
		return c, fmt.Errorf("types: invalid chain id %q: %w", s, err)
	}
	if len(b) != len(c) {
		return c, fmt.Errorf("types: chain id %q has length %d, want %d bytes", s, len(b), len(c))
	}
	copy(c[:], b)
	return c, nil
}

// ParseBlockHash decodes a hex-encoded BlockHash.
func ParseBlockHash(s string) (BlockHash, error) {
	var h BlockHash
	b, err := hex.DecodeString(s)
	if err != nil {
		return h, fmt.Errorf("types: invalid block hash %q: %w", s, err)
	}
	if len(b) != len(h) {
		return h, fmt.Errorf("types: block hash %q has length %d, want %d bytes", s, len(b), len(h))
	}
	copy(h[:], b)
	return h, nil
}

// ParseTxID decodes a hex-encoded TxID.
func ParseTxID(s string) (TxID, error) {
	var t TxID
	b, err := hex.DecodeString(s)
	if err != nil {
		return t, fmt.Errorf("types: invalid tx id %q: %w", s, err)
	}
	if len(b) != len(t) {
		return t, fmt.Errorf("types: tx id %q has length %d, want %d bytes", s, len(b), len(t))
	}
	copy(t[:], b)
	return t, nil
}

// ParseAddress decodes a hex-encoded Address.
func ParseAddress(s string) (Address, error) {
	var a Address
	b, err := hex.DecodeString(s)
	if err != nil {
		return a, fmt.Errorf("types: invalid address %q: %w", s, err)
	}
	if len(b) != len(a) {
		return a, fmt.Errorf("types: address %q has length %d, want %d bytes", s, len(b), len(a))
	}
	copy(a[:], b)
	return a, nil
}

// Less reports whether a sorts strictly before b, used to produce the
// ascending address order ListAddresses promises.
func (a Address) Less(b Address) bool {
	return bytes.Compare(a[:], b[:]) < 0
}
