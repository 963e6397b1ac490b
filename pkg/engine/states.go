package engine

import (
	"bytes"
	"encoding/gob"
	"fmt"

	"github.com/cuemby/ledgerstore/pkg/types"
)

// GetBlockStates returns the deserialized address->state mapping recorded
// at state/<h>, or ok=false if absent.
func (e *Engine) GetBlockStates(h types.BlockHash) (types.StateMap, bool, error) {
	data, ok, err := e.blobs.Get(stateNamespace, h.String())
	if err != nil {
		return nil, false, fmt.Errorf("engine: get block states %s: %w", h, err)
	}
	if !ok {
		return nil, false, nil
	}
	var m types.StateMap
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(&m); err != nil {
		return nil, false, fmt.Errorf("engine: get block states %s: decode: %w", h, err)
	}
	return m, true, nil
}

// SetBlockStates serializes and uploads m for h, unconditionally
// overwriting any prior snapshot at that hash. The core requires replace
// semantics here so callers may overwrite a recomputed snapshot, unlike
// the blob layer's default first-writer-wins rule for block bodies.
func (e *Engine) SetBlockStates(h types.BlockHash, m types.StateMap) error {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(m); err != nil {
		return fmt.Errorf("engine: set block states %s: encode: %w", h, err)
	}
	if err := e.blobs.Replace(stateNamespace, h.String(), buf.Bytes()); err != nil {
		return fmt.Errorf("engine: set block states %s: %w", h, err)
	}
	return nil
}
