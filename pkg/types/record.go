package types

// Transaction is an opaque, byte-serializable record with a stable ID. The
// engine never interprets its content; it only stores and retrieves it by
// ID, and extracts the ID to compute the transaction file's path.
type Transaction interface {
	// ID returns the transaction's stable identifier.
	ID() TxID
	// Bytes returns the transaction's serialized form.
	Bytes() []byte
}

// Block is an opaque, byte-serializable record with a stable hash and an
// ordered list of contained transactions. PutBlock puts each contained
// transaction before the block body itself.
type Block interface {
	// Hash returns the block's content hash.
	Hash() BlockHash
	// Bytes returns the block's serialized form.
	Bytes() []byte
	// Transactions returns the transactions contained in the block, in order.
	Transactions() []Transaction
}

// StateMap is a per-block snapshot: the state value recorded for each
// address mutated as of that block. Values are opaque serialized bytes,
// same as transaction and block bodies.
type StateMap map[Address][]byte

// RawTransaction is a concrete Transaction backed by a precomputed ID and
// raw bytes, for callers that already have both in hand (e.g. after reading
// from the Transaction Store).
type RawTransaction struct {
	TxID    TxID
	Payload []byte
}

func (t RawTransaction) ID() TxID      { return t.TxID }
func (t RawTransaction) Bytes() []byte { return t.Payload }

// RawBlock is a concrete Block backed by a precomputed hash, raw bytes, and
// an explicit transaction list.
type RawBlock struct {
	BlockHash BlockHash
	Payload   []byte
	Txs       []Transaction
}

func (b RawBlock) Hash() BlockHash             { return b.BlockHash }
func (b RawBlock) Bytes() []byte               { return b.Payload }
func (b RawBlock) Transactions() []Transaction { return b.Txs }
