/*
Package enginelock implements the block lock: the single readers-writer
lock that serializes mutation of the block-blob surface against block
iteration.

IterateBlockHashes, CountBlocks, and reads take the shared side; PutBlock
and DeleteBlock take the exclusive side. GetRawBlock wants a shared lock for
the lookup and an exclusive lock if it falls through to a download; rather
than building an upgradeable RWMutex, it takes a single exclusive lock
around the whole operation.
*/
package enginelock
