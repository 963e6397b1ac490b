/*
Package txstore implements the Transaction Store: one file per transaction,
sharded two levels deep under a root directory so files are spread across
up to 256 shard directories rather than collected in one.

A TxId's 64-character hex encoding AB… is stored at <root>/AB/<remaining
62 chars>. Writes go through vfs.FS.AtomicWrite, which gives the
write-temp-then-rename protocol on a real filesystem and a direct write on
the in-memory filesystem — txstore itself never branches on which backend
it is driving.
*/
package txstore
