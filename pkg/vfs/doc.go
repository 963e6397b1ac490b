/*
Package vfs provides the filesystem capability the Transaction Store writes
through.

The engine runs in two modes — an on-disk directory, or an entirely
in-memory substrate for embedding in tests and ephemeral nodes — and both
must share the exact same transaction path and directory-scan logic. This
package factors that capability into a small interface, FS, with two
implementations: OSFS (backed by the real filesystem) and MemFS (backed by
an in-memory tree).
*/
package vfs
