/*
Package log provides structured logging via zerolog: a global logger,
configurable level/format/output, and child-logger helpers for
attaching request context (component, chain ID, block hash) to a
run of log lines without repeating fields at every call site.

# Usage

	log.Init(log.Config{Level: log.InfoLevel, JSONOutput: true, Output: os.Stdout})

	engineLog := log.WithComponent("engine")
	engineLog.Debug().Str("dir", dir).Msg("opened on-disk engine")

	blockLog := log.WithBlockHash(hash.String())
	blockLog.Warn().Err(err).Msg("put block failed")

Debug is for lock acquisition and idempotent no-op puts; warn/error is
for I/O failures about to be returned to the caller. Logging never
swallows an error — the engine always also returns it.
*/
package log
