// Package memory implements the audit/memory store: an append-only log of
// step records keyed by session, mirrored synchronously into a durable
// GORM-backed table so every execution is replayable and inspectable.
package memory
