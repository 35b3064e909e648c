// Package config resolves the supervisor's tunables — result cache
// capacity, worker queue size, and thread count per worker — from
// environment variables with an optional YAML override file, in the style
// of cmd/node and cmd/coordinator's getenv/mustGetenv helpers.
//
// The historical defaults (cache capacity 512, queue size 16, 4 threads
// per worker) are kept as this package's zero-value-free defaults, and an
// operator can override them without recompiling by setting an env var or
// pointing at a YAML file.
package config
