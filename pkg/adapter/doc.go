// Package adapter provides the unified interface for all sink database adapters.
// This package defines the contracts that engine-specific implementations must follow:
// connection establishment, schema introspection, and idempotent DDL execution.
package adapter
