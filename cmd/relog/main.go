// Relog is a request-logging middleware server.
//
// It records each inbound HTTP request's lifecycle (pending, completed,
// slow, error) into a key-value store with type-specific expiration, and
// exposes a mutable per-request record that downstream handlers can amend
// before the final write.
//
// Usage:
//
//	# Start server with default configuration
//	relog run
//
//	# Start with custom configuration file
//	relog run --config /path/to/config.yaml
//
//	# Validate configuration without starting
//	relog run --dry-run
//
//	# Fetch a stored record by type and id
//	relog get --type completed --id 42
//
//	# Show version information
//	relog version
package main

func main() {
	Execute()
}
