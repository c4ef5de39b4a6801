// Package domain defines the MCP tool surface of the ads bridge: typed tool
// inputs and results, tool definitions, and the handlers that bind them to
// the cache-aware ads client.
package domain
