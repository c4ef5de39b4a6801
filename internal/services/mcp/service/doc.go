// Package service hosts the MCP server that exposes ads reporting and
// mutation tools over stdio or HTTP transports.
package service
