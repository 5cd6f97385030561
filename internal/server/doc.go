// Package server implements the MCP (Model Context Protocol) server for staff
// line tracking.
//
// This package provides a JSON-RPC 2.0 server that exposes the edge mask,
// the column-by-column staff tracker and the filter simulator through the
// MCP protocol.
//
// # Protocol
//
// The server communicates over stdio using JSON-RPC 2.0:
//   - Input: JSON-RPC requests on stdin (one per line)
//   - Output: JSON-RPC responses on stdout
//
// Supported MCP methods:
//   - initialize: Protocol handshake
//   - tools/list: Enumerate available tools
//   - tools/call: Execute a tool with arguments
//   - ping: Health check
//
// # Available Tools
//
// Basic Image Information:
//   - image_load: Load image and get metadata
//   - image_dimensions: Get width and height
//
// Staff Tracking:
//   - staff_edge_mask: Horizontal edge mask as PNG
//   - staff_detect: Track staves and summarize them
//   - staff_render: Draw tracked staves over the image
//
// Filter Tuning:
//   - kalman_simulate: Run the filter on a synthetic noisy line
//
// Optional threshold, tolerance and min_length arguments default to the
// values in config.Config.
//
// # Image Caching
//
// The server maintains an in-memory cache of loaded images. Images are cached
// by path and reused across multiple tool calls, avoiding redundant disk I/O.
// The cache persists for the lifetime of the server process.
//
// # Error Handling
//
// Tool execution errors are returned as JSON-RPC error responses with:
//   - code: -32000 (tool execution failure), -32602 (malformed tools/call
//     params) or -32601 (unknown method)
//   - message: Human-readable error description
//   - data: The Go error string
//
// # Usage
//
//	cfg, err := config.Load()
//	if err != nil {
//	    return err
//	}
//	srv := server.New(cfg, server.WithLogger(cfg.Logger(os.Stderr)))
//	return srv.Run()
package server
