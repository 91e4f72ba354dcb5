// Package server implements the MCP (Model Context Protocol) server for
// synthetic image generation tools.
//
// This package provides a JSON-RPC 2.0 server that exposes background sampling,
// collage composition and perspective overlay through the MCP protocol, so that
// an MCP client can generate training images without a separate pipeline.
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
// Background Sampling:
//   - background_sample: Write a random background image
//   - background_crop: Write a random resized crop of a random background
//
// Composition:
//   - image_collage: Tile images into a near-square grid
//   - image_overlay: Project a foreground onto four points of a background
//
// Basic Image Information:
//   - image_dimensions: Get width, height and channels
//
// Every tool that writes an image returns its path, width, height and channel
// count; background_crop also reports the source file, the cropped region and
// the interpolation used.
//
// # Caching
//
// Decoded images are cached by path and color mode for the lifetime of the
// server, and an output file's entry is evicted when it is rewritten.
// Samplers are cached per (root, grayscale) pair, so a background directory
// is listed once.
//
// # Error Handling
//
// Tool execution errors are returned as JSON-RPC error responses with:
//   - code: -32000 (tool execution failure) or standard JSON-RPC codes
//   - message: Human-readable error description
//   - data: Additional error details (typically the Go error string)
//
// # Usage
//
//	srv := server.New(cfg, logger)
//	if err := srv.Run(); err != nil {
//	    logger.Fatal("server stopped", "err", err)
//	}
package server
