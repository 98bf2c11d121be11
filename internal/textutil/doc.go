// Package textutil provides text processing utilities for speaker names,
// platform escaping, and filename sanitization.
//
// The primary use cases are:
//   - Capitalizing speaker display names per word (space and hyphen delimited)
//   - Escaping titles for YouTube's rich-text rendering
//   - Down-converting markdown-flavored CFP abstracts to plain descriptions
//   - Sanitizing room names for safe filesystem use
package textutil
