// Package pipeline orchestrates a full batch run: parse the spreadsheet,
// group talks by room, then per room download the stream, cut each talk, and
// publish or retag it. Processing is strictly sequential and guarded by a
// run lock plus a SQLite ledger so interrupted batches resume cleanly.
package pipeline
