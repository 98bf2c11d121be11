// Package youtube implements the video platform operations the pipeline
// consumes: uploading clips, rewriting metadata in tag mode, and rebuilding
// per-room playlists via the YouTube Data API v3.
package youtube
