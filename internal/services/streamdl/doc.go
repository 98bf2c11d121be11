// Package streamdl wraps the yt-dlp command-line downloader used to fetch
// each room's recorded stream before extraction.
package streamdl
