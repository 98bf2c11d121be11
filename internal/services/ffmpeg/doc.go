// Package ffmpeg wraps the ffmpeg command-line encoder that cuts each talk
// out of its room's stream using a configurable argument template.
package ffmpeg
