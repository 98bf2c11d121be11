// Command talkcut drives the conference batch pipeline: it parses the talk
// spreadsheet, downloads each room's stream, cuts per-talk clips, and
// publishes or retags them on YouTube.
package main
