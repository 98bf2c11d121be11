package talk

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"time"
)

// ErrUnknownOffset marks the spreadsheet's "???" placeholder.
var ErrUnknownOffset = errors.New("offset not yet known")

// offsetPattern matches stream offsets of the form 1h02m03s: hours unpadded,
// minutes and seconds zero-padded to two digits.
var offsetPattern = regexp.MustCompile(`^(\d+)h(\d{2})m(\d{2})s$`)

// timeFragmentPattern matches the deep-link fragment the CFP export sometimes
// appends to stream URLs. It must never reach the downloader.
var timeFragmentPattern = regexp.MustCompile(`&t=\d+h\d{2}m\d{2}s`)

// ParseOffset parses a duration string of the form <H>h<MM>m<SS>s into an
// offset since stream start. Empty strings and the "???" placeholder are
// rejected, not parsed.
func ParseOffset(value string) (time.Duration, error) {
	if value == "" {
		return 0, errors.New("empty offset")
	}
	if value == UnknownOffset {
		return 0, ErrUnknownOffset
	}
	match := offsetPattern.FindStringSubmatch(value)
	if match == nil {
		return 0, fmt.Errorf("malformed offset %q (want <H>h<MM>m<SS>s)", value)
	}
	hours, _ := strconv.Atoi(match[1])
	minutes, _ := strconv.Atoi(match[2])
	seconds, _ := strconv.Atoi(match[3])
	if minutes > 59 || seconds > 59 {
		return 0, fmt.Errorf("malformed offset %q: minutes and seconds must be below 60", value)
	}
	return time.Duration(hours)*time.Hour +
		time.Duration(minutes)*time.Minute +
		time.Duration(seconds)*time.Second, nil
}

// StripTimeFragment removes a trailing &t=<H>h<MM>m<SS>s deep link from a
// stream URL. URLs without the fragment are returned unchanged.
func StripTimeFragment(url string) string {
	return timeFragmentPattern.ReplaceAllString(url, "")
}
