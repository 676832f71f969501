// Package imaging determines the true format of uploaded image bytes.
// The client-supplied filename is never consulted; a text file renamed
// photo.jpg is still a text file.
package imaging

import (
	"bytes"
	"errors"
)

// Format is the closed set of image formats the service accepts.
type Format int

const (
	FormatUnknown Format = iota
	FormatJPEG
	FormatPNG
)

// ErrUnknownFormat is returned by Sniff for anything outside the allow-list.
var ErrUnknownFormat = errors.New("unrecognized image format")

var (
	jpegMagic = []byte{0xFF, 0xD8, 0xFF}
	pngMagic  = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1A, '\n'}
)

// Sniff inspects the leading bytes of data and returns the detected format.
// It is a pure function over the buffer so validation is testable without
// any I/O or decoder involvement.
func Sniff(data []byte) (Format, error) {
	switch {
	case bytes.HasPrefix(data, jpegMagic):
		return FormatJPEG, nil
	case bytes.HasPrefix(data, pngMagic):
		return FormatPNG, nil
	default:
		return FormatUnknown, ErrUnknownFormat
	}
}

// Ext returns the canonical file extension for the format, without the dot.
func (f Format) Ext() string {
	switch f {
	case FormatJPEG:
		return "jpeg"
	case FormatPNG:
		return "png"
	default:
		return ""
	}
}

// MIME returns the media type used when inlining the image in a data URI.
func (f Format) MIME() string {
	switch f {
	case FormatJPEG:
		return "image/jpeg"
	case FormatPNG:
		return "image/png"
	default:
		return "application/octet-stream"
	}
}

func (f Format) String() string {
	if f == FormatUnknown {
		return "unknown"
	}
	return f.Ext()
}
