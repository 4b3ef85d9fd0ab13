package drive

import (
	"bytes"
	"io"
)

// Content wraps the byte source of an upload so callers can hand over either
// an in-memory buffer (photos) or a stream (the rendered PDF) without the
// repository caring which one it got.
type Content struct {
	reader io.Reader
}

// BytesContent builds a Content from an in-memory buffer.
func BytesContent(data []byte) Content {
	return Content{reader: bytes.NewReader(data)}
}

// ReaderContent builds a Content from a readable stream. The caller keeps
// ownership of the stream and closes it after the upload returns.
func ReaderContent(r io.Reader) Content {
	return Content{reader: r}
}

// Reader exposes the underlying byte source.
func (c Content) Reader() io.Reader {
	return c.reader
}
