package automation

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// ErrMissingContentLength is returned when a header block ends without a
// Content-Length line.
var ErrMissingContentLength = errors.New("missing Content-Length header")

// maxFrameSize bounds a single message body.
const maxFrameSize = 64 << 20

// FrameError reports a malformed frame whose header block was fully
// consumed. The reader is left at the start of the next frame.
type FrameError struct {
	Err error
}

func (e *FrameError) Error() string { return e.Err.Error() }

func (e *FrameError) Unwrap() error { return e.Err }

// ReadFrame reads one Content-Length framed message. It returns io.EOF
// when the stream ends cleanly before a new header block starts and
// io.ErrUnexpectedEOF when it ends inside a frame. Malformed headers and
// oversized frames yield a *FrameError.
func ReadFrame(r *bufio.Reader) ([]byte, error) {
	length := -1
	sawHeader := false
	var headerErr error
	for {
		line, err := r.ReadString('\n')
		if err != nil {
			if errors.Is(err, io.EOF) && line == "" && !sawHeader {
				return nil, io.EOF
			}
			if errors.Is(err, io.EOF) {
				return nil, io.ErrUnexpectedEOF
			}
			return nil, err
		}
		if line == "\r\n" || line == "\n" {
			break
		}
		sawHeader = true
		name, value, ok := strings.Cut(strings.TrimRight(line, "\r\n"), ":")
		if ok && strings.EqualFold(strings.TrimSpace(name), "Content-Length") {
			n, err := strconv.Atoi(strings.TrimSpace(value))
			if err != nil || n < 0 {
				headerErr = fmt.Errorf("invalid Content-Length %q", strings.TrimSpace(value))
				continue
			}
			length = n
		}
	}

	if headerErr != nil {
		return nil, &FrameError{Err: headerErr}
	}
	if length < 0 {
		return nil, &FrameError{Err: ErrMissingContentLength}
	}
	if length > maxFrameSize {
		if _, err := r.Discard(length); err != nil {
			return nil, io.ErrUnexpectedEOF
		}
		return nil, &FrameError{Err: fmt.Errorf("frame of %d bytes exceeds limit", length)}
	}
	body := make([]byte, length)
	if _, err := io.ReadFull(r, body); err != nil {
		if errors.Is(err, io.EOF) {
			err = io.ErrUnexpectedEOF
		}
		return nil, fmt.Errorf("reading frame body: %w", err)
	}
	return body, nil
}

// WriteFrame writes payload with its Content-Length header.
func WriteFrame(w io.Writer, payload []byte) error {
	if _, err := fmt.Fprintf(w, "Content-Length: %d\r\n\r\n", len(payload)); err != nil {
		return err
	}
	_, err := w.Write(payload)
	return err
}
