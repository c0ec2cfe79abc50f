// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package ollama

import (
	"bufio"
	"bytes"
	"encoding/json"
	"io"

	"go.uber.org/zap"
)

// =============================================================================
// STREAM
// =============================================================================

// FragmentSource is anything that yields fragments until io.EOF.
type FragmentSource interface {
	Next() (Fragment, error)
}

// Stream reads newline-delimited JSON from a streaming generate response.
// It is lazy, finite and cannot be restarted. Not safe for concurrent use.
type Stream struct {
	body   io.ReadCloser
	reader *bufio.Reader
	logger *zap.Logger
	done   bool
	err    error
}

func newStream(body io.ReadCloser, logger *zap.Logger) *Stream {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Stream{
		body:   body,
		reader: bufio.NewReader(body),
		logger: logger,
	}
}

// NewStream wraps an NDJSON body. Used by callers that already hold a
// response, and by tests.
func NewStream(r io.Reader) *Stream {
	rc, ok := r.(io.ReadCloser)
	if !ok {
		rc = io.NopCloser(r)
	}
	return newStream(rc, nil)
}

// Next returns the next fragment. It returns io.EOF after the fragment
// marked Done, or when the body ends. Malformed lines are skipped.
// A line carrying an "error" field ends the stream with a backend error.
func (s *Stream) Next() (Fragment, error) {
	if s.err != nil {
		return Fragment{}, s.err
	}
	if s.done {
		return Fragment{}, io.EOF
	}

	for {
		line, readErr := s.reader.ReadBytes('\n')
		line = bytes.TrimSpace(line)

		if len(line) > 0 {
			frag, ok, err := s.decode(line)
			if err != nil {
				s.err = err
				return Fragment{}, err
			}
			if ok {
				if frag.Done {
					s.done = true
				}
				return frag, nil
			}
		}

		if readErr != nil {
			s.done = true
			if readErr == io.EOF {
				return Fragment{}, io.EOF
			}
			s.err = classifyTransportError(readErr)
			return Fragment{}, s.err
		}
	}
}

// decode parses one line. ok is false for lines that should be skipped.
func (s *Stream) decode(line []byte) (Fragment, bool, error) {
	var resp GenerateResponse
	if err := json.Unmarshal(line, &resp); err != nil {
		s.logger.Debug("skipping malformed stream line",
			zap.ByteString("line", line),
			zap.Error(err))
		return Fragment{}, false, nil
	}

	if resp.Error != "" {
		return Fragment{}, false, &ClientError{Type: ErrTypeBackend, Message: resp.Error}
	}

	return Fragment{Text: resp.Response, Done: resp.Done}, true, nil
}

// Close releases the underlying response body.
func (s *Stream) Close() error {
	s.done = true
	return s.body.Close()
}
