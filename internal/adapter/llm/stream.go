package llm

// SliceStream yields a fixed list of fragments and then ends with err, which
// may be nil. It backs the mock client and test fakes.
type SliceStream struct {
	fragments []string
	err       error
	pos       int
	current   string
	closed    bool
}

// NewSliceStream creates a stream over fragments that fails with err once
// the fragments are exhausted.
func NewSliceStream(fragments []string, err error) *SliceStream {
	return &SliceStream{fragments: fragments, err: err}
}

func (s *SliceStream) Next() bool {
	if s.closed || s.pos >= len(s.fragments) {
		return false
	}
	s.current = s.fragments[s.pos]
	s.pos++
	return true
}

func (s *SliceStream) Current() string {
	return s.current
}

func (s *SliceStream) Err() error {
	if s.pos < len(s.fragments) {
		return nil
	}
	return s.err
}

func (s *SliceStream) Close() error {
	s.closed = true
	return nil
}

// Closed reports whether Close has been called.
func (s *SliceStream) Closed() bool {
	return s.closed
}
