package tabular

import (
	"io"

	"github.com/dsctl/dsctl/errors"
)

// Skip discards the first n rows of src. Used by bulk commands to resume
// an interrupted run by index.
func Skip(src Source, n int) Source {
	return &skipSource{src: src, n: n}
}

type skipSource struct {
	src  Source
	n    int
	done bool
}

func (s *skipSource) Next() (Row, error) {
	if !s.done {
		for i := 0; i < s.n; i++ {
			if _, err := s.src.Next(); err != nil {
				return Row{}, err
			}
		}
		s.done = true
	}
	return s.src.Next()
}

func (s *skipSource) Close() error { return s.src.Close() }

// SkipToKey discards rows until one whose identity cell (id or
// profile.login) equals key; that row is the first one returned.
// Reaching the end without a match is an error rather than a silent
// empty run.
func SkipToKey(src Source, key string) Source {
	return &skipKeySource{src: src, key: key}
}

type skipKeySource struct {
	src   Source
	key   string
	found bool
}

func (s *skipKeySource) Next() (Row, error) {
	if s.found {
		return s.src.Next()
	}
	for {
		row, err := s.src.Next()
		if err == io.EOF {
			return Row{}, errors.Newf(errors.ErrNotFound, "no row with id or profile.login %q", s.key)
		} else if err != nil {
			return Row{}, err
		}
		if row.Values["id"] == s.key || row.Values["profile.login"] == s.key {
			s.found = true
			return row, nil
		}
	}
}

func (s *skipKeySource) Close() error { return s.src.Close() }

// Limit ends the sequence after n rows. n <= 0 means no limit.
func Limit(src Source, n int) Source {
	if n <= 0 {
		return src
	}
	return &limitSource{src: src, left: n}
}

type limitSource struct {
	src  Source
	left int
}

func (s *limitSource) Next() (Row, error) {
	if s.left == 0 {
		return Row{}, io.EOF
	}
	row, err := s.src.Next()
	if err != nil {
		return Row{}, err
	}
	s.left--
	return row, nil
}

func (s *limitSource) Close() error { return s.src.Close() }
