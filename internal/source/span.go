package source

import (
	"fmt"
)

// Span is a half-open byte range inside one file.
type Span struct {
	File  FileID
	Start uint32 // в байтах включительно
	End   uint32 // в байтах не включительно
}

func (s Span) Empty() bool {
	return s.Start == s.End
}

func (s Span) Len() uint32 {
	return s.End - s.Start
}

func (s Span) String() string {
	return fmt.Sprintf("%d:%d-%d", s.File, s.Start, s.End)
}

// Contains reports whether other lies fully inside s.
func (s Span) Contains(other Span) bool {
	return s.File == other.File && other.Start >= s.Start && other.End <= s.End
}

func (s Span) Cover(other Span) Span {
	if s.File != other.File {
		return s
	}
	if other.Start < s.Start {
		s.Start = other.Start
	}
	if other.End > s.End {
		s.End = other.End
	}
	return s
}

// ShiftLeft moves the span n bytes towards the file start.
// A shift past offset zero leaves the span unchanged.
func (s Span) ShiftLeft(n uint32) Span {
	if n > s.Start {
		return s
	}
	return Span{
		File:  s.File,
		Start: s.Start - n,
		End:   s.End - n,
	}
}

func (s Span) ShiftRight(n uint32) Span {
	return Span{
		File:  s.File,
		Start: s.Start + n,
		End:   s.End + n,
	}
}

// Sub returns the sub-range [start, end) relative to s.Start, clamped to s.
func (s Span) Sub(start, end uint32) Span {
	if end > s.Len() {
		end = s.Len()
	}
	if start > end {
		start = end
	}
	return Span{File: s.File, Start: s.Start + start, End: s.Start + end}
}
