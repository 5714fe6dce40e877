package pointcodec

import (
	"errors"
	"fmt"
	"io"
)

// Encoder writes a stream of encoded points. The stream carries no header, it
// must be read back with an accessor of the same layout.
type Encoder[P any] struct {
	w       io.Writer
	a       *Accessor[P]
	scratch []byte
}

func NewEncoder[P any](w io.Writer, a *Accessor[P]) *Encoder[P] {
	return &Encoder[P]{w: w, a: a}
}

// Encode writes points to the underlying writer with a single write call.
func (e *Encoder[P]) Encode(points ...P) (err error) {
	e.scratch = e.scratch[:0]
	for i := range points {
		e.scratch, err = e.a.AppendEncode(e.scratch, &points[i])
		if err != nil {
			return err
		}
	}
	_, err = e.w.Write(e.scratch)
	return err
}

// Decoder reads a stream of points written by [Encoder].
type Decoder[P any] struct {
	r       io.Reader
	a       *Accessor[P]
	scratch []byte
}

func NewDecoder[P any](r io.Reader, a *Accessor[P]) *Decoder[P] {
	return &Decoder[P]{r: r, a: a, scratch: make([]byte, a.Size())}
}

// Decode reads the next point into p. It returns [io.EOF] when the stream ends
// between points and [ErrShortBuffer] when it ends inside one.
func (d *Decoder[P]) Decode(p *P) error {
	if p == nil {
		return fmt.Errorf("%w: nil point", ErrInvalidArgument)
	}
	_, err := io.ReadFull(d.r, d.scratch)
	if errors.Is(err, io.ErrUnexpectedEOF) {
		return fmt.Errorf("%w: truncated point stream", ErrShortBuffer)
	} else if err != nil {
		return err
	}
	return d.a.Decode(d.scratch, p)
}

// DecodeAll reads points until the stream ends and appends them to dst.
func (d *Decoder[P]) DecodeAll(dst []P) ([]P, error) {
	var p P
	for {
		err := d.Decode(&p)
		if err == io.EOF {
			return dst, nil
		} else if err != nil {
			return dst, err
		}
		dst = append(dst, p)
	}
}
