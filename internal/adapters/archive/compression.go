package archive

import (
	"bufio"
	"bytes"
	"io"

	"github.com/klauspost/compress/zstd"
	"go.trai.ch/quick/internal/core/domain"
	"go.trai.ch/zerr"
)

var zstdMagic = []byte{0x28, 0xb5, 0x2f, 0xfd}

// decompress returns a reader over the tar stream in r, unwrapping a zstd frame when present.
func decompress(r io.Reader) (io.Reader, func(), error) {
	br := bufio.NewReader(r)
	magic, err := br.Peek(len(zstdMagic))
	if err != nil && err != io.EOF {
		return nil, nil, zerr.Wrap(err, domain.ErrArchiveReadFailed.Error())
	}
	if !bytes.Equal(magic, zstdMagic) {
		return br, func() {}, nil
	}

	dec, err := zstd.NewReader(br)
	if err != nil {
		return nil, nil, zerr.Wrap(err, domain.ErrArchiveReadFailed.Error())
	}
	return dec, dec.Close, nil
}

// compress wraps w according to c. The returned close function flushes the frame.
func compress(w io.Writer, c domain.Compression) (io.Writer, func() error, error) {
	if c != domain.CompressionZstd {
		return w, func() error { return nil }, nil
	}
	enc, err := zstd.NewWriter(w)
	if err != nil {
		return nil, nil, zerr.Wrap(err, domain.ErrArchiveWriteFailed.Error())
	}
	return enc, enc.Close, nil
}
