package archive

import (
	"archive/tar"
	"bytes"
	"fmt"
	"strings"
	"time"

	"go.trai.ch/quick/internal/core/domain"
	"go.trai.ch/zerr"
)

const (
	blockSize  = 512
	nameSize   = 100
	prefixSize = 155

	paxMtime    = "mtime"
	paxPath     = "path"
	paxLinkpath = "linkpath"

	paxHeaderName = "././@PaxHeader"
)

// LegacyMtime is the whole-second timestamp written by older deterministic archive writers.
// Entries carrying it without a PAX mtime record are accepted as-is.
const LegacyMtime int64 = 1153704088

type paxRecord struct {
	key   string
	value string
}

// encode renders "{len} {key}={value}\n" where len counts the whole record, itself included.
func (r paxRecord) encode() string {
	rest := 3 + len(r.key) + len(r.value)
	lenLen, maxLen := 1, 10
	for rest+lenLen >= maxLen {
		lenLen++
		maxLen *= 10
	}
	return fmt.Sprintf("%d %s=%s\n", rest+lenLen, r.key, r.value)
}

// paxBlock encodes a typeflag 'x' header and its records, padded to whole blocks.
// archive/tar refuses to write extended headers by hand and only emits an mtime record
// for sub-second timestamps, so the block is assembled here.
func paxBlock(records []paxRecord) []byte {
	var body bytes.Buffer
	for _, r := range records {
		body.WriteString(r.encode())
	}

	hdr := make([]byte, blockSize)
	copy(hdr[0:nameSize], paxHeaderName)
	putOctal(hdr[100:108], 0o644)
	putOctal(hdr[108:116], 0)
	putOctal(hdr[116:124], 0)
	putOctal(hdr[124:136], int64(body.Len()))
	putOctal(hdr[136:148], 0)
	hdr[156] = tar.TypeXHeader
	copy(hdr[257:263], "ustar\x00")
	copy(hdr[263:265], "00")

	copy(hdr[148:156], "        ")
	var sum int64
	for _, b := range hdr {
		sum += int64(b)
	}
	copy(hdr[148:156], fmt.Sprintf("%06o\x00 ", sum))

	out := append(hdr, body.Bytes()...)
	if rem := len(out) % blockSize; rem != 0 {
		out = append(out, make([]byte, blockSize-rem)...)
	}
	return out
}

func putOctal(b []byte, v int64) {
	copy(b, fmt.Sprintf("%0*o\x00", len(b)-1, v))
}

// formatMtime renders t as {seconds}.{nanoseconds:09d}.
func formatMtime(t time.Time) string {
	return fmt.Sprintf("%d.%09d", t.Unix(), t.Nanosecond())
}

// entryMtime returns the high-resolution timestamp of an entry.
func entryMtime(hdr *tar.Header) (time.Time, error) {
	if _, ok := hdr.PAXRecords[paxMtime]; ok {
		return hdr.ModTime, nil
	}
	if hdr.ModTime.Unix() == LegacyMtime {
		return time.Unix(LegacyMtime, 0), nil
	}
	return time.Time{}, zerr.With(domain.ErrMissingTimestamp, "entry", hdr.Name)
}

// fitsUSTAR reports whether archive/tar can encode name without a PAX path record.
func fitsUSTAR(name string) bool {
	if !isASCII(name) {
		return false
	}
	if len(name) <= nameSize {
		return true
	}
	length := len(name)
	if length > prefixSize+1 {
		length = prefixSize + 1
	} else if name[length-1] == '/' {
		length--
	}
	i := strings.LastIndex(name[:length], "/")
	suffix := len(name) - i - 1
	return i > 0 && suffix > 0 && suffix <= nameSize && i <= prefixSize
}

func isASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] >= 0x80 || s[i] == 0 {
			return false
		}
	}
	return true
}

// fallbackName is the USTAR name recorded next to a PAX path for readers that ignore PAX.
func fallbackName(name string, sum uint64) string {
	fallback := fmt.Sprintf("@LongName/%016x", sum)
	if strings.HasSuffix(name, "/") {
		fallback += "/"
	}
	return fallback
}
