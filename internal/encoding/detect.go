package encoding

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"unicode/utf8"

	"github.com/saintfish/chardet"
	xencoding "golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/simplifiedchinese"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

const peekSize = 4096

var (
	bomUTF8    = []byte{0xEF, 0xBB, 0xBF}
	bomUTF16LE = []byte{0xFF, 0xFE}
	bomUTF16BE = []byte{0xFE, 0xFF}
)

type options struct {
	prefer []xencoding.Encoding
}

type Option func(*options)

// Prefer lists encodings to try, in order, before heuristic detection when
// the input is not UTF-8. An encoding is chosen if it decodes the sample cleanly.
func Prefer(encs ...xencoding.Encoding) Option {
	return func(o *options) { o.prefer = append(o.prefer, encs...) }
}

// GB18030 is the superset of GBK used by Chinese payment app bill exports.
var GB18030 xencoding.Encoding = simplifiedchinese.GB18030

// NewUTF8Reader detects the encoding of the input and returns a reader
// that decodes the content to UTF-8.
//
// Detection order:
//  1. Check for BOM (UTF-8 BOM is stripped; UTF-16 LE/BE is decoded)
//  2. Validate if the content is valid UTF-8 and return as-is
//  3. Preferred encodings that decode the sample without errors
//  4. Heuristic detection via chardet
//  5. Fallback to Windows-1252
func NewUTF8Reader(r io.Reader, opts ...Option) (io.Reader, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	br := bufio.NewReaderSize(r, peekSize)

	buf, err := br.Peek(peekSize)
	if err != nil && err != io.EOF {
		return nil, fmt.Errorf("peek: %w", err)
	}

	// 1. Check for BOM.
	if bytes.HasPrefix(buf, bomUTF8) {
		_, _ = br.Discard(len(bomUTF8))
		return br, nil
	}

	if bytes.HasPrefix(buf, bomUTF16LE) {
		decoder := unicode.UTF16(unicode.LittleEndian, unicode.UseBOM).NewDecoder()
		return transform.NewReader(br, decoder), nil
	}

	if bytes.HasPrefix(buf, bomUTF16BE) {
		decoder := unicode.UTF16(unicode.BigEndian, unicode.UseBOM).NewDecoder()
		return transform.NewReader(br, decoder), nil
	}

	// A full peek may end mid-character; judge only the complete prefix.
	sample := buf
	if len(buf) == peekSize {
		sample = buf[:len(buf)-utf8.UTFMax]
	}

	// 2. If the content is valid UTF-8, return as-is.
	if utf8.Valid(sample) {
		return br, nil
	}

	// 3. Preferred encodings.
	for _, e := range o.prefer {
		if decodesCleanly(e, sample) {
			return transform.NewReader(br, e.NewDecoder()), nil
		}
	}

	// 4. Heuristic detection via chardet.
	detector := chardet.NewTextDetector()

	result, detectErr := detector.DetectBest(buf)
	if detectErr == nil {
		switch result.Charset {
		case "UTF-8":
			return br, nil
		case "ISO-8859-1", "windows-1252":
			return transform.NewReader(br, charmap.Windows1252.NewDecoder()), nil
		case "ISO-8859-9":
			return transform.NewReader(br, charmap.ISO8859_9.NewDecoder()), nil
		}
	}

	// 5. Fallback to Windows-1252.
	return transform.NewReader(br, charmap.Windows1252.NewDecoder()), nil
}

func decodesCleanly(e xencoding.Encoding, sample []byte) bool {
	out, err := e.NewDecoder().Bytes(sample)
	if err != nil {
		return false
	}

	return !bytes.ContainsRune(out, utf8.RuneError)
}
