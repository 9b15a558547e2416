// Package upload classifies files sent from the browser and builds the
// previews shown for them.
package upload

import (
	"bytes"
	"errors"
	"fmt"
	"mime"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/gabriel-vasile/mimetype"
	"golang.org/x/text/encoding/unicode"

	"github.com/livefir/widgetdemo/internal/frame"
)

const (
	// PreviewRows is the maximum number of CSV rows in a preview.
	PreviewRows = 5

	// DefaultMaxBytes bounds an upload when Options.MaxBytes is zero.
	DefaultMaxBytes = 5 << 20

	TypeCSV  = "text/csv"
	TypeText = "text/plain"
)

var (
	ErrEmpty           = errors.New("file is empty")
	ErrTooLarge        = errors.New("file is too large")
	ErrUnsupportedType = errors.New("unsupported file type")
	ErrInvalidUTF8     = errors.New("file is not valid UTF-8")
)

// File is an uploaded file as received from the client.
type File struct {
	Name    string
	Type    string // As declared by the browser, may be empty
	Size    int64  // As declared by the browser
	Content []byte
}

// Details is the summary shown right after an upload.
type Details struct {
	FileName string `json:"FileName"`
	FileType string `json:"FileType"`
	FileSize int64  `json:"FileSize"`
}

// Options restricts what is accepted.
type Options struct {
	MaxBytes   int64
	Extensions []string // Lower case, with dot. Defaults to .csv and .txt
}

func (o Options) maxBytes() int64 {
	if o.MaxBytes <= 0 {
		return DefaultMaxBytes
	}
	return o.MaxBytes
}

func (o Options) extensions() []string {
	if len(o.Extensions) == 0 {
		return []string{".csv", ".txt"}
	}
	return o.Extensions
}

// Result is a processed upload. PreviewErr is set when the file was accepted
// but its content could not be previewed.
type Result struct {
	Details    Details
	Type       string
	Frame      *frame.Frame // CSV preview, at most PreviewRows rows
	TotalRows  int
	Text       string // Text content
	PreviewErr error
}

// IsCSV reports whether the file was handled as CSV.
func (r *Result) IsCSV() bool { return r.Type == TypeCSV }

// IsText reports whether the file was handled as plain text.
func (r *Result) IsText() bool { return r.Type == TypeText }

// Process validates f and builds its preview. Validation failures are
// returned as errors; content problems end up in Result.PreviewErr.
func Process(f File, opts Options) (*Result, error) {
	if len(f.Content) == 0 {
		return nil, ErrEmpty
	}
	if max := opts.maxBytes(); int64(len(f.Content)) > max {
		return nil, fmt.Errorf("%w: %d bytes, limit is %d", ErrTooLarge, len(f.Content), max)
	}

	ext := strings.ToLower(filepath.Ext(f.Name))
	allowed := false
	for _, e := range opts.extensions() {
		if ext == e {
			allowed = true
			break
		}
	}
	if !allowed {
		return nil, fmt.Errorf("%w: %q (accepted: %s)", ErrUnsupportedType, f.Name, strings.Join(opts.extensions(), ", "))
	}

	typ, err := ResolveType(f)
	if err != nil {
		return nil, err
	}

	res := &Result{
		Details: Details{
			FileName: f.Name,
			FileType: typ,
			FileSize: int64(len(f.Content)),
		},
		Type: typ,
	}

	switch typ {
	case TypeCSV:
		text, err := DecodeText(f.Content)
		if err != nil {
			res.PreviewErr = err
			break
		}
		full, err := frame.ReadCSV(strings.NewReader(text))
		if err != nil {
			res.PreviewErr = err
			break
		}
		res.TotalRows = full.Len()
		res.Frame = full.Head(PreviewRows)
	case TypeText:
		res.Text, res.PreviewErr = DecodeText(f.Content)
	}

	return res, nil
}

// ResolveType picks text/csv or text/plain for f. The browser's declared
// type wins when it is one of the two. Otherwise the content must sniff as
// text and the extension decides.
func ResolveType(f File) (string, error) {
	if declared, _, err := mime.ParseMediaType(f.Type); err == nil {
		switch declared {
		case TypeCSV, TypeText:
			return declared, nil
		}
	}

	if !isTextual(f.Content) {
		return "", fmt.Errorf("%w: %q does not contain text (%s)", ErrUnsupportedType, f.Name, mimetype.Detect(f.Content).String())
	}

	switch strings.ToLower(filepath.Ext(f.Name)) {
	case ".csv":
		return TypeCSV, nil
	case ".txt":
		return TypeText, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnsupportedType, f.Name)
}

func isTextual(content []byte) bool {
	for m := mimetype.Detect(content); m != nil; m = m.Parent() {
		if m.Is(TypeText) {
			return true
		}
	}
	return false
}

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// DecodeText returns content as a string without a leading byte order mark.
// Invalid UTF-8 is rejected instead of being replaced, so nothing is lost.
func DecodeText(content []byte) (string, error) {
	if !utf8.Valid(content) {
		return "", ErrInvalidUTF8
	}
	if !bytes.HasPrefix(content, utf8BOM) {
		return string(content), nil
	}
	out, err := unicode.UTF8BOM.NewDecoder().Bytes(content)
	if err != nil {
		return "", fmt.Errorf("failed to decode text: %w", err)
	}
	return string(out), nil
}
