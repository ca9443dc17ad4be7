package extract

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/gabriel-vasile/mimetype"
	"golang.org/x/net/html/charset"
	"golang.org/x/text/transform"
)

// DefaultBinaryMIME is assumed for binary documents whose type cannot be
// detected.
const DefaultBinaryMIME = "application/pdf"

// Kind is how a file is sent to the service.
type Kind int

const (
	// KindText files are sent as literal text.
	KindText Kind = iota
	// KindBinary files are sent as inline binary content.
	KindBinary
)

func (k Kind) String() string {
	if k == KindText {
		return "text"
	}

	return "binary"
}

var textExtensions = map[string]bool{".csv": true, ".txt": true}

// Classify decides how name is sent and returns its MIME type. Files with a
// .csv or .txt extension, or whose content is detected as text/*, are text.
func Classify(name string, data []byte) (Kind, string) {
	mime := DetectMIME(data)

	if textExtensions[strings.ToLower(filepath.Ext(name))] {
		if !strings.HasPrefix(mime, "text/") {
			mime = "text/plain"
		}

		return KindText, mime
	}

	if strings.HasPrefix(mime, "text/") {
		return KindText, mime
	}

	if mime == "" || mime == "application/octet-stream" {
		mime = DefaultBinaryMIME
	}

	return KindBinary, mime
}

// DetectMIME sniffs data with the stdlib detector and asks the broader
// mimetype library when the result is a container or unknown, so office
// documents get their own type instead of application/zip. Parameters such
// as charset are kept.
func DetectMIME(data []byte) string {
	if len(data) == 0 {
		return "application/octet-stream"
	}

	mt := http.DetectContentType(data)

	switch mt {
	case "application/octet-stream", "application/zip":
		return mimetype.Detect(data).String()
	default:
		return mt
	}
}

// MediaType strips parameters from a MIME type.
func MediaType(mime string) string {
	base, _, _ := strings.Cut(mime, ";")

	return strings.TrimSpace(base)
}

// DecodeText returns data as UTF-8 text with normalised line endings. Input
// that is not valid UTF-8 is transcoded using the encoding named by mime or
// sniffed from the content. A utf-8 charset on such input is ignored; the
// stdlib detector labels every plain text that way.
func DecodeText(data []byte, mime string) (string, error) {
	if utf8.Valid(data) {
		return normalizeNewlines(string(bytes.TrimPrefix(data, utf8BOM))), nil
	}

	if strings.Contains(strings.ToLower(mime), "utf-8") {
		mime = MediaType(mime)
	}

	enc, name, _ := charset.DetermineEncoding(data, mime)

	decoded, err := io.ReadAll(transform.NewReader(bytes.NewReader(data), enc.NewDecoder()))
	if err != nil {
		return "", fmt.Errorf("transcode from %s: %w", name, err)
	}

	if !utf8.Valid(decoded) {
		return "", errors.New("transcoded text is not valid utf-8")
	}

	return normalizeNewlines(string(decoded)), nil
}

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

func normalizeNewlines(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")

	return strings.ReplaceAll(s, "\r", "\n")
}
