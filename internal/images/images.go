// Package images sniffs uploaded image formats and builds the data URIs the
// chat stores and echoes back to the browser.
package images

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"image"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
)

// DefaultFormat is used when the decoder cannot name the format.
const DefaultFormat = "jpeg"

// ErrUndecodable indicates the bytes are not a readable image.
var ErrUndecodable = errors.New("undecodable image data")

// DetectFormat decodes just enough of the payload to name its format
// (lowercase, e.g. "jpeg", "png", "gif").
func DetectFormat(data []byte) (string, error) {
	_, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUndecodable, err)
	}
	if format == "" {
		return DefaultFormat, nil
	}
	return format, nil
}

// DataURI encodes image bytes as data:image/<format>;base64,<payload>.
func DataURI(format string, data []byte) string {
	return fmt.Sprintf("data:image/%s;base64,%s", format, base64.StdEncoding.EncodeToString(data))
}
