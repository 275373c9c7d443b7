package tabular

import "fmt"

// TextDecoder passes line-oriented exports (1C exchange files) through as text.
type TextDecoder struct{}

// Extensions returns the file extensions handled by the decoder.
func (TextDecoder) Extensions() []string { return []string{".txt"} }

// Decode converts the file to UTF-8 text.
func (TextDecoder) Decode(data []byte) (Content, error) {
	text, err := DecodeText(data)
	if err != nil {
		return Content{}, fmt.Errorf("decoding charset: %w", err)
	}
	return Content{Text: text}, nil
}
