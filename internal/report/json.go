package report

import (
	"encoding/json"
	"io"
)

// ErrorEnvelope is written instead of an audit when the site could not be
// audited.
type ErrorEnvelope struct {
	Error string `json:"error"`
	URL   string `json:"url"`
}

// WriteJSON writes a as one indented JSON document.
func WriteJSON(w io.Writer, a *Audit) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(a)
}

// WriteError writes the error envelope for url.
func WriteError(w io.Writer, url string, err error) error {
	msg := "unknown error"
	if err != nil {
		msg = err.Error()
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(ErrorEnvelope{Error: msg, URL: url})
}

// ReadJSON decodes an audit written by WriteJSON.
func ReadJSON(r io.Reader) (*Audit, error) {
	var a Audit
	if err := json.NewDecoder(r).Decode(&a); err != nil {
		return nil, err
	}
	return &a, nil
}
