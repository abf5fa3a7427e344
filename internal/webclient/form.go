package webclient

import (
	"bytes"
	"fmt"
	"mime/multipart"
	"net/http"
)

// FormField is one named value of a submitted form. Order is preserved on
// the wire, and a name may repeat.
type FormField struct {
	Name  string
	Value string
}

// NewMultipartRequest builds a POST whose body is fields encoded as
// multipart/form-data, the way a browser serializes a form.
func NewMultipartRequest(url string, fields []FormField) (*Request, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for _, f := range fields {
		if err := mw.WriteField(f.Name, f.Value); err != nil {
			return nil, fmt.Errorf("write form field %q: %w", f.Name, err)
		}
	}
	if err := mw.Close(); err != nil {
		return nil, fmt.Errorf("close multipart body: %w", err)
	}

	headers := http.Header{}
	headers.Set("Content-Type", mw.FormDataContentType())
	headers.Set("Accept", "application/json")
	return &Request{
		Method:  http.MethodPost,
		URL:     url,
		Headers: headers,
		Body:    buf.Bytes(),
	}, nil
}
