package model

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

// ErrBackend is matched by every *BackendError.
var ErrBackend = errors.New("backend reported an error")

// BackendError is a response whose body carried a non-empty "error" field.
// Message is shown to the user verbatim.
type BackendError struct {
	Message string
}

func (e *BackendError) Error() string { return "backend error: " + e.Message }

func (e *BackendError) Is(target error) bool { return target == ErrBackend }

// DecodeError is returned when a response body is not the shape its scan
// kind promises. Field names the offending JSON field, if known.
type DecodeError struct {
	Kind  Kind
	Field string
	Err   error
}

func (e *DecodeError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("decode %s result: field %q: %v", e.Kind, e.Field, e.Err)
	}
	return fmt.Sprintf("decode %s result: %v", e.Kind, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

var errMissing = errors.New("missing or null")

// requiredFields lists the top-level fields a renderer cannot do without.
var requiredFields = map[Kind][]string{
	KindPort:      {"target", "target_ip", "results"},
	KindDomain:    {"domain", "subdomains", "dns"},
	KindSocial:    {"username", "results"},
	KindEmail:     {"email", "status"},
	KindTech:      {"url", "headers", "tech_stack"},
	KindDirectory: {"target", "results"},
}

// CheckError returns a *BackendError when body is a JSON object with a
// non-empty "error" string. It returns nil for any other body, including
// bodies that are not JSON at all.
func CheckError(body []byte) error {
	var probe struct {
		Error json.RawMessage `json:"error"`
	}
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return nil
	}
	if err := json.Unmarshal(trimmed, &probe); err != nil || len(probe.Error) == 0 {
		return nil
	}
	// Falsy JSON literals mean "no error"; any non-empty string is an error,
	// whatever its text.
	raw := bytes.TrimSpace(probe.Error)
	switch string(raw) {
	case "null", "false", "0", `""`:
		return nil
	}
	var msg string
	if err := json.Unmarshal(raw, &msg); err != nil {
		// Non-string error values are still errors; show their JSON text.
		msg = string(raw)
	}
	return &BackendError{Message: msg}
}

// Decode interprets body as the result variant for kind. A body carrying an
// error field yields a *BackendError; a body of the wrong shape yields a
// *DecodeError.
func Decode(kind Kind, body []byte) (Result, error) {
	if err := CheckError(body); err != nil {
		return nil, err
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, &DecodeError{Kind: kind, Err: err}
	}
	for _, f := range requiredFields[kind] {
		v, ok := raw[f]
		if !ok || bytes.Equal(bytes.TrimSpace(v), []byte("null")) {
			return nil, &DecodeError{Kind: kind, Field: f, Err: errMissing}
		}
	}

	var res Result
	switch kind {
	case KindPort:
		res = &PortResult{}
	case KindDomain:
		res = &DomainResult{}
	case KindSocial:
		res = &SocialResult{}
	case KindEmail:
		res = &EmailResult{}
	case KindTech:
		res = &TechResult{}
	case KindDirectory:
		res = &DirectoryResult{}
	default:
		return nil, &DecodeError{Kind: kind, Err: fmt.Errorf("unknown scan kind")}
	}

	if err := json.Unmarshal(body, res); err != nil {
		de := &DecodeError{Kind: kind, Err: err}
		var te *json.UnmarshalTypeError
		if errors.As(err, &te) {
			de.Field = te.Field
		}
		return nil, de
	}

	if email, ok := res.(*EmailResult); ok {
		if err := email.normalize(); err != nil {
			return nil, err
		}
	}
	return res, nil
}

func (r *EmailResult) normalize() error {
	switch r.Status {
	case StatusSafe:
		r.Breaches = nil
	case StatusBreached, statusPwned:
		r.Status = StatusBreached
		if r.Breaches == nil {
			return &DecodeError{Kind: KindEmail, Field: "breaches", Err: errMissing}
		}
	default:
		return &DecodeError{Kind: KindEmail, Field: "status", Err: fmt.Errorf("unknown status %q", r.Status)}
	}
	return nil
}
