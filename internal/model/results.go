package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// Result is the tagged union over the six scan result variants.
// Only the types in this package implement it.
type Result interface {
	Kind() Kind
	Meta() Envelope
	isResult()
}

// Envelope carries the fields every scan result shares. A non-empty
// ReportFilename is the only signal that a downloadable report exists.
type Envelope struct {
	Message        string `json:"message,omitempty"`
	ReportFilename string `json:"report_filename,omitempty"`
}

// HasReport reports whether the backend announced a report file.
func (e Envelope) HasReport() bool { return e.ReportFilename != "" }

func (e Envelope) Meta() Envelope { return e }

// PortResult is the outcome of a port scan.
type PortResult struct {
	Envelope
	Target   string        `json:"target"`
	TargetIP string        `json:"target_ip"`
	Results  []PortFinding `json:"results"`
}

// PortFinding is one open port. CVE is empty when no known vulnerability
// matched the banner.
type PortFinding struct {
	Port   int    `json:"port"`
	Banner string `json:"banner"`
	CVE    string `json:"cve,omitempty"`
}

// DomainResult is the outcome of domain reconnaissance.
type DomainResult struct {
	Envelope
	Domain     string            `json:"domain"`
	Subdomains []string          `json:"subdomains"`
	DNS        Ordered[[]string] `json:"dns"`
	Whois      Whois             `json:"whois"`
}

// Whois holds the registration fields the dashboard shows. Any of them may
// be empty.
type Whois struct {
	Registrar      string `json:"registrar,omitempty"`
	CreationDate   string `json:"creation_date,omitempty"`
	ExpirationDate string `json:"expiration_date,omitempty"`
}

// SocialResult lists the sites where a username has a profile.
type SocialResult struct {
	Envelope
	Username string          `json:"username"`
	Results  []SocialAccount `json:"results"`
}

type SocialAccount struct {
	Site string `json:"site"`
	URL  string `json:"url"`
}

// BreachStatus is the verdict of an email breach check.
type BreachStatus string

const (
	StatusSafe     BreachStatus = "safe"
	StatusBreached BreachStatus = "breached"

	// statusPwned is the spelling some backends use for StatusBreached.
	statusPwned BreachStatus = "pwned"
)

// EmailResult is the outcome of an email breach check. Breaches is only
// meaningful when Status is StatusBreached.
type EmailResult struct {
	Envelope
	Email    string       `json:"email"`
	Status   BreachStatus `json:"status"`
	Breaches []Breach     `json:"breaches,omitempty"`
}

type Breach struct {
	Name   string      `json:"name"`
	Domain string      `json:"domain"`
	Count  RecordCount `json:"count"`
}

// RecordCount is the number of exposed records of a breach. Backends send
// either a number or a placeholder string such as "N/A".
type RecordCount struct {
	n     int64
	text  string
	valid bool
}

// Count returns a numeric RecordCount.
func Count(n int64) RecordCount { return RecordCount{n: n, valid: true} }

// CountText returns a placeholder RecordCount such as "N/A".
func CountText(s string) RecordCount { return RecordCount{text: s} }

// Int returns the numeric value and whether the count is numeric.
func (c RecordCount) Int() (int64, bool) { return c.n, c.valid }

func (c RecordCount) String() string {
	if c.valid {
		return strconv.FormatInt(c.n, 10)
	}
	if c.text == "" {
		return "N/A"
	}
	return c.text
}

func (c *RecordCount) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case bytes.Equal(data, []byte("null")):
		*c = RecordCount{}
	case len(data) > 0 && data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		if n, err := strconv.ParseInt(s, 10, 64); err == nil {
			*c = Count(n)
			return nil
		}
		*c = RecordCount{text: s}
	default:
		var num json.Number
		if err := json.Unmarshal(data, &num); err != nil {
			return fmt.Errorf("record count: %w", err)
		}
		if n, err := num.Int64(); err == nil {
			*c = Count(n)
			return nil
		}
		*c = RecordCount{text: num.String()}
	}
	return nil
}

func (c RecordCount) MarshalJSON() ([]byte, error) {
	if c.valid {
		return []byte(strconv.FormatInt(c.n, 10)), nil
	}
	if c.text == "" {
		return []byte("null"), nil
	}
	return json.Marshal(c.text)
}

// TechResult is the outcome of technology enumeration.
type TechResult struct {
	Envelope
	URL       string            `json:"url"`
	Headers   Ordered[string]   `json:"headers"`
	TechStack Ordered[[]string] `json:"tech_stack"`
}

// DirectoryResult is the outcome of a directory brute-force scan.
type DirectoryResult struct {
	Envelope
	Target  string          `json:"target"`
	Results []DirectoryPath `json:"results"`
}

type DirectoryPath struct {
	StatusCode int    `json:"status_code"`
	URL        string `json:"url"`
}

func (PortResult) Kind() Kind      { return KindPort }
func (DomainResult) Kind() Kind    { return KindDomain }
func (SocialResult) Kind() Kind    { return KindSocial }
func (EmailResult) Kind() Kind     { return KindEmail }
func (TechResult) Kind() Kind      { return KindTech }
func (DirectoryResult) Kind() Kind { return KindDirectory }

func (*PortResult) isResult()      {}
func (*DomainResult) isResult()    {}
func (*SocialResult) isResult()    {}
func (*EmailResult) isResult()     {}
func (*TechResult) isResult()      {}
func (*DirectoryResult) isResult() {}

// Subject returns what a result is about: the host, domain, username, email
// or URL that was scanned.
func Subject(r Result) string {
	switch v := r.(type) {
	case *PortResult:
		return v.Target
	case *DomainResult:
		return v.Domain
	case *SocialResult:
		return v.Username
	case *EmailResult:
		return v.Email
	case *TechResult:
		return v.URL
	case *DirectoryResult:
		return v.Target
	}
	return ""
}
