// Package document models the parts of a dashboard page the controllers
// touch: its forms and the elements their output is written into.
package document

import (
	"fmt"
	"html/template"
	"io"
	"sort"
	"strings"
	"sync"

	"github.com/PuerkitoBio/goquery"
)

// Form is a <form> element and the names of the fields it submits, in
// document order.
type Form struct {
	ID     string
	Fields []string
}

// Update is published whenever a mount's content is replaced.
type Update struct {
	Mount string        `json:"mount"`
	HTML  template.HTML `json:"html"`
}

// Document holds the forms and mounts of one rendered page. It is safe for
// concurrent use.
type Document struct {
	mu     sync.RWMutex
	forms  map[string]Form
	mounts map[string]*Mount

	subsMu  sync.Mutex
	subs    map[int]chan Update
	nextSub int
}

// Parse builds a Document from page markup. Every element with an id
// becomes a mount; <form> elements with an id are also recorded as forms.
func Parse(r io.Reader) (*Document, error) {
	gq, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("parse page markup: %w", err)
	}

	d := &Document{
		forms:  make(map[string]Form),
		mounts: make(map[string]*Mount),
		subs:   make(map[int]chan Update),
	}

	gq.Find("[id]").Each(func(_ int, s *goquery.Selection) {
		id, _ := s.Attr("id")
		id = strings.TrimSpace(id)
		if id == "" {
			return
		}
		if _, dup := d.mounts[id]; dup {
			return
		}
		d.mounts[id] = &Mount{id: id, doc: d}
		if goquery.NodeName(s) == "form" {
			d.forms[id] = Form{ID: id, Fields: formFields(s)}
		}
	})
	return d, nil
}

func formFields(form *goquery.Selection) []string {
	var names []string
	seen := make(map[string]bool)
	form.Find("input[name], select[name], textarea[name]").Each(func(_ int, s *goquery.Selection) {
		if _, disabled := s.Attr("disabled"); disabled {
			return
		}
		if goquery.NodeName(s) == "input" {
			switch strings.ToLower(s.AttrOr("type", "text")) {
			case "submit", "button", "reset", "image":
				return
			}
		}
		name := s.AttrOr("name", "")
		if name == "" || seen[name] {
			return
		}
		seen[name] = true
		names = append(names, name)
	})
	return names
}

// Form returns the form element with the given id.
func (d *Document) Form(id string) (Form, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	f, ok := d.forms[id]
	return f, ok
}

// Mount returns the element with the given id.
func (d *Document) Mount(id string) (*Mount, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	m, ok := d.mounts[id]
	return m, ok
}

// MountIDs returns every element id, sorted.
func (d *Document) MountIDs() []string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	ids := make([]string, 0, len(d.mounts))
	for id := range d.mounts {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Snapshot returns the current content of every mount that has been
// written, sorted by mount id.
func (d *Document) Snapshot() []Update {
	var out []Update
	for _, id := range d.MountIDs() {
		m, _ := d.Mount(id)
		if html, ok := m.content(); ok {
			out = append(out, Update{Mount: id, HTML: html})
		}
	}
	return out
}

// Subscribe returns a channel receiving every subsequent mount update and a
// cancel function. A subscriber whose buffer fills up is dropped and its
// channel closed; it should resync from Snapshot.
func (d *Document) Subscribe(buffer int) (<-chan Update, func()) {
	if buffer <= 0 {
		buffer = 16
	}
	ch := make(chan Update, buffer)

	d.subsMu.Lock()
	id := d.nextSub
	d.nextSub++
	d.subs[id] = ch
	d.subsMu.Unlock()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			d.subsMu.Lock()
			defer d.subsMu.Unlock()
			if c, ok := d.subs[id]; ok {
				delete(d.subs, id)
				close(c)
			}
		})
	}
	return ch, cancel
}

// Subscribers reports how many subscribers are attached.
func (d *Document) Subscribers() int {
	d.subsMu.Lock()
	defer d.subsMu.Unlock()
	return len(d.subs)
}

// Close drops every subscriber.
func (d *Document) Close() {
	d.subsMu.Lock()
	defer d.subsMu.Unlock()
	for id, c := range d.subs {
		delete(d.subs, id)
		close(c)
	}
}

func (d *Document) publish(u Update) {
	d.subsMu.Lock()
	defer d.subsMu.Unlock()
	for id, c := range d.subs {
		select {
		case c <- u:
		default:
			delete(d.subs, id)
			close(c)
		}
	}
}
