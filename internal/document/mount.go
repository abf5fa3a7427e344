package document

import (
	"html/template"
	"sync"
)

// Mount is an element whose content is replaced wholesale by its owner.
type Mount struct {
	id  string
	doc *Document

	mu      sync.RWMutex
	html    template.HTML
	written bool
}

func (m *Mount) ID() string { return m.id }

// Set replaces the mount's content and publishes the change.
func (m *Mount) Set(html template.HTML) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.html = html
	m.written = true

	// Published under the lock so subscribers see writes in store order.
	m.doc.publish(Update{Mount: m.id, HTML: html})
}

// HTML returns the current content.
func (m *Mount) HTML() template.HTML {
	html, _ := m.content()
	return html
}

func (m *Mount) content() (template.HTML, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.html, m.written
}
