package model

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

var errFeedNotList = errors.New("expected a JSON array")

// FeedItem is one entry of the published-vulnerability feed.
type FeedItem struct {
	CVEID             string `json:"cveID"`
	DateAdded         string `json:"dateAdded"`
	VulnerabilityName string `json:"vulnerabilityName"`
}

// DecodeFeed interprets a feed response: a *BackendError for an error
// object, otherwise the list of items. Any body that is not a JSON array,
// including null, is a decode error.
func DecodeFeed(body []byte) ([]FeedItem, error) {
	if err := CheckError(body); err != nil {
		return nil, err
	}
	if trimmed := bytes.TrimSpace(body); len(trimmed) == 0 || trimmed[0] != '[' {
		return nil, fmt.Errorf("decode feed: %w", errFeedNotList)
	}
	var items []FeedItem
	if err := json.Unmarshal(body, &items); err != nil {
		return nil, fmt.Errorf("decode feed: %w", err)
	}
	return items, nil
}
