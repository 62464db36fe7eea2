package models

import (
	"bytes"
	"encoding/json"
	"strings"
)

// Domains is an ordered list of research-domain tags.
// Decoding never fails: older records stored the list as a JSON-encoded
// string, and anything unreadable decodes to an empty list.
type Domains []string

// NewDomains trims tags, drops blanks and removes case-insensitive duplicates,
// keeping the first spelling seen.
func NewDomains(tags ...string) Domains {
	out := make(Domains, 0, len(tags))
	seen := make(map[string]struct{}, len(tags))
	for _, tag := range tags {
		tag = strings.TrimSpace(tag)
		if tag == "" {
			continue
		}
		key := strings.ToLower(tag)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, tag)
	}
	return out
}

// Contains reports whether tag is present, ignoring case and surrounding spaces
func (d Domains) Contains(tag string) bool {
	want := strings.ToLower(strings.TrimSpace(tag))
	for _, t := range d {
		if strings.ToLower(strings.TrimSpace(t)) == want {
			return true
		}
	}
	return false
}

// Strings returns the tags as a plain slice
func (d Domains) Strings() []string {
	return []string(d)
}

// MarshalJSON always emits an array, never null
func (d Domains) MarshalJSON() ([]byte, error) {
	if d == nil {
		return []byte("[]"), nil
	}
	return json.Marshal([]string(d))
}

// UnmarshalJSON accepts an array, a string holding an encoded array, or null
func (d *Domains) UnmarshalJSON(data []byte) error {
	*d = decodeDomains(data, true)
	return nil
}

func decodeDomains(data []byte, allowString bool) Domains {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return Domains{}
	}

	switch data[0] {
	case '[':
		var items []json.RawMessage
		if err := json.Unmarshal(data, &items); err != nil {
			return Domains{}
		}
		out := make(Domains, 0, len(items))
		for _, item := range items {
			var tag string
			if err := json.Unmarshal(item, &tag); err != nil {
				continue
			}
			out = append(out, tag)
		}
		return out
	case '"':
		if !allowString {
			return Domains{}
		}
		var encoded string
		if err := json.Unmarshal(data, &encoded); err != nil {
			return Domains{}
		}
		return decodeDomains([]byte(encoded), false)
	}
	return Domains{}
}
