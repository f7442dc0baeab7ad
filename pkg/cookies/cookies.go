// Package cookies translates between the persisted session-record shape and
// the wire cookie shape used by the scraping client. The codec is pure: it
// never touches disk or network, and an empty result is returned rather than
// an error so callers decide whether that is fatal.
package cookies

import (
	"encoding/json"
	"net/http"
	"strings"
)

// Entry is one persisted cookie. The JSON field names define the on-disk
// session file format: a whole-file JSON array of these objects.
type Entry struct {
	Key      string `json:"key"`
	Value    string `json:"value"`
	Domain   string `json:"domain"`
	Path     string `json:"path"`
	Secure   bool   `json:"secure"`
	HTTPOnly bool   `json:"httpOnly"`
}

// Encode converts persisted entries into wire cookies. Entries with an empty
// name or an empty value after unquoting are dropped; some cookie producers
// double-quote values, so one surrounding quote layer is stripped.
func Encode(entries []Entry) []*http.Cookie {
	var out []*http.Cookie
	for _, e := range entries {
		value := unquote(e.Value)
		if e.Key == "" || value == "" {
			continue
		}
		out = append(out, &http.Cookie{
			Name:     e.Key,
			Value:    value,
			Domain:   e.Domain,
			Path:     e.Path,
			Secure:   e.Secure,
			HttpOnly: e.HTTPOnly,
		})
	}
	return out
}

// Decode converts wire cookies into persistable entries, applying the same
// unquoting and filtering rules as Encode.
func Decode(wire []*http.Cookie) []Entry {
	var out []Entry
	for _, c := range wire {
		if c == nil {
			continue
		}
		value := unquote(c.Value)
		if c.Name == "" || value == "" {
			continue
		}
		out = append(out, Entry{
			Key:      c.Name,
			Value:    value,
			Domain:   c.Domain,
			Path:     c.Path,
			Secure:   c.Secure,
			HTTPOnly: c.HttpOnly,
		})
	}
	return out
}

// Marshal renders entries as the whole-file JSON array session format.
func Marshal(entries []Entry) ([]byte, error) {
	return json.MarshalIndent(entries, "", "  ")
}

// Unmarshal parses the whole-file JSON array session format.
func Unmarshal(data []byte) ([]Entry, error) {
	var entries []Entry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

// unquote strips one layer of surrounding double quotes.
func unquote(v string) string {
	if len(v) >= 2 && strings.HasPrefix(v, `"`) && strings.HasSuffix(v, `"`) {
		return v[1 : len(v)-1]
	}
	return v
}
