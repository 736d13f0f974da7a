package codingnet

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// ErrMalformedLink indicates a Link header element that could not be parsed.
var ErrMalformedLink = errors.New("coding: malformed Link header")

// ParseNextLink extracts the rel="next" URL from a Link header.
// The URL is the text between the first '<' and the last '>' of the
// element. Returns "" when there is no next link.
func ParseNextLink(linkHeader string) (string, error) {
	if linkHeader == "" {
		return "", nil
	}

	for _, element := range strings.Split(linkHeader, ",") {
		if !hasRel(element, "next") {
			continue
		}
		begin := strings.Index(element, "<")
		end := strings.LastIndex(element, ">")
		if begin == -1 || end == -1 || end < begin {
			return "", fmt.Errorf("%w: %q", ErrMalformedLink, strings.TrimSpace(element))
		}
		return element[begin+1 : end], nil
	}

	return "", nil
}

// NextLinkFromHeader reads all Link headers of a response.
func NextLinkFromHeader(h http.Header) (string, error) {
	return ParseNextLink(strings.Join(h.Values("Link"), ", "))
}

// hasRel reports whether a Link element carries rel=want, quoted or not.
func hasRel(element, want string) bool {
	params := strings.Split(element, ";")
	for _, p := range params[1:] {
		key, value, ok := strings.Cut(strings.TrimSpace(p), "=")
		if !ok || !strings.EqualFold(strings.TrimSpace(key), "rel") {
			continue
		}
		for _, rel := range strings.Fields(strings.Trim(strings.TrimSpace(value), `"`)) {
			if rel == want {
				return true
			}
		}
	}
	return false
}
