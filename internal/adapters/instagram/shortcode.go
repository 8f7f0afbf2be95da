// Package instagram implements caption extraction against Instagram's
// public surfaces: the private GraphQL endpoint, the post page HTML, the
// official oEmbed API, and (optionally) a headless browser render.
package instagram

import "regexp"

// shortcodeRe matches post, reel and IGTV URLs. The identifier alphabet is
// base64-url; the match stops at the next path, query or fragment separator.
var shortcodeRe = regexp.MustCompile(`(?i)instagram\.com/(?:p|reel|tv)/([A-Za-z0-9_-]+)`)

// ExtractShortcode pulls the post identifier out of an Instagram URL.
// Returns "" when the URL does not reference a post. Absence of a match is
// the normal "not an Instagram post" signal, never an error.
func ExtractShortcode(url string) string {
	m := shortcodeRe.FindStringSubmatch(url)
	if m == nil {
		return ""
	}
	return m[1]
}

// IsValidPostURL reports whether the URL references an Instagram post.
func IsValidPostURL(url string) bool {
	return ExtractShortcode(url) != ""
}

// PostURL builds the canonical public page URL for a shortcode.
func PostURL(shortcode string) string {
	return "https://www.instagram.com/p/" + shortcode + "/"
}

// ThumbnailURL returns the conventional media thumbnail URL for a shortcode.
func ThumbnailURL(shortcode string) string {
	return "https://instagram.com/p/" + shortcode + "/media/?size=m"
}
