// Package url provides the URL string helpers used to derive searchable history fields.
package url

import (
	"strings"
)

// StripProtocol removes a leading http:// or https:// scheme.
// Other schemes (file://, about:) are kept since they are part of what users type.
func StripProtocol(rawURL string) string {
	switch {
	case strings.HasPrefix(rawURL, "https://"):
		return rawURL[len("https://"):]
	case strings.HasPrefix(rawURL, "http://"):
		return rawURL[len("http://"):]
	}
	return rawURL
}

// ExtractHost returns everything before the first '/', '?' or '#' of a
// protocol-stripped URL. No parsing is attempted: ports and credentials stay in.
func ExtractHost(urlNoProtocol string) string {
	if urlNoProtocol == "" {
		return ""
	}
	if end := strings.IndexAny(urlNoProtocol, "/?#"); end != -1 {
		return urlNoProtocol[:end]
	}
	return urlNoProtocol
}

// StripWWW drops a leading "www." so www.youtube.com and youtube.com compare equal.
func StripWWW(host string) string {
	return strings.TrimPrefix(host, "www.")
}

// IsHTTP reports whether the input already carries an http(s) scheme.
func IsHTTP(input string) bool {
	return strings.HasPrefix(input, "http://") || strings.HasPrefix(input, "https://")
}

var xmlEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&apos;",
)

// EscapeXML escapes the five XML special characters.
func EscapeXML(s string) string {
	return xmlEscaper.Replace(s)
}
