package common

import (
	"crypto/sha256"
	"fmt"
	"net"
	"net/url"
	"regexp"
	"strings"
)

var (
	markdownLinkPattern = regexp.MustCompile(`^\[.*?\]\((https?://\S+)\)$`)

	// DNS name or IPv4 literal; IPv6 literals are checked with net.ParseIP
	hostPattern = regexp.MustCompile(`^[a-zA-Z0-9]([-a-zA-Z0-9.]*[a-zA-Z0-9])?$`)

	closingPairs = map[string]string{")": "(", "]": "[", "}": "{"}
)

// ContentHash computes SHA256 hash of content and returns hex string.
func ContentHash(data []byte) string {
	hash := sha256.Sum256(data)
	return fmt.Sprintf("%x", hash)
}

// SanitizeURL performs basic cleanup on URLs to handle common copy-paste issues.
// Removes whitespace, wrapping punctuation and markdown artifacts.
func SanitizeURL(rawURL string) string {
	cleaned := strings.TrimSpace(rawURL)

	// [text](url) -> url
	if matches := markdownLinkPattern.FindStringSubmatch(cleaned); len(matches) > 1 {
		cleaned = matches[1]
	}

	// "(https://example.com" -> "https://example.com"
	leadingChars := []string{"(", "[", "<", "\"", "'"}
	for _, char := range leadingChars {
		cleaned = strings.TrimPrefix(cleaned, char)
	}

	// "https://example.com," -> "https://example.com"
	// A closing bracket is kept when it balances one inside the URL,
	// as in https://en.wikipedia.org/wiki/Go_(programming_language)
	trailingChars := []string{",", ".", ")", "}", "]", "\"", "'", ">", ";"}
	for _, char := range trailingChars {
		if !strings.HasSuffix(cleaned, char) {
			continue
		}
		if open, ok := closingPairs[char]; ok && strings.Count(cleaned, open) >= strings.Count(cleaned, char) {
			continue
		}
		cleaned = strings.TrimSuffix(cleaned, char)
	}

	return strings.TrimSpace(cleaned)
}

// SanitizeAndValidateURL sanitizes rawURL and checks that the result is an
// absolute http(s) URL.
func SanitizeAndValidateURL(rawURL string) (string, error) {
	cleaned := SanitizeURL(rawURL)
	if cleaned == "" {
		return "", fmt.Errorf("empty URL")
	}

	// Spaces must be pre-encoded as %20
	if strings.ContainsAny(cleaned, " \t\r\n") {
		return "", fmt.Errorf("URL contains spaces: %q", rawURL)
	}

	parsed, err := url.Parse(cleaned)
	if err != nil {
		return "", fmt.Errorf("invalid URL %q: %w", rawURL, err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return "", fmt.Errorf("not an http(s) URL: %q", rawURL)
	}
	if parsed.Host == "" {
		return "", fmt.Errorf("URL has no host: %q", rawURL)
	}
	if strings.ContainsAny(parsed.Host, "{}<>\"'") {
		return "", fmt.Errorf("malformed host in %q", rawURL)
	}

	host := parsed.Hostname()
	if net.ParseIP(host) == nil && !hostPattern.MatchString(host) {
		return "", fmt.Errorf("malformed host in %q", rawURL)
	}

	return cleaned, nil
}
