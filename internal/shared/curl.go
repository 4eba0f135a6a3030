// cURL command parsing for the setup headers flow.
package shared

import (
	"fmt"
	"os"
	"regexp"
	"strings"
)

// CurlHeaders holds the headers and cookie extracted from a browser-copied
// cURL command. The cookie is kept separate because it may arrive either as
// a -b flag or as a Cookie header.
type CurlHeaders struct {
	Headers map[string]string
	Cookie  string
}

var (
	curlHeaderRe = regexp.MustCompile(`-H\s+'([^']+)'|-H\s+"([^"]+)"`)
	curlCookieRe = regexp.MustCompile(`-b\s+'([^']+)'|-b\s+"([^"]+)"`)
)

// ParseCurlFile reads a file containing a cURL command and extracts headers.
func ParseCurlFile(filepath string) (*CurlHeaders, error) {
	content, err := os.ReadFile(filepath)
	if err != nil {
		return nil, fmt.Errorf("failed to read curl file: %w", err)
	}

	return ParseCurlCommand(content)
}

// ParseCurlCommand extracts -H headers and the cookie from a cURL command.
// Line continuations are joined first so multiline commands copied from the
// browser's network inspector parse the same as single-line ones.
func ParseCurlCommand(data []byte) (*CurlHeaders, error) {
	curlCmd := string(data)
	curlCmd = strings.ReplaceAll(curlCmd, "\\\n", " ")
	curlCmd = strings.ReplaceAll(curlCmd, "\\", "")

	headers := make(map[string]string)
	var cookie string

	matches := curlHeaderRe.FindAllStringSubmatch(curlCmd, -1)
	for _, match := range matches {
		parts := strings.SplitN(quotedValue(match), ":", 2)
		if len(parts) != 2 {
			continue
		}

		key := strings.TrimSpace(parts[0])
		value := strings.TrimSpace(parts[1])
		if strings.ToLower(key) != "cookie" {
			headers[key] = value
		}
	}

	// -b wins over a Cookie header when both are present.
	if m := curlCookieRe.FindStringSubmatch(curlCmd); len(m) > 1 {
		cookie = quotedValue(m)
	}

	if cookie == "" {
		for _, match := range matches {
			headerLine := quotedValue(match)
			if strings.HasPrefix(strings.ToLower(headerLine), "cookie:") {
				if parts := strings.SplitN(headerLine, ":", 2); len(parts) == 2 {
					cookie = strings.TrimSpace(parts[1])
				}
				break
			}
		}
	}

	if len(headers) == 0 && cookie == "" {
		return nil, fmt.Errorf("no headers found in curl command")
	}

	return &CurlHeaders{
		Headers: headers,
		Cookie:  cookie,
	}, nil
}

// quotedValue returns whichever capture group matched, single or double
// quoted.
func quotedValue(match []string) string {
	if match[1] != "" {
		return match[1]
	}
	return match[2]
}

// HeadersMap merges the parsed headers and cookie into the flat map written
// to browser.json. The cookie lands under a lowercase "cookie" key, which is
// how the catalog proxy expects it.
func (c *CurlHeaders) HeadersMap() map[string]string {
	headers := make(map[string]string, len(c.Headers)+1)
	for key, value := range c.Headers {
		headers[key] = value
	}

	if c.Cookie != "" {
		headers["cookie"] = c.Cookie
	}

	return headers
}
