package services

import (
	"bytes"
	"log"
	"regexp"
	"strings"

	"github.com/yuin/goldmark"
)

var (
	codeFence     = regexp.MustCompile("(?s)^```[a-zA-Z]*\\s*\n?(.*?)\\s*```$")
	htmlTag       = regexp.MustCompile(`(?i)<(h[1-6]|p|ul|ol|li|strong|em|br)\b`)
	markdownToken = regexp.MustCompile(`(?m)(^#{1,6}\s)|(\*\*[^*]+\*\*)|(^\s*[-*]\s+\S)`)
)

var markdown = goldmark.New()

// FormatReportHTML normalises model output into an HTML fragment. Models
// sometimes wrap the answer in a code fence or ignore the no-Markdown
// instruction; both are repaired here.
func FormatReportHTML(text string) string {
	out := strings.TrimSpace(text)
	if m := codeFence.FindStringSubmatch(out); m != nil {
		out = strings.TrimSpace(m[1])
	}
	if out == "" || htmlTag.MatchString(out) || !markdownToken.MatchString(out) {
		return out
	}

	var buf bytes.Buffer
	if err := markdown.Convert([]byte(out), &buf); err != nil {
		log.Printf("report markdown conversion failed: %v", err)
		return out
	}
	return strings.TrimSpace(buf.String())
}
