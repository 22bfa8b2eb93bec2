package service

import (
	"fmt"
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// WordsPerMinute is the reading speed used to estimate read time.
const WordsPerMinute = 200

var (
	textOnly = bluemonday.StrictPolicy()
	// contentPolicy is applied to post bodies before storage. Featured images and inline
	// images may be data URIs produced by the editor upload.
	contentPolicy = func() *bluemonday.Policy {
		p := bluemonday.UGCPolicy()
		p.AllowDataURIImages()
		return p
	}()
)

// ReadTime estimates how long content takes to read: markup is stripped, whitespace-delimited
// words are counted and the result is rounded up to whole minutes, never below one.
func ReadTime(content string) string {
	// Block tags are dropped without leaving whitespace, so keep adjacent elements apart.
	spaced := strings.ReplaceAll(content, "<", " <")
	text := html.UnescapeString(textOnly.Sanitize(spaced))
	words := len(strings.Fields(text))
	minutes := (words + WordsPerMinute - 1) / WordsPerMinute
	if minutes < 1 {
		minutes = 1
	}
	return fmt.Sprintf("%d min read", minutes)
}

// SanitizeContent removes scripts, event handlers and other unsafe markup from post HTML.
func SanitizeContent(content string) string {
	return contentPolicy.Sanitize(content)
}
