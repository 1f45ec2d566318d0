package journal

import (
	"sort"
	"strings"
	"unicode/utf8"

	"golang.org/x/net/html"
)

const previewLen = 150

var blockTags = map[string]bool{
	"p": true, "div": true, "br": true, "li": true, "ul": true, "ol": true,
	"h1": true, "h2": true, "h3": true, "h4": true, "h5": true, "h6": true,
	"blockquote": true, "pre": true, "hr": true, "tr": true, "td": true, "th": true,
}

// PlainText strips markup from rich-text content. Block-level tags become spaces so words
// in adjacent paragraphs are not glued together.
func PlainText(content string) string {
	z := html.NewTokenizer(strings.NewReader(content))
	var sb strings.Builder
	skip := 0
	for {
		tt := z.Next()
		switch tt {
		case html.ErrorToken:
			// io.EOF or malformed input; either way what was read so far is the text.
			return strings.Join(strings.Fields(sb.String()), " ")
		case html.TextToken:
			if skip == 0 {
				sb.Write(z.Text())
			}
		case html.StartTagToken, html.SelfClosingTagToken, html.EndTagToken:
			name, _ := z.TagName()
			tag := string(name)
			if tag == "script" || tag == "style" {
				if tt == html.StartTagToken {
					skip++
				} else if tt == html.EndTagToken && skip > 0 {
					skip--
				}
				continue
			}
			if blockTags[tag] {
				sb.WriteByte(' ')
			}
		}
	}
}

// WordCount counts whitespace separated words of the plain text.
func WordCount(content string) int {
	return len(strings.Fields(PlainText(content)))
}

// Preview returns at most previewLen runes of plain text, with an ellipsis when cut.
func Preview(content string) string {
	text := PlainText(content)
	if utf8.RuneCountInString(text) <= previewLen {
		return text
	}
	r := []rune(text)
	return strings.TrimSpace(string(r[:previewLen])) + "..."
}

// NormalizeTags upper-cases and trims tags, dropping empties and duplicates. Order is stable.
func NormalizeTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	seen := make(map[string]struct{}, len(tags))
	for _, t := range tags {
		t = strings.ToUpper(strings.TrimSpace(t))
		if t == "" {
			continue
		}
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}

// TagCount is one row of the tag index.
type TagCount struct {
	Tag   string `json:"tag"`
	Count int    `json:"count"`
}

// CountTags tallies tags across entries, most used first, ties alphabetical.
func CountTags(entries []Entry) []TagCount {
	counts := make(map[string]int)
	for _, e := range entries {
		for _, t := range NormalizeTags(e.Tags) {
			counts[t]++
		}
	}
	out := make([]TagCount, 0, len(counts))
	for t, n := range counts {
		out = append(out, TagCount{Tag: t, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Tag < out[j].Tag
	})
	return out
}

// Paragraphs splits rich text into plain paragraphs at block-level tags.
func Paragraphs(content string) []string {
	z := html.NewTokenizer(strings.NewReader(content))
	var (
		out  []string
		cur  strings.Builder
		skip int
	)
	flush := func() {
		if s := strings.Join(strings.Fields(cur.String()), " "); s != "" {
			out = append(out, s)
		}
		cur.Reset()
	}
	for {
		tt := z.Next()
		switch tt {
		case html.ErrorToken:
			flush()
			return out
		case html.TextToken:
			if skip == 0 {
				cur.Write(z.Text())
			}
		case html.StartTagToken, html.SelfClosingTagToken, html.EndTagToken:
			name, _ := z.TagName()
			tag := string(name)
			if tag == "script" || tag == "style" {
				if tt == html.StartTagToken {
					skip++
				} else if tt == html.EndTagToken && skip > 0 {
					skip--
				}
				continue
			}
			if blockTags[tag] {
				flush()
			}
		}
	}
}

// FromPlain wraps blank-line separated plain text into escaped <p> blocks.
func FromPlain(text string) string {
	var sb strings.Builder
	for _, para := range strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n\n") {
		para = strings.TrimSpace(para)
		if para == "" {
			continue
		}
		sb.WriteString("<p>")
		sb.WriteString(strings.ReplaceAll(html.EscapeString(para), "\n", "<br>"))
		sb.WriteString("</p>")
	}
	return sb.String()
}
