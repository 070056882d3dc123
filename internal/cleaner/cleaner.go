package cleaner

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

type Cleaner struct{}

func NewCleaner() *Cleaner {
	return &Cleaner{}
}

// CleanHTML reduces an HTML resume to its readable text blocks. Navigation,
// scripts and other chrome are dropped before the text is collected.
func (c *Cleaner) CleanHTML(html string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return stripTags(html)
	}
	doc.Find("script, style, nav, header, footer, iframe, noscript").Remove()
	doc.Find(".menu, .navigation, .social, .banner, .cookie, .popup").Remove()

	var textBlocks []string
	doc.Find("p, li, h1, h2, h3, h4, h5, h6").Each(func(i int, s *goquery.Selection) {
		text := strings.TrimSpace(s.Text())
		if len(text) > 0 {
			textBlocks = append(textBlocks, text)
		}
	})
	if len(textBlocks) > 0 {
		return strings.Join(textBlocks, "\n")
	}

	bodyText := strings.TrimSpace(doc.Find("body").Text())
	if len(bodyText) > 0 {
		return collapseSpace(bodyText)
	}

	return collapseSpace(doc.Text())
}

// CleanReply strips markdown code fences some models wrap their output in.
// The labeled-line format inside is left untouched.
func (c *Cleaner) CleanReply(reply string) string {
	if !strings.Contains(reply, "```") {
		return strings.TrimSpace(reply)
	}

	start := strings.Index(reply, "```")
	// Skip the fence line itself, including any language tag like ```text.
	if nl := strings.Index(reply[start:], "\n"); nl != -1 {
		start += nl + 1
	} else {
		start += 3
	}

	end := strings.LastIndex(reply, "```")
	if end > start {
		return strings.TrimSpace(reply[start:end])
	}
	return strings.TrimSpace(reply)
}

func stripTags(html string) string {
	re := regexp.MustCompile("<[^>]*>")
	return collapseSpace(re.ReplaceAllString(html, " "))
}

func collapseSpace(text string) string {
	re := regexp.MustCompile(`[ \t]+`)
	return strings.TrimSpace(re.ReplaceAllString(text, " "))
}
