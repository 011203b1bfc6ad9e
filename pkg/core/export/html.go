package export

import (
	"fmt"
	"html"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"valuecase/pkg/core/utils"
)

const documentTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>%s</title>
<style>
body { font-family: system-ui, sans-serif; max-width: 960px; margin: 2rem auto; line-height: 1.5; color: #1f2937; }
table { border-collapse: collapse; width: 100%%; margin: 1rem 0; }
th, td { border: 1px solid #d1d5db; padding: 0.4rem 0.6rem; text-align: left; }
th { background: #f3f4f6; }
h1 { color: #4338ca; }
h2 { border-bottom: 2px solid #e5e7eb; padding-bottom: 0.3rem; margin-top: 2rem; }
</style>
</head>
<body>
%s</body>
</html>
`

// RenderHTML converts a Markdown report to a standalone HTML document.
func RenderHTML(title, markdown string) (string, error) {
	if !utils.ValidateMarkdown(markdown) {
		return "", fmt.Errorf("report is empty or has no headings")
	}
	body, err := utils.RenderMarkdown(utils.CleanMarkdown(markdown))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf(documentTemplate, html.EscapeString(title), body), nil
}

// Slide is one page of the presentation outline.
type Slide struct {
	Title   string   `json:"title"`
	HTML    string   `json:"html"`
	Bullets []string `json:"bullets"`
}

// SlideOutline cuts a rendered report into slides: the title and anything
// before the first h2 form the cover, then each h2 opens a new slide.
func SlideOutline(document string) ([]Slide, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(document))
	if err != nil {
		return nil, fmt.Errorf("failed to parse report html: %w", err)
	}

	var slides []Slide
	var cur *Slide
	var body strings.Builder
	flush := func() {
		if cur == nil {
			return
		}
		cur.HTML = strings.TrimSpace(body.String())
		if cur.Bullets == nil {
			cur.Bullets = []string{}
		}
		slides = append(slides, *cur)
		body.Reset()
	}

	doc.Find("body").Children().Each(func(i int, sel *goquery.Selection) {
		switch goquery.NodeName(sel) {
		case "h1":
			if cur == nil {
				cur = &Slide{Title: strings.TrimSpace(sel.Text())}
				return
			}
		case "h2":
			flush()
			cur = &Slide{Title: strings.TrimSpace(sel.Text())}
			return
		}
		if cur == nil {
			cur = &Slide{}
		}
		if outer, err := goquery.OuterHtml(sel); err == nil {
			body.WriteString(outer)
			body.WriteString("\n")
		}
		sel.Find("li").Each(func(_ int, li *goquery.Selection) {
			if text := strings.Join(strings.Fields(li.Text()), " "); text != "" {
				cur.Bullets = append(cur.Bullets, text)
			}
		})
	})
	flush()

	if len(slides) == 0 {
		return nil, fmt.Errorf("report has no content to outline")
	}
	return slides, nil
}
