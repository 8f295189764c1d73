package render

import (
	"fmt"
	"html"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Storage-format macro element and attribute names.
const (
	macroTag      = "ac:structured-macro"
	paramTag      = "ac:parameter"
	richBodyTag   = "ac:rich-text-body"
	macroNameAttr = "ac:name"
)

// emailShell wraps the adapted body into a standalone document fit for
// direct text/html embedding.
const emailShell = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8"/>
<style>
body{font-family:Arial,Helvetica,sans-serif;font-size:14px;color:#172B4D;margin:0;padding:16px;}
a{color:#0052CC;}
table{border-collapse:collapse;}
td,th{border:1px solid #DFE1E6;padding:4px 8px;text-align:left;}
code,pre{font-family:SFMono-Regular,Consolas,monospace;background-color:#F4F5F7;}
</style>
</head>
<body>
%s
</body>
</html>`

// subtleBadgeStyle is the fixed look of subtle badges, independent of the
// nominal colour.
const subtleBadgeStyle = "display:inline-block;padding:2px 6px;border-radius:3px;" +
	"font-size:11px;font-weight:bold;text-transform:uppercase;" +
	"background-color:#FFFFFF;color:#42526E;border:1px solid #DFE1E6;"

func badgeStyle(bg string) string {
	return fmt.Sprintf("display:inline-block;padding:2px 6px;border-radius:3px;"+
		"font-size:11px;font-weight:bold;text-transform:uppercase;"+
		"background-color:%s;color:%s;", bg, textColorFor(bg))
}

// panelSpec is the shared descriptor both macro materialization and
// exported-HTML restyling converge on before panel construction.
type panelSpec struct {
	title  string
	border string
	bg     string
}

func (p panelSpec) style() string {
	return fmt.Sprintf("border:1px solid %s;background-color:%s;"+
		"border-radius:3px;padding:12px;margin:8px 0;", p.border, p.bg)
}

// lozengeColors maps exported lozenge modifier classes to palette names.
var lozengeColors = []struct{ class, color string }{
	{"aui-lozenge-success", "green"},
	{"aui-lozenge-error", "red"},
	{"aui-lozenge-current", "yellow"},
	{"aui-lozenge-complete", "blue"},
	{"aui-lozenge-moved", "yellow"},
	{"aui-lozenge-new", "purple"},
}

var panelBGPattern = regexp.MustCompile(`background-color:(#[0-9A-F]{6})`)

// AdaptEmail converts a storage-format page body or an exported Confluence
// HTML document into a self-contained email HTML document: macros become
// plain styled tags, exported lozenges and panels get the same inline
// styling, navigation elements disappear, and the result is wrapped with a
// style block and a leading link back to pageURL. Running AdaptEmail on its
// own output is a no-op: macros are already gone, restyling recomputes the
// same attribute values, and the link is only added once.
func AdaptEmail(input, pageURL string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(input))
	if err != nil {
		return "", fmt.Errorf("parsing HTML: %w", err)
	}

	materializeMacros(doc)
	restyleExported(doc)
	removeNavigation(doc)
	stylePanelBlocks(doc)

	body := doc.Find("body")
	if pageURL != "" && body.Find("p.source-link").Length() == 0 {
		body.PrependHtml(fmt.Sprintf(
			`<p class="source-link"><a href="%s">View this report in Confluence</a></p>`,
			html.EscapeString(pageURL)))
	}

	inner, err := body.Html()
	if err != nil {
		return "", fmt.Errorf("serializing body: %w", err)
	}

	return fmt.Sprintf(emailShell, strings.TrimSpace(inner)), nil
}

// findMacros selects every storage macro element. The macro tag carries a
// namespace colon, so selection goes through node names rather than a CSS
// type selector.
func findMacros(doc *goquery.Document) *goquery.Selection {
	return doc.Find("*").FilterFunction(func(_ int, s *goquery.Selection) bool {
		return goquery.NodeName(s) == macroTag
	})
}

// materializeMacros replaces every macro element with a plain-HTML
// equivalent: status becomes a styled span, info and panel become bordered
// containers, and any other macro is dropped with its subtree. Macros are
// handled innermost-first: building a replacement serializes the macro's
// body, and a macro still inside it would survive as inert markup.
func materializeMacros(doc *goquery.Document) {
	for {
		macros := findMacros(doc)
		if macros.Length() == 0 {
			return
		}
		macros.Each(func(_ int, s *goquery.Selection) {
			if hasMacroDescendant(s) {
				return
			}
			materializeMacro(s)
		})
	}
}

func hasMacroDescendant(s *goquery.Selection) bool {
	return s.Find("*").FilterFunction(func(_ int, d *goquery.Selection) bool {
		return goquery.NodeName(d) == macroTag
	}).Length() > 0
}

func materializeMacro(s *goquery.Selection) {
	params := macroParams(s)
	switch name, _ := s.Attr(macroNameAttr); name {
	case "status":
		materializeStatus(s, params)
	case "info":
		spec := panelSpec{border: "#0052CC", bg: "#DEEBFF"}
		// heading only for an explicit non-default title
		if title := params["title"]; title != "" && !strings.EqualFold(title, "info") {
			spec.title = title
		}
		replaceMacroWithPanel(s, spec, "email-info")
	case "panel":
		spec := panelSpec{
			title:  params["title"],
			border: normalizeColor(params["borderColor"]),
			bg:     "#F4F5F7",
		}
		if bg := params["bgColor"]; bg != "" {
			spec.bg = normalizeColor(bg)
		}
		replaceMacroWithPanel(s, spec, "email-panel")
	default:
		s.Remove()
	}
}

func materializeStatus(s *goquery.Selection, params map[string]string) {
	style := badgeStyle(normalizeColor(params["colour"]))
	if strings.EqualFold(params["subtle"], "true") {
		style = subtleBadgeStyle
	}
	s.ReplaceWithHtml(fmt.Sprintf(`<span class="status-badge" style="%s">%s</span>`,
		style, html.EscapeString(params["title"])))
}

// replaceMacroWithPanel swaps a macro element for a styled container,
// carrying the rich-text-body children over into it.
func replaceMacroWithPanel(s *goquery.Selection, spec panelSpec, class string) {
	var bodyHTML string
	richBody := childrenByName(s, richBodyTag)
	if richBody.Length() > 0 {
		if h, err := richBody.Html(); err == nil {
			bodyHTML = h
		}
	}

	heading := ""
	if spec.title != "" {
		heading = fmt.Sprintf(`<p class="panel-title"><strong>%s</strong></p>`,
			html.EscapeString(spec.title))
	}

	s.ReplaceWithHtml(fmt.Sprintf(`<div class="%s" style="%s">%s%s</div>`,
		class, spec.style(), heading, bodyHTML))
}

func macroParams(s *goquery.Selection) map[string]string {
	params := map[string]string{}
	childrenByName(s, paramTag).Each(func(_ int, p *goquery.Selection) {
		if name, ok := p.Attr(macroNameAttr); ok {
			params[name] = strings.TrimSpace(p.Text())
		}
	})
	return params
}

func childrenByName(s *goquery.Selection, name string) *goquery.Selection {
	return s.Children().FilterFunction(func(_ int, c *goquery.Selection) bool {
		return goquery.NodeName(c) == name
	})
}

// restyleExported applies the same colour and border rules to elements that
// a Confluence HTML export produces, so the adapter works uniformly on raw
// storage HTML and on an already-exported document.
func restyleExported(doc *goquery.Document) {
	doc.Find("span.aui-lozenge, span.status-macro").Each(func(_ int, s *goquery.Selection) {
		class, _ := s.Attr("class")
		if strings.Contains(class, "aui-lozenge-subtle") {
			s.SetAttr("style", subtleBadgeStyle)
			return
		}
		color := defaultColor
		for _, lc := range lozengeColors {
			if strings.Contains(class, lc.class) {
				color = normalizeColor(lc.color)
				break
			}
		}
		s.SetAttr("style", badgeStyle(color))
	})

	doc.Find("div.confluence-information-macro").Each(func(_ int, s *goquery.Selection) {
		class, _ := s.Attr("class")
		s.SetAttr("style", exportedInfoSpec(class).style())
		s.Find(".aui-icon").Remove()
	})

	doc.Find("div.panel").Each(func(_ int, s *goquery.Selection) {
		s.SetAttr("style", panelSpec{border: defaultColor, bg: "#F4F5F7"}.style())
	})
}

func exportedInfoSpec(class string) panelSpec {
	switch {
	case strings.Contains(class, "-warning"):
		return panelSpec{border: "#FF5630", bg: "#FFEBE6"}
	case strings.Contains(class, "-note"):
		return panelSpec{border: "#6554C0", bg: "#EAE6FF"}
	case strings.Contains(class, "-tip"):
		return panelSpec{border: "#36B37E", bg: "#E3FCEF"}
	default:
		return panelSpec{border: "#0052CC", bg: "#DEEBFF"}
	}
}

// removeNavigation strips table-of-contents remnants; they have no useful
// email rendering. Storage-format toc macros are already dropped by
// materializeMacros.
func removeNavigation(doc *goquery.Document) {
	doc.Find("div.toc-macro").Remove()
	doc.Find(`[data-macro-name="toc"]`).Remove()
	doc.Find("ul.toc-indentation").Remove()
}

// stylePanelBlocks pushes margin and background styles onto block-level
// descendants of every panel container, so rendering needs no inherited
// stylesheet. The background is read back from the container's own inline
// style, which keeps repeated runs stable.
func stylePanelBlocks(doc *goquery.Document) {
	doc.Find("div.email-panel, div.email-info, div.panel, div.confluence-information-macro").
		Each(func(_ int, s *goquery.Selection) {
			bg := "#F4F5F7"
			if style, ok := s.Attr("style"); ok {
				if m := panelBGPattern.FindStringSubmatch(style); m != nil {
					bg = m[1]
				}
			}
			s.Find("p, ul, ol, li, table, h1, h2, h3, h4, h5, h6, pre").
				Each(func(_ int, c *goquery.Selection) {
					c.SetAttr("style", fmt.Sprintf("margin:4px 0;background-color:%s;", bg))
				})
		})
}
