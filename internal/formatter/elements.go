package formatter

import (
	"strings"

	"github.com/grindlemire/astrofmt/internal/astro"
	"github.com/grindlemire/astrofmt/internal/lang"
)

// selfClosingTags are printed as <x /> when they have no content.
var selfClosingTags = setOf(
	"area", "base", "br", "col", "embed", "hr", "img", "input", "link",
	"meta", "param", "source", "track", "wbr", "slot",
)

// blockElements treat whitespace around their content as insignificant.
var blockElements = setOf(
	"address", "article", "aside", "blockquote", "details", "dialog", "dd",
	"div", "dl", "dt", "fieldset", "figcaption", "figure", "footer", "form",
	"h1", "h2", "h3", "h4", "h5", "h6", "header", "hgroup", "hr", "li",
	"main", "nav", "ol", "p", "pre", "section", "table", "ul", "title", "html",
)

// formattableAttributes are attributes whose values may be reformatted.
// Every other attribute value is printed as written.
var formattableAttributes = setOf()

// supportedStyleLangs are the lang attribute values of <style> we format.
var supportedStyleLangs = setOf(lang.CSS, lang.SCSS, lang.Less, lang.Sass)

// ignoreDirectives mark the next node as printed verbatim.
var ignoreDirectives = setOf("prettier-ignore", "astrofmt-ignore")

func setOf(names ...string) map[string]bool {
	m := make(map[string]bool, len(names))
	for _, n := range names {
		m[n] = true
	}
	return m
}

func isIgnoreDirective(comment string) bool {
	return ignoreDirectives[strings.TrimSpace(comment)]
}

// hasSetDirective reports whether a tag sets its content through a set:*
// attribute such as set:html.
func hasSetDirective(n astro.Node) bool {
	for _, a := range n.Attrs {
		if strings.HasPrefix(a.Name, "set:") {
			return true
		}
	}
	return false
}

// inferScriptParser maps the type attribute of a <script> to a parser name.
func inferScriptParser(n astro.Node) string {
	a, ok := n.Attr("type")
	if !ok {
		return lang.BabelTS
	}
	typ := a.Value
	switch typ {
	case "module", "text/javascript", "text/babel", "application/javascript", "jsx":
		return lang.Babel
	case "application/x-typescript", "lang=ts":
		return lang.BabelTS
	case "text/markdown":
		return lang.Markdown
	case "text/html":
		return lang.HTML
	case "text/x-handlebars-template":
		return lang.Glimmer
	case "speculationrules":
		return lang.JSON
	}
	if strings.HasSuffix(typ, "json") || strings.HasSuffix(typ, "importmap") {
		return lang.JSON
	}
	return lang.BabelTS
}
