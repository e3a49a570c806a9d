// Package formatter provides the printer for .astro files.
//
// It walks the parsed tree and builds a layout document for it, handing
// frontmatter, expressions, scripts and styles to the embedded language
// formatters. Regions whose language cannot be formatted are printed as
// they appear in the source. Used by the "astrofmt fmt" command.
package formatter
