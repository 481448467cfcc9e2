// Package render turns generated ideas into card view models and Markdown.
package render

import (
	"bytes"
	"html/template"
	"net/url"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"reel_idea_generator/generator"
)

const imageSearchBase = "https://www.google.com/search"

// accents cycle by card position.
var accents = []string{"accent-violet", "accent-sky", "accent-emerald"}

var md = goldmark.New(goldmark.WithExtensions(extension.Linkify))

// Card is everything the page needs to draw one idea.
type Card struct {
	Number           int
	Accent           string
	Title            string
	Hook             string
	SearchQuery      string
	SearchURL        string
	Development      template.HTML
	CallToAction     template.HTML
	Hashtags         []string
	VisualSuggestion template.HTML
}

// NewCard builds the card for the idea at position index (zero based).
func NewCard(idea generator.PostIdea, index int) Card {
	query := strings.TrimSpace(idea.Script.Hook.ImageSearchQuery)
	return Card{
		Number:           index + 1,
		Accent:           accents[((index%len(accents))+len(accents))%len(accents)],
		Title:            idea.Title,
		Hook:             idea.Script.Hook.Text,
		SearchQuery:      query,
		SearchURL:        ImageSearchURL(query),
		Development:      mdToHTML(idea.Script.Development),
		CallToAction:     mdToHTML(idea.Script.CallToAction),
		Hashtags:         Hashtags(idea.Hashtags),
		VisualSuggestion: mdToHTML(idea.VisualSuggestion),
	}
}

// Cards builds one card per idea, keeping slot order.
func Cards(ideas []generator.PostIdea) []Card {
	cards := make([]Card, 0, len(ideas))
	for i, idea := range ideas {
		cards = append(cards, NewCard(idea, i))
	}
	return cards
}

// ImageSearchURL points at a Google Images search for query.
func ImageSearchURL(query string) string {
	q := url.Values{}
	q.Set("tbm", "isch")
	q.Set("q", strings.TrimSpace(query))
	return imageSearchBase + "?" + q.Encode()
}

// Hashtags formats tags as chips with exactly one leading '#', dropping blanks.
func Hashtags(tags []string) []string {
	out := make([]string, 0, len(tags))
	for _, tag := range tags {
		tag = strings.TrimLeft(strings.TrimSpace(tag), "#")
		tag = strings.Join(strings.Fields(tag), "")
		if tag == "" {
			continue
		}
		out = append(out, "#"+tag)
	}
	return out
}

// mdToHTML renders model text that may carry light Markdown. goldmark drops
// raw HTML by default, so the output is safe to embed.
func mdToHTML(text string) template.HTML {
	var buf bytes.Buffer
	if err := md.Convert([]byte(text), &buf); err != nil {
		return template.HTML("<p>" + template.HTMLEscapeString(text) + "</p>")
	}
	return template.HTML(buf.String())
}
