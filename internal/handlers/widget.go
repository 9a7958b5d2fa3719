package handlers

import (
	"errors"
	"fmt"
	"io"
	"slices"
	"strings"

	"golang.org/x/net/html"
)

// ErrMissingElement is returned by NewMain when the widget page lacks an element the page script
// depends on.
var ErrMissingElement = errors.New("required element not found")

var (
	requiredIDs = []string{
		"input-area",
		"input",
		"output",
		"timer",
		"chat-container",
		"main-message",
	}
	requiredMessageClasses = []string{
		"message-content",
		"message-timer",
	}
)

func verifyWidget(r io.Reader) error {
	doc, err := html.Parse(r)
	if err != nil {
		return fmt.Errorf("failed to parse widget: %w", err)
	}

	ids := make(map[string]*html.Node)
	walk(doc, func(n *html.Node) bool {
		if id := attr(n, "id"); id != "" {
			if _, ok := ids[id]; !ok {
				ids[id] = n
			}
		}
		return false
	})

	for _, id := range requiredIDs {
		if _, ok := ids[id]; !ok {
			return fmt.Errorf("%w: #%s", ErrMissingElement, id)
		}
	}

	mainMessage := ids["main-message"]
	for _, class := range requiredMessageClasses {
		found := false
		walk(mainMessage, func(n *html.Node) bool {
			found = n != mainMessage && slices.Contains(strings.Fields(attr(n, "class")), class)
			return found
		})
		if !found {
			return fmt.Errorf("%w: #main-message .%s", ErrMissingElement, class)
		}
	}

	return nil
}

// walk visits element nodes depth-first until fn returns true.
func walk(n *html.Node, fn func(*html.Node) bool) bool {
	if n.Type == html.ElementNode && fn(n) {
		return true
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if walk(c, fn) {
			return true
		}
	}
	return false
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}
