package gmaps

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/chromedp/cdproto/cdp"
	"github.com/chromedp/chromedp"
)

// ErrNoMatch is returned by a Source when a selector matches no element.
var ErrNoMatch = errors.New("no element matches selector")

// Source reads values from the first element matching a CSS selector.
type Source interface {
	Text(ctx context.Context, selector string) (string, error)
	Attr(ctx context.Context, selector, name string) (string, error)
}

// PageSource reads from the live chromedp tab carried by ctx. Lookups never
// wait for an element to appear; each one is bounded by attemptTimeout.
type PageSource struct {
	attemptTimeout time.Duration
}

// NewPageSource creates a PageSource. ctx passed to its methods must be a
// chromedp context whose tab is already open.
func NewPageSource(attemptTimeout time.Duration) *PageSource {
	return &PageSource{attemptTimeout: attemptTimeout}
}

func (s *PageSource) Text(ctx context.Context, selector string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, s.attemptTimeout)
	defer cancel()

	node, err := s.first(ctx, selector)
	if err != nil {
		return "", err
	}

	var text string
	if err := chromedp.Run(ctx, chromedp.Text([]cdp.NodeID{node.NodeID}, &text, chromedp.ByNodeID)); err != nil {
		return "", fmt.Errorf("read text of %q: %w", selector, err)
	}
	return text, nil
}

func (s *PageSource) Attr(ctx context.Context, selector, name string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, s.attemptTimeout)
	defer cancel()

	node, err := s.first(ctx, selector)
	if err != nil {
		return "", err
	}

	val, ok := node.Attribute(name)
	if !ok {
		return "", fmt.Errorf("%q has no attribute %q", selector, name)
	}
	return val, nil
}

func (s *PageSource) first(ctx context.Context, selector string) (*cdp.Node, error) {
	var nodes []*cdp.Node
	if err := chromedp.Run(ctx, chromedp.Nodes(selector, &nodes, chromedp.ByQuery, chromedp.AtLeast(0))); err != nil {
		return nil, fmt.Errorf("query %q: %w", selector, err)
	}
	if len(nodes) == 0 {
		return nil, ErrNoMatch
	}
	return nodes[0], nil
}

// HTMLSource reads from a parsed HTML document, such as a saved copy of the
// detail panel.
type HTMLSource struct {
	doc *goquery.Document
}

// NewHTMLSource parses r as HTML.
func NewHTMLSource(r io.Reader) (*HTMLSource, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("gmaps: parse html: %w", err)
	}
	return &HTMLSource{doc: doc}, nil
}

func (s *HTMLSource) Text(_ context.Context, selector string) (string, error) {
	sel := s.doc.Find(selector).First()
	if sel.Length() == 0 {
		return "", ErrNoMatch
	}
	return sel.Text(), nil
}

func (s *HTMLSource) Attr(_ context.Context, selector, name string) (string, error) {
	sel := s.doc.Find(selector).First()
	if sel.Length() == 0 {
		return "", ErrNoMatch
	}
	val, ok := sel.Attr(name)
	if !ok {
		return "", fmt.Errorf("%q has no attribute %q", selector, name)
	}
	return val, nil
}
