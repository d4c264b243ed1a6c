package service

import (
	"fmt"
	"net/url"
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"github.com/swift-add/website/internal/config"
	"github.com/swift-add/website/internal/domain"
)

const activeContentSelector = "script, iframe, object, embed, style, link, meta, form"

// ValidateCreative applies the per-kind rule: media kinds need a fetchable
// URL, text needs a short run of visible text with no active markup.
func ValidateCreative(c domain.Creative) error {
	if !c.Kind.Valid() {
		return fmt.Errorf("kind %q: %w", c.Kind, domain.ErrInvalidCreative)
	}
	if c.ClickURL != "" && !validWebURL(c.ClickURL) {
		return fmt.Errorf("click url: %w", domain.ErrInvalidCreative)
	}

	switch c.Kind {
	case domain.ContentKindImage, domain.ContentKindVideo:
		if !validMediaURL(c.ContentURL) {
			return fmt.Errorf("%s needs an http(s) or ipfs content url: %w", c.Kind, domain.ErrInvalidCreative)
		}
		if c.Description == "" {
			return nil
		}
	}

	text, err := visibleText(c.Description)
	if err != nil {
		return err
	}
	n := utf8.RuneCountInString(text)
	if c.Kind == domain.ContentKindText && n == 0 {
		return fmt.Errorf("text creative is empty: %w", domain.ErrInvalidCreative)
	}
	if n > config.MaxTextCreativeLen {
		return fmt.Errorf("text is %d chars, max %d: %w", n, config.MaxTextCreativeLen, domain.ErrInvalidCreative)
	}
	return nil
}

func visibleText(markup string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(markup))
	if err != nil {
		return "", fmt.Errorf("parse text: %w", domain.ErrInvalidCreative)
	}
	if doc.Find(activeContentSelector).Length() > 0 {
		return "", fmt.Errorf("active content not allowed: %w", domain.ErrInvalidCreative)
	}
	unsafe := false
	doc.Find("*").EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		for _, attr := range sel.Nodes[0].Attr {
			if strings.HasPrefix(strings.ToLower(attr.Key), "on") {
				unsafe = true
				return false
			}
		}
		return true
	})
	if unsafe {
		return "", fmt.Errorf("event handler attributes not allowed: %w", domain.ErrInvalidCreative)
	}
	return strings.TrimSpace(doc.Text()), nil
}

func validWebURL(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return false
	}
	return u.Scheme == "http" || u.Scheme == "https"
}

func validMediaURL(raw string) bool {
	if validWebURL(raw) {
		return true
	}
	u, err := url.Parse(raw)
	return err == nil && u.Scheme == "ipfs" && u.Host != ""
}
