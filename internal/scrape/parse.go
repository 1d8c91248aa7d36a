package scrape

import (
	"encoding/json"
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	domain "github.com/varcodes/trackmyprices/pkg/types"
)

// Selectors are the CSS selectors used to read a product page. Each field
// may list several comma-separated alternatives, tried in the order given;
// the first alternative yielding a usable value wins regardless of where
// its element sits in the document.
type Selectors struct {
	Title         string
	Price         string
	OriginalPrice string
	Currency      string
	Availability  string
	Image         string
	Discount      string
	Description   string
	Category      string
	Stars         string
	Reviews       string
}

// DefaultSelectors match Amazon product detail pages.
func DefaultSelectors() Selectors {
	return Selectors{
		Title: "#productTitle",
		Price: strings.Join([]string{
			".priceToPay span.a-offscreen",
			".priceToPay span.a-price-whole",
			"#corePrice_feature_div span.a-offscreen",
			"#priceblock_dealprice",
			"#priceblock_ourprice",
			".a-price .a-offscreen",
		}, ", "),
		OriginalPrice: strings.Join([]string{
			".basisPrice span.a-offscreen",
			".a-price.a-text-price span.a-offscreen",
			"#listPrice",
		}, ", "),
		Currency:     ".a-price-symbol",
		Availability: "#availability span",
		Image:        "#imgBlkFront, #landingImage",
		Discount:     ".savingsPercentage",
		Description:  "#feature-bullets li span.a-list-item, #productDescription",
		Category:     "#wayfinding-breadcrumbs_feature_div ul li a",
		Stars:        "#acrPopover",
		Reviews:      "#acrCustomerReviewText",
	}
}

// Override returns s with every non-empty field of o replacing the default.
func (s Selectors) Override(o Selectors) Selectors {
	pick := func(def, override string) string {
		if override != "" {
			return override
		}
		return def
	}
	return Selectors{
		Title:         pick(s.Title, o.Title),
		Price:         pick(s.Price, o.Price),
		OriginalPrice: pick(s.OriginalPrice, o.OriginalPrice),
		Currency:      pick(s.Currency, o.Currency),
		Availability:  pick(s.Availability, o.Availability),
		Image:         pick(s.Image, o.Image),
		Discount:      pick(s.Discount, o.Discount),
		Description:   pick(s.Description, o.Description),
		Category:      pick(s.Category, o.Category),
		Stars:         pick(s.Stars, o.Stars),
		Reviews:       pick(s.Reviews, o.Reviews),
	}
}

var (
	numberPattern   = regexp.MustCompile(`\d[\d,]*(?:\.\d+)?`)
	outOfStockWords = []string{"currently unavailable", "out of stock", "sold out", "outofstock"}
)

// Extract reads a snapshot from doc. It returns ErrUnrecognizedPage when
// neither the configured selectors nor Open Graph product tags match, and
// ErrIncomplete when a title or a positive price is missing.
func (s Selectors) Extract(doc *goquery.Selection) (*domain.Snapshot, error) {
	title := firstText(doc, s.Title)
	currentPrice := firstPrice(doc, s.Price)
	ogTitle := metaContent(doc, "og:title")
	ogPrice := metaContent(doc, "product:price:amount")

	if firstMatch(doc, s.Title).Length() == 0 && firstMatch(doc, s.Price).Length() == 0 &&
		ogTitle == "" && ogPrice == "" {
		return nil, ErrUnrecognizedPage
	}

	snap := &domain.Snapshot{
		Title:         firstNonEmpty(title, ogTitle),
		CurrentPrice:  currentPrice,
		OriginalPrice: firstPrice(doc, s.OriginalPrice),
		Currency: firstNonEmpty(
			firstText(doc, s.Currency),
			metaContent(doc, "product:price:currency"),
		),
		IsOutOfStock: isOutOfStock(
			firstNonEmpty(
				firstText(doc, s.Availability),
				metaContent(doc, "product:availability"),
			),
		),
		DiscountRate: parseNumber(firstText(doc, s.Discount)),
		Description:  joinTexts(firstMatch(doc, s.Description), "\n"),
		Category:     cleanText(firstMatch(doc, s.Category).Last().Text()),
		ReviewsCount: int(parseNumber(firstText(doc, s.Reviews))),
	}

	if snap.CurrentPrice <= 0 {
		snap.CurrentPrice = parseNumber(ogPrice)
	}
	if snap.OriginalPrice <= 0 {
		snap.OriginalPrice = snap.CurrentPrice
	}

	stars := firstMatch(doc, s.Stars).First()
	if title, ok := stars.Attr("title"); ok {
		snap.Stars = parseNumber(title)
	} else {
		snap.Stars = parseNumber(stars.Text())
	}

	snap.Images = imageURLs(firstMatch(doc, s.Image).First())
	if len(snap.Images) == 0 {
		if og := metaContent(doc, "og:image"); og != "" {
			snap.Images = []string{og}
		}
	}
	if len(snap.Images) > 0 {
		snap.Image = snap.Images[0]
	}

	if snap.Title == "" || snap.CurrentPrice <= 0 {
		return nil, ErrIncomplete
	}
	return snap, nil
}

// parseNumber returns the first number in text with thousands separators
// removed, or 0 when text has none.
func parseNumber(text string) float64 {
	m := numberPattern.FindString(text)
	if m == "" {
		return 0
	}
	v, err := strconv.ParseFloat(strings.ReplaceAll(m, ",", ""), 64)
	if err != nil {
		return 0
	}
	return v
}

// alternatives splits a selector list on top-level commas, leaving commas
// inside brackets, parentheses or quotes alone.
func alternatives(list string) []string {
	var (
		out   []string
		depth int
		quote rune
		start int
	)
	for i, r := range list {
		switch {
		case quote != 0:
			if r == quote {
				quote = 0
			}
		case r == '"' || r == '\'':
			quote = r
		case r == '[' || r == '(':
			depth++
		case r == ']' || r == ')':
			depth--
		case r == ',' && depth == 0:
			if alt := strings.TrimSpace(list[start:i]); alt != "" {
				out = append(out, alt)
			}
			start = i + 1
		}
	}
	if alt := strings.TrimSpace(list[start:]); alt != "" {
		out = append(out, alt)
	}
	return out
}

// firstMatch returns the elements of the first alternative that matches
// anything, or an empty selection.
func firstMatch(doc *goquery.Selection, list string) *goquery.Selection {
	for _, alt := range alternatives(list) {
		if sel := doc.Find(alt); sel.Length() > 0 {
			return sel
		}
	}
	return doc.Slice(0, 0)
}

// firstText returns the first non-empty element text, trying alternatives
// in order.
func firstText(doc *goquery.Selection, list string) string {
	for _, alt := range alternatives(list) {
		var text string
		doc.Find(alt).EachWithBreak(func(_ int, el *goquery.Selection) bool {
			text = cleanText(el.Text())
			return text == ""
		})
		if text != "" {
			return text
		}
	}
	return ""
}

// firstPrice returns the first positive price, trying alternatives in
// order.
func firstPrice(doc *goquery.Selection, list string) float64 {
	for _, alt := range alternatives(list) {
		var price float64
		doc.Find(alt).EachWithBreak(func(_ int, el *goquery.Selection) bool {
			price = parseNumber(el.Text())
			return price <= 0
		})
		if price > 0 {
			return price
		}
	}
	return 0
}

func isOutOfStock(availability string) bool {
	a := strings.ToLower(availability)
	for _, w := range outOfStockWords {
		if strings.Contains(a, w) {
			return true
		}
	}
	return false
}

// imageURLs reads the data-a-dynamic-image JSON object, whose keys are image
// URLs, preserving document order. It falls back to the src attribute.
func imageURLs(img *goquery.Selection) []string {
	if raw, ok := img.Attr("data-a-dynamic-image"); ok && raw != "" {
		dec := json.NewDecoder(strings.NewReader(raw))
		var urls []string
		if tok, err := dec.Token(); err == nil && tok == json.Delim('{') {
			for dec.More() {
				key, err := dec.Token()
				if err != nil {
					break
				}
				if k, ok := key.(string); ok {
					urls = append(urls, k)
				}
				var skip json.RawMessage
				if err := dec.Decode(&skip); err != nil {
					break
				}
			}
		}
		if len(urls) > 0 {
			return urls
		}
	}
	if src, ok := img.Attr("src"); ok && src != "" {
		return []string{src}
	}
	return nil
}

func metaContent(doc *goquery.Selection, property string) string {
	content, _ := doc.Find(`meta[property="` + property + `"]`).First().Attr("content")
	return strings.TrimSpace(content)
}

func joinTexts(sel *goquery.Selection, sep string) string {
	var parts []string
	sel.Each(func(_ int, el *goquery.Selection) {
		if t := cleanText(el.Text()); t != "" {
			parts = append(parts, t)
		}
	})
	return strings.Join(parts, sep)
}

func cleanText(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
