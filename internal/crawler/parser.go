package crawler

import (
	"errors"
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"perfumeprj/internal/extract"
	"perfumeprj/internal/model"
)

var ErrUnexpectedLayout = errors.New("unexpected page layout")

var nonDigit = regexp.MustCompile(`[^0-9]`)

// Search result field keys; they line up with the extractor's synonym table.
const (
	KeyASIN  = "asin"
	KeyTitle = "title"
	KeyURL   = "url"
	KeyImage = "image"
	KeyPrice = "price"
	KeyBrand = "brand"
)

var productImageSelectors = []string{
	"#landingImage",
	"img#imgBlkFront",
	"img.a-dynamic-image",
	"div.imgTagWrapper img",
}

// ParseSearchResults reads one search results page. A page without the
// results container is ErrUnexpectedLayout; a container with no usable items
// yields an empty slice.
func ParseSearchResults(html, base string) ([]model.RawRow, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, err
	}

	slot := doc.Find(resultsSelector)
	if slot.Length() == 0 {
		return nil, ErrUnexpectedLayout
	}

	var rows []model.RawRow
	slot.Find("div.s-result-item[data-asin]").Each(func(i int, s *goquery.Selection) {
		asin := strings.TrimSpace(s.AttrOr("data-asin", ""))
		if asin == "" {
			return
		}
		title := firstText(s, "h2 a.a-link-normal span", "h2 span")
		if title == "" {
			return
		}

		row := model.RawRow{Source: fmt.Sprintf("result %d", i+1)}
		row.Add(KeyASIN, asin)
		row.Add(KeyTitle, title)

		href, _ := s.Find("h2 a.a-link-normal").First().Attr("href")
		if href == "" {
			href, _ = s.Find("a.a-link-normal[href*='/dp/']").First().Attr("href")
		}
		if abs := absoluteURL(base, href); abs != "" {
			row.Add(KeyURL, abs)
		}

		img := s.Find("img.s-image").First()
		if src := img.AttrOr("src", ""); src != "" {
			row.Add(KeyImage, src)
		} else if src := img.AttrOr("data-src", ""); src != "" {
			row.Add(KeyImage, src)
		}

		whole := nonDigit.ReplaceAllString(s.Find("span.a-price span.a-price-whole").First().Text(), "")
		if whole != "" {
			frac := nonDigit.ReplaceAllString(s.Find("span.a-price span.a-price-fraction").First().Text(), "")
			if frac == "" {
				frac = "00"
			}
			row.Add(KeyPrice, whole+"."+frac)
		}

		rows = append(rows, row)
	})
	return rows, nil
}

// ParseProductPage picks the main image and stock line from a /dp/ page.
func ParseProductPage(html string) (model.ProductPage, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return model.ProductPage{}, err
	}

	var page model.ProductPage
	for _, sel := range productImageSelectors {
		if src := strings.TrimSpace(doc.Find(sel).First().AttrOr("src", "")); src != "" {
			page.ImageURL = src
			break
		}
	}
	if canonical, ok := doc.Find(`link[rel="canonical"]`).Attr("href"); ok {
		page.ASIN, _ = extract.ASINFromURL(canonical)
	}
	if avail, ok := extract.ParseAvailability(doc.Find("#availability").First().Text()); ok {
		page.Available = &avail
	}
	return page, nil
}

func firstText(s *goquery.Selection, selectors ...string) string {
	for _, sel := range selectors {
		if t := strings.TrimSpace(s.Find(sel).First().Text()); t != "" {
			return t
		}
	}
	return ""
}

func absoluteURL(base, ref string) string {
	if ref == "" {
		return ""
	}
	b, err := url.Parse(base)
	if err != nil {
		return ""
	}
	r, err := url.Parse(ref)
	if err != nil {
		return ""
	}
	return b.ResolveReference(r).String()
}
