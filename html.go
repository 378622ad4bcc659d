package relay

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"
)

// SetHTMLLang sets lang and dir attributes on the <html> tag of a translated document.
// Fragments without an <html> tag are returned unchanged, since the parser would wrap them.
func SetHTMLLang(html, targetLang string, logger *zap.Logger) string {
	if !strings.Contains(strings.ToLower(html), "<html") {
		return html
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		logger.Warn("html parse failed", zap.Error(err))
		return html
	}

	htmlTag := doc.Find("html")
	if htmlTag.Length() == 0 {
		return html
	}
	htmlTag.SetAttr("lang", ToHTMLLang(NormalizeLocale(targetLang)))
	htmlTag.SetAttr("dir", GetDirection(targetLang))

	result, err := goquery.OuterHtml(htmlTag)
	if err != nil {
		logger.Warn("html render failed", zap.Error(err))
		return html
	}
	if strings.HasPrefix(strings.ToLower(strings.TrimSpace(html)), "<!doctype") {
		result = "<!DOCTYPE html>\n" + result
	}
	return result
}
