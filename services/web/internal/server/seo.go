package server

import (
	"encoding/xml"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

const sitemapNamespace = "http://www.sitemaps.org/schemas/sitemap/0.9"

type urlset struct {
	XMLName xml.Name     `xml:"urlset"`
	Xmlns   string       `xml:"xmlns,attr"`
	URLs    []sitemapURL `xml:"url"`
}

type sitemapURL struct {
	Loc        string `xml:"loc"`
	LastMod    string `xml:"lastmod,omitempty"`
	ChangeFreq string `xml:"changefreq"`
	Priority   string `xml:"priority"`
}

func (s *Server) sitemap(c *gin.Context) {
	base := strings.TrimRight(s.opts.Site.BaseURL, "/")
	now := time.Now().UTC()

	set := urlset{
		Xmlns: sitemapNamespace,
		URLs: []sitemapURL{{
			Loc:        base + "/",
			ChangeFreq: "hourly",
			Priority:   "1.0",
		}},
	}

	entries, err := s.catalog.ListSitemapCoins(c.Request.Context(), s.opts.SitemapLimit)
	if err != nil {
		s.catalogFailed("list_sitemap", err, logrus.Fields{"limit": s.opts.SitemapLimit})
	}
	for _, entry := range entries {
		lastMod := now
		if entry.LastUpdated != nil {
			lastMod = entry.LastUpdated.UTC()
		}
		set.URLs = append(set.URLs, sitemapURL{
			Loc:        base + "/coins/" + entry.Symbol,
			LastMod:    lastMod.Format(time.RFC3339),
			ChangeFreq: "hourly",
			Priority:   "0.8",
		})
	}

	body, err := xml.MarshalIndent(set, "", "  ")
	if err != nil {
		s.logger.WithError(err).Error("Failed to encode sitemap")
		c.Status(http.StatusInternalServerError)
		return
	}

	c.Data(http.StatusOK, "text/xml; charset=utf-8", append([]byte(xml.Header), body...))
}

func (s *Server) robots(c *gin.Context) {
	base := strings.TrimRight(s.opts.Site.BaseURL, "/")
	c.String(http.StatusOK, "User-agent: *\nAllow: /\nSitemap: %s/sitemap.xml\n", base)
}
