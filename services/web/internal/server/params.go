package server

import (
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/peterpolkadot/crypto-search/services/web/internal/search"
)

// pageParam reads ?page=, treating anything unparseable or below 1 as 1.
func pageParam(c *gin.Context) int {
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		return 1
	}
	return page
}

// sortParam reads ?sort=&dir= and then applies ?toggle=, the column the
// user clicked.
func sortParam(c *gin.Context) search.SortSpec {
	spec := search.ParseSortSpec(c.Query("sort"), c.Query("dir"))
	if key, ok := search.ParseSortKey(c.Query("toggle")); ok {
		spec = spec.Request(key)
	}
	return spec
}

func queryParam(c *gin.Context) string {
	return strings.TrimSpace(c.Query("q"))
}
