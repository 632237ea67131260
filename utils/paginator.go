package utils

import (
	"net/http"
	"net/url"
	"strconv"

	"github.com/tabasaranec/blogapi/config"
)

// Pagination carries list metadata. Pages are zero-based; NextPage and
// PrevPage are absolute URLs preserving the request's other query values,
// omitted from the JSON body when there is no such page.
type Pagination struct {
	TotalCount int64   `json:"totalCount"`
	Count      int     `json:"count"`
	NextPage   *string `json:"nextPage,omitempty"`
	PrevPage   *string `json:"prevPage,omitempty"`
}

// Paginate builds Pagination for a list response served at route.
func Paginate(req *http.Request, route string, page, perPage int, totalCount int64, count int) Pagination {
	p := Pagination{TotalCount: totalCount, Count: count}

	if totalCount > int64(page+1)*int64(perPage) {
		p.NextPage = pageURL(req, route, page+1, perPage)
	}
	if page > 0 {
		p.PrevPage = pageURL(req, route, page-1, perPage)
	}
	return p
}

func pageURL(req *http.Request, route string, page, perPage int) *string {
	values := url.Values{}
	if req != nil {
		values = req.URL.Query()
	}
	values.Set("page", strconv.Itoa(page))
	values.Set("per_page", strconv.Itoa(perPage))

	u := config.Get().APIURL + route + "?" + values.Encode()
	return &u
}

// ParsePageQuery reads page/per_page query values with defaults and caps.
func ParsePageQuery(pageStr, perPageStr string) (int, int) {
	page, perPage := 0, 10
	if n, err := strconv.Atoi(pageStr); err == nil && n >= 0 {
		page = n
	}
	if n, err := strconv.Atoi(perPageStr); err == nil && n > 0 && n <= 100 {
		perPage = n
	}
	return page, perPage
}
