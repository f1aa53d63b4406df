package service

import (
	"net/url"
	"strconv"

	"escapedia/pkg/model"
)

type Sort string

const (
	SortNew       Sort = "new"
	SortPriceAsc  Sort = "priceAsc"
	SortPriceDesc Sort = "priceDesc"
	SortPopular   Sort = "popular"
)

var validSorts = map[Sort]string{
	SortNew:       "Novedades",
	SortPriceAsc:  "Precio: menor a mayor",
	SortPriceDesc: "Precio: mayor a menor",
	SortPopular:   "Más populares",
}

// SortOptions lists the catalog orderings in display order.
func SortOptions() []SortOption {
	order := []Sort{SortNew, SortPriceAsc, SortPriceDesc, SortPopular}
	out := make([]SortOption, 0, len(order))
	for _, s := range order {
		out = append(out, SortOption{Value: s, Label: validSorts[s]})
	}
	return out
}

type SortOption struct {
	Value Sort
	Label string
}

// Filters is the catalog query. Empty fields are not sent.
type Filters struct {
	City       string
	Difficulty model.Difficulty
	Theme      string
	Sort       Sort
	Page       int
}

// FiltersFromQuery reads the catalog filters, dropping values the API would not accept.
func FiltersFromQuery(q url.Values) Filters {
	f := Filters{
		City:  q.Get("city"),
		Theme: q.Get("theme"),
		Page:  1,
	}
	if d := model.Difficulty(q.Get("difficulty")); d.Valid() {
		f.Difficulty = d
	}
	if s := Sort(q.Get("sort")); validSorts[s] != "" {
		f.Sort = s
	}
	if p, err := strconv.Atoi(q.Get("page")); err == nil && p > 1 {
		f.Page = p
	}
	return f
}

// Query builds the API query: empty filters omitted, page and limit always present.
func (f Filters) Query(limit int) url.Values {
	q := f.values()
	page := f.Page
	if page < 1 {
		page = 1
	}
	q.Set("page", strconv.Itoa(page))
	q.Set("limit", strconv.Itoa(limit))
	return q
}

func (f Filters) values() url.Values {
	q := url.Values{}
	if f.City != "" {
		q.Set("city", f.City)
	}
	if f.Difficulty != "" {
		q.Set("difficulty", string(f.Difficulty))
	}
	if f.Theme != "" {
		q.Set("theme", f.Theme)
	}
	if f.Sort != "" {
		q.Set("sort", string(f.Sort))
	}
	return q
}

// WithFilter changes one filter and returns to the first page.
func (f Filters) WithFilter(key, value string) Filters {
	switch key {
	case "city":
		f.City = value
	case "difficulty":
		f.Difficulty = model.Difficulty(value)
	case "theme":
		f.Theme = value
	case "sort":
		f.Sort = Sort(value)
	default:
		return f
	}
	f.Page = 1
	return f
}

// PageURL links to another page of the same filtered catalog.
func (f Filters) PageURL(page int) string {
	q := f.values()
	if page > 1 {
		q.Set("page", strconv.Itoa(page))
	}
	if len(q) == 0 {
		return "/"
	}
	return "/?" + q.Encode()
}

// RemoveURL links to the catalog without one filter, back on the first page.
func (f Filters) RemoveURL(key string) string {
	return f.WithFilter(key, "").PageURL(1)
}

func (f Filters) Active() bool {
	return f.City != "" || f.Difficulty != "" || f.Theme != "" || f.Sort != ""
}
