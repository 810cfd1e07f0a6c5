package handlers

import (
	"net/url"
	"strconv"
)

const (
	prevLabel = "&laquo; Previous"
	nextLabel = "Next &raquo;"

	// pages shown on each side of the current one
	onEachSide = 3
)

type PageLink struct {
	URL    *string `json:"url"`
	Label  string  `json:"label"`
	Active bool    `json:"active"`
}

// Page is the length-aware paginator envelope returned by list endpoints.
type Page[T any] struct {
	CurrentPage  int        `json:"current_page"`
	Data         []T        `json:"data"`
	FirstPageURL string     `json:"first_page_url"`
	From         *int       `json:"from"`
	LastPage     int        `json:"last_page"`
	LastPageURL  string     `json:"last_page_url"`
	Links        []PageLink `json:"links"`
	NextPageURL  *string    `json:"next_page_url"`
	Path         string     `json:"path"`
	PerPage      int        `json:"per_page"`
	PrevPageURL  *string    `json:"prev_page_url"`
	To           *int       `json:"to"`
	Total        int        `json:"total"`
}

// NewPage builds the envelope for one slice of a result set. Page URLs keep
// every query parameter of base except page.
func NewPage[T any](items []T, total, page, perPage int, base *url.URL) Page[T] {
	if items == nil {
		items = []T{}
	}

	lastPage := (total + perPage - 1) / perPage
	if lastPage < 1 {
		lastPage = 1
	}

	pageURL := func(n int) string {
		q := base.Query()
		q.Set("page", strconv.Itoa(n))
		return base.Path + "?" + q.Encode()
	}

	p := Page[T]{
		CurrentPage:  page,
		Data:         items,
		FirstPageURL: pageURL(1),
		LastPage:     lastPage,
		LastPageURL:  pageURL(lastPage),
		Path:         base.Path,
		PerPage:      perPage,
		Total:        total,
	}

	if len(items) > 0 {
		from := (page-1)*perPage + 1
		to := from + len(items) - 1
		p.From = &from
		p.To = &to
	}

	if page > 1 {
		prev := pageURL(page - 1)
		p.PrevPageURL = &prev
	}

	if page < lastPage {
		next := pageURL(page + 1)
		p.NextPageURL = &next
	}

	p.Links = append(p.Links, PageLink{URL: p.PrevPageURL, Label: prevLabel})

	for _, n := range pageWindow(page, lastPage) {
		if n == 0 {
			p.Links = append(p.Links, PageLink{Label: "..."})
			continue
		}

		u := pageURL(n)
		p.Links = append(p.Links, PageLink{URL: &u, Label: strconv.Itoa(n), Active: n == page})
	}

	p.Links = append(p.Links, PageLink{URL: p.NextPageURL, Label: nextLabel})

	return p
}

// pageWindow lists the page numbers to link, 0 marks a gap.
func pageWindow(current, last int) []int {
	window := onEachSide + 4

	if last < onEachSide*2+8 {
		return pageRange(1, last)
	}

	var out []int

	switch {
	case current <= window:
		out = append(out, pageRange(1, window+onEachSide)...)
		out = append(out, 0)
		out = append(out, pageRange(last-1, last)...)
	case current > last-window:
		out = append(out, pageRange(1, 2)...)
		out = append(out, 0)
		out = append(out, pageRange(last-(window+onEachSide-1), last)...)
	default:
		out = append(out, pageRange(1, 2)...)
		out = append(out, 0)
		out = append(out, pageRange(current-onEachSide, current+onEachSide)...)
		out = append(out, 0)
		out = append(out, pageRange(last-1, last)...)
	}

	return out
}

func pageRange(from, to int) []int {
	out := make([]int, 0, to-from+1)
	for i := from; i <= to; i++ {
		out = append(out, i)
	}
	return out
}
