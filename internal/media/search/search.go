package search

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"mediadepot/internal/depot"
	"mediadepot/internal/media"
)

// ErrPageNotFound indicates a page number outside [1, total_pages]. The
// bound is a hard check, not a clamp.
var ErrPageNotFound = errors.New("page not found")

// Params describes one search request. PageSize comes from configuration
// (table vs grid view), never from the client.
type Params struct {
	Table    media.Table
	Query    string
	Field    string // single-field target; empty means search-all mode
	FileType string // exact-match filter
	Genre    string // exact-match filter
	Page     int
	PageSize int
}

// Row is one decorated result.
type Row struct {
	media.Asset
	depot.Decoration
}

// Result is one page of search output with the echoed parameters.
type Result struct {
	Rows       []Row  `json:"rows"`
	Page       int    `json:"page"`
	TotalPages int    `json:"total_pages"`
	TotalCount int    `json:"total_count"`
	Query      string `json:"query"`
	Field      string `json:"field,omitempty"`
	FileType   string `json:"file_type,omitempty"`
	Genre      string `json:"genre,omitempty"`
}

// Engine executes searches against the metadata store and decorates rows
// through the path resolver.
type Engine struct {
	store    *media.Store
	resolver *depot.Resolver
}

// New builds a search engine.
func New(store *media.Store, resolver *depot.Resolver) *Engine {
	return &Engine{store: store, resolver: resolver}
}

// searchAllFields are OR-combined in search-all mode.
var searchAllFields = []media.Field{
	media.FieldGenre, media.FieldCategory, media.FieldSubject, media.FieldTags,
}

// Search runs one paginated query.
func (e *Engine) Search(ctx context.Context, p Params) (*Result, error) {
	if p.PageSize <= 0 {
		return nil, fmt.Errorf("page size must be positive, got %d", p.PageSize)
	}
	p.Query = strings.TrimSpace(p.Query)

	if p.Query != "" && p.Field == media.FieldCaptions.String() {
		return e.searchCaptions(ctx, p)
	}

	where, args, err := buildWhere(p)
	if err != nil {
		return nil, err
	}

	total, err := e.store.Count(ctx, p.Table, where, args)
	if err != nil {
		return nil, err
	}

	totalPages := pageCount(total, p.PageSize)
	if err := checkPage(p.Page, totalPages); err != nil {
		return nil, err
	}

	assets, err := e.store.Select(ctx, p.Table, where, args, p.PageSize, (p.Page-1)*p.PageSize)
	if err != nil {
		return nil, err
	}

	return e.result(p, assets, total, totalPages), nil
}

// buildWhere composes the WHERE clause shared by the SELECT and COUNT.
// Field names reach the SQL text only through the media.Field enum.
func buildWhere(p Params) (string, []any, error) {
	var clauses []string
	var args []any

	if p.Query != "" {
		if p.Field == "" {
			// Search-all mode: LIKE across the descriptive fields.
			like := make([]string, 0, len(searchAllFields))
			for _, field := range searchAllFields {
				like = append(like, fmt.Sprintf("%s LIKE ?", field))
				args = append(args, "%"+p.Query+"%")
			}
			clauses = append(clauses, "("+strings.Join(like, " OR ")+")")
		} else {
			field, err := media.ParseSearchableField(p.Field)
			if err != nil {
				return "", nil, err
			}
			clauses = append(clauses, fmt.Sprintf("%s LIKE ?", field))
			args = append(args, "%"+p.Query+"%")
		}
	}

	if p.FileType != "" {
		clauses = append(clauses, fmt.Sprintf("%s = ?", media.FieldFileType))
		args = append(args, p.FileType)
	}
	if p.Genre != "" {
		clauses = append(clauses, fmt.Sprintf("%s = ?", media.FieldGenre))
		args = append(args, p.Genre)
	}

	return strings.Join(clauses, " AND "), args, nil
}

func pageCount(total, pageSize int) int {
	return (total + pageSize - 1) / pageSize
}

func checkPage(page, totalPages int) error {
	if totalPages > 0 && (page < 1 || page > totalPages) {
		return fmt.Errorf("%w: page %d of %d", ErrPageNotFound, page, totalPages)
	}
	return nil
}

func (e *Engine) result(p Params, assets []media.Asset, total, totalPages int) *Result {
	rows := make([]Row, 0, len(assets))
	for _, asset := range assets {
		rows = append(rows, Row{
			Asset:      asset,
			Decoration: e.resolver.Decorate(asset.FilePath, asset.FileType),
		})
	}
	return &Result{
		Rows:       rows,
		Page:       p.Page,
		TotalPages: totalPages,
		TotalCount: total,
		Query:      p.Query,
		Field:      p.Field,
		FileType:   p.FileType,
		Genre:      p.Genre,
	}
}
