package utils

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type PaginationParams struct {
	Page    int `json:"page" form:"page"`
	PerPage int `json:"per_page" form:"per_page"`
}

type PaginationMeta struct {
	Total       int64 `json:"total"`
	Pages       int   `json:"pages"`
	CurrentPage int   `json:"current_page"`
	HasNext     bool  `json:"has_next"`
	HasPrev     bool  `json:"has_prev"`
}

func GetPaginationParams(c *gin.Context, defaultPerPage int) *PaginationParams {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	perPage, _ := strconv.Atoi(c.DefaultQuery("per_page", strconv.Itoa(defaultPerPage)))
	return NewPaginationParams(page, perPage)
}

func NewPaginationParams(page, perPage int) *PaginationParams {
	if page < 1 {
		page = 1
	}
	if perPage < MinPageSize {
		perPage = DefaultPageSize
	}
	if perPage > MaxPageSize {
		perPage = MaxPageSize
	}
	return &PaginationParams{Page: page, PerPage: perPage}
}

func (p *PaginationParams) GetSkip() int {
	return (p.Page - 1) * p.PerPage
}

func (p *PaginationParams) GetLimit() int {
	return p.PerPage
}

// FindOptions pages a query sorted descending by the given fields.
func (p *PaginationParams) FindOptions(sortFields ...string) *options.FindOptions {
	opts := options.Find().
		SetSkip(int64(p.GetSkip())).
		SetLimit(int64(p.GetLimit()))

	if len(sortFields) > 0 {
		sort := bson.D{}
		for _, f := range sortFields {
			sort = append(sort, bson.E{Key: f, Value: -1})
		}
		opts.SetSort(sort)
	}

	return opts
}

func CreatePaginationMeta(params *PaginationParams, total int64) *PaginationMeta {
	pages := int((total + int64(params.PerPage) - 1) / int64(params.PerPage))

	return &PaginationMeta{
		Total:       total,
		Pages:       pages,
		CurrentPage: params.Page,
		HasNext:     params.Page < pages,
		HasPrev:     params.Page > 1,
	}
}
