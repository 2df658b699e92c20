// Package schema defines the read-only GraphQL view of the catalog.
package schema

import (
	"strconv"

	"github.com/graphql-go/graphql"

	"github.com/chiquebutik/butik/app/resources"
	"github.com/chiquebutik/butik/app/services"
	"github.com/chiquebutik/butik/pkg/orm"
)

// field resolves from a presented value of type T.
func field[T any](typ graphql.Output, get func(T) interface{}) *graphql.Field {
	return &graphql.Field{
		Type: typ,
		Resolve: func(p graphql.ResolveParams) (interface{}, error) {
			v, ok := p.Source.(T)
			if !ok {
				return nil, nil
			}
			return get(v), nil
		},
	}
}

var sizeType = graphql.NewObject(graphql.ObjectConfig{
	Name: "Size",
	Fields: graphql.Fields{
		"id":      field(graphql.ID, func(s resources.Size) interface{} { return s.ID }),
		"size":    field(graphql.String, func(s resources.Size) interface{} { return s.Size }),
		"inStock": field(graphql.Boolean, func(s resources.Size) interface{} { return s.InStock }),
	},
})

var imageType = graphql.NewObject(graphql.ObjectConfig{
	Name: "Image",
	Fields: graphql.Fields{
		"url":   field(graphql.String, func(i resources.Image) interface{} { return i.ImageURL }),
		"order": field(graphql.Int, func(i resources.Image) interface{} { return i.Order }),
	},
})

var productType = graphql.NewObject(graphql.ObjectConfig{
	Name: "Product",
	Fields: graphql.Fields{
		"id":          field(graphql.ID, func(p resources.Product) interface{} { return p.ID }),
		"slug":        field(graphql.String, func(p resources.Product) interface{} { return p.Slug }),
		"title":       field(graphql.String, func(p resources.Product) interface{} { return p.Title }),
		"description": field(graphql.String, func(p resources.Product) interface{} { return p.Description }),
		"price":       field(graphql.String, func(p resources.Product) interface{} { return p.Price }),
		"category":    field(graphql.String, func(p resources.Product) interface{} { return p.Category }),
		"color":       field(graphql.String, func(p resources.Product) interface{} { return p.Color }),
		"imageUrl":    field(graphql.String, func(p resources.Product) interface{} { return p.ImageURL }),
		"soldOut":     field(graphql.Boolean, func(p resources.Product) interface{} { return p.SoldOut }),
		"sizes":       field(graphql.NewList(sizeType), func(p resources.Product) interface{} { return p.Sizes }),
		"images":      field(graphql.NewList(imageType), func(p resources.Product) interface{} { return p.Images }),
	},
})

// Catalog builds the root query over catalog and presenter.
func Catalog(catalog *services.CatalogService, pr *resources.Presenter) *graphql.Object {
	return graphql.NewObject(graphql.ObjectConfig{
		Name: "Query",
		Fields: graphql.Fields{
			"products": &graphql.Field{
				Type: graphql.NewList(productType),
				Args: graphql.FieldConfigArgument{
					"category": &graphql.ArgumentConfig{Type: graphql.String},
					"limit":    &graphql.ArgumentConfig{Type: graphql.Int},
					"offset":   &graphql.ArgumentConfig{Type: graphql.Int},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					category, _ := p.Args["category"].(string)
					page, err := catalog.List(p.Context, category, pageArgs(p.Args))
					if err != nil {
						return nil, err
					}
					return pr.Products(p.Context, page.Products), nil
				},
			},
			"product": &graphql.Field{
				Type: productType,
				Args: graphql.FieldConfigArgument{
					"id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					raw, _ := p.Args["id"].(string)
					id, err := strconv.ParseUint(raw, 10, 64)
					if err != nil {
						return nil, err
					}
					product, err := catalog.Get(p.Context, uint(id))
					if err != nil {
						return nil, err
					}
					return pr.Product(p.Context, product), nil
				},
			},
			"search": &graphql.Field{
				Type: graphql.NewList(productType),
				Args: graphql.FieldConfigArgument{
					"query":  &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
					"limit":  &graphql.ArgumentConfig{Type: graphql.Int},
					"offset": &graphql.ArgumentConfig{Type: graphql.Int},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					q, _ := p.Args["query"].(string)
					rows, err := catalog.Search(p.Context, q, pageArgs(p.Args))
					if err != nil {
						return nil, err
					}
					return pr.Products(p.Context, rows), nil
				},
			},
			"categories": &graphql.Field{
				Type: graphql.NewList(graphql.String),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return catalog.Categories(p.Context)
				},
			},
		},
	})
}

func pageArgs(args map[string]interface{}) orm.Page {
	limit, _ := args["limit"].(int)
	offset, _ := args["offset"].(int)
	return orm.Page{Limit: limit, Offset: offset}
}
