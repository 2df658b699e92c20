// Package controllers adapts HTTP requests to the storefront services.
package controllers

import (
	"net/http"
	"strconv"

	"github.com/chiquebutik/butik/app/errs"
	"github.com/chiquebutik/butik/pkg/auth"
	"github.com/chiquebutik/butik/pkg/bind"
	"github.com/chiquebutik/butik/pkg/orm"
	"github.com/chiquebutik/butik/pkg/response"
)

// decode binds the JSON body into dest. On failure the response has been
// written and false is returned.
func decode(w http.ResponseWriter, r *http.Request, dest interface{}) bool {
	fields, err := bind.JSON(r, dest)
	if err != nil {
		response.Fail(w, errs.E(errs.InvalidArgument, "%s", err.Error()))
		return false
	}
	if fields != nil {
		response.ValidationError(w, fields)
		return false
	}
	return true
}

// userID returns the signed-in caller, writing 401 when there is none.
func userID(w http.ResponseWriter, r *http.Request) (string, bool) {
	id, ok := auth.UserID(r.Context())
	if !ok {
		response.Unauthorized(w)
	}
	return id, ok
}

func page(r *http.Request) orm.Page {
	q := r.URL.Query()
	limit, _ := strconv.Atoi(q.Get("limit"))
	offset, _ := strconv.Atoi(q.Get("offset"))
	return orm.Page{Limit: limit, Offset: offset}.Normalize()
}

// uintParam parses a positive id, reporting InvalidArgument otherwise.
func uintParam(raw, name string) (uint, error) {
	n, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || n == 0 {
		return 0, errs.E(errs.InvalidArgument, "%s must be a positive integer", name)
	}
	return uint(n), nil
}
