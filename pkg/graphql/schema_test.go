package graphql_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	gql "github.com/graphql-go/graphql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chiquebutik/butik/pkg/graphql"
)

func newHandler(t *testing.T) http.HandlerFunc {
	t.Helper()
	schema, err := graphql.NewSchema(gql.NewObject(gql.ObjectConfig{
		Name: "Query",
		Fields: gql.Fields{
			"hello": &gql.Field{
				Type: gql.String,
				Args: gql.FieldConfigArgument{"name": &gql.ArgumentConfig{Type: gql.String}},
				Resolve: func(p gql.ResolveParams) (interface{}, error) {
					name, _ := p.Args["name"].(string)
					return "hej " + name, nil
				},
			},
		},
	}))
	require.NoError(t, err)
	return graphql.Handler(schema)
}

func TestHandlerExecutesQueryWithVariables(t *testing.T) {
	body := `{"query":"query($n: String){ hello(name: $n) }","variables":{"n":"Anna"}}`
	rec := httptest.NewRecorder()
	newHandler(t)(rec, httptest.NewRequest(http.MethodPost, "/api/graphql", strings.NewReader(body)))

	require.Equal(t, http.StatusOK, rec.Code)
	var out struct {
		Data map[string]string `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	assert.Equal(t, "hej Anna", out.Data["hello"])
}

func TestHandlerRejectsBadRequests(t *testing.T) {
	for _, body := range []string{`not json`, `{"query":"  "}`} {
		rec := httptest.NewRecorder()
		newHandler(t)(rec, httptest.NewRequest(http.MethodPost, "/api/graphql", strings.NewReader(body)))
		assert.Equal(t, http.StatusBadRequest, rec.Code, body)
	}
}

func TestHandlerReportsQueryErrorsInBody(t *testing.T) {
	rec := httptest.NewRecorder()
	newHandler(t)(rec, httptest.NewRequest(http.MethodPost, "/api/graphql", strings.NewReader(`{"query":"{ nope }"}`)))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"errors"`)
}
