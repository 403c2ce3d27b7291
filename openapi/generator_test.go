package openapi_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/Gobd/apispec/config"
	"github.com/Gobd/apispec/manifest"
	"github.com/Gobd/apispec/openapi"
	"github.com/getkin/kin-openapi/openapi3"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2024, 3, 5, 14, 7, 9, 0, time.UTC)

const shop = `
routes:
  - {method: POST, path: /api/products, handler: 'App\Http\Controllers\ProductController@store'}
  - {method: GET, path: /api/products, handler: 'App\Http\Controllers\ProductController@index'}
  - {method: HEAD, path: /api/products, handler: 'App\Http\Controllers\ProductController@index'}
  - {method: GET|HEAD, path: 'api/products/{product}', handler: 'App\Http\Controllers\ProductController@show'}
  - {method: DELETE, path: '/api/products/{product?}', handler: 'App\Http\Controllers\ProductController::destroy'}
  - {method: GET, path: /api/products/search, handler: 'App\Http\Controllers\ProductController@search'}
  - {method: GET, path: /api/hidden, handler: 'App\Http\Controllers\ProductController@hidden'}
  - {method: GET, path: '/users/{id}/posts/{postId}', handler: 'App\Http\Controllers\PostController@show'}
  - {method: GET, path: /ping, handler: Closure}
  - {method: GET, path: /missing, handler: 'App\Http\Controllers\MissingController@index'}
  - {method: GET, path: /nomethod, handler: 'App\Http\Controllers\ProductController@nothing'}
  - {method: GET, path: /_ignition/health-check, handler: 'Spatie\Ignition\HealthCheckController'}
  - {method: POST, path: /api/products, handler: 'App\Http\Controllers\ProductController@store'}

controllers:
  App\Http\Controllers\ProductController:
    tag_description: Product catalogue
    exceptions: [AuthenticationException]
    methods:
      store:
        params:
          - {name: request, type: App\Http\Requests\CreateProductRequest}
        returns: App\Http\Resources\ProductResource
      index:
        returns: AnonymousResourceCollection
        source: |
          return ProductResource::collection(Product::paginate());
      show:
        doc: |
          /**
           * Show a product.
           *
           * Returns the product with its price.
           *
           * @deprecated
           */
        returns: ProductResource
        exceptions:
          - ModelNotFoundException
          - {class: AuthenticationException, status: 401, description: Never used}
      destroy: {}
      search:
        params:
          - {name: request, type: SearchRequest}
      hidden:
        document: false
  App\Http\Controllers\PostController:
    methods:
      show: {}

requests:
  App\Http\Requests\CreateProductRequest:
    rules:
      name: required|string|max:255
      price: required|numeric|min:0
  App\Http\Requests\SearchRequest:
    rules:
      q: required|string
      page: [integer, "min:1"]

resources:
  App\Http\Resources\ProductResource:
    annotation: {model: Product}

models:
  App\Models\Product:
    annotation:
      properties:
        - {name: id, type: int, required: true}
        - {name: name, type: string, required: true}
        - {name: price, type: float}
`

func generate(t *testing.T, doc string, cfg *config.Config) (*openapi3.T, openapi.Report) {
	t.Helper()
	m, err := manifest.DecodeBytes([]byte(doc))
	require.NoError(t, err)
	if cfg == nil {
		cfg, err = config.Default()
		require.NoError(t, err)
	}
	out, report, err := openapi.New(m, cfg, openapi.WithNow(func() time.Time { return fixedNow })).Generate(context.Background())
	require.NoError(t, err)
	return out, report
}

func toMap(t *testing.T, v any) map[string]any {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	var out map[string]any
	require.NoError(t, json.Unmarshal(b, &out))
	return out
}

func operation(t *testing.T, doc *openapi3.T, method, path string) *openapi3.Operation {
	t.Helper()
	item := doc.Paths.Value(path)
	require.NotNil(t, item, "path %s", path)
	op := item.GetOperation(method)
	require.NotNil(t, op, "%s %s", method, path)
	return op
}

func codes(op *openapi3.Operation) []string {
	return manifest.SortedKeys(op.Responses.Map())
}

func TestGenerate_CreateProduct(t *testing.T) {
	doc, _ := generate(t, shop, nil)
	op := operation(t, doc, "POST", "/api/products")

	assert.Equal(t, "product_store", op.OperationID)
	assert.Equal(t, "Create product", op.Summary)
	assert.Equal(t, []string{"Product"}, op.Tags)

	require.NotNil(t, op.RequestBody)
	assert.True(t, op.RequestBody.Value.Required)
	media := op.RequestBody.Value.Content.Get("application/json")
	require.NotNil(t, media)
	body := toMap(t, media.Schema.Value)

	assert.Equal(t, "object", body["type"])
	assert.Equal(t, []any{"name", "price"}, body["required"])
	props := body["properties"].(map[string]any)
	require.Len(t, props, 2)

	name := props["name"].(map[string]any)
	assert.Equal(t, "string", name["type"])
	assert.Equal(t, float64(255), name["maxLength"])
	assert.NotContains(t, name, "required")

	price := props["price"].(map[string]any)
	assert.Equal(t, "number", price["type"])
	assert.Equal(t, float64(0), price["minimum"])

	assert.Equal(t, []string{"200", "401", "422"}, codes(op))
	assert.Equal(t, "#/components/schemas/Product", op.Responses.Value("200").Value.Content.Get("application/json").Schema.Ref)

	errBody := toMap(t, op.Responses.Value("422").Value.Content.Get("application/json").Schema.Value)
	assert.Equal(t, []any{"message", "errors"}, errBody["required"])
}

func TestGenerate_InferredCollection(t *testing.T) {
	doc, _ := generate(t, shop, nil)
	op := operation(t, doc, "GET", "/api/products")

	assert.Equal(t, "List products", op.Summary)
	body := toMap(t, op.Responses.Value("200").Value.Content.Get("application/json").Schema.Value)
	props := body["properties"].(map[string]any)
	assert.Contains(t, props, "links")
	assert.Contains(t, props, "meta")
	data := props["data"].(map[string]any)
	assert.Equal(t, "#/components/schemas/Product", data["items"].(map[string]any)["$ref"])
}

func TestGenerate_DocCommentAndExceptions(t *testing.T) {
	doc, _ := generate(t, shop, nil)
	op := operation(t, doc, "GET", "/api/products/{product}")

	assert.Equal(t, "Show a product.", op.Summary)
	assert.Equal(t, "Returns the product with its price.", op.Description)
	assert.True(t, op.Deprecated)
	assert.Equal(t, []string{"200", "401", "404"}, codes(op))
	assert.Equal(t, "Authentication", *op.Responses.Value("401").Value.Description,
		"class-level exception wins over the method-level one for the same status")
	assert.Equal(t, "Model not found", *op.Responses.Value("404").Value.Description)

	require.Len(t, op.Parameters, 1)
	p := op.Parameters[0].Value
	assert.Equal(t, "product", p.Name)
	assert.Equal(t, "path", p.In)
	assert.True(t, p.Required)
	assert.Equal(t, "ID of the product", p.Description)
}

func TestGenerate_PathParameters(t *testing.T) {
	doc, _ := generate(t, shop, nil)
	op := operation(t, doc, "GET", "/users/{id}/posts/{postId}")

	require.Len(t, op.Parameters, 2)
	for i, name := range []string{"id", "postId"} {
		p := op.Parameters[i].Value
		assert.Equal(t, name, p.Name)
		assert.Equal(t, "path", p.In)
		assert.True(t, p.Required)
		assert.Contains(t, p.Description, name)
		assert.True(t, p.Schema.Value.Type.Is("string"))
	}
}

func TestGenerate_DefaultResponses(t *testing.T) {
	doc, _ := generate(t, shop, nil)
	op := operation(t, doc, "GET", "/users/{id}/posts/{postId}")

	assert.Equal(t, []string{"200", "400", "401", "500"}, codes(op))
	assert.Equal(t, "Get post", op.Summary)
}

func TestGenerate_QueryParameters(t *testing.T) {
	doc, _ := generate(t, shop, nil)
	op := operation(t, doc, "GET", "/api/products/search")

	assert.Nil(t, op.RequestBody)
	require.Len(t, op.Parameters, 2)
	q := op.Parameters.GetByInAndName("query", "q")
	require.NotNil(t, q)
	assert.True(t, q.Required)
	page := op.Parameters.GetByInAndName("query", "page")
	require.NotNil(t, page)
	assert.False(t, page.Required)
	assert.True(t, page.Schema.Value.Type.Is("integer"))
	assert.Contains(t, codes(op), "422")
}

func TestGenerate_Skips(t *testing.T) {
	doc, report := generate(t, shop, nil)

	reasons := map[string]string{}
	for _, res := range report {
		if res.Status == openapi.Skipped {
			reasons[string(res.Method)+" "+res.Path] = res.Reason
		}
	}
	assert.Equal(t, map[string]string{
		"HEAD /api/products":          "HEAD is documented with GET",
		"GET /api/hidden":             "opted out",
		"GET /ping":                   "closure handler",
		"GET /missing":                "class not found",
		"GET /nomethod":               "method not found",
		"GET /_ignition/health-check": "excluded path",
		"POST /api/products":          "duplicate route",
	}, reasons)

	assert.Equal(t, 6, report.Count(openapi.Documented))
	for _, path := range []string{"/ping", "/missing", "/nomethod", "/api/hidden", "/_ignition/health-check"} {
		assert.Nil(t, doc.Paths.Value(path), path)
	}
}

func TestGenerate_OptionalPlaceholderAndDestroy(t *testing.T) {
	doc, _ := generate(t, shop, nil)
	op := operation(t, doc, "DELETE", "/api/products/{product}")

	assert.Equal(t, "Delete product", op.Summary)
	assert.Equal(t, "product_destroy", op.OperationID)
	assert.Equal(t, []string{"401"}, codes(op))
}

func TestGenerate_Document(t *testing.T) {
	doc, _ := generate(t, shop, nil)

	assert.Equal(t, "3.0.0", doc.OpenAPI)
	assert.Equal(t, "API Documentation", doc.Info.Title)
	require.Len(t, doc.Tags, 2)
	assert.Equal(t, "Product", doc.Tags[0].Name)
	assert.Equal(t, "Product catalogue", doc.Tags[0].Description)
	assert.Equal(t, "Post", doc.Tags[1].Name)
	assert.Contains(t, doc.Components.Schemas, "Product")

	require.NoError(t, openapi.Validate(context.Background(), doc))
}

func TestGenerate_SharedTagDescription(t *testing.T) {
	doc, _ := generate(t, `
routes:
  - {method: GET, path: /orders, handler: 'OrderController@index'}
  - {method: GET, path: /refunds, handler: 'RefundController@index'}
  - {method: GET, path: /invoices, handler: 'InvoiceController@index'}
controllers:
  OrderController:
    tags: [Billing]
    methods:
      index: {}
  RefundController:
    tags: [Billing]
    tag_description: Orders, refunds and invoices
    methods:
      index: {}
  InvoiceController:
    tags: [Billing]
    tag_description: Invoices only
    methods:
      index: {}
`, nil)

	require.Len(t, doc.Tags, 1)
	assert.Equal(t, "Billing", doc.Tags[0].Name)
	assert.Equal(t, "Orders, refunds and invoices", doc.Tags[0].Description)
}

func TestGenerate_OptIn(t *testing.T) {
	cfg, err := config.Parse([]byte("routes: {require_opt_in: true, include: [/api]}"))
	require.NoError(t, err)

	const doc = `
routes:
  - {method: GET, path: /api/a, handler: 'A@index'}
  - {method: GET, path: /api/b, handler: 'B@index'}
  - {method: GET, path: /api/c, handler: 'B@show'}
  - {method: GET, path: /web/b, handler: 'B@index'}
controllers:
  A:
    methods:
      index: {document: true}
  B:
    document: true
    methods:
      index: {}
      show: {document: false}
`
	_, report := generate(t, doc, cfg)
	got := map[string]openapi.Status{}
	for _, res := range report {
		got[res.Path] = res.Status
	}
	assert.Equal(t, map[string]openapi.Status{
		"/api/a": openapi.Documented,
		"/api/b": openapi.Documented,
		"/api/c": openapi.Skipped,
		"/web/b": openapi.Skipped,
	}, got)
}

func TestGenerate_RequireOptInSkipsUnmarked(t *testing.T) {
	cfg, err := config.Parse([]byte("routes: {require_opt_in: true}"))
	require.NoError(t, err)

	_, report := generate(t, `
routes:
  - {method: GET, path: /a, handler: 'A@index'}
controllers:
  A:
    methods:
      index: {}
`, cfg)
	require.Len(t, report, 1)
	assert.Equal(t, openapi.Skipped, report[0].Status)
	assert.Equal(t, "not opted in", report[0].Reason)
}

func TestGenerate_ExplicitMetadata(t *testing.T) {
	doc, _ := generate(t, `
routes:
  - {method: PUT, path: '/orders/{order}', handler: 'OrderController@update'}
  - {method: PATCH, path: '/orders/{order}', handler: 'OrderController@update'}
controllers:
  OrderController:
    tags: [Orders]
    security: [bearer]
    methods:
      update:
        operation:
          summary: Replace an order
          operation_id: replaceOrder
          tags: [Orders, Billing]
        parameters:
          - {name: order, in: path, type: integer, description: Order number}
          - {name: X-Trace, in: header}
        parameter_annotations:
          - {name: order, in: path, type: string}
          - {name: dry_run, in: query, type: boolean}
        request_body:
          content_type: application/json
          required: true
          schema:
            type: object
            properties:
              note: {type: string}
        responses:
          "204": {description: Updated}
          "409": {description: Conflict, schema: {type: object}}
`, nil)

	put := operation(t, doc, "PUT", "/orders/{order}")
	assert.Equal(t, "Replace an order", put.Summary)
	assert.Equal(t, "replaceOrder", put.OperationID)
	assert.Equal(t, []string{"Orders", "Billing"}, put.Tags)
	require.NotNil(t, put.Security)
	assert.Equal(t, openapi3.SecurityRequirements{{"bearer": []string{}}}, *put.Security)

	var names []string
	for _, p := range put.Parameters {
		names = append(names, p.Value.In+":"+p.Value.Name)
	}
	assert.Equal(t, []string{"path:order", "header:X-Trace", "query:dry_run"}, names)
	order := put.Parameters.GetByInAndName("path", "order")
	assert.True(t, order.Schema.Value.Type.Is("integer"), "first declaration wins")
	assert.True(t, order.Required)

	if diff := cmp.Diff(map[string]any{
		"type":       "object",
		"properties": map[string]any{"note": map[string]any{"type": "string"}},
	}, toMap(t, put.RequestBody.Value.Content.Get("application/json").Schema.Value)); diff != "" {
		t.Errorf("request body (-want +got):\n%s", diff)
	}

	// Nothing to infer a 200 from, and explicit responses rule out the defaults.
	assert.Equal(t, []string{"204", "409"}, codes(put))

	patch := operation(t, doc, "PATCH", "/orders/{order}")
	assert.Equal(t, "replaceOrder_2", patch.OperationID)

	var tags []string
	for _, tag := range doc.Tags {
		tags = append(tags, tag.Name)
	}
	assert.Equal(t, []string{"Orders", "Billing"}, tags)
}

func TestGenerate_Multipart(t *testing.T) {
	doc, _ := generate(t, `
routes:
  - {method: POST, path: /avatars, handler: 'AvatarController@store'}
controllers:
  AvatarController:
    methods:
      store:
        params: [{name: request, type: UploadAvatarRequest}]
requests:
  UploadAvatarRequest:
    rules:
      avatar: required|image|max:2048
      caption: string
`, nil)

	op := operation(t, doc, "POST", "/avatars")
	media := op.RequestBody.Value.Content.Get("multipart/form-data")
	require.NotNil(t, media)
	assert.Equal(t, "binary", media.Schema.Value.Properties["avatar"].Value.Format)
}

func TestGenerate_BrokenRequestClass(t *testing.T) {
	doc, _ := generate(t, `
routes:
  - {method: POST, path: /things, handler: 'ThingController@store'}
controllers:
  ThingController:
    methods:
      store:
        params: [{name: request, type: ThingRequest}]
requests:
  ThingRequest:
    error: constructor requires a service
    rules: {name: required}
`, nil)

	op := operation(t, doc, "POST", "/things")
	assert.Nil(t, op.RequestBody)
	assert.Equal(t, []string{"200", "400", "401", "500"}, codes(op))
}

func TestGenerate_Canceled(t *testing.T) {
	m, err := manifest.DecodeBytes([]byte(shop))
	require.NoError(t, err)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, _, err = openapi.New(m, nil).Generate(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}
