// Package apispec infers OpenAPI 3 schemas from validation rules.
//
// Rules are values implementing [Rule]: each one validates a value and
// describes itself on a kin-openapi schema. The [Interpreter] parses
// pipe-delimited rule strings into rules and property schemas:
//
//	var in apispec.Interpreter
//	prop, _ := in.Interpret("name", apispec.SplitRules("required|string|max:255"))
//	// prop.Schema is {type: string, maxLength: 255}, prop.Required is true
//
// [MapType] maps type tokens found in annotations and doc comments to an
// OpenAPI type and format.
//
// The same rules validate Go structs that implement [Ruler]:
//
//	func (c *Server) Rules() []*apispec.FieldRules {
//	    return []*apispec.FieldRules{
//	        apispec.Field(&c.Address, apispec.Required),
//	    }
//	}
//
// and [NewSchemaRefForValue] turns such structs into schemas.
//
// Sub-packages:
//   - docblock – doc-comment parsing
//   - manifest – the application metadata the generator reads
//   - schema – model and resource schema builders
//   - openapi – operation builder and document assembler
//   - config – layered generator settings
//   - server – HTTP surface for the generated document
package apispec
