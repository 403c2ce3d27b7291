// Package schema builds the component schemas of models and the response
// schemas of resources from a manifest.
//
// A [Builder] lives for one generation run. It memoizes model schemas by
// class, registers them under components.schemas and keeps the set of
// classes currently being expanded so circular relations end in a
// placeholder instead of recursing forever:
//
//	b := schema.New(manifest.NewIndex(m))
//	ref := b.Resource(`App\Http\Resources\UserResource`, schema.Card{})
//	doc.Components.Schemas = b.Components()
//
// Both builders are ordered lists of tiers. The first tier that produces a
// schema wins; nothing is merged across tiers.
package schema
