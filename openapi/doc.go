// Package openapi assembles an OpenAPI 3.0 document from a harvested
// application manifest.
//
// A [Generator] walks the route table, builds one operation per
// documented route and collects the model and resource schemas the
// operations reference into components:
//
//	cfg, _ := config.Load("")
//	m, _ := manifest.Load(cfg.Manifest.Path)
//	doc, report, err := openapi.New(m, cfg).Generate(ctx)
//	if err != nil {
//	    return err
//	}
//	return openapi.Write(doc, cfg.Output.Path)
//
// Routes that cannot be documented are skipped and listed in the
// [Report] with the reason; they never fail the run. Only writing the
// document can fail, with an error wrapping [ErrWrite].
package openapi
