// Package config loads the generator settings. Sources are layered with
// increasing priority: built-in defaults, an optional YAML file, then
// APISPEC_ environment variables.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/Gobd/apispec"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/rawbytes"
	"github.com/knadh/koanf/v2"
)

// EnvPrefix prefixes every environment variable read by Load.
const EnvPrefix = "APISPEC_"

// DefaultFile is read when Load is given no path.
const DefaultFile = "apispec.yaml"

// Config is the full generator configuration.
type Config struct {
	Info            Info                      `koanf:"info"`
	Servers         []Server                  `koanf:"servers"`
	SecuritySchemes map[string]SecurityScheme `koanf:"security_schemes"`
	// Security lists the scheme names applied to every operation.
	Security []string `koanf:"security"`

	Routes     Routes         `koanf:"routes"`
	Models     Namespaces     `koanf:"models"`
	Resources  Resources      `koanf:"resources"`
	Requests   Namespaces     `koanf:"requests"`
	Exceptions map[string]int `koanf:"exceptions"`

	Output   Output   `koanf:"output"`
	Manifest Manifest `koanf:"manifest"`
	Server   HTTP     `koanf:"server"`
	Log      Log      `koanf:"log"`
}

// Info is the document's info object.
type Info struct {
	Title       string `koanf:"title"`
	Description string `koanf:"description"`
	Version     string `koanf:"version"`
}

// Server is one entry of the document's servers list.
type Server struct {
	URL         string `koanf:"url"`
	Description string `koanf:"description"`
}

// SecurityScheme is a components.securitySchemes entry.
type SecurityScheme struct {
	Type         string `koanf:"type"`
	Scheme       string `koanf:"scheme"`
	BearerFormat string `koanf:"bearer_format"`
	In           string `koanf:"in"`
	Name         string `koanf:"name"`
	Description  string `koanf:"description"`
}

// Routes selects which routes are documented.
type Routes struct {
	// Include is a path-prefix allowlist; empty documents every route.
	Include []string `koanf:"include"`
	// Exclude adds path prefixes to the framework-internal denylist.
	Exclude []string `koanf:"exclude"`
	// RequireOptIn documents only routes whose method or class opts in.
	RequireOptIn bool `koanf:"require_opt_in"`
}

// Namespaces is the probing order for unqualified class names.
type Namespaces struct {
	Namespaces []string `koanf:"namespaces"`
}

// Resources configures resource resolution.
type Resources struct {
	Namespaces []string `koanf:"namespaces"`
	// PaginateCollections is the default for collections that do not say.
	PaginateCollections bool `koanf:"paginate_collections"`
}

// Output is where the generated document is written.
type Output struct {
	Path string `koanf:"path"`
}

// Manifest is where the harvested application metadata is read from.
type Manifest struct {
	Path string `koanf:"path"`
}

// HTTP configures the documentation server.
type HTTP struct {
	Address     string `koanf:"address"`
	SpecRoute   string `koanf:"spec_route"`
	ViewerRoute string `koanf:"viewer_route"`
}

// Log configures logging.
type Log struct {
	Level  string `koanf:"level"`
	Pretty bool   `koanf:"pretty"`
}

// ExceptionDefaults maps framework exception classes to status codes.
var ExceptionDefaults = map[string]int{
	"ValidationException":       422,
	"AuthenticationException":   401,
	"AuthorizationException":    403,
	"ModelNotFoundException":    404,
	"NotFoundHttpException":     404,
	"ThrottleRequestsException": 429,
}

func defaults() map[string]any {
	exceptions := make(map[string]any, len(ExceptionDefaults))
	for class, status := range ExceptionDefaults {
		exceptions[class] = status
	}
	return map[string]any{
		"info.title":                     "API Documentation",
		"info.description":               "",
		"info.version":                   "1.0.0",
		"routes.require_opt_in":          false,
		"models.namespaces":              []string{`App\Models`, `App`},
		"resources.namespaces":           []string{`App\Http\Resources`},
		"resources.paginate_collections": true,
		"requests.namespaces":            []string{`App\Http\Requests`},
		"exceptions":                     exceptions,
		"output.path":                    "storage/api-docs/openapi.json",
		"manifest.path":                  "manifest.yaml",
		"server.address":                 ":8080",
		"server.spec_route":              "/docs/openapi.json",
		"server.viewer_route":            "/docs",
		"log.level":                      "info",
		"log.pretty":                     false,
	}
}

// Default returns the built-in configuration.
func Default() (*Config, error) {
	k, err := withDefaults()
	if err != nil {
		return nil, err
	}
	return finish(k)
}

// Load reads defaults, then path (or DefaultFile when path is empty), then
// the environment. A missing DefaultFile is not an error; a missing
// explicit path is.
func Load(path string) (*Config, error) {
	k, err := withDefaults()
	if err != nil {
		return nil, err
	}

	explicit := path != ""
	if !explicit {
		path = DefaultFile
	}
	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		if explicit || !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to load %s: %w", path, err)
		}
	}

	if err := loadEnv(k, os.Environ); err != nil {
		return nil, err
	}
	return finish(k)
}

// Parse reads defaults overlaid with the YAML document b. The environment
// is not consulted.
func Parse(b []byte) (*Config, error) {
	k, err := withDefaults()
	if err != nil {
		return nil, err
	}
	if err := k.Load(rawbytes.Provider(b), yaml.Parser()); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return finish(k)
}

func withDefaults() (*koanf.Koanf, error) {
	k := koanf.New(".")
	if err := k.Load(confmap.Provider(defaults(), "."), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}
	return k, nil
}

func finish(k *koanf.Koanf) (*Config, error) {
	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := apispec.NormalizeAndValidate(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

// sections are the top-level keys, longest first, so that
// APISPEC_SECURITY_SCHEMES_X is not read as security.schemes_x.
var sections = []string{
	"security_schemes", "resources", "exceptions", "requests", "security",
	"manifest", "servers", "routes", "models", "output", "server", "info", "log",
}

// listKeys are split on commas when read from the environment.
var listKeys = map[string]bool{
	"security":             true,
	"routes.include":       true,
	"routes.exclude":       true,
	"models.namespaces":    true,
	"resources.namespaces": true,
	"requests.namespaces":  true,
}

func loadEnv(k *koanf.Koanf, environ func() []string) error {
	p := env.Provider(".", env.Opt{
		Prefix:        EnvPrefix,
		TransformFunc: envKey,
		EnvironFunc:   environ,
	})
	if err := k.Load(p, nil); err != nil {
		return fmt.Errorf("failed to load environment variables: %w", err)
	}
	return nil
}

// envKey maps APISPEC_ROUTES_REQUIRE_OPT_IN to routes.require_opt_in. The
// section is matched against the known top-level keys; the rest of the
// name stays one key. Unknown sections are dropped.
func envKey(name, value string) (string, any) {
	key := strings.ToLower(strings.TrimPrefix(name, EnvPrefix))
	for _, s := range sections {
		if key == s {
			break
		}
		if rest, ok := strings.CutPrefix(key, s+"_"); ok {
			key = s + "." + rest
			break
		}
	}
	if !isSection(key) {
		return "", nil
	}
	if listKeys[key] {
		var out []string
		for _, v := range strings.Split(value, ",") {
			if v = strings.TrimSpace(v); v != "" {
				out = append(out, v)
			}
		}
		return key, out
	}
	return key, value
}

func isSection(key string) bool {
	head, _, _ := strings.Cut(key, ".")
	for _, s := range sections {
		if head == s {
			return true
		}
	}
	return false
}
