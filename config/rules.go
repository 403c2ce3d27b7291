package config

import (
	"fmt"
	"strings"

	"github.com/Gobd/apispec"
)

// Rules implements apispec.Ruler.
func (c *Config) Rules() []*apispec.FieldRules {
	return []*apispec.FieldRules{
		apispec.Field(&c.Info),
		apispec.Field(&c.Servers),
		apispec.Field(&c.SecuritySchemes),
		apispec.Field(&c.Security, apispec.By(c.knownSchemes, "each name is a configured security scheme")),
		apispec.Field(&c.Exceptions, apispec.By(statusCodes, "values are status codes")),
		apispec.Field(&c.Output),
		apispec.Field(&c.Log),
	}
}

func (c *Config) knownSchemes(value any) error {
	names, _ := value.([]string)
	for _, n := range names {
		if _, ok := c.SecuritySchemes[n]; !ok {
			return fmt.Errorf("unknown security scheme %q", n)
		}
	}
	return nil
}

func statusCodes(value any) error {
	m, _ := value.(map[string]int)
	for class, status := range m {
		if status < 100 || status > 599 {
			return fmt.Errorf("%s: %d is not a status code", class, status)
		}
	}
	return nil
}

// Rules implements apispec.Ruler.
func (i *Info) Rules() []*apispec.FieldRules {
	return []*apispec.FieldRules{
		apispec.Field(&i.Title, apispec.Required, apispec.Length(1, 200)),
		apispec.Field(&i.Version, apispec.Required),
	}
}

// Rules implements apispec.Ruler.
func (s *Server) Rules() []*apispec.FieldRules {
	return []*apispec.FieldRules{
		apispec.Field(&s.URL, apispec.Required),
	}
}

// Rules implements apispec.Ruler.
func (s *SecurityScheme) Rules() []*apispec.FieldRules {
	return []*apispec.FieldRules{
		apispec.Field(&s.Type, apispec.Required, apispec.In("http", "apiKey", "oauth2", "openIdConnect")),
		apispec.Field(&s.In, apispec.In("query", "header", "cookie")),
	}
}

// Rules implements apispec.Ruler.
func (o *Output) Rules() []*apispec.FieldRules {
	return []*apispec.FieldRules{
		apispec.Field(&o.Path, apispec.Required),
	}
}

// Rules implements apispec.Ruler.
func (l *Log) Rules() []*apispec.FieldRules {
	return []*apispec.FieldRules{
		apispec.Field(&l.Level, apispec.In("trace", "debug", "info", "warn", "error", "fatal", "panic", "disabled")),
	}
}

// Normalize lower-cases the log level.
func (l *Log) Normalize() {
	l.Level = strings.ToLower(strings.TrimSpace(l.Level))
}
