package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/alecthomas/kong"
	"gopkg.in/yaml.v3"
)

// YAMLLoader is a kong.ConfigurationLoader for YAML files. Top-level keys
// set global flags; a mapping named after a command sets that command's
// flags and wins over the top level:
//
//	verbose: true
//	model: gemini-2.5-pro
//	analyze:
//	  max-iterations: 80
//	  focus: [contracts, regulatory]
//
// Keys may use hyphens or underscores.
func YAMLLoader(r io.Reader) (kong.Resolver, error) {
	values := map[string]any{}
	if err := yaml.NewDecoder(r).Decode(&values); err != nil && err != io.EOF {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	return kong.ResolverFunc(func(kctx *kong.Context, parent *kong.Path, flag *kong.Flag) (any, error) {
		if cmd := selectedCommand(kctx); cmd != "" {
			if section, ok := lookup(values, cmd).(map[string]any); ok {
				if v := lookup(section, flag.Name); v != nil {
					return v, nil
				}
			}
		}
		return lookup(values, flag.Name), nil
	}), nil
}

func selectedCommand(kctx *kong.Context) string {
	if kctx == nil {
		return ""
	}
	if node := kctx.Selected(); node != nil {
		return node.Name
	}
	return ""
}

func lookup(m map[string]any, name string) any {
	if v, ok := m[name]; ok {
		return v
	}
	if v, ok := m[strings.ReplaceAll(name, "-", "_")]; ok {
		return v
	}
	return nil
}
