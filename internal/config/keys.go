package config

import (
	"fmt"
	"reflect"
	"slices"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"mapext/internal/match"
)

// fieldsOf maps the tag names of t's fields to their types.
func fieldsOf(t reflect.Type, tag string) map[string]reflect.Type {
	fields := make(map[string]reflect.Type, t.NumField())

	for i := range t.NumField() {
		f := t.Field(i)

		name, _, _ := strings.Cut(f.Tag.Get(tag), ",")
		if name == "" || name == "-" {
			continue
		}

		fields[name] = f.Type
	}

	return fields
}

func unknownKey(path []string, known map[string]reflect.Type) error {
	key := strings.Join(path, ".")

	candidates := make([]string, 0, len(known))
	for name := range known {
		candidates = append(candidates, name)
	}

	slices.Sort(candidates)

	if s, ok := match.Closest(path[len(path)-1], candidates); ok {
		return fmt.Errorf("unknown config key %q (did you mean %q?)", key, s)
	}

	return fmt.Errorf("unknown config key %q", key)
}

// checkYAMLKeys rejects mapping keys that do not name a field of t.
func checkYAMLKeys(node *yaml.Node, t reflect.Type, path []string) error {
	if node.Kind == yaml.DocumentNode {
		for _, n := range node.Content {
			if err := checkYAMLKeys(n, t, path); err != nil {
				return err
			}
		}

		return nil
	}

	if node.Kind != yaml.MappingNode || t.Kind() != reflect.Struct {
		return nil
	}

	known := fieldsOf(t, "yaml")

	for i := 0; i+1 < len(node.Content); i += 2 {
		key := node.Content[i].Value
		keyPath := append(slices.Clone(path), key)

		ft, ok := known[key]
		if !ok {
			return fmt.Errorf("line %d: %w", node.Content[i].Line, unknownKey(keyPath, known))
		}

		if err := checkYAMLKeys(node.Content[i+1], ft, keyPath); err != nil {
			return err
		}
	}

	return nil
}

// checkTOMLKeys rejects keys the decoder left undecoded.
func checkTOMLKeys(meta toml.MetaData, t reflect.Type) error {
	for _, key := range meta.Undecoded() {
		parent := t

		for _, part := range key[:len(key)-1] {
			ft, ok := fieldsOf(parent, "toml")[part]
			if !ok || ft.Kind() != reflect.Struct {
				break
			}

			parent = ft
		}

		return unknownKey([]string(key), fieldsOf(parent, "toml"))
	}

	return nil
}
