package contracts

import (
	"encoding/json"
	"fmt"
	"io/fs"
	"strings"
	"sync"

	"listings-service/schemas"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

const eventsRoot = "events"

var (
	compiledSchemas map[string]*jsonschema.Schema
	loadErr         error
	loadOnce        sync.Once
)

// Load компилирует все встроенные схемы событий. Повторные вызовы возвращают тот же результат.
func Load() error {
	loadOnce.Do(func() {
		compiledSchemas, loadErr = compileAll(schemas.SchemasFS)
	})
	return loadErr
}

func compileAll(fsys fs.FS) (map[string]*jsonschema.Schema, error) {
	compiler := jsonschema.NewCompiler()
	compiler.Draft = jsonschema.Draft2020
	compiler.AssertFormat = true

	var paths []string
	// Сначала все схемы добавляются как ресурсы, чтобы работали $ref между ними
	err := fs.WalkDir(fsys, eventsRoot, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(path, ".json") {
			return nil
		}
		file, err := fsys.Open(path)
		if err != nil {
			return err
		}
		defer file.Close()
		if err := compiler.AddResource(path, file); err != nil {
			return fmt.Errorf("failed to add schema resource %s: %w", path, err)
		}
		paths = append(paths, path)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("error walking schema resources: %w", err)
	}

	compiled := make(map[string]*jsonschema.Schema, len(paths))
	for _, path := range paths {
		schema, err := compiler.Compile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to compile schema %s: %w", path, err)
		}
		key := generateKeyFromPath(path)
		if key == "" {
			return nil, fmt.Errorf("schema path %s does not follow events/<name>/v<N>.json", path)
		}
		compiled[key] = schema
	}
	return compiled, nil
}

// generateKeyFromPath преобразует "events/listing-created/v1.json" в "ListingCreatedEvent/1.0.0"
func generateKeyFromPath(path string) string {
	trimmed := strings.TrimPrefix(path, eventsRoot+"/")
	trimmed = strings.TrimSuffix(trimmed, ".json")

	parts := strings.Split(trimmed, "/")
	if len(parts) != 2 || !strings.HasPrefix(parts[1], "v") {
		return ""
	}

	return fmt.Sprintf("%s/%s", EventTypeName(parts[0]), strings.TrimPrefix(parts[1], "v")+".0.0")
}

// EventTypeName переводит имя каталога схемы в имя типа события: "listing-created" -> "ListingCreatedEvent"
func EventTypeName(slug string) string {
	caser := cases.Title(language.English)
	var b strings.Builder
	for _, p := range strings.Split(slug, "-") {
		b.WriteString(caser.String(p))
	}
	b.WriteString("Event")
	return b.String()
}

// ValidateEvent проверяет тело сообщения по схеме типа и версии события
func ValidateEvent(eventType, eventVersion string, body []byte) error {
	if err := Load(); err != nil {
		return err
	}

	key := fmt.Sprintf("%s/%s", eventType, eventVersion)
	schema, ok := compiledSchemas[key]
	if !ok {
		return fmt.Errorf("schema for event '%s' version '%s' not found", eventType, eventVersion)
	}

	var v interface{}
	if err := json.Unmarshal(body, &v); err != nil {
		return fmt.Errorf("message body is not a valid JSON: %w", err)
	}
	if err := schema.Validate(v); err != nil {
		return fmt.Errorf("JSON schema validation failed: %w", err)
	}
	return nil
}
