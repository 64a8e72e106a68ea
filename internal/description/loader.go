// Package description loads table description documents and memoizes the
// resulting catalog snapshot.
package description

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"

	"kvcatalog/internal/domain"
)

// FileSource reads table description documents from a directory. Each
// *.json, *.yaml, or *.yml file declares one table. A document may omit its
// table name (defaults to the file basename) and its schema name (defaults
// to the configured default schema).
type FileSource struct {
	dir           string
	defaultSchema string
	logger        *slog.Logger
}

// NewFileSource creates a FileSource over the given directory.
func NewFileSource(dir, defaultSchema string, logger *slog.Logger) *FileSource {
	return &FileSource{
		dir:           dir,
		defaultSchema: defaultSchema,
		logger:        logger.With("component", "description-source"),
	}
}

var _ domain.DescriptionSource = (*FileSource)(nil)

// FetchAll parses every description file in the directory and returns the
// qualified-name keyed mapping. Files parse concurrently; results merge in
// sorted file order, so a duplicate qualified name is resolved
// deterministically (the lexically later file wins). Any unreadable or
// malformed file fails the whole fetch.
func (s *FileSource) FetchAll(ctx context.Context) (map[domain.SchemaTableName]domain.TableDescription, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("read description dir %s: %w", s.dir, err)
	}

	var files []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		switch strings.ToLower(filepath.Ext(e.Name())) {
		case ".json", ".yaml", ".yml":
			files = append(files, e.Name())
		}
	}

	// os.ReadDir returns entries sorted by name; keep that order for the
	// merge below.
	parsed := make([]domain.TableDescription, len(files))
	g, ctx := errgroup.WithContext(ctx)
	for i, name := range files {
		i, name := i, name
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			desc, err := s.parseFile(name)
			if err != nil {
				return err
			}
			parsed[i] = desc
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	tables := make(map[domain.SchemaTableName]domain.TableDescription, len(parsed))
	for _, desc := range parsed {
		name := desc.SchemaTableName()
		if _, exists := tables[name]; exists {
			s.logger.Warn("duplicate table description", "table", name.String())
		}
		tables[name] = desc
	}

	s.logger.Debug("loaded table descriptions", "dir", s.dir, "tables", len(tables))
	return tables, nil
}

func (s *FileSource) parseFile(name string) (domain.TableDescription, error) {
	path := filepath.Join(s.dir, name)
	data, err := os.ReadFile(path) //nolint:gosec // path is config-controlled
	if err != nil {
		return domain.TableDescription{}, fmt.Errorf("read %s: %w", path, err)
	}

	var desc domain.TableDescription
	if strings.EqualFold(filepath.Ext(name), ".json") {
		err = json.Unmarshal(data, &desc)
	} else {
		err = yaml.Unmarshal(data, &desc)
	}
	if err != nil {
		return domain.TableDescription{}, domain.ErrValidation("parse table description %s: %v", path, err)
	}

	if desc.TableName == "" {
		base := filepath.Base(name)
		desc.TableName = strings.TrimSuffix(base, filepath.Ext(base))
	}
	if desc.SchemaName == "" {
		desc.SchemaName = s.defaultSchema
	}
	if err := validate(desc, path); err != nil {
		return domain.TableDescription{}, err
	}
	return desc, nil
}

func validate(desc domain.TableDescription, path string) error {
	for _, group := range []*domain.FieldGroup{desc.Key, desc.Value} {
		if group == nil {
			continue
		}
		for _, f := range group.Fields {
			if f.Name == "" {
				return domain.ErrValidation("table description %s: field with empty name", path)
			}
			if f.Type == "" {
				return domain.ErrValidation("table description %s: field %q has no type", path, f.Name)
			}
		}
	}
	return nil
}
