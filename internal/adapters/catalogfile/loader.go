// Package catalogfile reads learning resource catalogs from YAML files.
package catalogfile

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/zatekoja/learnplan/internal/domain/entities"
	apperrors "github.com/zatekoja/learnplan/pkg/errors"
	"github.com/zatekoja/learnplan/pkg/validation"
	"gopkg.in/yaml.v3"
)

// Entry is one resource as written in a catalog file
type Entry struct {
	entities.ResourceInput `yaml:",inline"`

	Status   entities.ResourceStatus `yaml:"status"`
	Priority float64                 `yaml:"priority_score"`
	Rating   float64                 `yaml:"rating"`
}

// Catalog is the top-level document
type Catalog struct {
	Resources []Entry `yaml:"resources"`
}

// Load reads and converts the catalog at path
func Load(path string) ([]*entities.Resource, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog %s: %w", path, err)
	}
	return Parse(bytes.NewReader(data))
}

// Parse decodes a catalog and converts every entry to a Resource. Entries
// default to active status and the default priority. IDs are derived from the
// URL so reloading a file yields the same IDs.
func Parse(r io.Reader) ([]*entities.Resource, error) {
	var catalog Catalog
	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)
	if err := decoder.Decode(&catalog); err != nil {
		if errors.Is(err, io.EOF) {
			return []*entities.Resource{}, nil
		}
		return nil, apperrors.NewValidationError(fmt.Sprintf("invalid catalog: %v", err))
	}

	now := time.Now().UTC()
	resources := make([]*entities.Resource, 0, len(catalog.Resources))
	for i := range catalog.Resources {
		resource, err := catalog.Resources[i].toResource(now)
		if err != nil {
			return nil, apperrors.NewValidationError(fmt.Sprintf("catalog entry %d: %v", i+1, err))
		}
		resources = append(resources, resource)
	}
	return resources, nil
}

func (e *Entry) toResource(now time.Time) (*entities.Resource, error) {
	e.Type = entities.ResourceType(strings.ToLower(string(e.Type)))
	if verr := validation.ValidateStruct(&e.ResourceInput); verr != nil {
		return nil, verr
	}
	if !e.Type.Valid() {
		return nil, fmt.Errorf("unsupported resource_type %q", e.Type)
	}

	status := e.Status
	if status == "" {
		status = entities.ResourceStatusActive
	}
	if !status.Valid() {
		return nil, fmt.Errorf("unsupported status %q", status)
	}
	priority := e.Priority
	if priority == 0 {
		priority = entities.DefaultPriority
	}

	r := &entities.Resource{
		ID:        uuid.NewSHA1(uuid.NameSpaceURL, []byte(e.URL)).String(),
		Status:    status,
		Priority:  priority,
		Rating:    e.Rating,
		CreatedAt: now,
		UpdatedAt: now,
	}
	e.Apply(r)
	if r.Language == "" {
		r.Language = "en"
	}
	r.Tags = nonNil(r.Tags)
	r.Prerequisites = nonNil(r.Prerequisites)
	r.LearningOutcomes = nonNil(r.LearningOutcomes)
	return r, nil
}

func nonNil(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}
