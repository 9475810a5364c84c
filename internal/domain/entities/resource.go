package entities

import (
	"strings"
	"time"
)

// ResourceType is the kind of learning material
type ResourceType string

const (
	ResourceTypeCourse        ResourceType = "course"
	ResourceTypeBook          ResourceType = "book"
	ResourceTypeVideo         ResourceType = "video"
	ResourceTypeArticle       ResourceType = "article"
	ResourceTypeProject       ResourceType = "project"
	ResourceTypeTutorial      ResourceType = "tutorial"
	ResourceTypePodcast       ResourceType = "podcast"
	ResourceTypeTool          ResourceType = "tool"
	ResourceTypeDocumentation ResourceType = "documentation"
)

// ResourceTypes lists every supported type in display order
var ResourceTypes = []ResourceType{
	ResourceTypeCourse,
	ResourceTypeBook,
	ResourceTypeVideo,
	ResourceTypeArticle,
	ResourceTypeProject,
	ResourceTypeTutorial,
	ResourceTypePodcast,
	ResourceTypeTool,
	ResourceTypeDocumentation,
}

var resourceTypeIcons = map[ResourceType]string{
	ResourceTypeCourse:        "fas fa-graduation-cap",
	ResourceTypeBook:          "fas fa-book",
	ResourceTypeVideo:         "fas fa-play-circle",
	ResourceTypeArticle:       "fas fa-newspaper",
	ResourceTypeProject:       "fas fa-project-diagram",
	ResourceTypeTutorial:      "fas fa-chalkboard-teacher",
	ResourceTypePodcast:       "fas fa-podcast",
	ResourceTypeTool:          "fas fa-tools",
	ResourceTypeDocumentation: "fas fa-file-alt",
}

// DefaultIcon is used when a type has no dedicated icon
const DefaultIcon = "fas fa-book"

// Valid reports whether t is one of the supported types
func (t ResourceType) Valid() bool {
	_, ok := resourceTypeIcons[t]
	return ok
}

// Icon returns the display icon hint for t
func (t ResourceType) Icon() string {
	if icon, ok := resourceTypeIcons[t]; ok {
		return icon
	}
	return DefaultIcon
}

// DisplayName returns t title-cased, e.g. "documentation" -> "Documentation"
func (t ResourceType) DisplayName() string {
	s := string(t)
	if s == "" {
		return ""
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// Difficulty is the ordinal level of a resource, 1 (beginner) to 5 (master)
type Difficulty int

const (
	DifficultyBeginner     Difficulty = 1
	DifficultyIntermediate Difficulty = 2
	DifficultyAdvanced     Difficulty = 3
	DifficultyExpert       Difficulty = 4
	DifficultyMaster       Difficulty = 5
)

// Valid reports whether d is within 1..5
func (d Difficulty) Valid() bool {
	return d >= DifficultyBeginner && d <= DifficultyMaster
}

func (d Difficulty) String() string {
	switch d {
	case DifficultyBeginner:
		return "beginner"
	case DifficultyIntermediate:
		return "intermediate"
	case DifficultyAdvanced:
		return "advanced"
	case DifficultyExpert:
		return "expert"
	case DifficultyMaster:
		return "master"
	default:
		return "unknown"
	}
}

// ResourceStatus is the review state of a resource
type ResourceStatus string

const (
	ResourceStatusActive        ResourceStatus = "active"
	ResourceStatusInactive      ResourceStatus = "inactive"
	ResourceStatusPendingReview ResourceStatus = "pending_review"
	ResourceStatusArchived      ResourceStatus = "archived"
)

// Valid reports whether s is a known status
func (s ResourceStatus) Valid() bool {
	switch s {
	case ResourceStatusActive, ResourceStatusInactive, ResourceStatusPendingReview, ResourceStatusArchived:
		return true
	}
	return false
}

// DefaultPriority is the priority weight assigned to new resources
const DefaultPriority = 1.0

// Resource is a curated learning resource. URL is unique across the catalog.
type Resource struct {
	ID               string         `json:"id" db:"id"`
	Title            string         `json:"title" db:"title"`
	Description      string         `json:"description" db:"description"`
	URL              string         `json:"url" db:"url"`
	Type             ResourceType   `json:"resource_type" db:"type"`
	Difficulty       Difficulty     `json:"difficulty" db:"difficulty"`
	Duration         string         `json:"duration" db:"duration"`
	Cost             string         `json:"cost" db:"cost"`
	Language         string         `json:"language" db:"language"`
	Provider         string         `json:"provider" db:"provider"`
	Author           string         `json:"author" db:"author"`
	Rating           float64        `json:"rating" db:"rating"`
	ReviewCount      int            `json:"review_count" db:"review_count"`
	Tags             []string       `json:"hashtags" db:"hashtags"`
	Prerequisites    []string       `json:"prerequisites" db:"prerequisites"`
	LearningOutcomes []string       `json:"learning_outcomes" db:"learning_outcomes"`
	TargetAudience   string         `json:"target_audience" db:"target_audience"`
	Status           ResourceStatus `json:"status" db:"status"`
	Priority         float64        `json:"priority_score" db:"priority_score"`
	CreatedBy        string         `json:"created_by,omitempty" db:"created_by"`
	CreatedAt        time.Time      `json:"created_at" db:"created_at"`
	UpdatedAt        time.Time      `json:"updated_at" db:"updated_at"`
}

// CatalogStats summarizes the catalog for the overview endpoint
type CatalogStats struct {
	Total        int                `json:"total_resources"`
	Active       int                `json:"active_resources"`
	Pending      int                `json:"pending_resources"`
	ByType       map[string]int     `json:"type_distribution"`
	ByDifficulty map[Difficulty]int `json:"difficulty_distribution"`
	ByProvider   map[string]int     `json:"provider_distribution"`
	Recent       []*Resource        `json:"recent_resources"`
}

// ResourceInput holds the contributor-editable fields of a resource
type ResourceInput struct {
	Title            string       `json:"title" yaml:"title" validate:"required,max=200"`
	Description      string       `json:"description" yaml:"description" validate:"required,max=4000"`
	URL              string       `json:"url" yaml:"url" validate:"required,http_url,max=2048"`
	Type             ResourceType `json:"resource_type" yaml:"resource_type" validate:"required"`
	Difficulty       Difficulty   `json:"difficulty" yaml:"difficulty" validate:"gte=1,lte=5"`
	Duration         string       `json:"duration" yaml:"duration" validate:"omitempty,max=64"`
	Cost             string       `json:"cost" yaml:"cost" validate:"omitempty,max=64"`
	Language         string       `json:"language" yaml:"language" validate:"omitempty,max=32"`
	Provider         string       `json:"provider" yaml:"provider" validate:"omitempty,max=200"`
	Author           string       `json:"author" yaml:"author" validate:"omitempty,max=200"`
	Tags             []string     `json:"hashtags" yaml:"hashtags" validate:"omitempty,max=30,dive,max=64"`
	Prerequisites    []string     `json:"prerequisites" yaml:"prerequisites" validate:"omitempty,max=30,dive,max=200"`
	LearningOutcomes []string     `json:"learning_outcomes" yaml:"learning_outcomes" validate:"omitempty,max=30,dive,max=200"`
	TargetAudience   string       `json:"target_audience" yaml:"target_audience" validate:"omitempty,max=200"`
}

// Apply copies the input fields onto r
func (in *ResourceInput) Apply(r *Resource) {
	r.Title = in.Title
	r.Description = in.Description
	r.URL = in.URL
	r.Type = in.Type
	r.Difficulty = in.Difficulty
	r.Duration = in.Duration
	r.Cost = in.Cost
	r.Language = in.Language
	r.Provider = in.Provider
	r.Author = in.Author
	r.Tags = in.Tags
	r.Prerequisites = in.Prerequisites
	r.LearningOutcomes = in.LearningOutcomes
	r.TargetAudience = in.TargetAudience
}
