// Package models contains the database model definitions.
// These models map directly to the SQLite database tables and mirror the
// lighting-plot data model: a catalog of fixture types organized in category
// trees, stage definitions, position templates, and user-owned plots holding
// placed fixture instances.
package models

import (
	"time"
)

// Stage units.
const (
	UnitMeters = "m"
	UnitFeet   = "ft"
)

// Template types.
const (
	TemplateFront   = "front"
	TemplateSide    = "side"
	TemplateBack    = "back"
	TemplateTop     = "top"
	TemplateCyc     = "cyc"
	TemplateSpecial = "special"
	TemplateCustom  = "custom"
)

// Category is a node in a per-element-type tree used to organize catalog
// entries (fixtures, pipes, theatre elements).
// Table: categories
type Category struct {
	ID          string  `gorm:"column:id;primaryKey"`
	Name        string  `gorm:"column:name;uniqueIndex:idx_categories_name_parent_type"`
	ParentID    *string `gorm:"column:parent_id;index;uniqueIndex:idx_categories_name_parent_type"`
	ElementType string  `gorm:"column:element_type;index;uniqueIndex:idx_categories_name_parent_type"`
	Description string  `gorm:"column:description"`
	// DisplayOrder controls the position of the category among its siblings.
	DisplayOrder int       `gorm:"column:display_order;default:0"`
	CreatedAt    time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time `gorm:"column:updated_at;autoUpdateTime"`

	// Relations (loaded separately)
	Children []Category `gorm:"foreignKey:ParentID"`
}

func (Category) TableName() string { return "categories" }

// FixtureType is a catalog definition of a kind of lighting instrument.
// Identity is immutable; attributes are not. Referenced, never owned, by
// PlacedFixture.
// Table: fixture_types
type FixtureType struct {
	ID           string  `gorm:"column:id;primaryKey"`
	Name         string  `gorm:"column:name"`
	Manufacturer string  `gorm:"column:manufacturer"`
	CategoryID   *string `gorm:"column:category_id;index"`

	// Placement defaults applied by the UI when an instance is dropped on a plot.
	Channel *string `gorm:"column:channel;default:1"`
	Dimmer  *string `gorm:"column:dimmer"`
	Color   *string `gorm:"column:color;default:#0066cc"`
	Purpose *string `gorm:"column:purpose"`
	Notes   *string `gorm:"column:notes"`

	Wattage   int     `gorm:"column:wattage;default:0"`
	BeamAngle float64 `gorm:"column:beam_angle;default:0"`
	Weight    float64 `gorm:"column:weight;default:0"`
	SVGIcon   string  `gorm:"column:svg_icon"` // SVG vector data for the fixture icon

	// Display dimensions for visualization
	Width  float64 `gorm:"column:width;default:1"`
	Height float64 `gorm:"column:height;default:1"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`

	// Relations (loaded separately)
	Category *Category `gorm:"foreignKey:CategoryID"`
}

func (FixtureType) TableName() string { return "fixture_types" }

// Stage is a venue/performance-space geometry definition. The unit applies
// to all three dimensions.
// Table: stages
type Stage struct {
	ID     string  `gorm:"column:id;primaryKey"`
	Name   string  `gorm:"column:name"`
	Width  float64 `gorm:"column:width"`
	Depth  float64 `gorm:"column:depth"`
	Height float64 `gorm:"column:height"`

	// SVGData holds a custom stage outline, empty for a plain rectangle.
	SVGData string `gorm:"column:svg_data"`
	Unit    string `gorm:"column:unit;default:m"` // UnitMeters or UnitFeet

	HasFlySystem bool `gorm:"column:has_fly_system;default:false"`
	HasPit       bool `gorm:"column:has_pit;default:false"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (Stage) TableName() string { return "stages" }

// StageTemplate is a reusable preset of fixture positions used to bootstrap
// new plots. Read-only reference data.
// Table: stage_templates
type StageTemplate struct {
	ID           string `gorm:"column:id;primaryKey"`
	Name         string `gorm:"column:name"`
	Description  string `gorm:"column:description"`
	TemplateType string `gorm:"column:template_type;index"` // Template* constant

	// PositionsData is a JSON document describing fixture placements to apply.
	PositionsData string `gorm:"column:positions_data;default:{}"`
	PreviewSVG    string `gorm:"column:preview_svg"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (StageTemplate) TableName() string { return "stage_templates" }

// Plot is a user's saved lighting design for one stage/show. Exclusively
// owned by one user; every read/update/delete is scoped by (id, user_id).
// Table: plots
type Plot struct {
	ID          string `gorm:"column:id;primaryKey"`
	Title       string `gorm:"column:title"`
	Description string `gorm:"column:description"`
	UserID      string `gorm:"column:user_id;index"`
	StageID     string `gorm:"column:stage_id;index"`

	// Show metadata
	ShowName string     `gorm:"column:show_name"`
	Venue    string     `gorm:"column:venue"`
	Designer string     `gorm:"column:designer"`
	Date     *time.Time `gorm:"column:date"`

	// PlotData captures whole-plot state as a JSON document.
	PlotData string `gorm:"column:plot_data;default:{}"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`

	// Relations (loaded separately)
	Fixtures []PlacedFixture `gorm:"foreignKey:PlotID;constraint:OnDelete:CASCADE"`
}

func (Plot) TableName() string { return "plots" }

// PlacedFixture is one fixture instance positioned within a plot. It cannot
// exist without its plot or its fixture type.
// Table: placed_fixtures
type PlacedFixture struct {
	ID            string `gorm:"column:id;primaryKey"`
	PlotID        string `gorm:"column:plot_id;index"`
	FixtureTypeID string `gorm:"column:fixture_type_id;index"`

	// Position and orientation
	X        float64 `gorm:"column:x"`
	Y        float64 `gorm:"column:y"`
	Z        float64 `gorm:"column:z;default:0"`
	Rotation float64 `gorm:"column:rotation;default:0"`

	// Patch properties
	Channel *int   `gorm:"column:channel"`
	Dimmer  *int   `gorm:"column:dimmer"`
	Circuit string `gorm:"column:circuit"`
	Color   string `gorm:"column:color"`

	Purpose string `gorm:"column:purpose"`
	Notes   string `gorm:"column:notes"`

	// Relations (loaded separately)
	FixtureType *FixtureType `gorm:"foreignKey:FixtureTypeID;constraint:OnDelete:CASCADE"`
}

func (PlacedFixture) TableName() string { return "placed_fixtures" }

// AllModels lists every model for AutoMigrate, parents before children so
// foreign keys resolve.
func AllModels() []interface{} {
	return []interface{}{
		&Category{},
		&FixtureType{},
		&Stage{},
		&StageTemplate{},
		&Plot{},
		&PlacedFixture{},
	}
}
