// Package postgres implements the engine's repositories on PostgreSQL
// via gorm. Domain entities stay persistence-free; this package maps them
// to row models with gorm tags.
package postgres

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/vsinha/bomgen/pkg/domain/entities"
)

type partRow struct {
	PartNumber    string          `gorm:"primaryKey;size:64"`
	Description   string          `gorm:"size:255"`
	Type          int             `gorm:"not null;default:0"`
	CurrentCost   decimal.Decimal `gorm:"type:numeric(15,4)"`
	StandardCost  decimal.Decimal `gorm:"type:numeric(15,4)"`
	Weight        decimal.Decimal `gorm:"type:numeric(15,4)"`
	Status        int             `gorm:"not null;default:0"`
	OnHand        decimal.Decimal `gorm:"type:numeric(15,4)"`
	UnitOfMeasure string          `gorm:"size:16"`

	Substitutes []substituteRow `gorm:"foreignKey:PartNumber;references:PartNumber"`
}

func (partRow) TableName() string { return "parts" }

type substituteRow struct {
	ID               uint            `gorm:"primaryKey;autoIncrement"`
	PartNumber       string          `gorm:"size:64;not null;index"`
	SubstitutePN     string          `gorm:"size:64;not null"`
	Tier             int             `gorm:"not null;default:0"`
	ConversionFactor decimal.Decimal `gorm:"type:numeric(10,4);not null"`
}

func (substituteRow) TableName() string { return "part_substitutes" }

type templateRow struct {
	ID           string    `gorm:"primaryKey;size:64"`
	Family       string    `gorm:"size:64;not null;index"`
	Description  string    `gorm:"type:text"`
	MatchingRule string    `gorm:"type:text;not null"`
	CreatedAt    time.Time `gorm:"not null"`

	Items []templateItemRow `gorm:"foreignKey:TemplateID;constraint:OnDelete:CASCADE"`
}

func (templateRow) TableName() string { return "bom_templates" }

type templateItemRow struct {
	ID               uint            `gorm:"primaryKey;autoIncrement"`
	TemplateID       string          `gorm:"size:64;not null;index"`
	LineNumber       int             `gorm:"not null"`
	PartNumber       string          `gorm:"size:64;not null"`
	BaseQuantity     decimal.Decimal `gorm:"type:numeric(15,4);not null"`
	QuantityFormula  string          `gorm:"type:text"`
	IncludeCondition string          `gorm:"type:text"`
	ParentLine       int             `gorm:"not null;default:0"`
	Level            int             `gorm:"not null"`
	ScrapFactor      decimal.Decimal `gorm:"type:numeric(6,4)"`
	IsPhantom        bool            `gorm:"not null;default:false"`
}

func (templateItemRow) TableName() string { return "bom_template_items" }

type bomRow struct {
	ID              string          `gorm:"primaryKey;size:36"`
	OrderID         string          `gorm:"size:64;not null;uniqueIndex:idx_order_version,priority:1"`
	Version         int             `gorm:"not null;uniqueIndex:idx_order_version,priority:2"`
	Family          string          `gorm:"size:64"`
	TemplateID      string          `gorm:"size:64"`
	Status          int             `gorm:"not null;default:0"`
	Snapshot        []byte          `gorm:"type:jsonb"`
	Warnings        []byte          `gorm:"type:jsonb"`
	TotalCost       decimal.Decimal `gorm:"type:numeric(15,4)"`
	TotalWeight     decimal.Decimal `gorm:"type:numeric(15,4)"`
	TotalPartsCount int             `gorm:"not null;default:0"`
	CreatedBy       string          `gorm:"size:64"`
	CreatedAt       time.Time       `gorm:"not null"`
	ApprovedBy      string          `gorm:"size:64"`
	ApprovedAt      *time.Time
	RejectReason    string `gorm:"type:text"`

	Items []bomItemRow `gorm:"foreignKey:BomID;constraint:OnDelete:CASCADE"`
}

func (bomRow) TableName() string { return "boms" }

type bomItemRow struct {
	ID               string          `gorm:"primaryKey;size:36"`
	BomID            string          `gorm:"size:36;not null;index"`
	LineNumber       int             `gorm:"not null"`
	PartNumber       string          `gorm:"size:64;not null"`
	Description      string          `gorm:"size:255"`
	QuantityRequired decimal.Decimal `gorm:"type:numeric(15,4);not null"`
	ScrapFactor      decimal.Decimal `gorm:"type:numeric(6,4)"`
	TotalQuantity    decimal.Decimal `gorm:"type:numeric(15,4);not null"`
	UnitCost         decimal.Decimal `gorm:"type:numeric(15,4)"`
	ExtendedCost     decimal.Decimal `gorm:"type:numeric(15,4)"`
	UnitWeight       decimal.Decimal `gorm:"type:numeric(15,4)"`
	ParentItemID     string          `gorm:"size:36"`
	Level            int             `gorm:"not null"`
	IsPhantom        bool            `gorm:"not null;default:false"`
	IsSubstitute     bool            `gorm:"not null;default:false"`
	OriginalPart     string          `gorm:"size:64"`
}

func (bomItemRow) TableName() string { return "bom_items" }

type versionCounterRow struct {
	OrderID string `gorm:"primaryKey;size:64"`
	Version int    `gorm:"not null;default:0"`
}

func (versionCounterRow) TableName() string { return "bom_version_counters" }

// AutoMigrate creates or updates all engine tables.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&partRow{},
		&substituteRow{},
		&templateRow{},
		&templateItemRow{},
		&bomRow{},
		&bomItemRow{},
		&versionCounterRow{},
	)
}

func toPartEntity(row *partRow) *entities.Part {
	part := &entities.Part{
		PartNumber:    entities.PartNumber(row.PartNumber),
		Description:   row.Description,
		Type:          entities.PartType(row.Type),
		CurrentCost:   row.CurrentCost,
		StandardCost:  row.StandardCost,
		Weight:        row.Weight,
		Status:        entities.InventoryStatus(row.Status),
		OnHand:        row.OnHand,
		UnitOfMeasure: row.UnitOfMeasure,
	}
	for _, sub := range row.Substitutes {
		part.Substitutes = append(part.Substitutes, entities.Substitute{
			SubstitutePN:     entities.PartNumber(sub.SubstitutePN),
			Tier:             entities.SubstituteTier(sub.Tier),
			ConversionFactor: sub.ConversionFactor,
		})
	}
	return part
}

func fromPartEntity(part *entities.Part) *partRow {
	row := &partRow{
		PartNumber:    string(part.PartNumber),
		Description:   part.Description,
		Type:          int(part.Type),
		CurrentCost:   part.CurrentCost,
		StandardCost:  part.StandardCost,
		Weight:        part.Weight,
		Status:        int(part.Status),
		OnHand:        part.OnHand,
		UnitOfMeasure: part.UnitOfMeasure,
	}
	for _, sub := range part.Substitutes {
		row.Substitutes = append(row.Substitutes, substituteRow{
			PartNumber:       string(part.PartNumber),
			SubstitutePN:     string(sub.SubstitutePN),
			Tier:             int(sub.Tier),
			ConversionFactor: sub.ConversionFactor,
		})
	}
	return row
}

func toTemplateEntity(row *templateRow) *entities.BomTemplate {
	tmpl := &entities.BomTemplate{
		ID:           row.ID,
		Family:       row.Family,
		Description:  row.Description,
		MatchingRule: row.MatchingRule,
		CreatedAt:    row.CreatedAt,
	}
	for _, item := range row.Items {
		tmpl.Items = append(tmpl.Items, entities.TemplateItem{
			LineNumber:       item.LineNumber,
			PartNumber:       entities.PartNumber(item.PartNumber),
			BaseQuantity:     item.BaseQuantity,
			QuantityFormula:  item.QuantityFormula,
			IncludeCondition: item.IncludeCondition,
			ParentLine:       item.ParentLine,
			Level:            item.Level,
			ScrapFactor:      item.ScrapFactor,
			IsPhantom:        item.IsPhantom,
		})
	}
	return tmpl
}

func fromTemplateEntity(tmpl *entities.BomTemplate) *templateRow {
	row := &templateRow{
		ID:           tmpl.ID,
		Family:       tmpl.Family,
		Description:  tmpl.Description,
		MatchingRule: tmpl.MatchingRule,
		CreatedAt:    tmpl.CreatedAt,
	}
	for _, item := range tmpl.Items {
		row.Items = append(row.Items, templateItemRow{
			TemplateID:       tmpl.ID,
			LineNumber:       item.LineNumber,
			PartNumber:       string(item.PartNumber),
			BaseQuantity:     item.BaseQuantity,
			QuantityFormula:  item.QuantityFormula,
			IncludeCondition: item.IncludeCondition,
			ParentLine:       item.ParentLine,
			Level:            item.Level,
			ScrapFactor:      item.ScrapFactor,
			IsPhantom:        item.IsPhantom,
		})
	}
	return row
}
