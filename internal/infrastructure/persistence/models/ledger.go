package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/negoce/backend/internal/domain/ledger"
)

// LotModel is the persistence model for the Lot entity.
type LotModel struct {
	BaseModel
	Product           string          `gorm:"type:varchar(100);not null;index:idx_lots_product_warehouse,priority:1"`
	WarehouseID       uuid.UUID       `gorm:"type:uuid;not null;index:idx_lots_product_warehouse,priority:2"`
	EntryDate         time.Time       `gorm:"not null;index"`
	InitialQuantity   decimal.Decimal `gorm:"type:decimal(18,3);not null"`
	RemainingQuantity decimal.Decimal `gorm:"type:decimal(18,3);not null"`
	UnitCost          decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	Supplier          string          `gorm:"type:varchar(255)"`
	Reference         string          `gorm:"type:varchar(100)"`
	Notes             string          `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (LotModel) TableName() string {
	return "lots"
}

// ToDomain converts the persistence model to a domain Lot entity.
func (m *LotModel) ToDomain() *ledger.Lot {
	return &ledger.Lot{
		BaseEntity:        m.BaseModel.ToDomain(),
		Product:           m.Product,
		WarehouseID:       m.WarehouseID,
		EntryDate:         m.EntryDate,
		InitialQuantity:   m.InitialQuantity,
		RemainingQuantity: m.RemainingQuantity,
		UnitCost:          m.UnitCost,
		Supplier:          m.Supplier,
		Reference:         m.Reference,
		Notes:             m.Notes,
	}
}

// LotModelFromDomain creates a persistence model from a domain Lot entity.
func LotModelFromDomain(l *ledger.Lot) *LotModel {
	m := &LotModel{
		Product:           l.Product,
		WarehouseID:       l.WarehouseID,
		EntryDate:         l.EntryDate,
		InitialQuantity:   l.InitialQuantity,
		RemainingQuantity: l.RemainingQuantity,
		UnitCost:          l.UnitCost,
		Supplier:          l.Supplier,
		Reference:         l.Reference,
		Notes:             l.Notes,
	}
	m.FromDomainBaseEntity(l.BaseEntity)
	return m
}

// OperationModel is the persistence model for the Operation entity.
type OperationModel struct {
	BaseModel
	Type               string          `gorm:"type:varchar(20);not null;index"`
	Date               time.Time       `gorm:"not null;index"`
	Product            string          `gorm:"type:varchar(100);not null;index"`
	WarehouseID        uuid.UUID       `gorm:"type:uuid;not null;index"`
	Counterparty       string          `gorm:"type:varchar(255)"`
	Quantity           decimal.Decimal `gorm:"type:decimal(18,3);not null"`
	UnitPrice          decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	HandlingCostPerKg  decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	TransportCostPerKg decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	OtherCostPerKg     decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	TotalUnitCost      decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	CogsPerKg          decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	MarginPerKg        decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	TotalMargin        decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	Revenue            decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	Reference          string          `gorm:"type:varchar(100)"`
	Notes              string          `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (OperationModel) TableName() string {
	return "operations"
}

// ToDomain converts the persistence model to a domain Operation entity.
func (m *OperationModel) ToDomain() *ledger.Operation {
	return &ledger.Operation{
		BaseEntity:         m.BaseModel.ToDomain(),
		Type:               ledger.OperationType(m.Type),
		Date:               m.Date,
		Product:            m.Product,
		WarehouseID:        m.WarehouseID,
		Counterparty:       m.Counterparty,
		Quantity:           m.Quantity,
		UnitPrice:          m.UnitPrice,
		HandlingCostPerKg:  m.HandlingCostPerKg,
		TransportCostPerKg: m.TransportCostPerKg,
		OtherCostPerKg:     m.OtherCostPerKg,
		TotalUnitCost:      m.TotalUnitCost,
		CogsPerKg:          m.CogsPerKg,
		MarginPerKg:        m.MarginPerKg,
		TotalMargin:        m.TotalMargin,
		Revenue:            m.Revenue,
		Reference:          m.Reference,
		Notes:              m.Notes,
	}
}

// OperationModelFromDomain creates a persistence model from a domain Operation entity.
func OperationModelFromDomain(o *ledger.Operation) *OperationModel {
	m := &OperationModel{
		Type:               o.Type.String(),
		Date:               o.Date,
		Product:            o.Product,
		WarehouseID:        o.WarehouseID,
		Counterparty:       o.Counterparty,
		Quantity:           o.Quantity,
		UnitPrice:          o.UnitPrice,
		HandlingCostPerKg:  o.HandlingCostPerKg,
		TransportCostPerKg: o.TransportCostPerKg,
		OtherCostPerKg:     o.OtherCostPerKg,
		TotalUnitCost:      o.TotalUnitCost,
		CogsPerKg:          o.CogsPerKg,
		MarginPerKg:        o.MarginPerKg,
		TotalMargin:        o.TotalMargin,
		Revenue:            o.Revenue,
		Reference:          o.Reference,
		Notes:              o.Notes,
	}
	m.FromDomainBaseEntity(o.BaseEntity)
	return m
}

// MovementModel is the persistence model for the Movement entity.
// Movements are append-only; rows are never updated or deleted.
type MovementModel struct {
	BaseModel
	Type              string              `gorm:"type:varchar(20);not null;index"`
	Date              time.Time           `gorm:"not null;index"`
	Product           string              `gorm:"type:varchar(100);not null;index"`
	SourceWarehouseID *uuid.UUID          `gorm:"type:uuid;index"`
	TargetWarehouseID *uuid.UUID          `gorm:"type:uuid;index"`
	Quantity          decimal.Decimal     `gorm:"type:decimal(18,3);not null"`
	UnitCost          decimal.NullDecimal `gorm:"type:decimal(18,4)"`
	OperationID       *uuid.UUID          `gorm:"type:uuid;index"`
	Note              string              `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (MovementModel) TableName() string {
	return "movements"
}

// ToDomain converts the persistence model to a domain Movement entity.
func (m *MovementModel) ToDomain() *ledger.Movement {
	return &ledger.Movement{
		BaseEntity:        m.BaseModel.ToDomain(),
		Type:              ledger.MovementType(m.Type),
		Date:              m.Date,
		Product:           m.Product,
		SourceWarehouseID: m.SourceWarehouseID,
		TargetWarehouseID: m.TargetWarehouseID,
		Quantity:          m.Quantity,
		UnitCost:          m.UnitCost,
		OperationID:       m.OperationID,
		Note:              m.Note,
	}
}

// MovementModelFromDomain creates a persistence model from a domain Movement entity.
func MovementModelFromDomain(mv *ledger.Movement) *MovementModel {
	m := &MovementModel{
		Type:              mv.Type.String(),
		Date:              mv.Date,
		Product:           mv.Product,
		SourceWarehouseID: mv.SourceWarehouseID,
		TargetWarehouseID: mv.TargetWarehouseID,
		Quantity:          mv.Quantity,
		UnitCost:          mv.UnitCost,
		OperationID:       mv.OperationID,
		Note:              mv.Note,
	}
	m.FromDomainBaseEntity(mv.BaseEntity)
	return m
}

// SettingsModel is the persistence model for the Settings singleton.
type SettingsModel struct {
	BaseModel
	ValuationMethod     string              `gorm:"type:varchar(30);not null"`
	DisplayCurrency     string              `gorm:"type:varchar(10);not null"`
	StorageCostPerKgDay decimal.NullDecimal `gorm:"type:decimal(18,4)"`
}

// TableName returns the table name for GORM
func (SettingsModel) TableName() string {
	return "settings"
}

// ToDomain converts the persistence model to a domain Settings entity.
func (m *SettingsModel) ToDomain() *ledger.Settings {
	return &ledger.Settings{
		BaseEntity:          m.BaseModel.ToDomain(),
		ValuationMethod:     ledger.ValuationMethod(m.ValuationMethod),
		DisplayCurrency:     m.DisplayCurrency,
		StorageCostPerKgDay: m.StorageCostPerKgDay,
	}
}

// SettingsModelFromDomain creates a persistence model from a domain Settings entity.
func SettingsModelFromDomain(s *ledger.Settings) *SettingsModel {
	m := &SettingsModel{
		ValuationMethod:     s.ValuationMethod.String(),
		DisplayCurrency:     s.DisplayCurrency,
		StorageCostPerKgDay: s.StorageCostPerKgDay,
	}
	m.FromDomainBaseEntity(s.BaseEntity)
	return m
}

// WarehouseModel is the persistence model for the Warehouse entity.
type WarehouseModel struct {
	BaseModel
	Code     string `gorm:"type:varchar(32);not null;uniqueIndex"`
	Name     string `gorm:"type:varchar(255);not null"`
	Location string `gorm:"type:varchar(255)"`
	Active   bool   `gorm:"not null;default:true"`
}

// TableName returns the table name for GORM
func (WarehouseModel) TableName() string {
	return "warehouses"
}

// ToDomain converts the persistence model to a domain Warehouse entity.
func (m *WarehouseModel) ToDomain() *ledger.Warehouse {
	return &ledger.Warehouse{
		BaseEntity: m.BaseModel.ToDomain(),
		Code:       m.Code,
		Name:       m.Name,
		Location:   m.Location,
		Active:     m.Active,
	}
}

// WarehouseModelFromDomain creates a persistence model from a domain Warehouse entity.
func WarehouseModelFromDomain(w *ledger.Warehouse) *WarehouseModel {
	m := &WarehouseModel{
		Code:     w.Code,
		Name:     w.Name,
		Location: w.Location,
		Active:   w.Active,
	}
	m.FromDomainBaseEntity(w.BaseEntity)
	return m
}

// All returns every ledger model for migration registration.
func All() []any {
	return []any{
		&LotModel{},
		&OperationModel{},
		&MovementModel{},
		&SettingsModel{},
		&WarehouseModel{},
	}
}
