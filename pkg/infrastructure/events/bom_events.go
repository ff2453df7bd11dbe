package events

import (
	"github.com/vsinha/bomgen/pkg/domain/entities"
)

// Lifecycle event types consumed by audit-log and notification
// collaborators. The stream id is the order id, so one stream carries the
// full version history of an order's BOMs.
const (
	BomDraftCreatedEvent = "bom.draft.created"
	BomSubmittedEvent    = "bom.submitted"
	BomApprovedEvent     = "bom.approved"
	BomRejectedEvent     = "bom.rejected"
	BomObsoletedEvent    = "bom.obsoleted"

	PartNumberAllocatedEvent = "part.number.allocated"
)

type BomDraftCreated struct {
	BomID      string             `json:"bom_id"`
	OrderID    string             `json:"order_id"`
	Version    int                `json:"version"`
	TemplateID string             `json:"template_id"`
	CreatedBy  string             `json:"created_by"`
	Warnings   []entities.Warning `json:"warnings,omitempty"`
}

type BomSubmitted struct {
	BomID       string `json:"bom_id"`
	OrderID     string `json:"order_id"`
	Version     int    `json:"version"`
	SubmittedBy string `json:"submitted_by"`
}

type BomApproved struct {
	BomID      string `json:"bom_id"`
	OrderID    string `json:"order_id"`
	Version    int    `json:"version"`
	ApprovedBy string `json:"approved_by"`
}

type BomRejected struct {
	BomID      string `json:"bom_id"`
	OrderID    string `json:"order_id"`
	Version    int    `json:"version"`
	RejectedBy string `json:"rejected_by"`
	Reason     string `json:"reason"`
}

type BomObsoleted struct {
	BomID        string `json:"bom_id"`
	OrderID      string `json:"order_id"`
	Version      int    `json:"version"`
	SupersededBy string `json:"superseded_by,omitempty"` // bom id of the replacing version
}

type PartNumberAllocated struct {
	PartNumber entities.PartNumber `json:"part_number"`
	Category   string              `json:"category"`
}

func NewBomDraftCreatedEvent(bom *entities.Bom) Event {
	return NewEvent(BomDraftCreatedEvent, bom.OrderID, BomDraftCreated{
		BomID:      bom.ID,
		OrderID:    bom.OrderID,
		Version:    bom.Version,
		TemplateID: bom.TemplateID,
		CreatedBy:  bom.CreatedBy,
		Warnings:   bom.Warnings,
	})
}

func NewBomSubmittedEvent(bom *entities.Bom, actor string) Event {
	return NewEvent(BomSubmittedEvent, bom.OrderID, BomSubmitted{
		BomID:       bom.ID,
		OrderID:     bom.OrderID,
		Version:     bom.Version,
		SubmittedBy: actor,
	})
}

func NewBomApprovedEvent(bom *entities.Bom) Event {
	return NewEvent(BomApprovedEvent, bom.OrderID, BomApproved{
		BomID:      bom.ID,
		OrderID:    bom.OrderID,
		Version:    bom.Version,
		ApprovedBy: bom.ApprovedBy,
	})
}

func NewBomRejectedEvent(bom *entities.Bom, actor string) Event {
	return NewEvent(BomRejectedEvent, bom.OrderID, BomRejected{
		BomID:      bom.ID,
		OrderID:    bom.OrderID,
		Version:    bom.Version,
		RejectedBy: actor,
		Reason:     bom.RejectReason,
	})
}

func NewBomObsoletedEvent(bom *entities.Bom, supersededBy string) Event {
	return NewEvent(BomObsoletedEvent, bom.OrderID, BomObsoleted{
		BomID:        bom.ID,
		OrderID:      bom.OrderID,
		Version:      bom.Version,
		SupersededBy: supersededBy,
	})
}

func NewPartNumberAllocatedEvent(pn entities.PartNumber, category string) Event {
	return NewEvent(PartNumberAllocatedEvent, category, PartNumberAllocated{
		PartNumber: pn,
		Category:   category,
	})
}
