package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/vsinha/bomgen/pkg/domain/entities"
	"github.com/vsinha/bomgen/pkg/domain/repositories"
	domainservices "github.com/vsinha/bomgen/pkg/domain/services"
	"github.com/vsinha/bomgen/pkg/infrastructure/events"
)

// GenerateOptions carries per-call inputs for Generate. Identity is
// supplied by the caller; the engine performs no authentication.
type GenerateOptions struct {
	CreatedBy string
	// AvailabilityThreshold is the on-hand reserve used when judging part
	// availability for substitution. Zero means any shortfall triggers a
	// substitution attempt.
	AvailabilityThreshold decimal.Decimal
	// DisableSubstitution skips the substitution pass entirely.
	DisableSubstitution bool
}

// LifecycleManager owns the BOM version/approval state machine and
// exposes the engine's public operations. Generation is atomic: nothing
// is persisted until expansion, substitution, and rollup have succeeded,
// so an aborted call is safe to retry.
type LifecycleManager struct {
	boms      repositories.BomRepository
	templates repositories.TemplateRepository
	matcher   *domainservices.TemplateMatcher
	expander  *TreeExpander
	resolver  *SubstitutionResolver
	events    events.EventStore
	logger    *zap.Logger
}

// NewLifecycleManager creates the lifecycle manager. The event store may
// be nil when no collaborator consumes lifecycle events.
func NewLifecycleManager(
	boms repositories.BomRepository,
	templates repositories.TemplateRepository,
	matcher *domainservices.TemplateMatcher,
	expander *TreeExpander,
	resolver *SubstitutionResolver,
	store events.EventStore,
	logger *zap.Logger,
) *LifecycleManager {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LifecycleManager{
		boms:      boms,
		templates: templates,
		matcher:   matcher,
		expander:  expander,
		resolver:  resolver,
		events:    store,
		logger:    logger,
	}
}

// Generate produces a new DRAFT Bom version for an order from a
// configuration snapshot. Repeated calls with the same snapshot, catalog
// state, and template set produce identical trees; only the version
// counter differs.
func (m *LifecycleManager) Generate(ctx context.Context, orderID, family string, snapshot *entities.ConfigurationSnapshot, opts GenerateOptions) (*entities.Bom, error) {
	if orderID == "" {
		return nil, fmt.Errorf("order id cannot be empty")
	}
	if snapshot == nil {
		return nil, fmt.Errorf("configuration snapshot cannot be nil")
	}

	candidates, err := m.templates.GetByFamily(ctx, family)
	if err != nil {
		return nil, fmt.Errorf("failed to load templates for family %s: %w", family, err)
	}

	tmpl, warnings, err := m.matcher.Match(candidates, snapshot)
	if err != nil {
		return nil, fmt.Errorf("family %s: %w", family, err)
	}

	items, expandWarnings, err := m.expander.Expand(ctx, tmpl, snapshot)
	if err != nil {
		return nil, err
	}
	warnings = append(warnings, expandWarnings...)

	if !opts.DisableSubstitution {
		subWarnings, err := m.resolver.Resolve(ctx, items, opts.AvailabilityThreshold)
		if err != nil {
			return nil, err
		}
		warnings = append(warnings, subWarnings...)
	}

	rollup := CalculateRollup(items)

	// Commit point. Abort is only honored up to here; once the draft is
	// persisted a new version must be generated instead.
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	version, err := m.boms.NextVersion(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("failed to allocate version for order %s: %w", orderID, err)
	}

	bom := &entities.Bom{
		ID:              uuid.NewString(),
		OrderID:         orderID,
		Version:         version,
		Family:          family,
		TemplateID:      tmpl.ID,
		Status:          entities.StatusDraft,
		Snapshot:        snapshot,
		Items:           items,
		Warnings:        warnings,
		TotalCost:       rollup.TotalCost,
		TotalWeight:     rollup.TotalWeight,
		TotalPartsCount: rollup.TotalPartsCount,
		CreatedBy:       opts.CreatedBy,
		CreatedAt:       time.Now().UTC(),
	}

	if err := bom.Validate(); err != nil {
		return nil, fmt.Errorf("generated bom failed validation: %w", err)
	}

	if err := m.boms.Create(ctx, bom); err != nil {
		return nil, fmt.Errorf("failed to persist bom for order %s: %w", orderID, err)
	}

	m.logger.Info("bom draft created",
		zap.String("order_id", orderID),
		zap.Int("version", version),
		zap.String("template_id", tmpl.ID),
		zap.Int("items", len(items)),
		zap.Int("warnings", len(warnings)))

	m.publish(ctx, events.NewBomDraftCreatedEvent(bom))

	return bom, nil
}

// SubmitForApproval moves a DRAFT Bom to PENDING_APPROVAL. Submitting a
// Bom already pending is a no-op returning the current state.
func (m *LifecycleManager) SubmitForApproval(ctx context.Context, bomID, actor string) (*entities.Bom, error) {
	bom, err := m.boms.GetByID(ctx, bomID)
	if err != nil {
		return nil, err
	}

	if bom.Status == entities.StatusPendingApproval {
		return bom, nil
	}
	if !bom.Status.CanTransitionTo(entities.StatusPendingApproval) {
		return nil, entities.StateTransitionError(bom.Status, entities.StatusPendingApproval)
	}
	if bom.TotalPartsCount <= 0 {
		return nil, fmt.Errorf("cannot submit bom %s: %w", bomID, entities.ErrEmptyBom)
	}

	bom.Status = entities.StatusPendingApproval
	if err := m.boms.UpdateStatus(ctx, bom); err != nil {
		return nil, fmt.Errorf("failed to submit bom %s: %w", bomID, err)
	}

	m.logger.Info("bom submitted for approval",
		zap.String("bom_id", bomID),
		zap.String("order_id", bom.OrderID),
		zap.String("actor", actor))
	m.publish(ctx, events.NewBomSubmittedEvent(bom, actor))

	return bom, nil
}

// Approve moves a PENDING_APPROVAL Bom to APPROVED, enforcing the
// four-eyes rule, and obsoletes any previously approved version of the
// same order. Approving an already approved Bom is a no-op.
func (m *LifecycleManager) Approve(ctx context.Context, bomID, approverID string) (*entities.Bom, error) {
	bom, err := m.boms.GetByID(ctx, bomID)
	if err != nil {
		return nil, err
	}

	if bom.Status == entities.StatusApproved {
		return bom, nil
	}
	if !bom.Status.CanTransitionTo(entities.StatusApproved) {
		return nil, entities.StateTransitionError(bom.Status, entities.StatusApproved)
	}
	if approverID == "" || approverID == bom.CreatedBy {
		return nil, fmt.Errorf("bom %s: %w", bomID, entities.ErrSelfApproval)
	}

	previous, err := m.boms.GetApproved(ctx, bom.OrderID)
	if err != nil && !isNotFound(err) {
		return nil, fmt.Errorf("failed to check approved bom for order %s: %w", bom.OrderID, err)
	}

	// Obsolete the outgoing version before the new approval lands. If
	// either write fails, the order is left with at most one approved
	// version, never two.
	if previous != nil && previous.ID != bom.ID {
		previous.Status = entities.StatusObsolete
		if err := m.boms.UpdateStatus(ctx, previous); err != nil {
			return nil, fmt.Errorf("failed to obsolete bom %s: %w", previous.ID, err)
		}
		m.publish(ctx, events.NewBomObsoletedEvent(previous, bom.ID))
	}

	now := time.Now().UTC()
	bom.Status = entities.StatusApproved
	bom.ApprovedBy = approverID
	bom.ApprovedAt = &now
	if err := m.boms.UpdateStatus(ctx, bom); err != nil {
		return nil, fmt.Errorf("failed to approve bom %s: %w", bomID, err)
	}

	m.logger.Info("bom approved",
		zap.String("bom_id", bomID),
		zap.String("order_id", bom.OrderID),
		zap.String("approver", approverID))
	m.publish(ctx, events.NewBomApprovedEvent(bom))

	return bom, nil
}

// Reject returns a PENDING_APPROVAL Bom to DRAFT with a reason. Rejecting
// a Bom already back in DRAFT with a recorded reason is a no-op.
func (m *LifecycleManager) Reject(ctx context.Context, bomID, actor, reason string) (*entities.Bom, error) {
	bom, err := m.boms.GetByID(ctx, bomID)
	if err != nil {
		return nil, err
	}

	if bom.Status == entities.StatusDraft && bom.RejectReason != "" {
		return bom, nil
	}
	if !bom.Status.CanTransitionTo(entities.StatusDraft) {
		return nil, entities.StateTransitionError(bom.Status, entities.StatusDraft)
	}
	if reason == "" {
		return nil, fmt.Errorf("bom %s: %w", bomID, entities.ErrMissingReason)
	}

	bom.Status = entities.StatusDraft
	bom.RejectReason = reason
	if err := m.boms.UpdateStatus(ctx, bom); err != nil {
		return nil, fmt.Errorf("failed to reject bom %s: %w", bomID, err)
	}

	m.logger.Info("bom rejected",
		zap.String("bom_id", bomID),
		zap.String("order_id", bom.OrderID),
		zap.String("actor", actor),
		zap.String("reason", reason))
	m.publish(ctx, events.NewBomRejectedEvent(bom, actor))

	return bom, nil
}

// MarkObsolete manually supersedes an APPROVED Bom. Obsoleting an already
// obsolete Bom is a no-op.
func (m *LifecycleManager) MarkObsolete(ctx context.Context, bomID string) (*entities.Bom, error) {
	bom, err := m.boms.GetByID(ctx, bomID)
	if err != nil {
		return nil, err
	}

	if bom.Status == entities.StatusObsolete {
		return bom, nil
	}
	if !bom.Status.CanTransitionTo(entities.StatusObsolete) {
		return nil, entities.StateTransitionError(bom.Status, entities.StatusObsolete)
	}

	bom.Status = entities.StatusObsolete
	if err := m.boms.UpdateStatus(ctx, bom); err != nil {
		return nil, fmt.Errorf("failed to obsolete bom %s: %w", bomID, err)
	}
	m.publish(ctx, events.NewBomObsoletedEvent(bom, ""))

	return bom, nil
}

// Get returns a Bom by id.
func (m *LifecycleManager) Get(ctx context.Context, bomID string) (*entities.Bom, error) {
	return m.boms.GetByID(ctx, bomID)
}

// ListVersions returns all versions of an order's Bom, newest first.
func (m *LifecycleManager) ListVersions(ctx context.Context, orderID string) ([]*entities.Bom, error) {
	return m.boms.ListVersions(ctx, orderID)
}

func (m *LifecycleManager) publish(ctx context.Context, event events.Event) {
	if m.events == nil {
		return
	}
	if err := m.events.AppendEvent(ctx, event.StreamID(), event); err != nil {
		// Event delivery is best effort; the lifecycle transition itself
		// has already been persisted.
		m.logger.Warn("failed to append lifecycle event",
			zap.String("type", event.Type()),
			zap.Error(err))
	}
}

func isNotFound(err error) bool {
	return errors.Is(err, entities.ErrBomNotFound)
}
