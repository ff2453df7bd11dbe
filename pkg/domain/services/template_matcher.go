package services

import (
	"sort"

	"go.uber.org/zap"

	"github.com/vsinha/bomgen/pkg/domain/entities"
	"github.com/vsinha/bomgen/pkg/domain/services/expr"
)

// TemplateMatcher selects the BOM template whose matching rule is
// satisfied by a configuration snapshot. Selection is a pure function of
// its inputs.
type TemplateMatcher struct {
	logger *zap.Logger
}

// NewTemplateMatcher creates a template matcher. A nil logger disables
// rule-failure logging.
func NewTemplateMatcher(logger *zap.Logger) *TemplateMatcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TemplateMatcher{logger: logger}
}

// Match evaluates every candidate's matching rule against the snapshot and
// returns the selected template plus warnings for rules that failed to
// evaluate. When several templates match, the most recently created wins;
// creation-time ties break on template ID so the order is total. No
// template matching is entities.ErrNoTemplateMatch.
func (m *TemplateMatcher) Match(candidates []*entities.BomTemplate, snapshot *entities.ConfigurationSnapshot) (*entities.BomTemplate, []entities.Warning, error) {
	vars := expr.Bind(snapshot.Flatten())

	var matched []*entities.BomTemplate
	var warnings []entities.Warning
	for _, tmpl := range candidates {
		ok, err := expr.EvaluateCondition(tmpl.MatchingRule, vars)
		if err != nil {
			// A rule that cannot be evaluated does not match. This is an
			// authoring problem, reported as a warning rather than a
			// failed generation.
			m.logger.Warn("template matching rule failed",
				zap.String("template_id", tmpl.ID),
				zap.String("family", tmpl.Family),
				zap.Error(err))
			warnings = append(warnings, entities.Warning{
				Code:    entities.WarningRuleFailed,
				Message: "template " + tmpl.ID + ": " + err.Error(),
			})
			continue
		}
		if ok {
			matched = append(matched, tmpl)
		}
	}

	if len(matched) == 0 {
		return nil, warnings, entities.ErrNoTemplateMatch
	}

	sort.Slice(matched, func(i, j int) bool {
		if !matched[i].CreatedAt.Equal(matched[j].CreatedAt) {
			return matched[i].CreatedAt.After(matched[j].CreatedAt)
		}
		return matched[i].ID > matched[j].ID
	})

	return matched[0], warnings, nil
}
