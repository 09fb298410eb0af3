package core

import (
	"context"
	"fmt"
	"math"

	"fieldtrax/pkg/quantity"
	"fieldtrax/pkg/settings"
	"fieldtrax/pkg/tubular"
)

// Built-in rule names.
const (
	RuleLinerOverlap     = "liner_overlap"
	RuleStringContinuity = "string_continuity"
	RuleDriftClearance   = "drift_clearance"
	RuleRatingPresence   = "rating_presence"
)

// RuleConfig tunes the built-in rules.
type RuleConfig struct {
	// MinimumOverlap is the liner lap below which a warning is raised.
	MinimumOverlap quantity.Length
	// ContinuityTolerance is the allowed mismatch between one joint's end and
	// the next joint's start.
	ContinuityTolerance quantity.Length
	// Preferences format quantities in violation messages.
	Preferences settings.UnitPreferences
}

// DefaultRuleConfig returns a 100 ft minimum lap and a 0.5 ft continuity tolerance.
func DefaultRuleConfig() RuleConfig {
	return RuleConfig{
		MinimumOverlap:      quantity.Must(quantity.NewLength(100, quantity.Foot)),
		ContinuityTolerance: quantity.Must(quantity.NewLength(0.5, quantity.Foot)),
		Preferences:         settings.Default(),
	}
}

// NewDefaultRulesEngine registers the built-in rules.
func NewDefaultRulesEngine(cfg RuleConfig) *tubular.RulesEngine {
	engine := tubular.NewRulesEngine()
	engine.Register(linerOverlapRule{cfg: cfg})
	engine.Register(stringContinuityRule{cfg: cfg})
	engine.Register(driftClearanceRule{cfg: cfg})
	engine.Register(ratingPresenceRule{})
	return engine
}

type linerOverlapRule struct{ cfg RuleConfig }

func (linerOverlapRule) Name() string { return RuleLinerOverlap }

func (r linerOverlapRule) Evaluate(_ context.Context, s *tubular.String) (tubular.Result, error) {
	var res tubular.Result
	for _, o := range s.Overlaps() {
		switch {
		case o.Length.Canonical() < 0:
			gap := quantity.Must(quantity.NewLength(-o.Length.Canonical(), quantity.Meter))
			res.Violations = append(res.Violations, tubular.Violation{
				Rule:        RuleLinerOverlap,
				Severity:    tubular.SeverityBlock,
				Message:     fmt.Sprintf("liner top is %s below the previous shoe", r.cfg.Preferences.Format(gap.Quantity)),
				ComponentID: o.LinerID,
			})
		case !r.cfg.MinimumOverlap.IsZero() && o.Length.Canonical() < r.cfg.MinimumOverlap.Canonical():
			res.Violations = append(res.Violations, tubular.Violation{
				Rule:     RuleLinerOverlap,
				Severity: tubular.SeverityWarn,
				Message: fmt.Sprintf("liner overlap %s is below the %s minimum",
					r.cfg.Preferences.Format(o.Length.Quantity), r.cfg.Preferences.Format(r.cfg.MinimumOverlap.Quantity)),
				ComponentID: o.LinerID,
			})
		}
	}
	return res, nil
}

type stringContinuityRule struct{ cfg RuleConfig }

func (stringContinuityRule) Name() string { return RuleStringContinuity }

func (r stringContinuityRule) Evaluate(_ context.Context, s *tubular.String) (tubular.Result, error) {
	var res tubular.Result
	components := s.Components()
	for i := 1; i < len(components); i++ {
		c, prev := components[i], components[i-1]
		if c.Kind() == tubular.KindLiner {
			continue
		}
		mismatch := c.StartDepth().Sub(prev.EndDepth())
		if math.Abs(mismatch.Canonical()) <= r.cfg.ContinuityTolerance.Canonical() {
			continue
		}
		res.Violations = append(res.Violations, tubular.Violation{
			Rule:     RuleStringContinuity,
			Severity: tubular.SeverityWarn,
			Message: fmt.Sprintf("starts at %s but the previous component ends at %s",
				r.cfg.Preferences.Format(c.StartDepth().Quantity), r.cfg.Preferences.Format(prev.EndDepth().Quantity)),
			ComponentID: c.ID(),
		})
	}
	return res, nil
}

type driftClearanceRule struct{ cfg RuleConfig }

func (driftClearanceRule) Name() string { return RuleDriftClearance }

func (r driftClearanceRule) Evaluate(_ context.Context, s *tubular.String) (tubular.Result, error) {
	var res tubular.Result
	components := s.Components()
	for i := 1; i < len(components); i++ {
		c, prev := components[i], components[i-1]
		info, ok := c.Liner()
		if !ok || !info.InstalledBelow {
			continue
		}
		od, id := c.Body().OuterDiameter, prev.Body().InnerDiameter
		if od.Compare(id) <= 0 {
			continue
		}
		res.Violations = append(res.Violations, tubular.Violation{
			Rule:     RuleDriftClearance,
			Severity: tubular.SeverityBlock,
			Message: fmt.Sprintf("liner OD %s does not pass previous ID %s",
				od.String(), id.String()),
			ComponentID: c.ID(),
		})
	}
	return res, nil
}

type ratingPresenceRule struct{}

func (ratingPresenceRule) Name() string { return RuleRatingPresence }

func (ratingPresenceRule) Evaluate(_ context.Context, s *tubular.String) (tubular.Result, error) {
	var res tubular.Result
	for _, c := range s.Components() {
		if c.Kind() != tubular.KindPipe {
			continue
		}
		b := c.Body()
		if b.BurstRating.IsZero() || b.CollapseRating.IsZero() {
			res.Violations = append(res.Violations, tubular.Violation{
				Rule:        RuleRatingPresence,
				Severity:    tubular.SeverityLog,
				Message:     "burst or collapse rating missing",
				ComponentID: c.ID(),
			})
		}
	}
	return res, nil
}
