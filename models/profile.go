// ABOUTME: RTP (Real-Time Prioritization) configuration profile
// ABOUTME: Strategy presets, factor weightings, priority filters, thresholds, and validation
package models

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Strategy names a weighting preset.
type Strategy string

const (
	StrategyCloseQuickly  Strategy = "close_quickly"
	StrategySellFaster    Strategy = "sell_faster"
	StrategyMaximizeValue Strategy = "maximize_value"
	StrategyBalanced      Strategy = "balanced"
	StrategyCustom        Strategy = "custom"
)

// Strategies lists the presets in the order the settings UI shows them.
var Strategies = []Strategy{StrategyCloseQuickly, StrategySellFaster, StrategyMaximizeValue, StrategyBalanced}

var (
	ErrUnknownStrategy = errors.New("unknown strategy")
	ErrUnknownField    = errors.New("unknown profile field")
)

// Weightings are the five named factor weights, in percent.
type Weightings struct {
	DealSize             float64 `json:"deal_size" mapstructure:"deal_size" validate:"gte=0,lte=100"`
	CloseProbability     float64 `json:"close_probability" mapstructure:"close_probability" validate:"gte=0,lte=100"`
	Urgency              float64 `json:"urgency" mapstructure:"urgency" validate:"gte=0,lte=100"`
	RelationshipStrength float64 `json:"relationship_strength" mapstructure:"relationship_strength" validate:"gte=0,lte=100"`
	CompetitiveRisk      float64 `json:"competitive_risk" mapstructure:"competitive_risk" validate:"gte=0,lte=100"`
}

// Total sums the weights as entered.
func (w Weightings) Total() float64 {
	return w.DealSize + w.CloseProbability + w.Urgency + w.RelationshipStrength + w.CompetitiveRisk
}

// Priorities are boolean filters that add bonuses on top of the weighted score.
type Priorities struct {
	HighValueDeals     bool `json:"high_value_deals" mapstructure:"high_value_deals"`
	NearClose          bool `json:"near_close" mapstructure:"near_close"`
	AtRiskDeals        bool `json:"at_risk_deals" mapstructure:"at_risk_deals"`
	StaleRelationships bool `json:"stale_relationships" mapstructure:"stale_relationships"`
	PriorityFlagged    bool `json:"priority_flagged" mapstructure:"priority_flagged"`
}

// Thresholds demote records that fall outside the seller's focus. Zero disables a threshold.
type Thresholds struct {
	MinDealSize         float64 `json:"min_deal_size" mapstructure:"min_deal_size" validate:"gte=0"`
	MinCloseProbability float64 `json:"min_close_probability" mapstructure:"min_close_probability" validate:"gte=0,lte=100"`
	MaxDaysToClose      int     `json:"max_days_to_close" mapstructure:"max_days_to_close" validate:"gte=0"`
}

// Profile is the user-editable RTP configuration.
type Profile struct {
	Strategy   Strategy   `json:"strategy" mapstructure:"strategy" validate:"required,oneof=close_quickly sell_faster maximize_value balanced custom"`
	Weightings Weightings `json:"weightings" mapstructure:"weightings"`
	Priorities Priorities `json:"priorities" mapstructure:"priorities"`
	Thresholds Thresholds `json:"thresholds" mapstructure:"thresholds"`
}

var defaultPriorities = Priorities{
	HighValueDeals:     true,
	NearClose:          true,
	AtRiskDeals:        true,
	StaleRelationships: true,
	PriorityFlagged:    true,
}

var presets = map[Strategy]Profile{
	StrategyCloseQuickly: {
		Strategy:   StrategyCloseQuickly,
		Weightings: Weightings{DealSize: 15, CloseProbability: 35, Urgency: 30, RelationshipStrength: 10, CompetitiveRisk: 10},
		Priorities: defaultPriorities,
		Thresholds: Thresholds{MinCloseProbability: 50, MaxDaysToClose: 30},
	},
	StrategySellFaster: {
		Strategy:   StrategySellFaster,
		Weightings: Weightings{DealSize: 10, CloseProbability: 25, Urgency: 40, RelationshipStrength: 15, CompetitiveRisk: 10},
		Priorities: defaultPriorities,
		Thresholds: Thresholds{MaxDaysToClose: 60},
	},
	StrategyMaximizeValue: {
		Strategy:   StrategyMaximizeValue,
		Weightings: Weightings{DealSize: 45, CloseProbability: 20, Urgency: 10, RelationshipStrength: 15, CompetitiveRisk: 10},
		Priorities: defaultPriorities,
		Thresholds: Thresholds{MinDealSize: 100000},
	},
	StrategyBalanced: {
		Strategy:   StrategyBalanced,
		Weightings: Weightings{DealSize: 25, CloseProbability: 25, Urgency: 20, RelationshipStrength: 15, CompetitiveRisk: 15},
		Priorities: defaultPriorities,
	},
}

// DefaultProfile returns the balanced preset.
func DefaultProfile() Profile {
	return presets[StrategyBalanced]
}

// PresetProfile returns the named strategy preset.
func PresetProfile(strategy Strategy) (Profile, error) {
	p, ok := presets[Strategy(strings.ToLower(string(strategy)))]
	if !ok {
		return Profile{}, fmt.Errorf("%w: %q", ErrUnknownStrategy, strategy)
	}
	return p, nil
}

var validate = validator.New()

// Validate checks each field is in range. Off-total weightings are not an error; see Warnings.
func (p Profile) Validate() error {
	if err := validate.Struct(p); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			msgs := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				msgs = append(msgs, fmt.Sprintf("%s failed %s=%s (got %v)", fe.Namespace(), fe.Tag(), fe.Param(), fe.Value()))
			}
			return fmt.Errorf("invalid profile: %s", strings.Join(msgs, "; "))
		}
		return fmt.Errorf("invalid profile: %w", err)
	}
	return nil
}

// Warnings returns non-blocking configuration issues for the settings UI.
func (p Profile) Warnings() []string {
	var warnings []string
	total := p.Weightings.Total()
	if math.Abs(total-100) > 0.01 {
		warnings = append(warnings, fmt.Sprintf("weightings sum to %.1f%%, expected 100%%", total))
	}
	return warnings
}

// Set changes a single field by its dotted name and marks the profile custom.
// Field names follow the JSON tags, e.g. "weightings.deal_size" or "priorities.near_close".
func (p *Profile) Set(field, value string) error {
	parseFloat := func() (float64, error) {
		v, err := strconv.ParseFloat(strings.TrimSuffix(strings.TrimSpace(value), "%"), 64)
		if err != nil {
			return 0, fmt.Errorf("invalid number for %s: %w", field, err)
		}
		return v, nil
	}
	parseBool := func() (bool, error) {
		v, err := strconv.ParseBool(strings.TrimSpace(value))
		if err != nil {
			return false, fmt.Errorf("invalid boolean for %s: %w", field, err)
		}
		return v, nil
	}

	key := strings.ToLower(strings.TrimSpace(field))
	switch key {
	case "weightings.deal_size", "weightings.close_probability", "weightings.urgency",
		"weightings.relationship_strength", "weightings.competitive_risk",
		"thresholds.min_deal_size", "thresholds.min_close_probability":
		v, err := parseFloat()
		if err != nil {
			return err
		}
		switch key {
		case "weightings.deal_size":
			p.Weightings.DealSize = v
		case "weightings.close_probability":
			p.Weightings.CloseProbability = v
		case "weightings.urgency":
			p.Weightings.Urgency = v
		case "weightings.relationship_strength":
			p.Weightings.RelationshipStrength = v
		case "weightings.competitive_risk":
			p.Weightings.CompetitiveRisk = v
		case "thresholds.min_deal_size":
			p.Thresholds.MinDealSize = v
		case "thresholds.min_close_probability":
			p.Thresholds.MinCloseProbability = v
		}
	case "thresholds.max_days_to_close":
		v, err := strconv.Atoi(strings.TrimSpace(value))
		if err != nil {
			return fmt.Errorf("invalid integer for %s: %w", field, err)
		}
		p.Thresholds.MaxDaysToClose = v
	case "priorities.high_value_deals", "priorities.near_close", "priorities.at_risk_deals",
		"priorities.stale_relationships", "priorities.priority_flagged":
		v, err := parseBool()
		if err != nil {
			return err
		}
		switch key {
		case "priorities.high_value_deals":
			p.Priorities.HighValueDeals = v
		case "priorities.near_close":
			p.Priorities.NearClose = v
		case "priorities.at_risk_deals":
			p.Priorities.AtRiskDeals = v
		case "priorities.stale_relationships":
			p.Priorities.StaleRelationships = v
		case "priorities.priority_flagged":
			p.Priorities.PriorityFlagged = v
		}
	default:
		return fmt.Errorf("%w: %q", ErrUnknownField, field)
	}

	p.Strategy = StrategyCustom
	return nil
}
