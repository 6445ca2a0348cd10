package config

import (
	"errors"
	"fmt"
	"sort"
)

// ErrUnknownPreset is returned by Preset for names that are not registered.
var ErrUnknownPreset = errors.New("unknown preset")

// Preset names.
const (
	PresetCashFlow  = "cash-flow"
	PresetSubjectTo = "subject-to"
	PresetSection8  = "section-8"
)

var presets = map[string]func() SearchConfig{
	// Higher ROI target on newer, managed stock bought outright.
	PresetCashFlow: func() SearchConfig {
		c := DefaultSearchConfig()
		c.TargetROI = 12.0
		c.Property.AnyAge = false
		c.Property.BuiltAfter1980 = true
		c.Management.PropertyManaged = true
		c.Management.SelfManaged = false
		c.Investment.CashPurchase = true
		return c
	},
	// Distressed or seller-financed deals: stale listings, self-managed.
	PresetSubjectTo: func() SearchConfig {
		c := DefaultSearchConfig()
		c.TargetROI = 15.0
		c.MinDaysOnMarket = 90
		c.Property.AnyAge = true
		c.Management.PropertyManaged = false
		c.Management.SelfManaged = true
		c.Investment.CashPurchase = true
		return c
	},
	// Subsidised rentals.
	PresetSection8: func() SearchConfig {
		c := DefaultSearchConfig()
		c.TargetROI = 10.0
		c.RentalStrategy = RentalStrategy{MarketRate: false, Section8: true}
		c.Property.AnyAge = false
		c.Property.BuiltAfter1980 = true
		c.Management.PropertyManaged = true
		return c
	},
}

// Preset returns a fresh copy of the named preset.
func Preset(name string) (SearchConfig, error) {
	build, ok := presets[name]
	if !ok {
		return SearchConfig{}, fmt.Errorf("%w: %q", ErrUnknownPreset, name)
	}
	return build(), nil
}

// PresetNames lists registered presets in alphabetical order.
func PresetNames() []string {
	names := make([]string, 0, len(presets))
	for name := range presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
