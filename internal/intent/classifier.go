// Package intent classifies consultation messages into specialist areas
// using configurable keyword lists.
package intent

import (
	"os"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/voltcraft/certify/internal/models"
)

// Keywords holds the trigger lists for each specialist area. Matching is
// plain substring matching over the lowercased message: high recall, known
// false positives (e.g. "test" inside "latest" triggers commissioning).
// The lists are data rather than code so that tradeoff stays visible and
// adjustable.
type Keywords struct {
	Design        []string `yaml:"design"`
	Cost          []string `yaml:"cost"`
	Installation  []string `yaml:"installation"`
	Commissioning []string `yaml:"commissioning"`
}

// DefaultKeywords returns the built-in trigger lists.
func DefaultKeywords() *Keywords {
	return &Keywords{
		Design: []string{
			"cable", "size", "protection", "mcb", "rcbo", "voltage drop",
			"calculate", "regulation", "amp", "circuit", "design", "earth",
			"fault", "loop",
		},
		Cost: []string{
			"price", "cost", "cheap", "wholesaler", "screwfix", "toolstation",
			"cef", "budget", "estimate", "quote", "materials",
		},
		Installation: []string{
			"install", "how to", "method", "steps", "practical", "fix",
			"mount", "route", "clip", "location",
		},
		Commissioning: []string{
			"test", "certificate", "eic", "verify", "inspect", "commission",
			"ir test", "continuity", "zs",
		},
	}
}

// LoadKeywords reads trigger lists from a yaml file. Empty lists fall back
// to the defaults so a partial file cannot silence a specialist.
func LoadKeywords(path string) (*Keywords, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var kw Keywords
	if err := yaml.Unmarshal(data, &kw); err != nil {
		return nil, err
	}
	def := DefaultKeywords()
	if len(kw.Design) == 0 {
		kw.Design = def.Design
	}
	if len(kw.Cost) == 0 {
		kw.Cost = def.Cost
	}
	if len(kw.Installation) == 0 {
		kw.Installation = def.Installation
	}
	if len(kw.Commissioning) == 0 {
		kw.Commissioning = def.Commissioning
	}
	return &kw, nil
}

// Classifier maps a free-text message to intent flags. Safe for concurrent
// use; the keyword set can be swapped at runtime (see Watch).
type Classifier struct {
	mu sync.RWMutex
	kw *Keywords
}

// NewClassifier creates a classifier with the given keywords, or the
// defaults when kw is nil.
func NewClassifier(kw *Keywords) *Classifier {
	if kw == nil {
		kw = DefaultKeywords()
	}
	return &Classifier{kw: kw}
}

// SetKeywords replaces the trigger lists.
func (c *Classifier) SetKeywords(kw *Keywords) {
	if kw == nil {
		return
	}
	c.mu.Lock()
	c.kw = kw
	c.mu.Unlock()
}

// Classify lowercases the message and flags each area whose list contains
// a substring match. Flags are independent; an empty or unmatched message
// yields all false.
func (c *Classifier) Classify(message string) models.IntentFlags {
	c.mu.RLock()
	kw := c.kw
	c.mu.RUnlock()

	lower := strings.ToLower(message)
	return models.IntentFlags{
		Design:        matchAny(lower, kw.Design),
		Cost:          matchAny(lower, kw.Cost),
		Installation:  matchAny(lower, kw.Installation),
		Commissioning: matchAny(lower, kw.Commissioning),
	}
}

func matchAny(lower string, keywords []string) bool {
	if lower == "" {
		return false
	}
	for _, k := range keywords {
		if k != "" && strings.Contains(lower, k) {
			return true
		}
	}
	return false
}
