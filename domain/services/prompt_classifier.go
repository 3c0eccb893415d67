package services

import (
	"strings"

	"skilltree/domain/core/valueobjects"
)

// categoryRule maps a set of case-sensitive keywords to a category
type categoryRule struct {
	keywords []string
	category valueobjects.Category
}

// Rules are checked in order; the first rule with any matching keyword wins.
var categoryRules = []categoryRule{
	{keywords: []string{"tech", "programming"}, category: valueobjects.CategoryTech},
	{keywords: []string{"art", "design"}, category: valueobjects.CategoryCreative},
	{keywords: []string{"business", "entrepreneurship"}, category: valueobjects.CategoryBusiness},
}

// Classify buckets a raw prompt by substring match. Matching is
// case-sensitive and the prompt is not trimmed, so "Tech" falls through
// to General and "start" lands in Creative.
func Classify(prompt string) valueobjects.Category {
	for _, rule := range categoryRules {
		for _, kw := range rule.keywords {
			if strings.Contains(prompt, kw) {
				return rule.category
			}
		}
	}
	return valueobjects.CategoryGeneral
}
