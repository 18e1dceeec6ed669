package questionbank

import (
	"strings"
	"unicode"

	"github.com/tjfontaine/interview-coach/internal/core/domain"
)

// Mix is the set of categories a topic draws from, in interleaving order.
type Mix struct {
	Categories []domain.Category
	// Subcategories whose questions are ranked first within a difficulty tier.
	Preferred map[string]bool
}

var allCategories = []domain.Category{
	domain.CategoryTechnical,
	domain.CategoryBehavioral,
	domain.CategorySystemDesign,
}

// subcategoryHints maps topic words to technical subcategories.
var subcategoryHints = map[string]string{
	"python":     "python",
	"django":     "python",
	"data":       "data_science",
	"ml":         "data_science",
	"machine":    "data_science",
	"scientist":  "data_science",
	"analyst":    "data_science",
	"debugging":  "general",
	"backend":    "general",
	"developer":  "general",
	"engineer":   "general",
	"programmer": "general",
}

// ResolveMix maps a free-text topic to a category mix.
// "technical", "behavioral" and "system design" select a single category;
// anything else, including "mixed" or a role title, draws from all three.
func ResolveMix(topic string) Mix {
	lower := strings.ToLower(strings.TrimSpace(topic))
	words := strings.FieldsFunc(lower, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})

	mix := Mix{Preferred: make(map[string]bool)}
	switch {
	case strings.Contains(lower, "system design") || strings.Contains(lower, "system_design"):
		mix.Categories = []domain.Category{domain.CategorySystemDesign}
	case containsWord(words, "behavioral") || containsWord(words, "behavioural"):
		mix.Categories = []domain.Category{domain.CategoryBehavioral}
	case containsWord(words, "technical"):
		mix.Categories = []domain.Category{domain.CategoryTechnical}
	default:
		mix.Categories = append([]domain.Category(nil), allCategories...)
	}

	for _, w := range words {
		if sub, ok := subcategoryHints[w]; ok {
			mix.Preferred[sub] = true
		}
	}
	return mix
}

func (m Mix) includes(c domain.Category) bool {
	for _, v := range m.Categories {
		if v == c {
			return true
		}
	}
	return false
}

func (m Mix) prefers(q domain.Question) bool {
	return q.Subcategory != "" && m.Preferred[q.Subcategory]
}

func containsWord(words []string, w string) bool {
	for _, v := range words {
		if v == w {
			return true
		}
	}
	return false
}
