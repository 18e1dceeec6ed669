// Package assessment scores option-based skill self-assessments.
//
// Each item offers a fixed list of options. The skill table maps an
// (item, option index) pair to a per-skill delta; the table is validated when
// it is loaded so a delta row can never be shorter or longer than its item's
// option list.
package assessment

import (
	"fmt"
	"sort"
)

// ItemKind is how an item is answered.
type ItemKind string

const (
	// KindScale and KindChoice take exactly one option index.
	KindScale  ItemKind = "scale"
	KindChoice ItemKind = "multiple_choice"
	// KindCheckbox takes any number of distinct option indices.
	KindCheckbox ItemKind = "checkbox"
)

// Item is a single assessment prompt.
type Item struct {
	ID      string   `json:"id"`
	Phase   string   `json:"phase"`
	Text    string   `json:"text"`
	Kind    ItemKind `json:"kind"`
	Options []string `json:"options"`
}

// SkillRule assigns Deltas[i] points to Skill when option i of ItemID is chosen.
type SkillRule struct {
	ItemID string
	Skill  string
	Deltas []int
}

// Level names for normalized skill scores.
const (
	LevelExpert       = "Expert"
	LevelAdvanced     = "Advanced"
	LevelIntermediate = "Intermediate"
	LevelBeginner     = "Beginner"
	LevelNovice       = "Novice"
)

// SkillScore is a normalized 0-100 score for one skill.
type SkillScore struct {
	Skill string  `json:"skill"`
	Score float64 `json:"score"`
	Level string  `json:"level"`
}

// Result is the outcome of scoring a set of responses.
type Result struct {
	Skills     []SkillScore `json:"skills"`
	Strengths  []string     `json:"strengths"`
	Weaknesses []string     `json:"weaknesses"`
	Answered   int          `json:"answered"`
}

// Table is a validated skill table over a set of items.
type Table struct {
	items      []Item
	byID       map[string]Item
	rules      map[string][]SkillRule
	maxBySkill map[string]int
}

// NewTable validates rules against items and precomputes per-skill maxima.
func NewTable(items []Item, rules []SkillRule) (*Table, error) {
	t := &Table{
		items:      items,
		byID:       make(map[string]Item, len(items)),
		rules:      make(map[string][]SkillRule),
		maxBySkill: make(map[string]int),
	}
	for _, it := range items {
		if it.ID == "" {
			return nil, fmt.Errorf("item id cannot be empty")
		}
		if _, dup := t.byID[it.ID]; dup {
			return nil, fmt.Errorf("duplicate item id %q", it.ID)
		}
		if len(it.Options) == 0 {
			return nil, fmt.Errorf("item %q has no options", it.ID)
		}
		t.byID[it.ID] = it
	}

	for _, r := range rules {
		it, ok := t.byID[r.ItemID]
		if !ok {
			return nil, fmt.Errorf("skill %q references unknown item %q", r.Skill, r.ItemID)
		}
		if len(r.Deltas) != len(it.Options) {
			return nil, fmt.Errorf("item %q skill %q: %d deltas for %d options", r.ItemID, r.Skill, len(r.Deltas), len(it.Options))
		}
		for i, d := range r.Deltas {
			if d < 0 {
				return nil, fmt.Errorf("item %q skill %q: negative delta at option %d", r.ItemID, r.Skill, i)
			}
		}
		t.rules[r.ItemID] = append(t.rules[r.ItemID], r)
		t.maxBySkill[r.Skill] += maxContribution(it.Kind, r.Deltas)
	}
	return t, nil
}

// maxContribution is the most an item can add to a skill: the largest delta
// for single-choice items and the sum of deltas for checkboxes.
func maxContribution(kind ItemKind, deltas []int) int {
	best := 0
	sum := 0
	for _, d := range deltas {
		if d > best {
			best = d
		}
		sum += d
	}
	if kind == KindCheckbox {
		return sum
	}
	return best
}

// Items returns the items in presentation order.
func (t *Table) Items() []Item {
	out := make([]Item, len(t.items))
	copy(out, t.items)
	return out
}

// Score computes normalized skill scores from responses keyed by item id.
// Unknown items, out-of-range indices and multiple selections on
// single-choice items are rejected.
func (t *Table) Score(responses map[string][]int) (*Result, error) {
	raw := make(map[string]int)
	for itemID, selected := range responses {
		it, ok := t.byID[itemID]
		if !ok {
			return nil, fmt.Errorf("unknown item %q", itemID)
		}
		if it.Kind != KindCheckbox && len(selected) != 1 {
			return nil, fmt.Errorf("item %q takes exactly one option, got %d", itemID, len(selected))
		}
		seen := make(map[int]bool, len(selected))
		for _, idx := range selected {
			if idx < 0 || idx >= len(it.Options) {
				return nil, fmt.Errorf("item %q: option index %d out of range [0,%d)", itemID, idx, len(it.Options))
			}
			if seen[idx] {
				return nil, fmt.Errorf("item %q: option index %d selected twice", itemID, idx)
			}
			seen[idx] = true
			for _, r := range t.rules[itemID] {
				raw[r.Skill] += r.Deltas[idx]
			}
		}
	}

	skills := make([]string, 0, len(t.maxBySkill))
	for s := range t.maxBySkill {
		skills = append(skills, s)
	}
	sort.Strings(skills)

	res := &Result{Answered: len(responses)}
	for _, s := range skills {
		score := 0.0
		if limit := t.maxBySkill[s]; limit > 0 {
			score = float64(raw[s]) / float64(limit) * 100
			if score > 100 {
				score = 100
			}
		}
		res.Skills = append(res.Skills, SkillScore{Skill: s, Score: score, Level: Level(score)})
	}

	ranked := append([]SkillScore(nil), res.Skills...)
	sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].Score > ranked[j].Score })
	for _, s := range ranked {
		if s.Score >= 70 && len(res.Strengths) < 5 {
			res.Strengths = append(res.Strengths, s.Skill)
		}
	}
	for i := len(ranked) - 1; i >= 0; i-- {
		if ranked[i].Score < 40 && len(res.Weaknesses) < 5 {
			res.Weaknesses = append(res.Weaknesses, ranked[i].Skill)
		}
	}
	return res, nil
}

// Level maps a normalized score to a named level.
func Level(score float64) string {
	switch {
	case score >= 80:
		return LevelExpert
	case score >= 60:
		return LevelAdvanced
	case score >= 40:
		return LevelIntermediate
	case score >= 20:
		return LevelBeginner
	default:
		return LevelNovice
	}
}
