package evaluator

import (
	"fmt"
	"math"
	"strings"
	"unicode"

	"github.com/tjfontaine/interview-coach/internal/core/domain"
)

// cueGroup is one structural component; it is present when any cue matches.
type cueGroup struct {
	name string
	cues []string
}

// STAR components for behavioral answers.
var starGroups = []cueGroup{
	{name: "situation", cues: []string{"situation", "when", "time", "once"}},
	{name: "task", cues: []string{"task", "goal", "objective", "needed"}},
	{name: "action", cues: []string{"action", "did", "took", "implemented"}},
	{name: "result", cues: []string{"result", "outcome", "achieved", "learned"}},
}

// Design concepts for system design answers.
var designGroups = []cueGroup{
	{name: "scalability", cues: []string{"scale", "scalable", "scalability", "load", "traffic"}},
	{name: "database", cues: []string{"database", "db", "storage", "persistence"}},
	{name: "caching", cues: []string{"cache", "caching", "redis", "memcached"}},
	{name: "load_balancing", cues: []string{"load balancer", "load balancing", "distribute", "multiple servers"}},
	{name: "security", cues: []string{"security", "auth", "encryption", "secure"}},
}

var suggestionsByCategory = map[domain.Category][]string{
	domain.CategoryTechnical: {
		"Practice explaining technical concepts clearly",
		"Use specific examples to illustrate your points",
		"Structure your answer with clear beginning, middle, and end",
	},
	domain.CategoryBehavioral: {
		"Practice the STAR method for behavioral questions",
		"Prepare specific examples for common behavioral scenarios",
		"Quantify your achievements with numbers when possible",
	},
	domain.CategorySystemDesign: {
		"Start with high-level architecture and drill down to details",
		"Consider scalability, performance, and reliability from the beginning",
		"Discuss trade-offs and alternatives for your design choices",
	},
}

// Weights are the keyword-coverage and structure/cue shares of the score per category.
var weights = map[domain.Category]struct{ keyword, structure float64 }{
	domain.CategoryTechnical:    {keyword: 0.6, structure: 0.4},
	domain.CategoryBehavioral:   {keyword: 0.4, structure: 0.6},
	domain.CategorySystemDesign: {keyword: 0.4, structure: 0.6},
}

// Baseline scores an answer with keyword and structure heuristics only. It is
// a pure function of the question and the answer text.
//
// Technical answers weigh keyword coverage 0.6 and a word-count structure
// signal 0.4. Behavioral answers weigh STAR cue coverage 0.6 and keywords
// 0.4. System design answers weigh design-concept coverage 0.6 and keywords
// 0.4.
func Baseline(q domain.Question, answer string) domain.Evaluation {
	lower := strings.ToLower(answer)
	words := tokenize(lower)
	wc := len(strings.Fields(answer))

	ka := analyzeKeywords(q.ExpectedKeywords, lower)
	kwScore := ka.Coverage * 100

	var structure float64
	switch q.Category {
	case domain.CategoryBehavioral:
		structure = cueCoverage(starGroups, words)
	case domain.CategorySystemDesign:
		structure = cueCoverage(designGroups, words)
	default:
		structure = lengthScore(wc)
	}

	w, ok := weights[q.Category]
	if !ok {
		w = weights[domain.CategoryTechnical]
	}

	ev := domain.Evaluation{
		QuestionID:      q.ID,
		Category:        q.Category,
		Score:           round1(clamp(kwScore*w.keyword + structure*w.structure)),
		KeywordScore:    round1(kwScore),
		StructureScore:  round1(structure),
		WordCount:       wc,
		KeywordAnalysis: ka,
		Strengths:       []string{},
		Improvements:    []string{},
		Suggestions:     append([]string(nil), suggestionsByCategory[q.Category]...),
	}

	if wc == 0 {
		ev.Improvements = append(ev.Improvements, "No answer was provided")
	}

	switch q.Category {
	case domain.CategoryBehavioral:
		if structure > 70 {
			ev.Strengths = append(ev.Strengths, "Good use of STAR method structure")
		}
		if kwScore > 60 {
			ev.Strengths = append(ev.Strengths, "Demonstrated relevant competencies")
		}
		if wc > 50 {
			ev.Strengths = append(ev.Strengths, "Provided detailed example")
		}
		if structure < 50 {
			ev.Improvements = append(ev.Improvements, "Use STAR method: Situation, Task, Action, Result")
		}
		if kwScore < 40 {
			ev.Improvements = append(ev.Improvements, "Focus more on the specific competencies asked about")
		}
		if ka.Coverage < 0.5 && len(ka.Missing) > 0 {
			ev.Improvements = append(ev.Improvements, mentionMissing(ka.Missing))
		}
	case domain.CategorySystemDesign:
		if structure > 70 {
			ev.Strengths = append(ev.Strengths, "Good understanding of system design principles")
		}
		if kwScore > 60 {
			ev.Strengths = append(ev.Strengths, "Covered relevant technical concepts")
		}
		if wc > 100 {
			ev.Strengths = append(ev.Strengths, "Comprehensive system design approach")
		}
		if structure < 50 {
			ev.Improvements = append(ev.Improvements, "Consider scalability, performance, and reliability aspects")
		}
		if kwScore < 40 {
			ev.Improvements = append(ev.Improvements, "Include more specific technical components")
		}
		if ka.Coverage < 0.5 && len(ka.Missing) > 0 {
			ev.Improvements = append(ev.Improvements, mentionMissing(ka.Missing))
		}
	default:
		if kwScore > 70 {
			ev.Strengths = append(ev.Strengths, "Good technical knowledge demonstrated")
		}
		if wc > 30 {
			ev.Strengths = append(ev.Strengths, "Comprehensive answer provided")
		}
		if len(ka.Found) > 0 {
			ev.Strengths = append(ev.Strengths, "Covered key concepts: "+strings.Join(ka.Found, ", "))
		}
		if kwScore < 50 {
			ev.Improvements = append(ev.Improvements, "Include more technical details and specific concepts")
		}
		if wc < 20 {
			ev.Improvements = append(ev.Improvements, "Provide more detailed explanation")
		}
		if len(ka.Missing) > 0 {
			ev.Improvements = append(ev.Improvements, mentionMissing(ka.Missing))
		}
	}

	return ev
}

// analyzeKeywords matches expected keywords as case-insensitive substrings.
func analyzeKeywords(expected []string, lowerAnswer string) domain.KeywordAnalysis {
	ka := domain.KeywordAnalysis{
		Expected: append([]string{}, expected...),
		Found:    []string{},
		Missing:  []string{},
	}
	for _, kw := range expected {
		if kw != "" && strings.Contains(lowerAnswer, strings.ToLower(kw)) {
			ka.Found = append(ka.Found, kw)
		} else {
			ka.Missing = append(ka.Missing, kw)
		}
	}
	if len(expected) > 0 {
		ka.Coverage = float64(len(ka.Found)) / float64(len(expected))
	}
	return ka
}

// lengthScore is the technical structure signal.
func lengthScore(wc int) float64 {
	if wc > 20 {
		return math.Min(100, float64(wc*2))
	}
	return float64(wc * 3)
}

// cueCoverage returns the percentage of groups with at least one matching cue.
// Single-word cues match any word that starts with them; multi-word cues
// match the word sequence.
func cueCoverage(groups []cueGroup, words []string) float64 {
	joined := " " + strings.Join(words, " ") + " "
	present := 0
	for _, g := range groups {
		for _, cue := range g.cues {
			if matchCue(cue, words, joined) {
				present++
				break
			}
		}
	}
	return float64(present) / float64(len(groups)) * 100
}

func matchCue(cue string, words []string, joined string) bool {
	if strings.Contains(cue, " ") {
		return strings.Contains(joined, " "+cue)
	}
	for _, w := range words {
		if strings.HasPrefix(w, cue) {
			return true
		}
	}
	return false
}

func tokenize(lower string) []string {
	return strings.FieldsFunc(lower, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

func mentionMissing(missing []string) string {
	return fmt.Sprintf("Consider mentioning: %s", strings.Join(missing, ", "))
}

func clamp(v float64) float64 {
	return math.Max(0, math.Min(100, v))
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
