package questionbank

import (
	"github.com/tjfontaine/interview-coach/internal/core/domain"
)

// Evaluation criteria shared by every question of a category.
var criteriaByCategory = map[domain.Category][]string{
	domain.CategoryTechnical: {
		"Technical accuracy and depth of knowledge",
		"Problem-solving approach and methodology",
		"Code quality and best practices",
		"Communication of technical concepts",
		"Handling of edge cases and error scenarios",
	},
	domain.CategoryBehavioral: {
		"Use of STAR method (Situation, Task, Action, Result)",
		"Relevance of example to the question",
		"Demonstration of key competencies",
		"Clarity and structure of response",
		"Learning and growth mindset",
	},
	domain.CategorySystemDesign: {
		"System architecture and design principles",
		"Scalability and performance considerations",
		"Trade-offs and decision rationale",
		"Knowledge of relevant technologies",
		"Communication of complex systems",
	},
}

// DefaultCatalog returns the built-in question catalog.
func DefaultCatalog() []domain.Question {
	qs := []domain.Question{
		// technical / python
		{
			ID:               "py_001",
			Text:             "Explain the difference between a list and a tuple in Python.",
			Category:         domain.CategoryTechnical,
			Subcategory:      "python",
			Topic:            "Data Structures",
			Difficulty:       domain.DifficultyEasy,
			ExpectedKeywords: []string{"mutable", "immutable", "performance", "memory"},
			SampleAnswer:     "Lists are mutable and can change after creation; tuples are immutable. Tuples use less memory and iterate slightly faster.",
		},
		{
			ID:               "py_002",
			Text:             "What is the difference between == and is in Python?",
			Category:         domain.CategoryTechnical,
			Subcategory:      "python",
			Topic:            "Operators",
			Difficulty:       domain.DifficultyMedium,
			ExpectedKeywords: []string{"equality", "identity", "object", "value"},
			SampleAnswer:     "== compares values for equality while is compares object identity, meaning both names refer to the same object.",
		},
		{
			ID:               "py_003",
			Text:             "Explain list comprehensions and give an example.",
			Category:         domain.CategoryTechnical,
			Subcategory:      "python",
			Topic:            "Python Features",
			Difficulty:       domain.DifficultyMedium,
			ExpectedKeywords: []string{"comprehension", "syntax", "efficiency", "readable"},
			SampleAnswer:     "A comprehension is concise syntax for building a list, for example [x*x for x in range(10) if x % 2 == 0]; it is readable and usually more efficient than an explicit loop.",
		},
		{
			ID:               "py_004",
			Text:             "How does the global interpreter lock affect multithreaded Python programs?",
			Category:         domain.CategoryTechnical,
			Subcategory:      "python",
			Topic:            "Concurrency",
			Difficulty:       domain.DifficultyHard,
			ExpectedKeywords: []string{"gil", "threads", "cpu-bound", "multiprocessing"},
			SampleAnswer:     "The GIL lets only one thread execute bytecode at a time, so CPU-bound threads do not run in parallel; multiprocessing or native extensions avoid it, while I/O-bound threads still benefit.",
		},
		// technical / data science
		{
			ID:               "ds_001",
			Text:             "What is the difference between supervised and unsupervised learning?",
			Category:         domain.CategoryTechnical,
			Subcategory:      "data_science",
			Topic:            "Machine Learning",
			Difficulty:       domain.DifficultyEasy,
			ExpectedKeywords: []string{"labeled", "unlabeled", "training", "prediction"},
			SampleAnswer:     "Supervised learning trains on labeled data to make predictions; unsupervised learning finds structure in unlabeled data.",
		},
		{
			ID:               "ds_002",
			Text:             "Explain overfitting and how to prevent it.",
			Category:         domain.CategoryTechnical,
			Subcategory:      "data_science",
			Topic:            "Model Performance",
			Difficulty:       domain.DifficultyMedium,
			ExpectedKeywords: []string{"overfitting", "generalization", "validation", "regularization"},
			SampleAnswer:     "Overfitting is fitting noise in the training data so generalization suffers; cross-validation, regularization and early stopping help.",
		},
		{
			ID:               "ds_003",
			Text:             "How would you detect and handle data drift for a model in production?",
			Category:         domain.CategoryTechnical,
			Subcategory:      "data_science",
			Topic:            "MLOps",
			Difficulty:       domain.DifficultyHard,
			ExpectedKeywords: []string{"distribution", "monitoring", "retraining", "baseline"},
			SampleAnswer:     "Compare live feature distributions against a training baseline, alert through monitoring when they diverge, and schedule retraining.",
		},
		// technical / general
		{
			ID:               "gen_001",
			Text:             "How would you approach debugging a complex system?",
			Category:         domain.CategoryTechnical,
			Subcategory:      "general",
			Topic:            "Problem Solving",
			Difficulty:       domain.DifficultyMedium,
			ExpectedKeywords: []string{"systematic", "logs", "reproduction", "isolation"},
			SampleAnswer:     "Start with reproduction, read the logs, isolate the failing component and test fixes in a systematic way.",
		},
		{
			ID:               "gen_002",
			Text:             "What is version control and why do teams use it?",
			Category:         domain.CategoryTechnical,
			Subcategory:      "general",
			Topic:            "Tooling",
			Difficulty:       domain.DifficultyEasy,
			ExpectedKeywords: []string{"history", "branch", "merge", "collaboration"},
			SampleAnswer:     "Version control keeps the history of changes, lets people work on a branch and merge their work, which makes collaboration safe.",
		},
		{
			ID:               "gen_003",
			Text:             "Explain how you would make a slow API endpoint faster.",
			Category:         domain.CategoryTechnical,
			Subcategory:      "general",
			Topic:            "Performance",
			Difficulty:       domain.DifficultyHard,
			ExpectedKeywords: []string{"profiling", "query", "cache", "latency"},
			SampleAnswer:     "Measure latency with profiling, fix the expensive query or N+1 pattern, then add a cache for hot reads.",
		},
		// behavioral
		{
			ID:               "beh_001",
			Text:             "Tell me about a time when you had to work with a difficult team member.",
			Category:         domain.CategoryBehavioral,
			Topic:            "Teamwork",
			Difficulty:       domain.DifficultyMedium,
			ExpectedKeywords: []string{"communication", "conflict resolution", "collaboration", "understanding"},
			SampleAnswer:     "A colleague and I disagreed on reviews. I asked to understand their view, we agreed on a checklist, and collaboration improved.",
		},
		{
			ID:               "beh_002",
			Text:             "Describe a situation where you had to learn a new technology quickly.",
			Category:         domain.CategoryBehavioral,
			Topic:            "Learning Agility",
			Difficulty:       domain.DifficultyMedium,
			ExpectedKeywords: []string{"learning", "adaptability", "resources", "application"},
			SampleAnswer:     "When a project needed React I used documentation and tutorials, built a prototype and applied it in the first sprint.",
		},
		{
			ID:               "beh_003",
			Text:             "Give me an example of a time when you failed and what you learned from it.",
			Category:         domain.CategoryBehavioral,
			Topic:            "Resilience",
			Difficulty:       domain.DifficultyMedium,
			ExpectedKeywords: []string{"failure", "learning", "improvement", "growth"},
			SampleAnswer:     "I missed a deadline through poor estimation; I learned to split tasks, add buffer and raise risks early.",
		},
		{
			ID:               "beh_004",
			Text:             "Tell me about a project you are proud of.",
			Category:         domain.CategoryBehavioral,
			Topic:            "Motivation",
			Difficulty:       domain.DifficultyEasy,
			ExpectedKeywords: []string{"impact", "ownership", "team", "result"},
			SampleAnswer:     "I owned the migration of our billing jobs; the team cut failures in half and the result was visible to customers.",
		},
		{
			ID:               "beh_005",
			Text:             "Describe a time you had to make a decision with incomplete information.",
			Category:         domain.CategoryBehavioral,
			Topic:            "Judgement",
			Difficulty:       domain.DifficultyHard,
			ExpectedKeywords: []string{"risk", "trade-off", "stakeholders", "data"},
			SampleAnswer:     "During an outage I weighed the risk of a rollback against a hotfix, used what data we had, informed stakeholders and chose the rollback.",
		},
		// system design
		{
			ID:               "sys_001",
			Text:             "Design a URL shortener like bit.ly.",
			Category:         domain.CategorySystemDesign,
			Topic:            "System Design",
			Difficulty:       domain.DifficultyHard,
			ExpectedKeywords: []string{"scalability", "database", "caching", "load balancing"},
			SampleAnswer:     "Hash long URLs to short codes, store them in a database, add caching for hot links and put servers behind load balancing for scalability.",
		},
		{
			ID:               "sys_002",
			Text:             "How would you design a chat application?",
			Category:         domain.CategorySystemDesign,
			Topic:            "System Design",
			Difficulty:       domain.DifficultyHard,
			ExpectedKeywords: []string{"real-time", "websockets", "database", "scalability"},
			SampleAnswer:     "Use websockets for real-time delivery, a queue for reliability, a database for history and shard by conversation for scalability.",
		},
		{
			ID:               "sys_003",
			Text:             "Design a rate limiter for a public API.",
			Category:         domain.CategorySystemDesign,
			Topic:            "System Design",
			Difficulty:       domain.DifficultyMedium,
			ExpectedKeywords: []string{"token bucket", "distributed", "redis", "quota"},
			SampleAnswer:     "A token bucket per client with counters in redis keeps the quota consistent across distributed gateway nodes.",
		},
	}

	for i := range qs {
		qs[i].EvaluationCriteria = append([]string(nil), criteriaByCategory[qs[i].Category]...)
	}
	return qs
}
