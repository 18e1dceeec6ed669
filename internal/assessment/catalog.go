package assessment

var defaultItems = []Item{
	{
		ID:      "tech_001",
		Phase:   "technical_skills",
		Text:    "How comfortable are you with programming concepts like variables, loops, and functions?",
		Kind:    KindScale,
		Options: []string{"Not familiar", "Basic understanding", "Comfortable", "Very comfortable", "Expert"},
	},
	{
		ID:      "tech_002",
		Phase:   "technical_skills",
		Text:    "Have you worked with data analysis tools like Excel, pandas, or R?",
		Kind:    KindChoice,
		Options: []string{"Never used", "Basic Excel only", "Advanced Excel", "Python/R basics", "Advanced Python/R"},
	},
	{
		ID:      "tech_003",
		Phase:   "technical_skills",
		Text:    "What is your experience with machine learning?",
		Kind:    KindChoice,
		Options: []string{"No experience", "Heard about it", "Basic understanding", "Worked on projects", "Expert level"},
	},
	{
		ID:      "tech_004",
		Phase:   "technical_skills",
		Text:    "How would you rate your database and SQL skills?",
		Kind:    KindScale,
		Options: []string{"No experience", "Basic queries", "Intermediate", "Advanced", "Expert"},
	},
	{
		ID:      "tech_005",
		Phase:   "technical_skills",
		Text:    "Have you built any web applications or websites?",
		Kind:    KindChoice,
		Options: []string{"Never", "Static HTML/CSS", "Dynamic with JavaScript", "Full-stack applications", "Complex web systems"},
	},
	{
		ID:      "soft_001",
		Phase:   "soft_skills",
		Text:    "How do you handle working in a team environment?",
		Kind:    KindScale,
		Options: []string{"Prefer working alone", "Can work in teams", "Enjoy collaboration", "Natural team leader", "Excellent team player"},
	},
	{
		ID:      "soft_002",
		Phase:   "soft_skills",
		Text:    "When faced with a complex problem, what is your typical approach?",
		Kind:    KindChoice,
		Options: []string{"Ask for help immediately", "Break it into smaller parts", "Research and analyze", "Try different approaches", "Systematic problem-solving"},
	},
	{
		ID:      "soft_003",
		Phase:   "soft_skills",
		Text:    "How comfortable are you presenting ideas to groups?",
		Kind:    KindScale,
		Options: []string{"Very uncomfortable", "Somewhat uncomfortable", "Neutral", "Comfortable", "Very comfortable"},
	},
	{
		ID:      "soft_004",
		Phase:   "soft_skills",
		Text:    "How do you prioritize tasks when you have multiple deadlines?",
		Kind:    KindChoice,
		Options: []string{"Whatever comes first", "Ask my manager", "A simple list", "Project management tools", "Strategic prioritization"},
	},
	{
		ID:      "soft_005",
		Phase:   "soft_skills",
		Text:    "How do you handle feedback and criticism?",
		Kind:    KindScale,
		Options: []string{"Take it personally", "Feel defensive", "Listen but ignore", "Use it to improve", "Actively seek feedback"},
	},
	{
		ID:      "exp_004",
		Phase:   "experience",
		Text:    "What type of projects have you worked on? (Select all that apply)",
		Kind:    KindCheckbox,
		Options: []string{"Academic projects", "Personal projects", "Open source contributions", "Freelance work", "Internships", "Full-time employment"},
	},
}

var defaultRules = []SkillRule{
	{ItemID: "tech_001", Skill: "Python Programming", Deltas: []int{0, 1, 2, 3, 4}},
	{ItemID: "tech_001", Skill: "JavaScript", Deltas: []int{0, 1, 2, 3, 4}},
	{ItemID: "tech_001", Skill: "SQL", Deltas: []int{0, 1, 2, 3, 4}},
	{ItemID: "tech_002", Skill: "Data Analysis", Deltas: []int{0, 1, 2, 3, 4}},
	{ItemID: "tech_002", Skill: "Python Programming", Deltas: []int{0, 0, 1, 3, 4}},
	{ItemID: "tech_003", Skill: "Machine Learning", Deltas: []int{0, 1, 2, 3, 4}},
	{ItemID: "tech_003", Skill: "Data Analysis", Deltas: []int{0, 0, 1, 2, 3}},
	{ItemID: "tech_004", Skill: "SQL", Deltas: []int{0, 1, 2, 3, 4}},
	{ItemID: "tech_004", Skill: "Data Analysis", Deltas: []int{0, 1, 2, 3, 4}},
	{ItemID: "tech_005", Skill: "JavaScript", Deltas: []int{0, 1, 2, 3, 4}},
	{ItemID: "tech_005", Skill: "Python Programming", Deltas: []int{0, 0, 1, 2, 3}},
	{ItemID: "soft_001", Skill: "Communication", Deltas: []int{1, 2, 3, 4, 4}},
	{ItemID: "soft_001", Skill: "Leadership", Deltas: []int{0, 1, 2, 3, 4}},
	{ItemID: "soft_001", Skill: "Problem Solving", Deltas: []int{1, 2, 3, 3, 4}},
	{ItemID: "soft_002", Skill: "Problem Solving", Deltas: []int{1, 2, 3, 4, 4}},
	{ItemID: "soft_002", Skill: "Critical Thinking", Deltas: []int{1, 2, 3, 4, 4}},
	{ItemID: "soft_003", Skill: "Communication", Deltas: []int{0, 1, 2, 3, 4}},
	{ItemID: "soft_003", Skill: "Leadership", Deltas: []int{0, 1, 2, 3, 4}},
	{ItemID: "soft_004", Skill: "Project Management", Deltas: []int{1, 2, 2, 3, 4}},
	{ItemID: "soft_004", Skill: "Critical Thinking", Deltas: []int{1, 2, 2, 3, 4}},
	{ItemID: "soft_005", Skill: "Communication", Deltas: []int{1, 1, 2, 3, 4}},
	{ItemID: "soft_005", Skill: "Leadership", Deltas: []int{0, 1, 2, 3, 4}},
	{ItemID: "exp_004", Skill: "Practical Experience", Deltas: []int{1, 1, 2, 2, 2, 3}},
}

// DefaultTable builds the built-in assessment.
func DefaultTable() (*Table, error) {
	return NewTable(defaultItems, defaultRules)
}
