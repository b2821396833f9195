package models

// All lists every persisted model in migration order.
func All() []interface{} {
	return []interface{}{
		&Candidate{},
		&Document{},
		&SkillCategory{},
		&Skill{},
		&DocumentSkill{},
		&AnalysisReport{},
		&Question{},
		&InterviewSession{},
		&InterviewAnswer{},
	}
}
