package locale

var english = &table{
	code:        "en",
	name:        "English",
	instruction: "Generate ideas in English.",
	labels: map[string]string{
		Notes:             "Notes",
		ApplicationAreas:  "Application Areas",
		InnovationFactors: "Innovation Factors",
		ScamperTechnique:  "SCAMPER Technique",
		Implementation:    "Implementation",
		Challenges:        "Challenges",
		Feasibility:       "Feasibility",
		Resources:         "Resources",
		Weaknesses:        "Weaknesses",
		Improvements:      "Improvements",
		WhiteHat:          "White Hat (Facts)",
		RedHat:            "Red Hat (Emotions)",
		BlackHat:          "Black Hat (Risks)",
		YellowHat:         "Yellow Hat (Benefits)",
		GreenHat:          "Green Hat (Creativity)",
		BlueHat:           "Blue Hat (Overview)",
		NoAnalysis:        "No analysis",
		CentralConcept:    "Central Concept",
		Insights:          "Insights",
		Applications:      "Applications",
		Connections:       "Connections",
		MainBranches:      "Main Branches",

		Substitute:      "Substitute",
		Combine:         "Combine",
		Adapt:           "Adapt",
		Modify:          "Modify",
		PutToAnotherUse: "Put to another use",
		Eliminate:       "Eliminate",
		Reverse:         "Reverse",
	},
}

var russian = &table{
	code:        "ru",
	name:        "Russian",
	instruction: "Генерируй идеи на русском языке.",
	labels: map[string]string{
		Notes:             "Заметки",
		ApplicationAreas:  "Области применения",
		InnovationFactors: "Факторы инноваций",
		ScamperTechnique:  "Техника SCAMPER",
		Implementation:    "Реализация",
		Challenges:        "Проблемы и решения",
		Feasibility:       "Реализуемость",
		Resources:         "Ресурсы",
		Weaknesses:        "Слабые стороны",
		Improvements:      "Улучшения",
		WhiteHat:          "Белая шляпа (Факты)",
		RedHat:            "Красная шляпа (Эмоции)",
		BlackHat:          "Черная шляпа (Риски)",
		YellowHat:         "Желтая шляпа (Преимущества)",
		GreenHat:          "Зеленая шляпа (Креативность)",
		BlueHat:           "Синяя шляпа (Обзор)",
		NoAnalysis:        "Нет анализа",
		CentralConcept:    "Центральная идея",
		Insights:          "Выводы",
		Applications:      "Применение",
		Connections:       "Связи",
		MainBranches:      "Основные ветви",

		Substitute:      "Замена",
		Combine:         "Комбинирование",
		Adapt:           "Адаптация",
		Modify:          "Модификация",
		PutToAnotherUse: "Применение в другой области",
		Eliminate:       "Исключение",
		Reverse:         "Обращение",
	},
}
