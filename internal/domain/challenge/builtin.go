package challenge

func builtinChallenges() []Challenge {
	return []Challenge{
		{ID: "off_1", Name: "Golden Boot", Description: "Most goals scored across the run.", Category: CategoryOffensive, Points: 3, EvaluationType: EvaluationCompetitive, Metric: "totalGoalsScored"},
		{ID: "off_2", Name: "Sharpshooter", Description: "Best average shot accuracy (min. 10 games).", Category: CategoryOffensive, Points: 3, EvaluationType: EvaluationCompetitive, Metric: "avgShotAccuracy", MinGames: 10},
		{ID: "off_3", Name: "Chance Creator", Description: "Highest total expected goals.", Category: CategoryOffensive, Points: 2, EvaluationType: EvaluationCompetitive, Metric: "totalXG"},
		{ID: "off_4", Name: "Clinical Finisher", Description: "Largest gap between goals scored and xG.", Category: CategoryOffensive, Points: 3, EvaluationType: EvaluationCompetitive, Metric: "xgOverperformance"},
		{ID: "off_5", Name: "Goal Fest", Description: "Score 6 or more goals in a single game.", Category: CategoryOffensive, Points: 2, EvaluationType: EvaluationBinary, Conditions: []Condition{perGame("totalGoalsScored", OpGreaterOrEqual, 6)}},
		{ID: "off_6", Name: "Trigger Happy", Description: "Most shots taken across the run.", Category: CategoryOffensive, Points: 2, EvaluationType: EvaluationCompetitive, Metric: "totalShots"},
		{ID: "off_7", Name: "Half Century", Description: "Score at least 50 goals in the run.", Category: CategoryOffensive, Points: 3, EvaluationType: EvaluationBinary, Conditions: []Condition{runTotal("totalGoalsScored", OpGreaterOrEqual, 50)}},
		{ID: "off_8", Name: "Demolition", Description: "Biggest winning margin in a single game.", Category: CategoryOffensive, Points: 2, EvaluationType: EvaluationCompetitive, Metric: "maxGoalMargin"},

		{ID: "def_1", Name: "Brick Wall", Description: "Most clean sheets.", Category: CategoryDefensive, Points: 3, EvaluationType: EvaluationCompetitive, Metric: "cleanSheets"},
		{ID: "def_2", Name: "Fortress", Description: "Fewest goals conceded per game (min. 10 games).", Category: CategoryDefensive, Points: 3, EvaluationType: EvaluationCompetitive, Metric: "avgGoalsConceded", MinGames: 10, Order: OrderAsc},
		{ID: "def_3", Name: "Shutout Specialist", Description: "Keep at least 5 clean sheets.", Category: CategoryDefensive, Points: 2, EvaluationType: EvaluationBinary, Conditions: []Condition{runTotal("cleanSheets", OpGreaterOrEqual, 5)}},
		{ID: "def_4", Name: "Iron Curtain", Description: "Concede 15 or fewer goals over at least 15 games.", Category: CategoryDefensive, Points: 3, EvaluationType: EvaluationBinary, Conditions: []Condition{runTotal("gamesPlayed", OpGreaterOrEqual, 15), runTotal("totalGoalsConceded", OpLessOrEqual, 15)}},
		{ID: "def_5", Name: "No Way Through", Description: "Lowest total xG against (min. 10 games).", Category: CategoryDefensive, Points: 2, EvaluationType: EvaluationCompetitive, Metric: "totalXGAgainst", MinGames: 10, Order: OrderAsc},
		{ID: "def_6", Name: "Gentleman", Description: "Fewest yellow cards (min. 10 games).", Category: CategoryDefensive, Points: 2, EvaluationType: EvaluationCompetitive, Metric: "totalYellowCards", MinGames: 10, Order: OrderAsc},
		{ID: "def_7", Name: "Clean Record", Description: "Finish the run without a red card.", Category: CategoryDefensive, Points: 3, EvaluationType: EvaluationBinary, Conditions: []Condition{runTotal("totalRedCards", OpEqual, 0)}},
		{ID: "def_8", Name: "Dominant Shutout", Description: "Win by 4 or more goals without conceding.", Category: CategoryDefensive, Points: 2, EvaluationType: EvaluationBinary, Conditions: []Condition{perGame("cleanSheets", OpEqual, 1), perGame("totalGoalsScored", OpGreaterOrEqual, 4)}},

		{ID: "tech_1", Name: "Possession King", Description: "Highest average possession (min. 10 games).", Category: CategoryTechnical, Points: 2, EvaluationType: EvaluationCompetitive, Metric: "avgPossession", MinGames: 10},
		{ID: "tech_2", Name: "Pass Master", Description: "Best average pass accuracy (min. 10 games).", Category: CategoryTechnical, Points: 2, EvaluationType: EvaluationCompetitive, Metric: "avgPassAccuracy", MinGames: 10},
		{ID: "tech_3", Name: "Tiki-Taka", Description: "Win a game with at least 70% possession.", Category: CategoryTechnical, Points: 2, EvaluationType: EvaluationBinary, Conditions: []Condition{perGame("avgPossession", OpGreaterOrEqual, 70), perGame("totalWins", OpEqual, 1)}},
		{ID: "tech_4", Name: "Metronome", Description: "Most passes across the run.", Category: CategoryTechnical, Points: 2, EvaluationType: EvaluationCompetitive, Metric: "totalPasses"},
		{ID: "tech_5", Name: "Tactical Chameleon", Description: "Most distinct formations used.", Category: CategoryTechnical, Points: 2, EvaluationType: EvaluationCompetitive, Metric: "distinctFormations"},
		{ID: "tech_6", Name: "Creature of Habit", Description: "Play at least 15 games with a single formation.", Category: CategoryTechnical, Points: 2, EvaluationType: EvaluationBinary, Conditions: []Condition{runTotal("gamesPlayed", OpGreaterOrEqual, 15), runTotal("distinctFormations", OpEqual, 1)}},
		{ID: "tech_7", Name: "On Target", Description: "Average shot accuracy of 60% or better (min. 10 games).", Category: CategoryTechnical, Points: 2, EvaluationType: EvaluationBinary, MinGames: 10, Conditions: []Condition{runTotal("avgShotAccuracy", OpGreaterOrEqual, 60)}},

		{ID: "mgmt_1", Name: "Top Dog", Description: "Most wins in the run.", Category: CategoryManagement, Points: 3, EvaluationType: EvaluationCompetitive, Metric: "totalWins"},
		{ID: "mgmt_2", Name: "Hot Streak", Description: "Longest winning streak.", Category: CategoryManagement, Points: 3, EvaluationType: EvaluationCompetitive, Metric: "longestWinStreak"},
		{ID: "mgmt_3", Name: "Full Schedule", Description: "Play at least 20 games.", Category: CategoryManagement, Points: 2, EvaluationType: EvaluationBinary, Conditions: []Condition{runTotal("gamesPlayed", OpGreaterOrEqual, 20)}},
		{ID: "mgmt_4", Name: "Elite Finish", Description: "Win at least 16 games.", Category: CategoryManagement, Points: 3, EvaluationType: EvaluationBinary, Conditions: []Condition{runTotal("totalWins", OpGreaterOrEqual, 16)}},
		{ID: "mgmt_5", Name: "Goal Difference", Description: "Best goal difference across the run.", Category: CategoryManagement, Points: 3, EvaluationType: EvaluationCompetitive, Metric: "goalDifference"},
		{ID: "mgmt_6", Name: "Hard to Beat", Description: "Fewest defeats (min. 15 games).", Category: CategoryManagement, Points: 2, EvaluationType: EvaluationCompetitive, Metric: "totalLosses", MinGames: 15, Order: OrderAsc},
		{ID: "mgmt_7", Name: "All or Nothing", Description: "No draws over at least 10 games.", Category: CategoryManagement, Points: 1, EvaluationType: EvaluationBinary, Conditions: []Condition{runTotal("gamesPlayed", OpGreaterOrEqual, 10), runTotal("totalDraws", OpEqual, 0)}},

		{ID: "bonus_1", Name: "Extra Time Survivor", Description: "Play at least 3 games that went to extra time.", Category: CategoryBonus, Points: 1, EvaluationType: EvaluationBinary, Conditions: []Condition{runTotal("extraTimeGames", OpGreaterOrEqual, 3)}},
		{ID: "bonus_2", Name: "Spot-Kick King", Description: "Win a penalty shootout.", Category: CategoryBonus, Points: 1, EvaluationType: EvaluationBinary, Conditions: []Condition{runTotal("penaltyWins", OpGreaterOrEqual, 1)}},
		{ID: "bonus_3", Name: "Hammering", Description: "Win a game by 5 or more goals.", Category: CategoryBonus, Points: 2, EvaluationType: EvaluationBinary, Conditions: []Condition{perGame("maxGoalMargin", OpGreaterOrEqual, 5)}},
		{ID: "bonus_4", Name: "Thriller", Description: "Score and concede at least 4 goals in the same game.", Category: CategoryBonus, Points: 1, EvaluationType: EvaluationBinary, Conditions: []Condition{perGame("totalGoalsScored", OpGreaterOrEqual, 4), perGame("totalGoalsConceded", OpGreaterOrEqual, 4)}},
		{ID: "bonus_5", Name: "Perfect Ten", Description: "Win 10 games in a row.", Category: CategoryBonus, Points: 3, EvaluationType: EvaluationBinary, Conditions: []Condition{runTotal("longestWinStreak", OpGreaterOrEqual, 10)}},
		{ID: "bonus_6", Name: "Entertainer", Description: "Most wins with 5 or more goals scored.", Category: CategoryBonus, Points: 2, EvaluationType: EvaluationCompetitive, Metric: "highScoringWins"},

		{ID: "fta_1", Name: "First to Ten Wins", Description: "First participant to reach 10 wins.", Category: CategoryFirstToAchieve, Points: 3, EvaluationType: EvaluationFirstToAchieve, Metric: "totalWins", Value: target(10)},
		{ID: "fta_2", Name: "First to Fifty", Description: "First participant to score 50 goals.", Category: CategoryFirstToAchieve, Points: 3, EvaluationType: EvaluationFirstToAchieve, Metric: "totalGoalsScored", Value: target(50)},
		{ID: "fta_3", Name: "Clean Sheet Trio", Description: "First participant to keep 3 clean sheets.", Category: CategoryFirstToAchieve, Points: 2, EvaluationType: EvaluationFirstToAchieve, Metric: "cleanSheets", Value: target(3)},
		{ID: "fta_4", Name: "Five Star Show", Description: "First participant to score 5 in one game.", Category: CategoryFirstToAchieve, Points: 2, EvaluationType: EvaluationFirstToAchieve, Conditions: []Condition{perGame("totalGoalsScored", OpGreaterOrEqual, 5)}},
		{ID: "fta_5", Name: "Unstoppable", Description: "First participant to win 5 games in a row.", Category: CategoryFirstToAchieve, Points: 2, EvaluationType: EvaluationFirstToAchieve, Metric: "longestWinStreak", Value: target(5)},
	}
}

func runTotal(metric string, op Operator, value float64) Condition {
	return Condition{Metric: metric, Operator: op, Value: value, Scope: ScopeRunTotal}
}

func perGame(metric string, op Operator, value float64) Condition {
	return Condition{Metric: metric, Operator: op, Value: value, Scope: ScopeSingleGame}
}

func target(v float64) *float64 {
	return &v
}
