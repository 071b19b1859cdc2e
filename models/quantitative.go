package models

// ScoreItem is a single scored criterion with the model's justification
type ScoreItem struct {
	Score   float64 `json:"score"`
	Comment string  `json:"comment"`
}

// TitleAndDescriptionScores covers the card's packaging
type TitleAndDescriptionScores struct {
	Title       ScoreItem `json:"title"`
	Description ScoreItem `json:"description"`
}

// WelcomeMessageScores covers the opening message
type WelcomeMessageScores struct {
	CharacterWorldBuilding ScoreItem `json:"character_world_building"`
	HookAndAttraction      ScoreItem `json:"hook_and_attraction"`
	Guidance               ScoreItem `json:"guidance"`
}

// BotPromptScores covers the character prompt itself
type BotPromptScores struct {
	CharacterStoryArc  ScoreItem `json:"character_story_arc"`
	SettingConsistency ScoreItem `json:"setting_consistency"`
	LongTermPotential  ScoreItem `json:"long_term_potential"`
}

// InteractionScores predicts behaviour in live conversation
type InteractionScores struct {
	CharacterStability ScoreItem `json:"character_stability"`
	PlotDrivingForce   ScoreItem `json:"plot_driving_force"`
	EmotionalResonance ScoreItem `json:"emotional_resonance"`
}

// SectionScores groups the eleven itemized scores
type SectionScores struct {
	TitleAndDescription       TitleAndDescriptionScores `json:"title_and_description"`
	WelcomeMessage            WelcomeMessageScores      `json:"welcome_message"`
	BotPrompt                 BotPromptScores           `json:"bot_prompt"`
	InteractionTestPrediction InteractionScores         `json:"interaction_test_prediction"`
}

// AdjustmentScores are applied on top of the itemized sum
type AdjustmentScores struct {
	OriginalityBonus   ScoreItem `json:"originality_bonus"`
	TechnicalDeduction ScoreItem `json:"technical_deduction"`
}

// QuantitativeScores is the full scoring sheet for a bot card
type QuantitativeScores struct {
	Sections    SectionScores    `json:"sections"`
	Adjustments AdjustmentScores `json:"adjustments"`
	FinalScore  float64          `json:"final_score"`
}

// Items returns pointers to the eleven itemized scores in a fixed order
func (q *QuantitativeScores) Items() []*ScoreItem {
	s := &q.Sections
	return []*ScoreItem{
		&s.TitleAndDescription.Title,
		&s.TitleAndDescription.Description,
		&s.WelcomeMessage.CharacterWorldBuilding,
		&s.WelcomeMessage.HookAndAttraction,
		&s.WelcomeMessage.Guidance,
		&s.BotPrompt.CharacterStoryArc,
		&s.BotPrompt.SettingConsistency,
		&s.BotPrompt.LongTermPotential,
		&s.InteractionTestPrediction.CharacterStability,
		&s.InteractionTestPrediction.PlotDrivingForce,
		&s.InteractionTestPrediction.EmotionalResonance,
	}
}

// QuantitativeResult is the scored bot card
type QuantitativeResult struct {
	CardID             string             `json:"card_id"`
	QuantitativeScores QuantitativeScores `json:"quantitative_scores"`
}
