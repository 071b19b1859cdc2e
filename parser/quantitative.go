package parser

import (
	"fmt"
	"strconv"
	"strings"

	"redline-backend/models"
	"redline-backend/scoring"

	"github.com/tidwall/gjson"
)

// ParseQuantitative uses the default parser
func ParseQuantitative(raw string) (models.QuantitativeResult, bool) {
	return defaultParser.ParseQuantitative(raw)
}

// ParseQuantitative parses a bot card scoring response. Scores are read
// leniently (numeric strings are accepted), then clamped and the final score
// recomputed. Unusable output yields an all-zero card with a fallback id.
func (p *Parser) ParseQuantitative(raw string) (models.QuantitativeResult, bool) {
	for _, text := range candidates(raw) {
		if !gjson.Valid(text) {
			continue
		}
		if result, ok := decodeQuantitative(gjson.Parse(text)); ok {
			scoring.Recompute(&result.QuantitativeScores)
			return result, true
		}
	}

	return models.QuantitativeResult{
		CardID: fmt.Sprintf("%s%d", FallbackIDPrefix, p.now().UnixMilli()),
	}, false
}

func decodeQuantitative(root gjson.Result) (models.QuantitativeResult, bool) {
	var result models.QuantitativeResult
	if !root.IsObject() {
		return result, false
	}

	id, ok := requiredString(root, idPaths)
	if !ok {
		return result, false
	}
	result.CardID = id

	scores := root.Get("quantitative_scores")
	if !scores.IsObject() {
		// some responses drop the wrapper
		scores = root
	}
	if !scores.Get("sections").IsObject() {
		return result, false
	}

	q := &result.QuantitativeScores
	items := []struct {
		path string
		item *models.ScoreItem
	}{
		{"sections.title_and_description.title", &q.Sections.TitleAndDescription.Title},
		{"sections.title_and_description.description", &q.Sections.TitleAndDescription.Description},
		{"sections.welcome_message.character_world_building", &q.Sections.WelcomeMessage.CharacterWorldBuilding},
		{"sections.welcome_message.hook_and_attraction", &q.Sections.WelcomeMessage.HookAndAttraction},
		{"sections.welcome_message.guidance", &q.Sections.WelcomeMessage.Guidance},
		{"sections.bot_prompt.character_story_arc", &q.Sections.BotPrompt.CharacterStoryArc},
		{"sections.bot_prompt.setting_consistency", &q.Sections.BotPrompt.SettingConsistency},
		{"sections.bot_prompt.long_term_potential", &q.Sections.BotPrompt.LongTermPotential},
		{"sections.interaction_test_prediction.character_stability", &q.Sections.InteractionTestPrediction.CharacterStability},
		{"sections.interaction_test_prediction.plot_driving_force", &q.Sections.InteractionTestPrediction.PlotDrivingForce},
		{"sections.interaction_test_prediction.emotional_resonance", &q.Sections.InteractionTestPrediction.EmotionalResonance},
		{"adjustments.originality_bonus", &q.Adjustments.OriginalityBonus},
		{"adjustments.technical_deduction", &q.Adjustments.TechnicalDeduction},
	}
	for _, it := range items {
		*it.item = scoreItem(scores.Get(it.path))
	}
	q.FinalScore = number(scores.Get("final_score"))

	return result, true
}

// scoreItem accepts {"score": n, "comment": "..."} or a bare number
func scoreItem(r gjson.Result) models.ScoreItem {
	if !r.IsObject() {
		return models.ScoreItem{Score: number(r)}
	}
	return models.ScoreItem{
		Score:   number(r.Get("score")),
		Comment: r.Get("comment").String(),
	}
}

func number(r gjson.Result) float64 {
	switch r.Type {
	case gjson.Number:
		return r.Num
	case gjson.String:
		f, err := strconv.ParseFloat(strings.TrimSpace(r.Str), 64)
		if err != nil {
			return 0
		}
		return f
	}
	return 0
}
