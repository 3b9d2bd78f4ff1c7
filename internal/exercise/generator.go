package exercise

import (
	"fmt"
	"math/rand"
	"strings"

	"wortschatz/internal/domain"
	"wortschatz/internal/repository"
)

// Articles a German noun can carry.
var articles = []string{"der", "die", "das"}

const defaultOptionCount = 4

// Generator renders drills for review items. The exercise type is a
// weighted categorical draw over the table the composer selects; the
// random source is injected so draws stay deterministic under test.
type Generator struct {
	words repository.WordRepository
	rng   *rand.Rand
}

// NewGenerator creates an exercise generator.
func NewGenerator(words repository.WordRepository, rng *rand.Rand) *Generator {
	return &Generator{words: words, rng: rng}
}

// Draw picks one exercise type from a weighted candidate set.
func (g *Generator) Draw(weights []domain.ExerciseWeight) domain.ExerciseType {
	total := 0.0
	for _, w := range weights {
		total += w.Weight
	}
	if len(weights) == 0 || total <= 0 {
		return domain.ExerciseMultipleChoice
	}

	x := g.rng.Float64() * total
	for _, w := range weights {
		x -= w.Weight
		if x < 0 {
			return w.Type
		}
	}
	return weights[len(weights)-1].Type
}

// Generate draws an exercise type from the weight table and renders it
// for the given item and word.
func (g *Generator) Generate(item *domain.ReviewItem, word *domain.Word, weights []domain.ExerciseWeight) (*domain.Exercise, error) {
	return g.render(item, word, g.Draw(weights))
}

func (g *Generator) render(item *domain.ReviewItem, word *domain.Word, exType domain.ExerciseType) (*domain.Exercise, error) {
	switch exType {
	case domain.ExerciseMultipleChoice, domain.ExerciseMultipleChoiceArticle:
		return g.multipleChoice(item, word, exType)
	case domain.ExerciseTyping:
		return g.typing(item, word), nil
	case domain.ExerciseArticleChoice:
		return g.articleChoice(item, word)
	case domain.ExerciseSentenceCompletion:
		return g.sentenceCompletion(item, word)
	case domain.ExerciseListening:
		return g.listening(item, word)
	case domain.ExerciseRecognition:
		return g.recognition(item, word), nil
	case domain.ExerciseReverseTranslation:
		return g.reverseTranslation(item, word), nil
	default:
		return g.multipleChoice(item, word, domain.ExerciseMultipleChoice)
	}
}

func (g *Generator) multipleChoice(item *domain.ReviewItem, word *domain.Word, exType domain.ExerciseType) (*domain.Exercise, error) {
	options, err := g.translationOptions(word)
	if err != nil {
		return nil, err
	}

	prompt := word.Lemma
	if exType == domain.ExerciseMultipleChoiceArticle {
		prompt = word.DisplayText()
	}

	return &domain.Exercise{
		Type:         exType,
		ReviewItemID: item.ID,
		WordID:       word.ID,
		Question:     fmt.Sprintf("What does '%s' mean?", prompt),
		Options:      options,
		Answer:       word.Translation,
		Hint:         word.PartOfSpeech,
	}, nil
}

func (g *Generator) typing(item *domain.ReviewItem, word *domain.Word) *domain.Exercise {
	return &domain.Exercise{
		Type:         domain.ExerciseTyping,
		ReviewItemID: item.ID,
		WordID:       word.ID,
		Question:     fmt.Sprintf("Type the German word for '%s':", word.Translation),
		Answer:       word.Lemma,
		Hint:         word.PartOfSpeech,
	}
}

func (g *Generator) articleChoice(item *domain.ReviewItem, word *domain.Word) (*domain.Exercise, error) {
	if !isKnownArticle(word.Article) {
		// Not a noun with an article: fall back to meaning choice.
		return g.multipleChoice(item, word, domain.ExerciseMultipleChoice)
	}

	options := append([]string{}, articles...)
	g.shuffle(options)

	hint := ""
	if word.Plural != "" {
		hint = "plural: " + word.Plural
	}

	return &domain.Exercise{
		Type:         domain.ExerciseArticleChoice,
		ReviewItemID: item.ID,
		WordID:       word.ID,
		Question:     fmt.Sprintf("Which article goes with '%s'?", word.Lemma),
		Options:      options,
		Answer:       word.Article,
		Hint:         hint,
	}, nil
}

func (g *Generator) sentenceCompletion(item *domain.ReviewItem, word *domain.Word) (*domain.Exercise, error) {
	if word.ExampleSentence == "" || !strings.Contains(word.ExampleSentence, word.Lemma) {
		return g.multipleChoice(item, word, domain.ExerciseMultipleChoice)
	}

	options, err := g.lemmaOptions(word)
	if err != nil {
		return nil, err
	}

	return &domain.Exercise{
		Type:         domain.ExerciseSentenceCompletion,
		ReviewItemID: item.ID,
		WordID:       word.ID,
		Question:     "Complete the sentence with the right word:",
		Sentence:     strings.ReplaceAll(word.ExampleSentence, word.Lemma, "________"),
		Options:      options,
		Answer:       word.Lemma,
		Hint:         word.ExampleTranslation,
	}, nil
}

func (g *Generator) listening(item *domain.ReviewItem, word *domain.Word) (*domain.Exercise, error) {
	options, err := g.lemmaOptions(word)
	if err != nil {
		return nil, err
	}

	pronunciation := word.IPA
	if pronunciation == "" {
		pronunciation = "/" + word.Lemma + "/"
	}

	return &domain.Exercise{
		Type:          domain.ExerciseListening,
		ReviewItemID:  item.ID,
		WordID:        word.ID,
		Question:      "Which word matches this pronunciation?",
		Pronunciation: pronunciation,
		Options:       options,
		Answer:        word.Lemma,
	}, nil
}

func (g *Generator) recognition(item *domain.ReviewItem, word *domain.Word) *domain.Exercise {
	return &domain.Exercise{
		Type:         domain.ExerciseRecognition,
		ReviewItemID: item.ID,
		WordID:       word.ID,
		Question:     fmt.Sprintf("%s — %s", word.DisplayText(), word.Translation),
		Options:      []string{"Got it", "Show me again"},
		Hint:         word.ExampleSentence,
	}
}

func (g *Generator) reverseTranslation(item *domain.ReviewItem, word *domain.Word) *domain.Exercise {
	return &domain.Exercise{
		Type:         domain.ExerciseReverseTranslation,
		ReviewItemID: item.ID,
		WordID:       word.ID,
		Question:     fmt.Sprintf("Translate '%s':", word.DisplayText()),
		Answer:       word.Translation,
		Hint:         word.PartOfSpeech,
	}
}

// translationOptions builds a shuffled option list of translations with
// the correct answer among the distractors.
func (g *Generator) translationOptions(word *domain.Word) ([]string, error) {
	distractors, err := g.words.GetDistractors(word, defaultOptionCount-1)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch distractors: %w", err)
	}

	options := []string{word.Translation}
	for _, d := range distractors {
		if d.Translation != word.Translation {
			options = append(options, d.Translation)
		}
	}
	g.shuffle(options)
	return options, nil
}

// lemmaOptions is the same but over lemmas instead of translations.
func (g *Generator) lemmaOptions(word *domain.Word) ([]string, error) {
	distractors, err := g.words.GetDistractors(word, defaultOptionCount-1)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch distractors: %w", err)
	}

	options := []string{word.Lemma}
	for _, d := range distractors {
		if d.Lemma != word.Lemma {
			options = append(options, d.Lemma)
		}
	}
	g.shuffle(options)
	return options, nil
}

func (g *Generator) shuffle(options []string) {
	g.rng.Shuffle(len(options), func(i, j int) {
		options[i], options[j] = options[j], options[i]
	})
}

func isKnownArticle(a string) bool {
	for _, known := range articles {
		if a == known {
			return true
		}
	}
	return false
}

// CheckAnswer verifies a user answer against a rendered exercise.
// Typed answers are compared case-insensitively with collapsed
// whitespace; recognition accepts any non-empty acknowledgement.
func CheckAnswer(ex *domain.Exercise, answer string) bool {
	switch ex.Type {
	case domain.ExerciseRecognition:
		return strings.TrimSpace(answer) != ""
	case domain.ExerciseMultipleChoice, domain.ExerciseMultipleChoiceArticle, domain.ExerciseArticleChoice:
		return answer == ex.Answer
	default:
		return normalize(answer) == normalize(ex.Answer)
	}
}

func normalize(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}
