package domain

// ExerciseType identifies one kind of drill.
type ExerciseType string

const (
	ExerciseMultipleChoice        ExerciseType = "multiple_choice"
	ExerciseMultipleChoiceArticle ExerciseType = "multiple_choice_article"
	ExerciseTyping                ExerciseType = "typing"
	ExerciseArticleChoice         ExerciseType = "article_choice"
	ExerciseSentenceCompletion    ExerciseType = "sentence_completion"
	ExerciseListening             ExerciseType = "listening"
	ExerciseRecognition           ExerciseType = "recognition"
	ExerciseReverseTranslation    ExerciseType = "reverse_translation"
)

// ExerciseWeight is one entry of a weighted candidate set used when
// drawing the exercise type for an item.
type ExerciseWeight struct {
	Type   ExerciseType
	Weight float64
}

// Exercise is a fully rendered drill ready to present to the user.
type Exercise struct {
	Type          ExerciseType
	ReviewItemID  int64
	WordID        int64
	Question      string
	Sentence      string // for sentence completion
	Pronunciation string // for listening
	Options       []string
	Answer        string
	Hint          string
}
