package domain

// Word is one vocabulary entry from the curriculum.
type Word struct {
	ID                 int64
	Lemma              string
	Article            string // der, die, das
	Plural             string
	PartOfSpeech       string
	Level              string // CEFR level: A1, A2, ...
	Lesson             string
	Translation        string
	ExampleSentence    string
	ExampleTranslation string
	IPA                string
	FrequencyRank      int
}

// DisplayText returns the lemma prefixed with its article when present.
func (w *Word) DisplayText() string {
	if w.Article != "" {
		return w.Article + " " + w.Lemma
	}
	return w.Lemma
}
