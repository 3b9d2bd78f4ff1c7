package domain

// NoItemsReason is a machine-readable code explaining why a session
// could not be assembled. It is a normal outcome, not a server error.
type NoItemsReason string

const (
	ReasonEmptyVocabulary NoItemsReason = "no_words_in_database"
	ReasonAllMastered     NoItemsReason = "all_words_mastered"
	ReasonNoneFound       NoItemsReason = "no_words_found"
)

// NoItemsError reports that no due or new items were available.
type NoItemsError struct {
	Reason NoItemsReason
}

func (e *NoItemsError) Error() string {
	return "no items available: " + string(e.Reason)
}
