package identity

import (
	"fmt"
	"sort"
	"strings"
	"unicode/utf8"

	spark_errors "spark-chat/pkg/errors"
)

// Separator joins the two participant ids of a derived conversation id.
const Separator = "_"

// MaxUserIDLength bounds user ids so derived ids stay indexable.
const MaxUserIDLength = 128

// ValidateUserID rejects ids that would make derived conversation ids ambiguous.
func ValidateUserID(id string) error {
	if id == "" {
		return fmt.Errorf("%w: user id is empty", spark_errors.ErrInvalidInput)
	}
	if utf8.RuneCountInString(id) > MaxUserIDLength {
		return fmt.Errorf("%w: user id longer than %d characters", spark_errors.ErrInvalidInput, MaxUserIDLength)
	}
	if strings.Contains(id, Separator) {
		return fmt.Errorf("%w: user id must not contain %q", spark_errors.ErrInvalidInput, Separator)
	}
	return nil
}

// SortedPair returns both ids in lexicographic order.
func SortedPair(a, b string) (string, string) {
	pair := []string{a, b}
	sort.Strings(pair)
	return pair[0], pair[1]
}

// Resolve derives the conversation id for a pair of users. The result does
// not depend on argument order.
func Resolve(userA, userB string) string {
	first, second := SortedPair(userA, userB)
	return first + Separator + second
}

// ParticipantsOf splits a derived conversation id back into its pair.
// Ids created before derivation was introduced do not split and return false.
func ParticipantsOf(conversationID string) (string, string, bool) {
	parts := strings.Split(conversationID, Separator)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", false
	}
	return parts[0], parts[1], true
}
