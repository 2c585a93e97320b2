// apps/go-server/internal/worddiff/worddiff.go
//
// Word-level grading of a typed answer against a card's reference answer.
// Responsibilities:
//   - Tokenize: strip emphasis markup and split on whitespace (surface form kept).
//   - Norm:     comparison key for a word (lowercase, only a–z and 0–9 kept).
//   - Diff:     align user and reference words with a longest common subsequence
//               and mark every word as matched or not.
//
// Notes:
//   - The diff is a coverage check on the reference: an answer is correct when
//     every reference word takes part in the alignment. Extra user words are
//     marked wrong but do not by themselves fail the answer.
//   - Words are displayed with their original text; Norm is only for equality.

package worddiff

import (
	"strings"

	"github.com/robalobadob/flashcards/apps/go-server/internal/markup"
)

// UserWord is one word of the submitted answer.
// Correct is true when the word is part of the alignment.
type UserWord struct {
	Text    string `json:"text"`
	Correct bool   `json:"correct"`
}

// CorrectWord is one word of the reference answer.
// Missing is true when the word is not part of the alignment.
type CorrectWord struct {
	Text    string `json:"text"`
	Missing bool   `json:"missing"`
}

// Result is the outcome of grading one submission.
type Result struct {
	UserWords    []UserWord    `json:"userWords"`
	CorrectWords []CorrectWord `json:"correctWords"`
	IsCorrect    bool          `json:"isCorrect"`
	Overridden   bool          `json:"overridden"`
}

// Override forces an incorrect result to count as correct.
// Word markers are left untouched. Returns false if the result was already correct.
func (r *Result) Override() bool {
	if r.IsCorrect {
		return false
	}
	r.IsCorrect = true
	r.Overridden = true
	return true
}

// Tokenize strips emphasis markers and splits text on runs of whitespace.
// Blank input yields an empty (nil) slice.
func Tokenize(text string) []string {
	return strings.Fields(markup.Strip(text))
}

// Norm returns the comparison key for a word: lowercased, with every
// character outside [a-z0-9] removed.
func Norm(word string) string {
	var b strings.Builder
	b.Grow(len(word))
	for _, r := range strings.ToLower(word) {
		if r >= 'a' && r <= 'z' || r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Diff grades userAnswer against correctAnswer.
func Diff(userAnswer, correctAnswer string) Result {
	user := Tokenize(userAnswer)
	ref := Tokenize(correctAnswer)

	res := Result{
		UserWords:    make([]UserWord, len(user)),
		CorrectWords: make([]CorrectWord, len(ref)),
		IsCorrect:    true,
	}
	if len(user) == 0 && len(ref) == 0 {
		return res
	}

	inUser, inRef := lcs(normAll(user), normAll(ref))

	for i, w := range user {
		res.UserWords[i] = UserWord{Text: w, Correct: inUser[i]}
	}
	for j, w := range ref {
		missing := !inRef[j]
		res.CorrectWords[j] = CorrectWord{Text: w, Missing: missing}
		if missing {
			res.IsCorrect = false
		}
	}
	return res
}

func normAll(words []string) []string {
	out := make([]string, len(words))
	for i, w := range words {
		out[i] = Norm(w)
	}
	return out
}

// lcs computes a longest common subsequence of a and b and reports, for each
// index on either side, whether it takes part in it.
//
// Table: dp[i][j] = LCS length of a[:i] and b[:j], stored row-major in one slice.
// Backtrack from (m, n):
//   - equal keys: both indices are in the LCS, step diagonally.
//   - otherwise step towards the larger sub-solution; on a tie step back in b.
func lcs(a, b []string) (inA, inB []bool) {
	m, n := len(a), len(b)
	w := n + 1
	dp := make([]int, (m+1)*w)
	for i := 1; i <= m; i++ {
		for j := 1; j <= n; j++ {
			if a[i-1] == b[j-1] {
				dp[i*w+j] = dp[(i-1)*w+j-1] + 1
			} else {
				dp[i*w+j] = max(dp[(i-1)*w+j], dp[i*w+j-1])
			}
		}
	}

	inA = make([]bool, m)
	inB = make([]bool, n)
	i, j := m, n
	for i > 0 && j > 0 {
		switch {
		case a[i-1] == b[j-1]:
			inA[i-1] = true
			inB[j-1] = true
			i--
			j--
		case dp[(i-1)*w+j] > dp[i*w+j-1]:
			i--
		default:
			j--
		}
	}
	return inA, inB
}
