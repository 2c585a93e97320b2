package worddiff

import (
	"math/rand/v2"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNorm(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input string
		want  string
	}{
		{input: "Hello", want: "hello"},
		{input: "world!", want: "world"},
		{input: "don't", want: "dont"},
		{input: "1984,", want: "1984"},
		{input: "Café", want: "caf"},
		{input: "—", want: ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Norm(tt.input), "Norm(%q)", tt.input)
	}
}

func TestTokenize(t *testing.T) {
	t.Parallel()

	assert.Equal(t, []string{"the", "Quick,", "fox"}, Tokenize("  the \t**Quick,**\n fox  "))
	assert.Empty(t, Tokenize("   "))
	assert.Empty(t, Tokenize(""))
}

func words(res Result) (user []bool, missing []bool) {
	for _, w := range res.UserWords {
		user = append(user, w.Correct)
	}
	for _, w := range res.CorrectWords {
		missing = append(missing, w.Missing)
	}
	return user, missing
}

func TestDiff(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		user        string
		correct     string
		wantUser    []bool
		wantMissing []bool
		wantCorrect bool
	}{
		{
			name:        "case insensitive",
			user:        "the Quick fox",
			correct:     "the quick fox",
			wantUser:    []bool{true, true, true},
			wantMissing: []bool{false, false, false},
			wantCorrect: true,
		},
		{
			name:        "omitted words",
			user:        "quick fox",
			correct:     "the quick brown fox",
			wantUser:    []bool{true, true},
			wantMissing: []bool{true, false, true, false},
			wantCorrect: false,
		},
		{
			name:        "punctuation ignored",
			user:        "Hello, world!",
			correct:     "hello world",
			wantUser:    []bool{true, true},
			wantMissing: []bool{false, false},
			wantCorrect: true,
		},
		{
			name:        "extra words do not fail the answer",
			user:        "the quick red fox",
			correct:     "the quick fox",
			wantUser:    []bool{true, true, false, true},
			wantMissing: []bool{false, false, false},
			wantCorrect: true,
		},
		{
			name:        "swapped words keep one side of the pair",
			user:        "fox quick",
			correct:     "quick fox",
			wantUser:    []bool{false, true},
			wantMissing: []bool{false, true},
			wantCorrect: false,
		},
		{
			name:        "blank answer",
			user:        "",
			correct:     "two words",
			wantUser:    nil,
			wantMissing: []bool{true, true},
			wantCorrect: false,
		},
		{
			name:        "markup in reference",
			user:        "cell wall",
			correct:     "**cell** __wall__",
			wantUser:    []bool{true, true},
			wantMissing: []bool{false, false},
			wantCorrect: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			res := Diff(tt.user, tt.correct)
			user, missing := words(res)
			assert.Equal(t, tt.wantUser, user)
			assert.Equal(t, tt.wantMissing, missing)
			assert.Equal(t, tt.wantCorrect, res.IsCorrect)
		})
	}
}

func TestDiff_BothEmpty(t *testing.T) {
	t.Parallel()

	res := Diff("  ", "")
	assert.True(t, res.IsCorrect)
	assert.Empty(t, res.UserWords)
	assert.Empty(t, res.CorrectWords)
}

func TestDiff_KeepsSurfaceText(t *testing.T) {
	t.Parallel()

	res := Diff("The FOX!", "the fox")
	require.Len(t, res.UserWords, 2)
	assert.Equal(t, "The", res.UserWords[0].Text)
	assert.Equal(t, "FOX!", res.UserWords[1].Text)
	assert.Equal(t, "the", res.CorrectWords[0].Text)
}

func TestDiff_Properties(t *testing.T) {
	t.Parallel()

	vocab := []string{"a", "The", "quick", "fox,", "FOX", "jumps", "over", "dog.", "1", "lazy"}
	rng := rand.New(rand.NewPCG(7, 11))
	sentence := func() string {
		n := rng.IntN(8)
		ws := make([]string, n)
		for i := range ws {
			ws[i] = vocab[rng.IntN(len(vocab))]
		}
		return strings.Join(ws, " ")
	}

	for range 200 {
		a, b := sentence(), sentence()

		self := Diff(a, a)
		assert.True(t, self.IsCorrect, "diff(a, a) must be correct for %q", a)
		for _, w := range self.UserWords {
			assert.True(t, w.Correct)
		}

		res := Diff(a, b)
		matchedUser, presentRef, missing := 0, 0, 0
		for _, w := range res.UserWords {
			if w.Correct {
				matchedUser++
			}
		}
		for _, w := range res.CorrectWords {
			if w.Missing {
				missing++
			} else {
				presentRef++
			}
		}
		assert.Equal(t, matchedUser, presentRef, "alignment must pair words one to one: %q vs %q", a, b)
		assert.Equal(t, missing == 0, res.IsCorrect)
	}
}

func TestResult_Override(t *testing.T) {
	t.Parallel()

	res := Diff("quick fox", "the quick brown fox")
	before := append([]CorrectWord(nil), res.CorrectWords...)

	require.True(t, res.Override())
	assert.True(t, res.IsCorrect)
	assert.True(t, res.Overridden)
	assert.Equal(t, before, res.CorrectWords)

	assert.False(t, res.Override(), "second override is a no-op")
}
