package game

import (
	"testing"

	"github.com/cindyyylam/mj-quizarium/internal/models"

	"github.com/stretchr/testify/assert"
)

func TestQuestionCardKeepsBylineOutsideEntities(t *testing.T) {
	st := Stage{
		QuestionNo: 1,
		NoOfRounds: 3,
		Question:   models.Question{Text: "snake_case?", Answer: "yes", Author: "John", Username: "john_doe"},
	}

	card := questionCard(st, "")

	assert.Contains(t, card, "snake\\_case? - _by_ John (@john\\_doe)\n")
	assert.NotContains(t, card, "john\\_doe)_")
}

func TestAnswerIsBoldWithoutEscapes(t *testing.T) {
	p := Player{DisplayName: "Jane_D", Username: "jane_d"}

	assert.Equal(t, "✅ Yes, the correct answer is *a_b*!\nJane\\_D (@jane\\_d) +3 points", correctText("a_b", p, 3))
	assert.Equal(t, "❎ Nobody gave the correct answer. The correct answer is *[x]*!", unansweredText("[x]"))
}

func TestAnswerWithAsteriskIsSentPlain(t *testing.T) {
	assert.Equal(t, "❎ Nobody gave the correct answer. The correct answer is 2\\*3!", unansweredText("2*3"))
}

func TestParseQuestion(t *testing.T) {
	q, a, ok := parseQuestion("  When was it formed?  -  1993 ")
	assert.True(t, ok)
	assert.Equal(t, "When was it formed?", q)
	assert.Equal(t, "1993", a)

	for _, text := range []string{"no divider", "a - b - c", " - x", "x - "} {
		_, _, ok := parseQuestion(text)
		assert.False(t, ok, text)
	}
}

func TestIsCorrect(t *testing.T) {
	assert.True(t, isCorrect("I think PARIS", "Paris"))
	assert.True(t, isCorrect("1993", " 1993 "))
	assert.False(t, isCorrect("1994", "1993"))
	assert.False(t, isCorrect("anything", "  "))
}
