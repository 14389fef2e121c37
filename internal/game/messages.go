package game

import (
	"fmt"
	"strings"

	"github.com/cindyyylam/mj-quizarium/internal/models"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Message templates. Output is Telegram legacy Markdown; anything typed by a
// user goes through esc.

const (
	msgAlreadyInPlay   = "A game is already in play."
	msgStopGame        = "The current game has been stopped."
	msgNoGameInPlay    = "No game is currently in play."
	msgStopping        = "Stopping..."
	msgNoQuestions     = "There are currently no questions in the database."
	msgLoadFailed      = "I couldn't load the questions right now. Please try again later."
	msgRestartGame     = "Please restart the game."
	msgGameInProgress  = "A game is currently in play. Please /stop it before adding a question."
	msgAddSuccess      = "The new question has been successfully added. Thank you! :)"
	msgAddSaveFailed   = "Sorry, I couldn't save that question. Please send it again."
	msgStatsFailed     = "The leaderboard is unavailable right now."
	msgAddPrompt       = "Let's add a new question. Please use this format:\n\n_question - answer_\nExample: _When was NTU MJ formed? - 1993_"
	msgAddFailure      = "That's not a valid format. Please use this format:\n\n_When was NTU MJ formed?_ - _1993_"
	msgHelp            = "Welcome to *MJ Quizarium*!\nHere is a list of commands to help you.\n\n/start - Start a new game\n/stop - Stop the current game\n/extend - Add more rounds to the current game\n/add - Add a new question\n/stats - Show the leaderboard\n/help - Send help lol"
	timerEmpty         = "⬜⬜⬜⬜⬜⬜⬜⬜⬜⬜"
	timerFirstHint     = "⬛⬛⬛⬜⬜⬜⬜⬜⬜⬜"
	timerSecondHint    = "⬛⬛⬛⬛⬛⬛⬜⬜⬜⬜"
	addQuestionDivider = " - "
)

func esc(s string) string {
	return tgbotapi.EscapeText(tgbotapi.ModeMarkdown, s)
}

func pluralize(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}

func privateCommandOnly(command string) string {
	return fmt.Sprintf("The command %s can only be used in a private chat.", esc(command))
}

func startGameText(rounds int) string {
	return fmt.Sprintf("%d %s! Let's begin! You can extend the game using the /extend command.",
		rounds, pluralize(rounds, "round", "rounds"))
}

func extendedText(rounds, available int, clamped bool) string {
	if clamped {
		return fmt.Sprintf("Game extended to %d rounds! (There are only %d questions available right now.)", rounds, available)
	}
	return fmt.Sprintf("Game extended to %d rounds!", rounds)
}

// bold wraps s in a bold entity. Telegram does not allow escapes inside an
// entity, so text containing the delimiter is sent unformatted instead.
func bold(s string) string {
	if s == "" || strings.Contains(s, "*") {
		return esc(s)
	}
	return "*" + s + "*"
}

// byline must stay outside any entity: names and handles are escaped.
func byline(name, username string) string {
	if username == "" {
		return esc(name)
	}
	return fmt.Sprintf("%s (@%s)", esc(name), esc(username))
}

// questionCard renders the question at a hint level; hint is pre-rendered
// and ignored at level 0.
func questionCard(st Stage, hint string) string {
	q := st.Question

	var b strings.Builder
	fmt.Fprintf(&b, "❓ *QUESTION* %d/%d\n", st.QuestionNo, st.NoOfRounds)
	fmt.Fprintf(&b, "%s - _by_ %s\n", esc(q.Text), byline(q.Author, q.Username))

	switch st.HintLevel {
	case 0:
		b.WriteString("\n⏱ " + timerEmpty)
	case 1:
		fmt.Fprintf(&b, "Hint: %s\n", hint)
		b.WriteString("\n⏱ " + timerFirstHint)
	default:
		fmt.Fprintf(&b, "Hint: %s\n", hint)
		b.WriteString("\n⏱ " + timerSecondHint)
	}
	return b.String()
}

func unansweredText(answer string) string {
	return fmt.Sprintf("❎ Nobody gave the correct answer. The correct answer is %s!", bold(answer))
}

func correctText(answer string, p Player, points int) string {
	return fmt.Sprintf("✅ Yes, the correct answer is %s!\n%s +%d %s",
		bold(answer), byline(p.DisplayName, p.Username), points, pluralize(points, "point", "points"))
}

func scoreLine(rank int, name, username string, points, answers int) string {
	return fmt.Sprintf("%d. %s - %d %s (%d %s)", rank, byline(name, username),
		points, pluralize(points, "point", "points"),
		answers, pluralize(answers, "answer", "answers"))
}

func gameResultsText(tallies []models.PlayerTally) string {
	lines := []string{"🏁 *GAME END!!!*", ""}
	if len(tallies) == 0 {
		lines = append(lines, "Nobody scored this game.")
		return strings.Join(lines, "\n")
	}

	lines = append(lines, "*Scores this game*")
	for i, t := range tallies {
		lines = append(lines, scoreLine(i+1, t.DisplayName, t.Username, t.Points, t.Answers))
	}
	return strings.Join(lines, "\n")
}

func leaderboardText(entries []models.LeaderboardEntry) string {
	lines := []string{"🏆 *LEADERBOARD*"}
	if len(entries) == 0 {
		lines = append(lines, "No scores yet.")
		return strings.Join(lines, "\n")
	}

	for i, e := range entries {
		lines = append(lines, scoreLine(i+1, e.DisplayName, e.Username, e.Points, e.Answers))
	}
	return strings.Join(lines, "\n")
}

// parseQuestion splits "question - answer". Exactly one divider is allowed
// and neither side may be blank.
func parseQuestion(text string) (question, answer string, ok bool) {
	parts := strings.Split(text, addQuestionDivider)
	if len(parts) != 2 {
		return "", "", false
	}
	question = strings.TrimSpace(parts[0])
	answer = strings.TrimSpace(parts[1])
	if question == "" || answer == "" {
		return "", "", false
	}
	return question, answer, true
}

// isCorrect accepts any reply that contains the answer, ignoring case.
func isCorrect(reply, answer string) bool {
	answer = strings.TrimSpace(answer)
	if answer == "" {
		return false
	}
	return strings.Contains(strings.ToLower(reply), strings.ToLower(answer))
}
