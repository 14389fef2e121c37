package telegram

import "strings"

const (
	cmdStart  = "start"
	cmdStop   = "stop"
	cmdExtend = "extend"
	cmdAdd    = "add"
	cmdStats  = "stats"
	cmdHelp   = "help"
)

// parseCommand splits "/name@bot args" into its lower-cased name and bot
// mention. ok is false when text is not a command.
func parseCommand(text string) (name, mention string, ok bool) {
	fields := strings.Fields(text)
	if len(fields) == 0 || !strings.HasPrefix(fields[0], "/") {
		return "", "", false
	}

	name = strings.TrimPrefix(fields[0], "/")
	if i := strings.IndexByte(name, '@'); i >= 0 {
		mention = name[i+1:]
		name = name[:i]
	}
	if name == "" {
		return "", "", false
	}
	return strings.ToLower(name), mention, true
}

// addressedTo reports whether a command mention targets this bot. Any
// mention matches when the bot's username is unknown.
func addressedTo(mention, botUsername string) bool {
	if mention == "" || botUsername == "" {
		return true
	}
	return strings.EqualFold(mention, strings.TrimPrefix(botUsername, "@"))
}
