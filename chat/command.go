package chat

import "strings"

// commandKind is the closed set of commands a user can issue. Dispatch is
// an explicit switch with an unknown arm rather than an open name→handler
// lookup, so the command set is statically checkable.
type commandKind int

const (
	cmdUnknown commandKind = iota
	cmdJoke
	cmdMembers
	cmdPriv
	cmdName
)

// parseCommand splits command text into its kind, the raw command token and
// the remaining whitespace-separated arguments. Matching is exact and
// case-sensitive, marker included.
func parseCommand(text string) (commandKind, string, []string) {
	fields := strings.Fields(text)
	if len(fields) == 0 {
		return cmdUnknown, text, nil
	}

	token, args := fields[0], fields[1:]
	switch token {
	case "/joke":
		return cmdJoke, token, args
	case "/members":
		return cmdMembers, token, args
	case "/priv":
		return cmdPriv, token, args
	case "/name":
		return cmdName, token, args
	}
	return cmdUnknown, token, args
}
