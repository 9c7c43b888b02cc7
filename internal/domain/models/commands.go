package models

import "strings"

// CommandType enumerates supported chat command categories.
type CommandType string

const (
	CommandCity     CommandType = "city"
	CommandIndustry CommandType = "industry"
	CommandReport   CommandType = "report"
	CommandUnknown  CommandType = "unknown"
)

// Command represents a parsed operator instruction extracted from chat text.
type Command struct {
	Type CommandType
	Raw  string
	Args []string
}

// ParseCommand derives a Command instance from free-form text messages.
// Arguments keep their original case so city names survive untouched.
func ParseCommand(message string) Command {
	tokens := strings.Fields(strings.TrimSpace(message))
	cmd := Command{Raw: message}

	if len(tokens) == 0 {
		cmd.Type = CommandUnknown
		return cmd
	}

	head := strings.ToLower(strings.TrimPrefix(tokens[0], "/"))
	switch head {
	case string(CommandCity):
		cmd.Type = CommandCity
	case string(CommandIndustry):
		cmd.Type = CommandIndustry
	case string(CommandReport):
		cmd.Type = CommandReport
	default:
		cmd.Type = CommandUnknown
	}

	if len(tokens) > 1 {
		cmd.Args = tokens[1:]
	}

	return cmd
}
