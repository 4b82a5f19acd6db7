package remote

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownCommand is returned by ParseCommand for unrecognised verbs.
var ErrUnknownCommand = errors.New("unknown command")

// Command is a parsed text control line, ready for Registry.Call.
type Command struct {
	Request string
	Body    map[string]any
}

// ParseCommand parses "get|reset|pause|resume [name]". The name is the rest of the line.
func ParseCommand(line string) (Command, error) {
	verb, name, _ := strings.Cut(strings.TrimSpace(line), " ")
	name = strings.TrimSpace(name)

	body := map[string]any{}
	if name != "" {
		body[FieldName] = name
	}

	switch strings.ToLower(verb) {
	case "get":
		return Command{Request: RequestGetLoudness, Body: body}, nil
	case "reset":
		return Command{Request: RequestReset, Body: body}, nil
	case "pause":
		body[FieldPause] = true

		return Command{Request: RequestPause, Body: body}, nil
	case "resume":
		body[FieldPause] = false

		return Command{Request: RequestPause, Body: body}, nil
	default:
		return Command{}, fmt.Errorf("%w: %q (valid: get, reset, pause, resume)", ErrUnknownCommand, verb)
	}
}
