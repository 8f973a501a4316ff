package bot

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Callback actions
const (
	actionSelect  = "sel"
	actionNext    = "next"
	actionReview  = "review"
	actionRestart = "restart"
	actionExport  = "export"
)

var errBadCallback = errors.New("malformed callback data")

// callbackAction is the decoded data of an inline button.
// Every button carries the run it was drawn for so taps on a screen from an
// earlier run can be told apart.
type callbackAction struct {
	Action   string
	RunID    string
	Question int
	Option   int
}

func selectData(runID string, question, option int) string {
	return fmt.Sprintf("%s:%s:%d:%d", actionSelect, runID, question, option)
}

func actionData(action, runID string) string {
	return action + ":" + runID
}

func parseCallbackData(data string) (callbackAction, error) {
	parts := strings.Split(data, ":")
	if len(parts) < 2 || parts[1] == "" {
		return callbackAction{}, fmt.Errorf("%w: %q", errBadCallback, data)
	}

	a := callbackAction{Action: parts[0], RunID: parts[1]}
	switch a.Action {
	case actionSelect:
		if len(parts) != 4 {
			return callbackAction{}, fmt.Errorf("%w: %q", errBadCallback, data)
		}
		var err error
		if a.Question, err = strconv.Atoi(parts[2]); err != nil {
			return callbackAction{}, fmt.Errorf("%w: %q", errBadCallback, data)
		}
		if a.Option, err = strconv.Atoi(parts[3]); err != nil {
			return callbackAction{}, fmt.Errorf("%w: %q", errBadCallback, data)
		}
	case actionNext, actionReview, actionRestart, actionExport:
		if len(parts) != 2 {
			return callbackAction{}, fmt.Errorf("%w: %q", errBadCallback, data)
		}
	default:
		return callbackAction{}, fmt.Errorf("%w: unknown action %q", errBadCallback, a.Action)
	}
	return a, nil
}
