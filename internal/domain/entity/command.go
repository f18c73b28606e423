package entity

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Action identifies what an interaction asks for
type Action int

const (
	ActionUnknown Action = iota
	ActionShowDetail
	ActionSelectFlight
	ActionOpenGates
	ActionOpenAlerts
	ActionOpenReminder
	ActionNotStarted
	ActionOpenStart
	ActionCloseFlight
	ActionSetMeal
	ActionSetStatus
	ActionSubmitGates
	ActionSubmitAlerts
	ActionSubmitReminder
	ActionSubmitStart
	ActionWizardStart
	ActionWizardSubmit
	ActionWizardConfirm
	ActionWizardReject
	ActionPublish
)

// SelectFlightID is the custom id of the day board select menu
const SelectFlightID = "flight_select_menu"

// Slash command names
const (
	SlashCreateFlight  = "createflight"
	SlashPublishFlight = "publishflight"
)

var actionPrefixes = map[Action]string{
	ActionShowDetail:     "detail",
	ActionSelectFlight:   SelectFlightID,
	ActionOpenGates:      "set_gates",
	ActionOpenAlerts:     "set_alerts",
	ActionOpenReminder:   "send_reminder",
	ActionNotStarted:     "not_started",
	ActionOpenStart:      "start_flight",
	ActionCloseFlight:    "close_flight",
	ActionSetMeal:        "meal_select",
	ActionSetStatus:      "status_select",
	ActionSubmitGates:    "gates_form",
	ActionSubmitAlerts:   "alerts_form",
	ActionSubmitReminder: "reminder_form",
	ActionSubmitStart:    "start_form",
	ActionWizardStart:    SlashCreateFlight,
	ActionWizardSubmit:   "wizard_form",
	ActionWizardConfirm:  "wizard_yes",
	ActionWizardReject:   "wizard_no",
	ActionPublish:        SlashPublishFlight,
}

var prefixActions = func() map[string]Action {
	m := make(map[string]Action, len(actionPrefixes))
	for a, p := range actionPrefixes {
		m[p] = a
	}
	return m
}()

func (a Action) String() string {
	if p, ok := actionPrefixes[a]; ok {
		return p
	}
	return "unknown"
}

// ErrUnknownCommand is returned for custom ids this service did not issue
var ErrUnknownCommand = errors.New("unknown command")

// Command is a decoded interaction: the action plus its payload
type Command struct {
	Action Action
	Code   string
	Step   WizardStep
	Owner  string
	Values []string
	Fields map[string]string
}

// Value returns the first selected value of a select interaction
func (c Command) Value() string {
	if len(c.Values) == 0 {
		return ""
	}
	return c.Values[0]
}

// Field returns a trimmed modal field value
func (c Command) Field(id string) string {
	return strings.TrimSpace(c.Fields[id])
}

func (a Action) carriesCode() bool {
	switch a {
	case ActionShowDetail, ActionOpenGates, ActionOpenAlerts, ActionOpenReminder, ActionNotStarted,
		ActionOpenStart, ActionCloseFlight, ActionSetMeal, ActionSetStatus, ActionSubmitGates,
		ActionSubmitAlerts, ActionSubmitReminder, ActionSubmitStart, ActionPublish:
		return true
	}
	return false
}

func (a Action) carriesStep() bool {
	return a == ActionWizardSubmit || a == ActionWizardConfirm || a == ActionWizardReject
}

// ParseCustomID decodes a component or modal custom id
func ParseCustomID(id string) (Command, error) {
	prefix, payload, hasPayload := strings.Cut(strings.TrimSpace(id), ":")
	action, ok := prefixActions[prefix]
	if !ok || action == ActionWizardStart {
		return Command{}, fmt.Errorf("%w: %q", ErrUnknownCommand, id)
	}
	cmd := Command{Action: action}

	switch {
	case action == ActionSelectFlight:
		return cmd, nil
	case action.carriesCode():
		code := strings.ToUpper(strings.TrimSpace(payload))
		if !hasPayload || code == "" {
			return Command{}, fmt.Errorf("%w: %q has no flight code", ErrUnknownCommand, id)
		}
		cmd.Code = code
	case action.carriesStep():
		stepText, owner, _ := strings.Cut(payload, ":")
		step, err := strconv.Atoi(stepText)
		if err != nil || step < int(WizardStep1) || step > int(WizardStep3) {
			return Command{}, fmt.Errorf("%w: %q has no wizard step", ErrUnknownCommand, id)
		}
		cmd.Step = WizardStep(step)
		cmd.Owner = owner
	}
	return cmd, nil
}

// CustomID encodes the command for use on a component
func (c Command) CustomID() string {
	prefix := c.Action.String()
	switch {
	case c.Action == ActionSelectFlight:
		return prefix
	case c.Action.carriesCode():
		return prefix + ":" + c.Code
	case c.Action.carriesStep():
		id := prefix + ":" + strconv.Itoa(int(c.Step))
		if c.Owner != "" {
			id += ":" + c.Owner
		}
		return id
	}
	return prefix
}

// CodeCommand builds a command addressing a flight
func CodeCommand(action Action, code string) Command {
	return Command{Action: action, Code: code}
}

// SlashAction maps a slash command name to its action
func SlashAction(name string) Action {
	switch name {
	case SlashCreateFlight:
		return ActionWizardStart
	case SlashPublishFlight:
		return ActionPublish
	}
	return ActionUnknown
}
