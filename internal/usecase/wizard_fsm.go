package usecase

import (
	"flightdesk-service/internal/domain/entity"
)

// WizardInput is what a submitter did at a wizard step
type WizardInput int

const (
	WizardSubmit WizardInput = iota + 1
	WizardConfirm
	WizardReject
)

// EffectKind is what the wizard asks the caller to do next
type EffectKind int

const (
	// EffectInvalid means the input does not apply to the current state
	EffectInvalid EffectKind = iota
	EffectShowSummary
	EffectOpenForm
	EffectFinalize
)

func (k EffectKind) String() string {
	switch k {
	case EffectShowSummary:
		return "show_summary"
	case EffectOpenForm:
		return "open_form"
	case EffectFinalize:
		return "finalize"
	default:
		return "invalid"
	}
}

// WizardEffect carries the step the effect refers to
type WizardEffect struct {
	Kind EffectKind
	Step entity.WizardStep
}

// Transition advances the submission wizard.
//
//	Submit(n)  -> {n, reviewing}   ShowSummary(n)   step 1 always, otherwise only from {n, _}
//	Confirm(n) -> {n+1, editing}   OpenForm(n+1)    from {n, reviewing}, n < 3
//	Confirm(3) -> {Confirmed}      Finalize         from {3, reviewing}
//	Reject(n)  -> {n, editing}     OpenForm(n)      from {n, reviewing}
//
// Any other combination leaves the state unchanged with EffectInvalid.
func Transition(state entity.WizardState, step entity.WizardStep, input WizardInput) (entity.WizardState, WizardEffect) {
	if step < entity.WizardStep1 || step > entity.WizardStep3 {
		return state, WizardEffect{Kind: EffectInvalid, Step: step}
	}

	switch input {
	case WizardSubmit:
		if step != entity.WizardStep1 && state.Step != step {
			break
		}
		return entity.WizardState{Step: step, Reviewing: true}, WizardEffect{Kind: EffectShowSummary, Step: step}

	case WizardConfirm:
		if state.Step != step || !state.Reviewing {
			break
		}
		if step == entity.WizardStep3 {
			return entity.WizardState{Step: entity.WizardConfirmed}, WizardEffect{Kind: EffectFinalize, Step: step}
		}
		return entity.WizardState{Step: step + 1}, WizardEffect{Kind: EffectOpenForm, Step: step + 1}

	case WizardReject:
		if state.Step != step || !state.Reviewing {
			break
		}
		return entity.WizardState{Step: step}, WizardEffect{Kind: EffectOpenForm, Step: step}
	}
	return state, WizardEffect{Kind: EffectInvalid, Step: step}
}
