package state

import (
	"slices"

	"github.com/openconceptlab/ocladmin/pkg/model"
)

type ActionType string

const (
	SetUserOrganisationsAction        ActionType = "organisations/set-user-organisations"
	CreateOrganisationSucceededAction ActionType = "organisations/create-organisation-succeeded"

	GetDictionarySucceededAction    ActionType = "dictionaries/get-dictionary-succeeded"
	CreateDictionarySucceededAction ActionType = "dictionaries/create-dictionary-succeeded"
	SetUserDictionariesAction       ActionType = "dictionaries/set-user-dictionaries"
	ResetCreateDictionaryAction     ActionType = "dictionaries/reset-create-dictionary"

	LoginSucceededAction   ActionType = "auth/login-succeeded"
	ProfileSucceededAction ActionType = "auth/profile-succeeded"
	LogoutAction           ActionType = "auth/logout"

	StartedAction   ActionType = "status/started"
	ProgressAction  ActionType = "status/progress"
	FailedAction    ActionType = "status/failed"
	CompletedAction ActionType = "status/completed"
)

// Operation names an asynchronous request whose status is tracked in StatusState.
type Operation string

const (
	CreateDictionaryOp       Operation = "dictionaries/create-source-and-dictionary"
	RetrieveDictionaryOp     Operation = "dictionaries/retrieve-dictionary-and-details"
	FetchUserDictionariesOp  Operation = "dictionaries/fetch-user-dictionaries"
	FetchUserOrganisationsOp Operation = "organisations/fetch-user-organisations"
	CreateOrganisationOp     Operation = "organisations/create-organisation"
	LoginOp                  Operation = "auth/login"
	FetchProfileOp           Operation = "auth/fetch-profile"
)

type Action struct {
	Type      ActionType
	Operation Operation
	Payload   any
}

func SetUserOrganisations(orgs []model.Organisation) Action {
	return Action{Type: SetUserOrganisationsAction, Payload: slices.Clone(orgs)}
}

func CreateOrganisationSucceeded(org model.Organisation) Action {
	return Action{Type: CreateOrganisationSucceededAction, Payload: org}
}

func GetDictionarySucceeded(d model.Dictionary) Action {
	return Action{Type: GetDictionarySucceededAction, Payload: d}
}

func CreateDictionarySucceeded(d model.Dictionary) Action {
	return Action{Type: CreateDictionarySucceededAction, Payload: d}
}

func SetUserDictionaries(ds []model.Dictionary) Action {
	return Action{Type: SetUserDictionariesAction, Payload: slices.Clone(ds)}
}

func ResetCreateDictionary() Action {
	return Action{Type: ResetCreateDictionaryAction}
}

func LoginSucceeded(token string) Action {
	return Action{Type: LoginSucceededAction, Payload: token}
}

func ProfileSucceeded(p model.Profile) Action {
	return Action{Type: ProfileSucceededAction, Payload: p}
}

func Logout() Action {
	return Action{Type: LogoutAction}
}

func Started(op Operation) Action {
	return Action{Type: StartedAction, Operation: op}
}

// Progress reports a 0-100 estimate for a running operation.
func Progress(op Operation, percent int) Action {
	return Action{Type: ProgressAction, Operation: op, Payload: percent}
}

func Failed(op Operation, errs *model.FieldErrors) Action {
	return Action{Type: FailedAction, Operation: op, Payload: errs.Clone()}
}

func Completed(op Operation) Action {
	return Action{Type: CompletedAction, Operation: op}
}
