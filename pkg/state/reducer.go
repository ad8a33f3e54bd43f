package state

import (
	"maps"
	"slices"

	"github.com/openconceptlab/ocladmin/pkg/model"
)

type AuthState struct {
	Token   string
	Profile *model.Profile
}

type OrganisationState struct {
	Organisations   []model.Organisation
	NewOrganisation *model.Organisation
}

type DictionaryState struct {
	Dictionaries  []model.Dictionary
	NewDictionary *model.Dictionary
	// Dictionary is the most recently retrieved dictionary, e.g. a copy-from source.
	Dictionary *model.Dictionary
}

type Status struct {
	Loading  bool
	Progress int
	Errors   *model.FieldErrors
}

type StatusState struct {
	Operations map[Operation]Status
}

func (s StatusState) Get(op Operation) Status {
	return s.Operations[op]
}

type AppState struct {
	Auth          AuthState
	Organisations OrganisationState
	Dictionaries  DictionaryState
	Status        StatusState
}

func InitialAuthState() AuthState {
	return AuthState{}
}

func InitialOrganisationState() OrganisationState {
	return OrganisationState{Organisations: []model.Organisation{}}
}

func InitialDictionaryState() DictionaryState {
	return DictionaryState{Dictionaries: []model.Dictionary{}}
}

func InitialStatusState() StatusState {
	return StatusState{Operations: map[Operation]Status{}}
}

func InitialState() AppState {
	return AppState{
		Auth:          InitialAuthState(),
		Organisations: InitialOrganisationState(),
		Dictionaries:  InitialDictionaryState(),
		Status:        InitialStatusState(),
	}
}

type Reducer func(AppState, Action) AppState

// Reduce is the root reducer.
func Reduce(s AppState, a Action) AppState {
	return AppState{
		Auth:          ReduceAuth(s.Auth, a),
		Organisations: ReduceOrganisations(s.Organisations, a),
		Dictionaries:  ReduceDictionaries(s.Dictionaries, a),
		Status:        ReduceStatus(s.Status, a),
	}
}

func ReduceAuth(s AuthState, a Action) AuthState {
	switch a.Type {
	case LoginSucceededAction:
		if token, ok := a.Payload.(string); ok {
			s.Token = token
		}
	case ProfileSucceededAction:
		if p, ok := a.Payload.(model.Profile); ok {
			s.Profile = &p
		}
	case LogoutAction:
		return InitialAuthState()
	}
	return s
}

func ReduceOrganisations(s OrganisationState, a Action) OrganisationState {
	switch a.Type {
	case SetUserOrganisationsAction:
		if orgs, ok := a.Payload.([]model.Organisation); ok {
			s.Organisations = slices.Clone(orgs)
			if s.Organisations == nil {
				s.Organisations = []model.Organisation{}
			}
		}
	case CreateOrganisationSucceededAction:
		if org, ok := a.Payload.(model.Organisation); ok {
			s.NewOrganisation = &org
		}
	case LogoutAction:
		return InitialOrganisationState()
	}
	return s
}

func ReduceDictionaries(s DictionaryState, a Action) DictionaryState {
	switch a.Type {
	case GetDictionarySucceededAction:
		if d, ok := a.Payload.(model.Dictionary); ok {
			s.Dictionary = &d
		}
	case CreateDictionarySucceededAction:
		if d, ok := a.Payload.(model.Dictionary); ok {
			s.NewDictionary = &d
		}
	case SetUserDictionariesAction:
		if ds, ok := a.Payload.([]model.Dictionary); ok {
			s.Dictionaries = slices.Clone(ds)
			if s.Dictionaries == nil {
				s.Dictionaries = []model.Dictionary{}
			}
		}
	case ResetCreateDictionaryAction:
		s.NewDictionary = nil
		s.Dictionary = nil
	case LogoutAction:
		return InitialDictionaryState()
	}
	return s
}

func ReduceStatus(s StatusState, a Action) StatusState {
	switch a.Type {
	case LogoutAction:
		return InitialStatusState()
	case ResetCreateDictionaryAction:
		return s.without(CreateDictionaryOp, RetrieveDictionaryOp)
	case StartedAction, ProgressAction, FailedAction, CompletedAction:
		if a.Operation == "" {
			return s
		}
	default:
		return s
	}

	current := s.Get(a.Operation)
	switch a.Type {
	case StartedAction:
		current = Status{Loading: true}
	case ProgressAction:
		percent, ok := a.Payload.(int)
		if !ok || !current.Loading {
			return s
		}
		percent = min(max(percent, 0), 100)
		current.Progress = max(current.Progress, percent)
	case FailedAction:
		errs, _ := a.Payload.(*model.FieldErrors)
		if errs == nil {
			errs = model.NewFieldErrors()
		}
		current.Loading = false
		current.Errors = errs
	case CompletedAction:
		current = Status{Progress: 100}
	}
	return s.with(a.Operation, current)
}

func (s StatusState) with(op Operation, st Status) StatusState {
	ops := make(map[Operation]Status, len(s.Operations)+1)
	maps.Copy(ops, s.Operations)
	ops[op] = st
	return StatusState{Operations: ops}
}

func (s StatusState) without(ops ...Operation) StatusState {
	out := make(map[Operation]Status, len(s.Operations))
	maps.Copy(out, s.Operations)
	for _, op := range ops {
		delete(out, op)
	}
	return StatusState{Operations: out}
}
