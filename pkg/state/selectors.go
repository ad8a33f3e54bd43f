package state

import (
	"strings"

	"github.com/openconceptlab/ocladmin/pkg/model"
)

func CreateDictionaryLoading(s AppState) bool {
	return s.Status.Get(CreateDictionaryOp).Loading
}

func CreateDictionaryProgress(s AppState) int {
	return s.Status.Get(CreateDictionaryOp).Progress
}

func CreateDictionaryErrors(s AppState) *model.FieldErrors {
	return s.Status.Get(CreateDictionaryOp).Errors
}

func RetrieveDictionaryLoading(s AppState) bool {
	return s.Status.Get(RetrieveDictionaryOp).Loading
}

func RetrieveDictionaryErrors(s AppState) *model.FieldErrors {
	return s.Status.Get(RetrieveDictionaryOp).Errors
}

func CreateOrganisationLoading(s AppState) bool {
	return s.Status.Get(CreateOrganisationOp).Loading
}

func CreateOrganisationErrors(s AppState) *model.FieldErrors {
	return s.Status.Get(CreateOrganisationOp).Errors
}

// DictionariesLoading reports whether any dictionary request is in flight.
func DictionariesLoading(s AppState) bool {
	return anyLoading(s, "dictionaries/")
}

// OrganisationsLoading reports whether any organisation request is in flight.
func OrganisationsLoading(s AppState) bool {
	return anyLoading(s, "organisations/")
}

func anyLoading(s AppState, prefix string) bool {
	for op, st := range s.Status.Operations {
		if st.Loading && strings.HasPrefix(string(op), prefix) {
			return true
		}
	}
	return false
}

func NewDictionary(s AppState) *model.Dictionary {
	return s.Dictionaries.NewDictionary
}

func CopiedDictionary(s AppState) *model.Dictionary {
	return s.Dictionaries.Dictionary
}

func UserDictionaries(s AppState) []model.Dictionary {
	return s.Dictionaries.Dictionaries
}

func Organisations(s AppState) []model.Organisation {
	return s.Organisations.Organisations
}

func NewOrganisation(s AppState) *model.Organisation {
	return s.Organisations.NewOrganisation
}

func Profile(s AppState) *model.Profile {
	return s.Auth.Profile
}

func Token(s AppState) string {
	return s.Auth.Token
}
