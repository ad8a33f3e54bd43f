// Package session keeps track of the signed-in user and the lists that belong to them.
package session

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/openconceptlab/ocladmin/pkg/api"
	"github.com/openconceptlab/ocladmin/pkg/model"
	"github.com/openconceptlab/ocladmin/pkg/state"
)

var ErrNotLoggedIn = errors.New("not logged in, run the login command first")

type Client interface {
	SetToken(token string)
	Login(ctx context.Context, username, password string) (string, error)
	GetProfile(ctx context.Context) (*model.Profile, error)
	FetchUserOrganisations(ctx context.Context) ([]model.Organisation, error)
	CreateOrganisation(ctx context.Context, org model.Organisation) (*model.Organisation, error)
	FetchUserDictionaries(ctx context.Context) ([]model.Dictionary, error)
}

// tokenFile is what gets persisted between runs.
type tokenFile struct {
	Token    string `yaml:"token"`
	Username string `yaml:"username,omitempty"`
}

type Session struct {
	client Client
	store  state.Dispatcher
	path   string
}

func New(client Client, store state.Dispatcher, path string) *Session {
	return &Session{client: client, store: store, path: path}
}

// Restore loads a token saved by an earlier login. It reports false when there is none.
func (s *Session) Restore() (bool, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("read session file: %w", err)
	}
	var tf tokenFile
	if err := yaml.Unmarshal(data, &tf); err != nil {
		return false, fmt.Errorf("parse session file %s: %w", s.path, err)
	}
	if tf.Token == "" {
		return false, nil
	}
	s.client.SetToken(tf.Token)
	s.store.Dispatch(state.LoginSucceeded(tf.Token))
	return true, nil
}

func (s *Session) LoggedIn() bool {
	return state.Token(s.store.State()) != ""
}

func (s *Session) Login(ctx context.Context, username, password string) (*model.Profile, error) {
	s.store.Dispatch(state.Started(state.LoginOp))
	token, err := s.client.Login(ctx, username, password)
	if err != nil {
		s.store.Dispatch(state.Failed(state.LoginOp, api.FieldErrors(err)))
		return nil, err
	}
	s.client.SetToken(token)
	s.store.Dispatch(state.LoginSucceeded(token))
	s.store.Dispatch(state.Completed(state.LoginOp))

	if err := s.save(tokenFile{Token: token, Username: username}); err != nil {
		return nil, err
	}
	slog.Debug("Session saved", slog.String("path", s.path), slog.String("username", username))

	return s.LoadProfile(ctx)
}

func (s *Session) save(tf tokenFile) error {
	data, err := yaml.Marshal(tf)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("create session directory: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0o600); err != nil {
		return fmt.Errorf("write session file: %w", err)
	}
	return nil
}

// Logout forgets the token and resets every state container.
func (s *Session) Logout() error {
	s.client.SetToken("")
	s.store.Dispatch(state.Logout())
	if err := os.Remove(s.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("remove session file: %w", err)
	}
	return nil
}

func (s *Session) requireLogin() error {
	if !s.LoggedIn() {
		return ErrNotLoggedIn
	}
	return nil
}

func (s *Session) LoadProfile(ctx context.Context) (*model.Profile, error) {
	if err := s.requireLogin(); err != nil {
		return nil, err
	}
	s.store.Dispatch(state.Started(state.FetchProfileOp))
	p, err := s.client.GetProfile(ctx)
	if err != nil {
		s.store.Dispatch(state.Failed(state.FetchProfileOp, api.FieldErrors(err)))
		return nil, err
	}
	s.store.Dispatch(state.ProfileSucceeded(*p))
	s.store.Dispatch(state.Completed(state.FetchProfileOp))
	return p, nil
}

func (s *Session) LoadOrganisations(ctx context.Context) ([]model.Organisation, error) {
	if err := s.requireLogin(); err != nil {
		return nil, err
	}
	s.store.Dispatch(state.Started(state.FetchUserOrganisationsOp))
	orgs, err := s.client.FetchUserOrganisations(ctx)
	if err != nil {
		s.store.Dispatch(state.Failed(state.FetchUserOrganisationsOp, api.FieldErrors(err)))
		return nil, err
	}
	s.store.Dispatch(state.SetUserOrganisations(orgs))
	s.store.Dispatch(state.Completed(state.FetchUserOrganisationsOp))
	return state.Organisations(s.store.State()), nil
}

func (s *Session) CreateOrganisation(ctx context.Context, org model.Organisation) (*model.Organisation, error) {
	if err := s.requireLogin(); err != nil {
		return nil, err
	}
	s.store.Dispatch(state.Started(state.CreateOrganisationOp))
	created, err := s.client.CreateOrganisation(ctx, org)
	if err != nil {
		s.store.Dispatch(state.Failed(state.CreateOrganisationOp, api.FieldErrors(err)))
		return nil, err
	}
	s.store.Dispatch(state.CreateOrganisationSucceeded(*created))
	s.store.Dispatch(state.Completed(state.CreateOrganisationOp))
	return created, nil
}

func (s *Session) LoadDictionaries(ctx context.Context) ([]model.Dictionary, error) {
	if err := s.requireLogin(); err != nil {
		return nil, err
	}
	s.store.Dispatch(state.Started(state.FetchUserDictionariesOp))
	ds, err := s.client.FetchUserDictionaries(ctx)
	if err != nil {
		s.store.Dispatch(state.Failed(state.FetchUserDictionariesOp, api.FieldErrors(err)))
		return nil, err
	}
	s.store.Dispatch(state.SetUserDictionaries(ds))
	s.store.Dispatch(state.Completed(state.FetchUserDictionariesOp))
	return state.UserDictionaries(s.store.State()), nil
}

// Owners lists who a new dictionary may belong to: the user, then their organisations.
// The profile and organisations are fetched when the store does not hold them yet.
func (s *Session) Owners(ctx context.Context) ([]model.Owner, error) {
	profile := state.Profile(s.store.State())
	if profile == nil {
		p, err := s.LoadProfile(ctx)
		if err != nil {
			return nil, err
		}
		profile = p
	}
	orgs := state.Organisations(s.store.State())
	if len(orgs) == 0 {
		loaded, err := s.LoadOrganisations(ctx)
		if err != nil {
			return nil, err
		}
		orgs = loaded
	}

	owners := make([]model.Owner, 0, len(orgs)+1)
	owners = append(owners, model.Owner{
		Label: fmt.Sprintf("Yourself (%s)", profile.Username),
		URL:   profile.URL,
		Type:  model.OwnerTypeUser,
	})
	for _, o := range orgs {
		owners = append(owners, model.Owner{
			Label: o.Name,
			URL:   o.URL,
			Type:  model.OwnerTypeOrganization,
		})
	}
	return owners, nil
}

// ResolveOwner finds the owner matching ref, which may be an owner URL, an organisation id or "me".
func ResolveOwner(owners []model.Owner, ref string) (model.Owner, error) {
	ref = strings.TrimSpace(ref)
	for _, o := range owners {
		switch {
		case ref == "me" && o.Type == model.OwnerTypeUser,
			strings.TrimSuffix(o.URL, "/") == strings.TrimSuffix(ref, "/"),
			o.Type == model.OwnerTypeOrganization && o.URL == "/orgs/"+ref+"/":
			return o, nil
		}
	}
	return model.Owner{}, fmt.Errorf("%q is not one of your organisations", ref)
}
