package state

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/openconceptlab/ocladmin/pkg/model"
)

func TestStore_DispatchAndSubscribe(t *testing.T) {
	s := New()
	require.Equal(t, InitialState(), s.State())

	var seen []AppState
	unsubscribe := s.Subscribe(func(st AppState) {
		seen = append(seen, st)
	})

	s.Dispatch(SetUserOrganisations([]model.Organisation{testOrg}))
	require.Len(t, seen, 1)
	require.Equal(t, []model.Organisation{testOrg}, Organisations(seen[0]))

	unsubscribe()
	s.Dispatch(Logout())
	require.Len(t, seen, 1)
	require.Equal(t, InitialState(), s.State())
}

func TestStore_Options(t *testing.T) {
	initial := InitialState()
	initial.Auth.Token = "seed"

	var actions []ActionType
	s := New(
		WithInitialState(initial),
		WithReducer(func(st AppState, a Action) AppState {
			actions = append(actions, a.Type)
			return Reduce(st, a)
		}),
	)
	require.Equal(t, "seed", Token(s.State()))

	s.Dispatch(Logout())
	require.Equal(t, []ActionType{LogoutAction}, actions)
	require.Empty(t, Token(s.State()))
}

func TestStore_ConcurrentDispatch(t *testing.T) {
	s := New()
	s.Dispatch(Started(CreateDictionaryOp))

	var wg sync.WaitGroup
	for i := 1; i <= 100; i++ {
		wg.Add(1)
		go func(p int) {
			defer wg.Done()
			s.Dispatch(Progress(CreateDictionaryOp, p))
		}(i)
	}
	wg.Wait()

	require.Equal(t, 100, CreateDictionaryProgress(s.State()))
}

func TestStore_ListenersRunInSubscriptionOrder(t *testing.T) {
	s := New()

	var calls []int
	unsubscribe := make([]func(), 8)
	for i := range unsubscribe {
		unsubscribe[i] = s.Subscribe(func(AppState) {
			calls = append(calls, i)
		})
	}

	for range 20 {
		calls = calls[:0]
		s.Dispatch(Started(CreateDictionaryOp))
		require.Equal(t, []int{0, 1, 2, 3, 4, 5, 6, 7}, calls)
	}

	unsubscribe[3]()
	unsubscribe[3]()
	calls = calls[:0]
	s.Dispatch(Completed(CreateDictionaryOp))
	require.Equal(t, []int{0, 1, 2, 4, 5, 6, 7}, calls)
}
