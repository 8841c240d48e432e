package service_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"payswitch/internal/domain"
	"payswitch/internal/lock"
	"payswitch/internal/repository/memory"
	"payswitch/internal/service"
)

func TestRecipientResolver(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	accounts := service.NewAccountService(store.AccountRepository, store.UserRepository, lock.NewCoordinator())
	resolver := service.NewRecipientResolver(store.UserRepository, store.AccountRepository)

	bank := domain.NewBank("Bank D", "BKD")
	require.NoError(t, store.BankRepository.Create(ctx, bank))
	user := domain.NewUser("Frank", "77770001")
	require.NoError(t, store.UserRepository.Create(ctx, user))

	first, err := accounts.LinkAccount(ctx, user.ID, bank.ID, "600700800", dec("0"))
	require.NoError(t, err)
	second, err := accounts.LinkAccount(ctx, user.ID, bank.ID, "700800900", dec("0"))
	require.NoError(t, err)

	t.Run("PhoneWithoutPrimaryPicksAnyActive", func(t *testing.T) {
		got, err := resolver.Resolve(ctx, "77770001")
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Contains(t, []string{first.ID.String(), second.ID.String()}, got.String())
	})

	t.Run("PhonePrefersPrimary", func(t *testing.T) {
		require.NoError(t, accounts.SetPrimaryAccount(ctx, user.ID, second.ID))
		got, err := resolver.Resolve(ctx, "77770001")
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, second.ID, *got)
	})

	t.Run("AccountNumberMatch", func(t *testing.T) {
		got, err := resolver.Resolve(ctx, "600700800")
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, first.ID, *got)
	})

	t.Run("UnknownIdentifierIsExternal", func(t *testing.T) {
		got, err := resolver.Resolve(ctx, "no-such-destination")
		require.NoError(t, err)
		assert.Nil(t, got)
	})

	t.Run("EmptyIdentifierIsExternal", func(t *testing.T) {
		got, err := resolver.Resolve(ctx, "")
		require.NoError(t, err)
		assert.Nil(t, got)
	})

	t.Run("InactiveAccountsSkipped", func(t *testing.T) {
		loner := domain.NewUser("Grace", "77770002")
		require.NoError(t, store.UserRepository.Create(ctx, loner))
		only, err := accounts.LinkAccount(ctx, loner.ID, bank.ID, "808080808", dec("0"))
		require.NoError(t, err)

		stored, err := store.AccountRepository.GetByID(ctx, only.ID)
		require.NoError(t, err)
		stored.Status = domain.AccountStatusInactive

		got, err := resolver.Resolve(ctx, "77770002")
		require.NoError(t, err)
		assert.Nil(t, got)
	})
}
