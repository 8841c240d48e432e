package service

import (
	"context"

	"github.com/google/uuid"

	"payswitch/internal/domain"
	"payswitch/internal/repository"
)

// recipientResolver maps a destination identifier to an internal account:
// phone number -> owner's primary active account, else any active account;
// otherwise an exact account-number match anywhere on the switch; otherwise
// the destination is external.
type recipientResolver struct {
	userRepo    repository.UserRepository
	accountRepo repository.AccountRepository
}

func NewRecipientResolver(userRepo repository.UserRepository, accountRepo repository.AccountRepository) RecipientResolver {
	return &recipientResolver{userRepo: userRepo, accountRepo: accountRepo}
}

func (r *recipientResolver) Resolve(ctx context.Context, identifier string) (*uuid.UUID, error) {
	if identifier == "" {
		return nil, nil
	}

	if user, err := r.userRepo.GetByPhone(ctx, identifier); err == nil {
		accounts, err := r.accountRepo.ListByUser(ctx, user.ID)
		if err != nil {
			return nil, err
		}
		for _, a := range accounts {
			if a.IsPrimary && a.Status == domain.AccountStatusActive {
				id := a.ID
				return &id, nil
			}
		}
		for _, a := range accounts {
			if a.Status == domain.AccountStatusActive {
				id := a.ID
				return &id, nil
			}
		}
	}

	accounts, err := r.accountRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	for _, a := range accounts {
		if a.AccountNumber == identifier {
			id := a.ID
			return &id, nil
		}
	}

	return nil, nil
}
