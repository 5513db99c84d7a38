package service

import (
	"context"

	"github.com/swapmeet/swapmeet/types"
)

func (svc *Service) Item(ctx context.Context, in types.RetrieveItem) (types.Item, error) {
	var out types.Item

	if err := in.Validate(); err != nil {
		return out, err
	}

	return svc.Cockroach.Item(ctx, in)
}

func (svc *Service) UserItems(ctx context.Context, in types.ListUserItems) (types.Page[types.Item], error) {
	var out types.Page[types.Item]

	if err := in.Validate(); err != nil {
		return out, err
	}

	if err := in.PageArgs.Validate(); err != nil {
		return out, err
	}

	return svc.Cockroach.UserItems(ctx, in)
}
