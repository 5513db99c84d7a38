package service

import (
	"testing"

	"github.com/swapmeet/swapmeet/errs"
	"github.com/swapmeet/swapmeet/types"
)

func TestTradeOffer_AcceptMarksBothItemsTraded(t *testing.T) {
	skipIfNoDB(t)

	sender := createTestUser(t)
	recipient := createTestUser(t)
	senderItem := createTestItem(t, sender.ID, "vintage camera", types.ItemStatusActive)
	recipientItem := createTestItem(t, recipient.ID, "mechanical keyboard", types.ItemStatusActive)

	ctx := asUser(sender)

	createIn := types.CreateTradeOffer{
		FromItemID: senderItem.ID,
		ToItemID:   recipientItem.ID,
	}
	createIn.SetLoggedInUserID(sender.ID)

	offer, err := testCockroach.CreateTradeOffer(ctx, createIn)
	if err != nil {
		t.Fatalf("CreateTradeOffer() error = %v", err)
	}

	if offer.Status != types.TradeOfferStatusPending {
		t.Fatalf("new offer status = %s, want pending", offer.Status)
	}

	acceptIn := types.TransitionTradeOffer{
		TradeOfferID: offer.ID,
		Status:       types.TradeOfferStatusAccepted,
	}
	acceptIn.SetLoggedInUserID(recipient.ID)

	accepted, err := testCockroach.TransitionTradeOffer(ctx, acceptIn)
	if err != nil {
		t.Fatalf("TransitionTradeOffer(accepted) error = %v", err)
	}

	if accepted.Status != types.TradeOfferStatusAccepted {
		t.Errorf("status = %s, want accepted", accepted.Status)
	}

	for _, itemID := range []string{senderItem.ID, recipientItem.ID} {
		item, err := testCockroach.Item(ctx, types.RetrieveItem{ItemID: itemID})
		if err != nil {
			t.Fatalf("Item() error = %v", err)
		}
		if item.Status != types.ItemStatusTraded {
			t.Errorf("item %s status = %s, want traded", itemID, item.Status)
		}
	}

	// Accepting again must fail: the offer is terminal.
	if _, err := testCockroach.TransitionTradeOffer(ctx, acceptIn); !errs.IsFailedPrecondition(err) {
		t.Errorf("second accept error = %v, want failed precondition", err)
	}

	rejectIn := types.TransitionTradeOffer{
		TradeOfferID: offer.ID,
		Status:       types.TradeOfferStatusRejected,
	}
	rejectIn.SetLoggedInUserID(recipient.ID)

	if _, err := testCockroach.TransitionTradeOffer(ctx, rejectIn); !errs.IsFailedPrecondition(err) {
		t.Errorf("reject after accept error = %v, want failed precondition", err)
	}
}

func TestTradeOffer_CreateGuards(t *testing.T) {
	skipIfNoDB(t)

	sender := createTestUser(t)
	recipient := createTestUser(t)
	senderItem := createTestItem(t, sender.ID, "record player", types.ItemStatusActive)
	senderOtherItem := createTestItem(t, sender.ID, "spare records", types.ItemStatusActive)
	recipientItem := createTestItem(t, recipient.ID, "road bike", types.ItemStatusActive)
	recipientInactiveItem := createTestItem(t, recipient.ID, "sold couch", types.ItemStatusTraded)

	ctx := asUser(sender)

	t.Run("not_owner_of_offered_item", func(t *testing.T) {
		in := types.CreateTradeOffer{
			FromItemID: recipientItem.ID,
			ToItemID:   senderItem.ID,
		}
		in.SetLoggedInUserID(sender.ID)

		if _, err := testCockroach.CreateTradeOffer(ctx, in); !errs.IsPermissionDenied(err) {
			t.Errorf("error = %v, want permission denied", err)
		}
	})

	t.Run("own_item_on_both_sides", func(t *testing.T) {
		in := types.CreateTradeOffer{
			FromItemID: senderItem.ID,
			ToItemID:   senderOtherItem.ID,
		}
		in.SetLoggedInUserID(sender.ID)

		if _, err := testCockroach.CreateTradeOffer(ctx, in); !errs.IsFailedPrecondition(err) {
			t.Errorf("error = %v, want failed precondition", err)
		}
	})

	t.Run("requested_item_not_active", func(t *testing.T) {
		in := types.CreateTradeOffer{
			FromItemID: senderItem.ID,
			ToItemID:   recipientInactiveItem.ID,
		}
		in.SetLoggedInUserID(sender.ID)

		if _, err := testCockroach.CreateTradeOffer(ctx, in); !errs.IsFailedPrecondition(err) {
			t.Errorf("error = %v, want failed precondition", err)
		}
	})
}

func TestTradeOffer_RoleChecks(t *testing.T) {
	skipIfNoDB(t)

	sender := createTestUser(t)
	recipient := createTestUser(t)
	senderItem := createTestItem(t, sender.ID, "film scanner", types.ItemStatusActive)
	recipientItem := createTestItem(t, recipient.ID, "telescope", types.ItemStatusActive)

	ctx := asUser(sender)

	createIn := types.CreateTradeOffer{
		FromItemID: senderItem.ID,
		ToItemID:   recipientItem.ID,
	}
	createIn.SetLoggedInUserID(sender.ID)

	offer, err := testCockroach.CreateTradeOffer(ctx, createIn)
	if err != nil {
		t.Fatalf("CreateTradeOffer() error = %v", err)
	}

	// The sender cannot accept their own offer.
	acceptIn := types.TransitionTradeOffer{
		TradeOfferID: offer.ID,
		Status:       types.TradeOfferStatusAccepted,
	}
	acceptIn.SetLoggedInUserID(sender.ID)

	if _, err := testCockroach.TransitionTradeOffer(ctx, acceptIn); !errs.IsPermissionDenied(err) {
		t.Errorf("sender accept error = %v, want permission denied", err)
	}

	// The recipient cannot cancel it.
	cancelIn := types.TransitionTradeOffer{
		TradeOfferID: offer.ID,
		Status:       types.TradeOfferStatusCancelled,
	}
	cancelIn.SetLoggedInUserID(recipient.ID)

	if _, err := testCockroach.TransitionTradeOffer(ctx, cancelIn); !errs.IsPermissionDenied(err) {
		t.Errorf("recipient cancel error = %v, want permission denied", err)
	}

	cancelIn.SetLoggedInUserID(sender.ID)
	cancelled, err := testCockroach.TransitionTradeOffer(ctx, cancelIn)
	if err != nil {
		t.Fatalf("sender cancel error = %v", err)
	}
	if cancelled.Status != types.TradeOfferStatusCancelled {
		t.Errorf("status = %s, want cancelled", cancelled.Status)
	}

	// Items stay untouched on cancel.
	item, err := testCockroach.Item(ctx, types.RetrieveItem{ItemID: senderItem.ID})
	if err != nil {
		t.Fatalf("Item() error = %v", err)
	}
	if item.Status != types.ItemStatusActive {
		t.Errorf("item status = %s, want active", item.Status)
	}
}

func TestTradeOffer_DeleteOnlyTerminalRejections(t *testing.T) {
	skipIfNoDB(t)

	sender := createTestUser(t)
	recipient := createTestUser(t)
	senderItem := createTestItem(t, sender.ID, "espresso machine", types.ItemStatusActive)
	recipientItem := createTestItem(t, recipient.ID, "standing desk", types.ItemStatusActive)

	ctx := asUser(sender)

	createIn := types.CreateTradeOffer{
		FromItemID: senderItem.ID,
		ToItemID:   recipientItem.ID,
	}
	createIn.SetLoggedInUserID(sender.ID)

	offer, err := testCockroach.CreateTradeOffer(ctx, createIn)
	if err != nil {
		t.Fatalf("CreateTradeOffer() error = %v", err)
	}

	deleteIn := types.DeleteTradeOffer{TradeOfferID: offer.ID}
	deleteIn.SetLoggedInUserID(sender.ID)

	if err := testCockroach.DeleteTradeOffer(ctx, deleteIn); !errs.IsFailedPrecondition(err) {
		t.Errorf("delete pending offer error = %v, want failed precondition", err)
	}

	rejectIn := types.TransitionTradeOffer{
		TradeOfferID: offer.ID,
		Status:       types.TradeOfferStatusRejected,
	}
	rejectIn.SetLoggedInUserID(recipient.ID)

	if _, err := testCockroach.TransitionTradeOffer(ctx, rejectIn); err != nil {
		t.Fatalf("TransitionTradeOffer(rejected) error = %v", err)
	}

	outsider := createTestUser(t)
	deleteIn.SetLoggedInUserID(outsider.ID)
	if err := testCockroach.DeleteTradeOffer(ctx, deleteIn); !errs.IsNotFound(err) {
		t.Errorf("outsider delete error = %v, want not found", err)
	}

	deleteIn.SetLoggedInUserID(sender.ID)
	if err := testCockroach.DeleteTradeOffer(ctx, deleteIn); err != nil {
		t.Fatalf("DeleteTradeOffer() error = %v", err)
	}

	retrieveIn := types.RetrieveTradeOffer{TradeOfferID: offer.ID}
	retrieveIn.SetLoggedInUserID(sender.ID)
	if _, err := testCockroach.TradeOffer(ctx, retrieveIn); !errs.IsNotFound(err) {
		t.Errorf("retrieve deleted offer error = %v, want not found", err)
	}
}
