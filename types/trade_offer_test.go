package types

import (
	"strings"
	"testing"

	"github.com/swapmeet/swapmeet/id"
)

func TestCreateTradeOffer_Validate(t *testing.T) {
	fromItemID := id.Generate()
	toItemID := id.Generate()

	tt := []struct {
		name    string
		in      CreateTradeOffer
		wantErr bool
	}{
		{
			name: "ok",
			in:   CreateTradeOffer{FromItemID: fromItemID, ToItemID: toItemID},
		},
		{
			name: "ok_with_message",
			in: CreateTradeOffer{
				FromItemID: fromItemID,
				ToItemID:   toItemID,
				Message:    ptr("interested in a swap?"),
			},
		},
		{
			name:    "missing_from_item",
			in:      CreateTradeOffer{ToItemID: toItemID},
			wantErr: true,
		},
		{
			name:    "missing_to_item",
			in:      CreateTradeOffer{FromItemID: fromItemID},
			wantErr: true,
		},
		{
			name:    "invalid_item_id",
			in:      CreateTradeOffer{FromItemID: "nope", ToItemID: toItemID},
			wantErr: true,
		},
		{
			name:    "same_item_both_sides",
			in:      CreateTradeOffer{FromItemID: fromItemID, ToItemID: fromItemID},
			wantErr: true,
		},
		{
			name: "message_too_long",
			in: CreateTradeOffer{
				FromItemID: fromItemID,
				ToItemID:   toItemID,
				Message:    ptr(strings.Repeat("x", 1001)),
			},
			wantErr: true,
		},
	}

	for _, tc := range tt {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.in.Validate()
			if gotErr := err != nil; gotErr != tc.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tc.wantErr)
			}
		})
	}
}

func TestCreateTradeOffer_Validate_trimsMessage(t *testing.T) {
	in := CreateTradeOffer{
		FromItemID: id.Generate(),
		ToItemID:   id.Generate(),
		Message:    ptr("   "),
	}
	if err := in.Validate(); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	if in.Message != nil {
		t.Errorf("blank message not dropped, got %q", *in.Message)
	}
}

func TestTradeOfferStatus_Terminal(t *testing.T) {
	tt := []struct {
		status TradeOfferStatus
		want   bool
	}{
		{TradeOfferStatusPending, false},
		{TradeOfferStatusAccepted, true},
		{TradeOfferStatusRejected, true},
		{TradeOfferStatusCancelled, true},
	}

	for _, tc := range tt {
		if got := tc.status.Terminal(); got != tc.want {
			t.Errorf("%s.Terminal() = %v, want %v", tc.status, got, tc.want)
		}
	}
}

func TestTransitionTradeOffer_Validate(t *testing.T) {
	in := TransitionTradeOffer{
		TradeOfferID: id.Generate(),
		Status:       TradeOfferStatusPending,
	}
	if err := in.Validate(); err == nil {
		t.Error("Validate() accepted a transition back to pending")
	}
}

func ptr[T any](v T) *T { return &v }
