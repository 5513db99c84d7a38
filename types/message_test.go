package types

import (
	"strings"
	"testing"

	"github.com/swapmeet/swapmeet/id"
)

func TestCreateMessage_Validate(t *testing.T) {
	toUserID := id.Generate()

	tt := []struct {
		name    string
		in      CreateMessage
		wantErr bool
	}{
		{
			name: "text_message",
			in:   CreateMessage{ToUserID: toUserID, Content: ptr("hey")},
		},
		{
			name: "image_message",
			in:   CreateMessage{ToUserID: toUserID, ImageURL: ptr("https://cdn.example.com/pic.jpg")},
		},
		{
			name:    "missing_recipient",
			in:      CreateMessage{Content: ptr("hey")},
			wantErr: true,
		},
		{
			name:    "no_content_at_all",
			in:      CreateMessage{ToUserID: toUserID},
			wantErr: true,
		},
		{
			name:    "both_content_kinds",
			in:      CreateMessage{ToUserID: toUserID, Content: ptr("hey"), ImageURL: ptr("https://cdn.example.com/pic.jpg")},
			wantErr: true,
		},
		{
			name:    "blank_content_only",
			in:      CreateMessage{ToUserID: toUserID, Content: ptr("   ")},
			wantErr: true,
		},
		{
			name:    "content_too_long",
			in:      CreateMessage{ToUserID: toUserID, Content: ptr(strings.Repeat("x", 1001))},
			wantErr: true,
		},
		{
			name:    "image_url_not_http",
			in:      CreateMessage{ToUserID: toUserID, ImageURL: ptr("ftp://example.com/pic.jpg")},
			wantErr: true,
		},
		{
			name:    "invalid_trade_offer_id",
			in:      CreateMessage{ToUserID: toUserID, Content: ptr("hey"), TradeOfferID: ptr("nope")},
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

func TestCreateMessage_Validate_trimsContent(t *testing.T) {
	in := CreateMessage{ToUserID: id.Generate(), Content: ptr("  hello  ")}
	if err := in.Validate(); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	if in.Content == nil || *in.Content != "hello" {
		t.Errorf("content not trimmed, got %v", in.Content)
	}
}
