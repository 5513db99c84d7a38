package types

import (
	"testing"

	"github.com/swapmeet/swapmeet/id"
)

func TestConversationKey(t *testing.T) {
	userA := id.Generate()
	userB := id.Generate()

	if got, want := ConversationKey(userA, userB), ConversationKey(userB, userA); got != want {
		t.Errorf("ConversationKey() not symmetric: %q != %q", got, want)
	}

	key := ConversationKey(userA, userB)
	if !validConversationID(key) {
		t.Errorf("ConversationKey() = %q, not a valid conversation ID", key)
	}
}

func Test_validConversationID(t *testing.T) {
	userA := id.Generate()
	userB := id.Generate()
	if userB < userA {
		userA, userB = userB, userA
	}

	tt := []struct {
		name string
		in   string
		want bool
	}{
		{
			name: "sorted_pair",
			in:   userA + ":" + userB,
			want: true,
		},
		{
			name: "unsorted_pair",
			in:   userB + ":" + userA,
			want: false,
		},
		{
			name: "missing_separator",
			in:   userA + userB,
			want: false,
		},
		{
			name: "single_id",
			in:   userA,
			want: false,
		},
		{
			name: "garbage",
			in:   "not:an-id",
			want: false,
		},
		{
			name: "empty",
			in:   "",
			want: false,
		},
	}

	for _, tc := range tt {
		t.Run(tc.name, func(t *testing.T) {
			if got := validConversationID(tc.in); got != tc.want {
				t.Errorf("validConversationID(%q) = %v, want %v", tc.in, got, tc.want)
			}
		})
	}
}
