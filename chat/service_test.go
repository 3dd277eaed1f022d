package chat

import (
	"context"
	"testing"

	"github.com/agendahub/agendahub/store"
)

func TestSendEmptyTextIsNoOp(t *testing.T) {
	// The service carries no client: any store access would panic, so a nil
	// error proves the guard returned before the first write.
	svc := NewService(nil)
	target := Target{ID: "bob", Type: store.TypeDirect}
	sender := Sender{UID: "alice", Name: "Alice"}

	tests := []struct {
		name string
		text string
	}{
		{
			name: "Empty string",
			text: "",
		},
		{
			name: "Whitespace only",
			text: "   \t\n  ",
		},
		{
			name: "Markup only",
			text: "<b></b>",
		},
		{
			name: "Markup around whitespace",
			text: "<script>alert(1)</script>",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := svc.Send(context.Background(), sender, target, tt.text); err != nil {
				t.Errorf("Send(%q) = %v; want nil", tt.text, err)
			}
		})
	}
}

func TestEditEmptyTextIsNoOp(t *testing.T) {
	svc := NewService(nil)

	for _, text := range []string{"", "  ", "<i></i>"} {
		if err := svc.Edit(context.Background(), "alice_bob", "m1", text); err != nil {
			t.Errorf("Edit(%q) = %v; want nil", text, err)
		}
	}
}
