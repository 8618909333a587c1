package domain

import "testing"

func TestNormalizePair(t *testing.T) {
	tests := []struct {
		name  string
		a, b  string
		wantA string
		wantB string
	}{
		{"already ordered", "user-1", "user-2", "user-1", "user-2"},
		{"swapped", "user-9", "user-2", "user-2", "user-9"},
		{"equal", "user-1", "user-1", "user-1", "user-1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, b := NormalizePair(tt.a, tt.b)
			if a != tt.wantA || b != tt.wantB {
				t.Errorf("NormalizePair(%q, %q) = (%q, %q), want (%q, %q)", tt.a, tt.b, a, b, tt.wantA, tt.wantB)
			}
		})
	}
}

func TestFriendship_OtherUser(t *testing.T) {
	f := &Friendship{UserA: "user-1", UserB: "user-2"}

	if got := f.OtherUser("user-1"); got != "user-2" {
		t.Errorf("OtherUser(user-1) = %q, want user-2", got)
	}

	if got := f.OtherUser("user-2"); got != "user-1" {
		t.Errorf("OtherUser(user-2) = %q, want user-1", got)
	}
}

func TestFriendRequestStatus_IsValid(t *testing.T) {
	for _, s := range []FriendRequestStatus{FriendRequestPending, FriendRequestAccepted, FriendRequestRejected} {
		if !s.IsValid() {
			t.Errorf("expected %q to be valid", s)
		}
	}

	if FriendRequestStatus("blocked").IsValid() {
		t.Error("expected unknown status to be invalid")
	}
}
