package service

import "testing"

func TestCanCreateUser(t *testing.T) {
	cases := []struct {
		name        string
		requesterID string
		userCount   int64
		want        CreateUserDecision
	}{
		{"empty system allows bootstrap", "", 0, AllowBootstrap},
		{"empty system ignores authentication", "user-1", 0, AllowBootstrap},
		{"populated system requires admin", "", 3, RequireAdmin},
		{"populated system requires admin even when authenticated", "user-1", 3, RequireAdmin},
		{"unknown count denies", "user-1", -1, Deny},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := CanCreateUser(tc.requesterID, tc.userCount); got != tc.want {
				t.Fatalf("CanCreateUser(%q, %d) = %v, want %v", tc.requesterID, tc.userCount, got, tc.want)
			}
		})
	}
}
