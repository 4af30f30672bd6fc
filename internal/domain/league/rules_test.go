package league

import (
	"errors"
	"fmt"
	"testing"
)

func makeSelections(n int) []Selection {
	out := make([]Selection, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, Selection{ChallengeID: fmt.Sprintf("c%d", i), Points: 1})
	}
	return out
}

func TestValidateSelections(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func() []Selection
		targetErr error
	}{
		{name: "minimum", mutate: func() []Selection { return makeSelections(MinChallenges) }},
		{name: "maximum", mutate: func() []Selection { return makeSelections(MaxChallenges) }},
		{name: "too few", mutate: func() []Selection { return makeSelections(MinChallenges - 1) }, targetErr: ErrInvalidChallengeSet},
		{name: "too many", mutate: func() []Selection { return makeSelections(MaxChallenges + 1) }, targetErr: ErrInvalidChallengeSet},
		{
			name: "duplicate challenge",
			mutate: func() []Selection {
				items := makeSelections(MinChallenges)
				items[1].ChallengeID = items[0].ChallengeID
				return items
			},
			targetErr: ErrInvalidChallengeSet,
		},
		{
			name: "non positive points",
			mutate: func() []Selection {
				items := makeSelections(MinChallenges)
				items[3].Points = 0
				return items
			},
			targetErr: ErrInvalidChallengeSet,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := ValidateSelections(tc.mutate())
			if tc.targetErr == nil {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, tc.targetErr) {
				t.Fatalf("expected error %v, got %v", tc.targetErr, err)
			}
		})
	}
}

func TestValidateInvitees(t *testing.T) {
	invitees := make([]string, 0, MaxInvitees+1)
	for i := 0; i <= MaxInvitees; i++ {
		invitees = append(invitees, fmt.Sprintf("u%d", i))
	}

	if err := ValidateInvitees("admin", invitees[:MaxInvitees]); err != nil {
		t.Fatalf("unexpected error for %d invitees: %v", MaxInvitees, err)
	}
	if err := ValidateInvitees("admin", invitees); !errors.Is(err, ErrTooManyInvitees) {
		t.Fatalf("expected ErrTooManyInvitees, got %v", err)
	}
	if err := ValidateInvitees("admin", []string{"u1", "u1"}); err == nil {
		t.Fatalf("expected duplicate invitee error")
	}
	if err := ValidateInvitees("admin", []string{"admin"}); err == nil {
		t.Fatalf("expected self invite error")
	}
}
