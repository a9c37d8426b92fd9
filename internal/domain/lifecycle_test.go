package domain

import (
	"context"
	"errors"
	"testing"
)

func TestNextStatus_AllowedTransitions(t *testing.T) {
	cases := []struct {
		current string
		target  string
	}{
		{RequestPending, RequestApproved},
		{RequestPending, RequestRejected},
		{RequestRejected, RequestApproved},
		{RequestRejected, RequestPending},
	}
	for _, tc := range cases {
		got, err := NextStatus(context.Background(), tc.current, tc.target)
		if err != nil {
			t.Fatalf("NextStatus(%s, %s): unexpected error %v", tc.current, tc.target, err)
		}
		if got != tc.target {
			t.Fatalf("NextStatus(%s, %s) = %s, want %s", tc.current, tc.target, got, tc.target)
		}
	}
}

func TestNextStatus_ApprovedIsTerminal(t *testing.T) {
	for _, target := range []string{RequestPending, RequestApproved, RequestRejected} {
		_, err := NextStatus(context.Background(), RequestApproved, target)
		var te *TransitionError
		if !errors.As(err, &te) {
			t.Fatalf("NextStatus(approved, %s): expected TransitionError, got %v", target, err)
		}
		if te.Current != RequestApproved || te.Target != target {
			t.Fatalf("TransitionError fields = %+v", te)
		}
	}
}

func TestNextStatus_UnknownTarget(t *testing.T) {
	_, err := NextStatus(context.Background(), RequestPending, "adopted")
	var te *TransitionError
	if !errors.As(err, &te) {
		t.Fatalf("expected TransitionError for unknown target, got %v", err)
	}
}

func TestNextStatus_RejectFromRejectedDenied(t *testing.T) {
	// Re-targeting to the same state never reaches the machine in the
	// service layer, but the table itself must not allow it either.
	if _, err := NextStatus(context.Background(), RequestRejected, RequestRejected); err == nil {
		t.Fatal("expected error for rejected -> rejected")
	}
}

func TestValidators(t *testing.T) {
	if !ValidRequestStatus(RequestPending) || ValidRequestStatus("adopted") {
		t.Fatal("ValidRequestStatus misclassified a value")
	}
	if !ValidPublicationStatus(PublicationUnavailable) || ValidPublicationStatus("paused") {
		t.Fatal("ValidPublicationStatus misclassified a value")
	}
	if !ValidSpecies("dog") || ValidSpecies("dragon") {
		t.Fatal("ValidSpecies misclassified a value")
	}
	if !ValidSize("medium") || ValidSize("huge") {
		t.Fatal("ValidSize misclassified a value")
	}
	if !ValidSex("female") || ValidSex("unknown") {
		t.Fatal("ValidSex misclassified a value")
	}
}
