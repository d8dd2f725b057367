package domain

import "testing"

func TestJobStatus_CanTransitionTo(t *testing.T) {
	cases := []struct {
		from JobStatus
		to   JobStatus
		ok   bool
	}{
		{StatusOpen, StatusInProgress, true},
		{StatusInProgress, StatusFinished, true},
		{StatusOpen, StatusFinished, false},
		{StatusOpen, StatusOpen, false},
		{StatusInProgress, StatusOpen, false},
		{StatusFinished, StatusOpen, false},
		{StatusFinished, StatusInProgress, false},
		{StatusFinished, StatusFinished, false},
	}
	for _, tc := range cases {
		if got := tc.from.CanTransitionTo(tc.to); got != tc.ok {
			t.Errorf("%s -> %s = %v, want %v", tc.from, tc.to, got, tc.ok)
		}
	}
}

func TestValidPaymentType(t *testing.T) {
	if !ValidPaymentType(PaymentWeekly) || !ValidPaymentType(PaymentOneOff) {
		t.Fatalf("known payment types rejected")
	}
	if ValidPaymentType("MONTHLY") || ValidPaymentType("") {
		t.Fatalf("unknown payment type accepted")
	}
}
