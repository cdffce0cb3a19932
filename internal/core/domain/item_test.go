package domain

import (
	"reflect"
	"testing"
)

func TestPendingItemTargets(t *testing.T) {
	for _, target := range []ItemStatus{StatusApproved, StatusIgnored, StatusRejected} {
		if !CanTransition(StatusPending, target) {
			t.Fatalf("pending must reach %s", target)
		}
	}
	if CanTransition(StatusPending, StatusMigrated) {
		t.Fatal("migrated must only be reachable through approved")
	}
}

func TestApprovedItemCanReturnToPending(t *testing.T) {
	if !CanTransition(StatusApproved, StatusPending) {
		t.Fatal("approved items must be recallable to pending before migration")
	}
	if !CanTransition(StatusApproved, StatusMigrated) {
		t.Fatal("approved items must reach migrated")
	}
}

func TestTerminalStatusesHaveNoTargets(t *testing.T) {
	for _, terminal := range []ItemStatus{StatusIgnored, StatusRejected, StatusMigrated} {
		for _, target := range []ItemStatus{StatusPending, StatusApproved, StatusIgnored, StatusRejected, StatusMigrated} {
			if CanTransition(terminal, target) {
				t.Fatalf("%s must be terminal, allows %s", terminal, target)
			}
		}
	}
}

func TestTransitionSourcesMatchTable(t *testing.T) {
	if got := TransitionSources(StatusPending); !reflect.DeepEqual(got, []ItemStatus{StatusApproved}) {
		t.Fatalf("sources of pending = %v", got)
	}
	if got := TransitionSources(StatusMigrated); !reflect.DeepEqual(got, []ItemStatus{StatusApproved}) {
		t.Fatalf("sources of migrated = %v", got)
	}
	if got := TransitionSources(StatusRejected); !reflect.DeepEqual(got, []ItemStatus{StatusPending, StatusApproved}) {
		t.Fatalf("sources of rejected = %v", got)
	}
}
