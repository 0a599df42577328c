package state

import (
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/auox/auox/internal/sparebank"
)

func TestAccountFeed_UpdateClonesAccounts(t *testing.T) {
	var f AccountFeed

	accounts := []sparebank.Account{{Key: "a"}, {Key: "b"}}
	now := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	f.Update(accounts, nil, now)

	if !f.Loaded || len(f.Accounts) != 2 || f.Accounts[0].Key != "a" {
		t.Fatalf("feed = %#v, want 2 loaded accounts", f)
	}
	if !f.LastUpdated.Equal(now) {
		t.Fatalf("LastUpdated = %v, want %v", f.LastUpdated, now)
	}

	accounts[0].Key = "changed"
	if f.Accounts[0].Key != "a" {
		t.Fatalf("Update should clone accounts; got key %q", f.Accounts[0].Key)
	}
}

func TestAccountFeed_ErrorKeepsPreviousAccounts(t *testing.T) {
	var f AccountFeed
	f.Update([]sparebank.Account{{Key: "a"}}, nil, time.Now())

	f.Update(nil, errors.New("boom"), time.Now())
	if len(f.Accounts) != 1 || f.Accounts[0].Key != "a" {
		t.Fatalf("accounts changed on error: %#v", f.Accounts)
	}
	if f.LastError == nil || f.LastError.Error() != "boom" {
		t.Fatalf("LastError = %v, want boom", f.LastError)
	}
}

func TestAccountFeed_ConsecutiveFailures(t *testing.T) {
	var f AccountFeed
	if f.IsOffline() {
		t.Fatal("IsOffline() = true, want false with 0 failures")
	}

	f.Update(nil, errors.New("fail 1"), time.Now())
	if f.ConsecutiveFailures != 1 || f.IsOffline() {
		t.Fatalf("after 1 failure: failures=%d offline=%v", f.ConsecutiveFailures, f.IsOffline())
	}

	f.Update(nil, errors.New("fail 2"), time.Now())
	if f.ConsecutiveFailures != 2 || !f.IsOffline() {
		t.Fatalf("after 2 failures: failures=%d offline=%v", f.ConsecutiveFailures, f.IsOffline())
	}

	f.Update(nil, nil, time.Now())
	if f.ConsecutiveFailures != 0 || f.IsOffline() || f.LastError != nil {
		t.Fatalf("success did not reset: %#v", f)
	}
}

func TestAccountFeed_Visible(t *testing.T) {
	var f AccountFeed
	f.Update([]sparebank.Account{
		{Key: "a"},
		{Key: "card", Type: sparebank.AccountTypeCreditCard},
		{Key: "b"},
	}, nil, time.Now())

	if got := f.Visible(true); !reflect.DeepEqual(got, []int{0, 1, 2}) {
		t.Fatalf("Visible(true) = %v", got)
	}
	if got := f.Visible(false); !reflect.DeepEqual(got, []int{0, 2}) {
		t.Fatalf("Visible(false) = %v", got)
	}
}
