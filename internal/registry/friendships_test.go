package registry

import (
	"errors"
	"testing"

	"github.com/signcircle/backend/internal/domain"
)

func friendshipFixture(t *testing.T) (*FriendshipRegistry, domain.User, domain.User, *domain.Friendship) {
	t.Helper()
	users := NewUserRegistry()
	alice, _ := users.Create(domain.Record{"id": "u1", "name": "Alice", "handle": "@alice", "email": "a@example.com"}, UserTypeRegular)
	bob, _ := users.Create(domain.Record{"id": "u2", "name": "Bob", "handle": "@bob", "email": "b@example.com"}, UserTypeRegular)

	reg := NewFriendshipRegistry()
	friendship, err := reg.Request(alice, bob)
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	return reg, alice, bob, friendship
}

func TestFriendshipRegistryRequest(t *testing.T) {
	_, _, _, friendship := friendshipFixture(t)
	if friendship.Status() != domain.FriendshipPending {
		t.Fatalf("expected pending got %q", friendship.Status())
	}
}

func TestFriendshipRegistryRejectsSelfRequest(t *testing.T) {
	users := NewUserRegistry()
	alice, _ := users.Create(domain.Record{"id": "u1", "name": "Alice", "handle": "@alice", "email": "a@example.com"}, UserTypeRegular)

	reg := NewFriendshipRegistry()
	if _, err := reg.Request(alice, alice); !errors.Is(err, domain.ErrInvalid) {
		t.Fatalf("expected ErrInvalid got %v", err)
	}
	if got := len(reg.All()); got != 0 {
		t.Fatalf("failed request must not insert, got %d", got)
	}
}

func TestFriendshipRegistryAcceptDecline(t *testing.T) {
	reg, _, _, friendship := friendshipFixture(t)

	accepted, err := reg.Accept(friendship.ID())
	if err != nil {
		t.Fatalf("accept: %v", err)
	}
	if accepted.Status() != domain.FriendshipAccepted {
		t.Fatalf("expected accepted got %q", accepted.Status())
	}

	if _, err := reg.Accept(friendship.ID()); !errors.Is(err, ErrBadTransition) {
		t.Fatalf("expected ErrBadTransition got %v", err)
	}
	if _, err := reg.Decline(friendship.ID()); !errors.Is(err, ErrBadTransition) {
		t.Fatalf("expected ErrBadTransition got %v", err)
	}
	if _, err := reg.Accept("missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound got %v", err)
	}
}

func TestFriendshipRegistryBlockUnblock(t *testing.T) {
	reg, _, _, friendship := friendshipFixture(t)

	if _, err := reg.Block(friendship.ID()); err != nil {
		t.Fatalf("block: %v", err)
	}
	if !friendship.IsBlocked() {
		t.Fatalf("expected blocked got %q", friendship.Status())
	}

	unblocked, err := reg.Unblock(friendship.ID())
	if err != nil {
		t.Fatalf("unblock: %v", err)
	}
	if unblocked.Status() != domain.FriendshipAccepted {
		t.Fatalf("expected accepted after unblock got %q", unblocked.Status())
	}

	if _, err := reg.Unblock(friendship.ID()); !errors.Is(err, ErrBadTransition) {
		t.Fatalf("expected ErrBadTransition got %v", err)
	}
}

func TestFriendshipRegistryQueries(t *testing.T) {
	reg, alice, bob, friendship := friendshipFixture(t)

	pending := reg.PendingFor(bob.ID())
	if len(pending) != 1 || pending[0] != friendship {
		t.Fatalf("expected one pending request for bob got %v", pending)
	}
	if got := reg.PendingFor(alice.ID()); len(got) != 0 {
		t.Fatalf("requester must not see the request as pending-for, got %v", got)
	}

	if reg.AreFriends(alice.ID(), bob.ID()) {
		t.Fatal("pending request must not count as friends")
	}

	reg.Accept(friendship.ID())

	if !reg.AreFriends(alice.ID(), bob.ID()) {
		t.Fatal("expected accepted friendship to connect the two members")
	}
	friends := reg.FriendsOf(alice.ID())
	if len(friends) != 1 || friends[0] != friendship {
		t.Fatalf("unexpected friends list: %v", friends)
	}
	if got := reg.PendingFor(bob.ID()); len(got) != 0 {
		t.Fatalf("accepted request still pending: %v", got)
	}
}
