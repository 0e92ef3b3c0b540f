package domain

// FriendshipStatus is the state of a connection between two members.
type FriendshipStatus string

const (
	FriendshipPending  FriendshipStatus = "pending"
	FriendshipAccepted FriendshipStatus = "accepted"
	FriendshipDeclined FriendshipStatus = "declined"
	FriendshipBlocked  FriendshipStatus = "blocked"
)

// Friendship connects two distinct members and tracks where the relationship
// sits in its lifecycle:
//
//	pending -> accepted | declined
//	any     -> blocked
//	blocked -> accepted (unblock)
//
// Accept, Decline, and Unblock report success as a bool instead of an error:
// attempting a transition from the wrong state is an expected caller mistake,
// not an exceptional condition.
type Friendship struct {
	entity
	user1         User
	user2         User
	status        FriendshipStatus
	mutualFriends int
}

// NewFriendship constructs a friendship from a plain record. "user1" and
// "user2" hold live User references; status defaults to pending. The mutual
// friends count is stored as supplied and never recomputed.
func NewFriendship(rec Record) *Friendship {
	return &Friendship{
		entity:        newEntity(rec),
		user1:         rec.user("user1"),
		user2:         rec.user("user2"),
		status:        FriendshipStatus(rec.stringOr("status", string(FriendshipPending))),
		mutualFriends: rec.intOr("mutualFriends", 0),
	}
}

func (f *Friendship) User1() User        { return f.user1 }
func (f *Friendship) User2() User        { return f.user2 }
func (f *Friendship) MutualFriends() int { return f.mutualFriends }

func (f *Friendship) Status() FriendshipStatus {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.status
}

// Accept transitions pending -> accepted. Returns false from any other state.
func (f *Friendship) Accept() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.status != FriendshipPending {
		return false
	}
	f.status = FriendshipAccepted
	f.touch()
	return true
}

// Decline transitions pending -> declined. Returns false from any other state.
func (f *Friendship) Decline() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.status != FriendshipPending {
		return false
	}
	f.status = FriendshipDeclined
	f.touch()
	return true
}

// Block forces the status to blocked regardless of the current state.
func (f *Friendship) Block() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.status = FriendshipBlocked
	f.touch()
}

// Unblock transitions blocked -> accepted. Returns false from any other state.
func (f *Friendship) Unblock() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.status != FriendshipBlocked {
		return false
	}
	f.status = FriendshipAccepted
	f.touch()
	return true
}

// IsFriendWith reports whether the given user is a participant and the
// friendship has been accepted.
func (f *Friendship) IsFriendWith(u User) bool {
	if u == nil || f.Status() != FriendshipAccepted {
		return false
	}
	return f.Involves(u.ID())
}

// Involves reports whether the given member id is one of the two participants.
func (f *Friendship) Involves(userID string) bool {
	return (f.user1 != nil && f.user1.ID() == userID) ||
		(f.user2 != nil && f.user2.ID() == userID)
}

func (f *Friendship) IsPending() bool { return f.Status() == FriendshipPending }
func (f *Friendship) IsBlocked() bool { return f.Status() == FriendshipBlocked }

func (f *Friendship) Validate() error {
	if f.user1 == nil || f.user2 == nil {
		return invalidf("friendship requires two participants")
	}
	if f.user1.ID() == f.user2.ID() {
		return invalidf("friendship participants must be distinct")
	}
	return nil
}

func (f *Friendship) Serialize() Record {
	f.mu.RLock()
	defer f.mu.RUnlock()
	rec := f.baseRecord()
	rec["user1"] = serializeRef(f.user1)
	rec["user2"] = serializeRef(f.user2)
	rec["status"] = string(f.status)
	rec["mutualFriends"] = f.mutualFriends
	return rec
}
