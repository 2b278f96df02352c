package domain

// Status is the lifecycle state shared by activities, events, news, sponsors,
// sponsor posts, and sponsor offers. Activities and events use the full set;
// the sponsor family and news only move between ACTIVE and INACTIVE.
type Status string

const (
	StatusDraft    Status = "DRAFT"
	StatusActive   Status = "ACTIVE"
	StatusInactive Status = "INACTIVE"
	StatusRevision Status = "REVISION"
	StatusRejected Status = "REJECTED"
)

// Valid reports whether s is one of the closed set of lifecycle states.
func (s Status) Valid() bool {
	switch s {
	case StatusDraft, StatusActive, StatusInactive, StatusRevision, StatusRejected:
		return true
	}
	return false
}

// Toggled returns the toggle partner of s. Toggling is only defined between
// ACTIVE and INACTIVE; for every other state it returns s unchanged and
// ok=false, and callers must use the named transitions instead.
func (s Status) Toggled() (Status, bool) {
	switch s {
	case StatusActive:
		return StatusInactive, true
	case StatusInactive:
		return StatusActive, true
	}
	return s, false
}

// ActivityType classifies community activities.
type ActivityType string

const (
	ActivityWebinar  ActivityType = "WEBINAR"
	ActivityWorkshop ActivityType = "WORKSHOP"
	ActivityMeetup   ActivityType = "MEETUP"
	ActivityOther    ActivityType = "OTHER"
)

func (t ActivityType) Valid() bool {
	switch t {
	case ActivityWebinar, ActivityWorkshop, ActivityMeetup, ActivityOther:
		return true
	}
	return false
}

// EventType distinguishes the two kinds of records in the events table.
type EventType string

const (
	EventTypeEvent    EventType = "EVENT"
	EventTypeActivity EventType = "ACTIVITY"
)

func (t EventType) Valid() bool {
	return t == EventTypeEvent || t == EventTypeActivity
}

// NewsType classifies published content.
type NewsType string

const (
	NewsTypeNews     NewsType = "NEWS"
	NewsTypeBlogs    NewsType = "BLOGS"
	NewsTypeArticles NewsType = "ARTICLES"
)

func (t NewsType) Valid() bool {
	switch t {
	case NewsTypeNews, NewsTypeBlogs, NewsTypeArticles:
		return true
	}
	return false
}

// Role is an application role carried in the JWT roles claim.
type Role string

const (
	RoleUser    Role = "USER"
	RoleAdmin   Role = "ADMIN"
	RoleSponsor Role = "SPONSOR"
)

func (r Role) Valid() bool {
	switch r {
	case RoleUser, RoleAdmin, RoleSponsor:
		return true
	}
	return false
}

// Membership is the user's subscription tier.
type Membership string

const (
	MembershipFree    Membership = "FREE"
	MembershipPremium Membership = "PREMIUM"
	MembershipFounder Membership = "FOUNDER"
)

func (m Membership) Valid() bool {
	switch m {
	case MembershipFree, MembershipPremium, MembershipFounder:
		return true
	}
	return false
}
