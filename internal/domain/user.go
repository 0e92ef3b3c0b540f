package domain

import "strings"

// HandleMarker is the leading character every member handle must carry.
const HandleMarker = "@"

// Role labels reported by UserType.
const (
	RoleRegular    = "Regular User"
	RoleDeafMember = "Deaf Community Member"
	RoleInstructor = "Sign Language Instructor"
)

const defaultAvatar = "👤"

// User is the capability shared by all member variants. Mutations go through
// the validated setters; direct field access is not possible from outside the
// package, which keeps the validate-before-mutate contract airtight.
type User interface {
	Model
	Name() string
	Handle() string
	Email() string
	Avatar() string
	Bio() string
	Online() bool
	SetName(string) error
	SetHandle(string) error
	SetBio(string)
	SetAvatar(string)
	SetOnline(bool)
	UserType() string
	DisplayName() string
}

// Member is a regular SignCircle member and the base every specialized
// variant builds on.
type Member struct {
	entity
	name   string
	handle string
	email  string
	avatar string
	bio    string
	online bool
}

// NewMember constructs a regular member from a plain record. Absent keys take
// their documented defaults.
func NewMember(rec Record) *Member {
	return &Member{
		entity: newEntity(rec),
		name:   rec.stringOr("name", ""),
		handle: rec.stringOr("handle", ""),
		email:  rec.stringOr("email", ""),
		avatar: rec.stringOr("avatar", defaultAvatar),
		bio:    rec.stringOr("bio", ""),
		online: rec.boolOr("online", false),
	}
}

func (m *Member) Name() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.name
}

func (m *Member) Handle() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.handle
}

// Email is fixed at construction; no lock needed.
func (m *Member) Email() string { return m.email }

func (m *Member) Avatar() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.avatar
}

func (m *Member) Bio() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.bio
}

func (m *Member) Online() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.online
}

// ValidateUserName reports whether v is acceptable as a display name.
func ValidateUserName(v string) error {
	if strings.TrimSpace(v) == "" {
		return invalidf("name must not be empty")
	}
	return nil
}

// ValidateUserHandle reports whether v carries the handle marker.
func ValidateUserHandle(v string) error {
	if !strings.HasPrefix(v, HandleMarker) {
		return invalidf("handle must start with %q", HandleMarker)
	}
	return nil
}

// SetName replaces the display name. Empty names are rejected without
// mutating state.
func (m *Member) SetName(v string) error {
	if err := ValidateUserName(v); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.name = v
	m.touch()
	return nil
}

// SetHandle replaces the handle. Handles must start with the marker character.
func (m *Member) SetHandle(v string) error {
	if err := ValidateUserHandle(v); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.handle = v
	m.touch()
	return nil
}

func (m *Member) SetBio(v string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.bio = v
	m.touch()
}

func (m *Member) SetAvatar(v string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.avatar = v
	m.touch()
}

func (m *Member) SetOnline(v bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.online = v
	m.touch()
}

// UserType returns the human-readable role label for this variant.
func (m *Member) UserType() string { return RoleRegular }

// DisplayName returns the name shown to other members.
func (m *Member) DisplayName() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.name
}

// Validate reports whether the member is in a registrable state.
func (m *Member) Validate() error {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if strings.TrimSpace(m.name) == "" {
		return invalidf("user name is required")
	}
	if !strings.HasPrefix(m.handle, HandleMarker) {
		return invalidf("user handle must start with %q", HandleMarker)
	}
	if m.email == "" {
		return invalidf("user email is required")
	}
	return nil
}

// record builds the shared portion of a user record. Variants pass their own
// role label so the serialized userType always matches the concrete type.
// Callers hold at least the read lock.
func (m *Member) record(role string) Record {
	rec := m.baseRecord()
	rec["name"] = m.name
	rec["handle"] = m.handle
	rec["email"] = m.email
	rec["avatar"] = m.avatar
	rec["bio"] = m.bio
	rec["online"] = m.online
	rec["userType"] = role
	return rec
}

func (m *Member) Serialize() Record {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.record(m.UserType())
}

// AccessibilitySettings groups the notification preferences a deaf member can
// tune.
type AccessibilitySettings struct {
	CaptionsEnabled     bool
	VibrationAlerts     bool
	VisualNotifications bool
}

// AccessibilityUpdate is a partial settings change; nil fields keep the
// member's current value.
type AccessibilityUpdate struct {
	CaptionsEnabled     *bool
	VibrationAlerts     *bool
	VisualNotifications *bool
}

// DeafMember is a member of the deaf community with a preferred sign language
// and accessibility preferences. All preferences default to enabled.
type DeafMember struct {
	Member
	signLanguage string
	settings     AccessibilitySettings
}

// NewDeafMember constructs a deaf community member from a plain record.
func NewDeafMember(rec Record) *DeafMember {
	prefs := rec.sub("accessibilitySettings")
	return &DeafMember{
		Member:       *NewMember(rec),
		signLanguage: rec.stringOr("preferredSignLanguage", "ASL"),
		settings: AccessibilitySettings{
			CaptionsEnabled:     prefs.boolOr("captionsEnabled", true),
			VibrationAlerts:     prefs.boolOr("vibrationAlerts", true),
			VisualNotifications: prefs.boolOr("visualNotifications", true),
		},
	}
}

func (d *DeafMember) PreferredSignLanguage() string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.signLanguage
}

func (d *DeafMember) SetPreferredSignLanguage(v string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.signLanguage = v
	d.touch()
}

func (d *DeafMember) Settings() AccessibilitySettings {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.settings
}

// UpdateSettings merges a partial update into the current settings without
// discarding unspecified flags.
func (d *DeafMember) UpdateSettings(patch AccessibilityUpdate) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if patch.CaptionsEnabled != nil {
		d.settings.CaptionsEnabled = *patch.CaptionsEnabled
	}
	if patch.VibrationAlerts != nil {
		d.settings.VibrationAlerts = *patch.VibrationAlerts
	}
	if patch.VisualNotifications != nil {
		d.settings.VisualNotifications = *patch.VisualNotifications
	}
	d.touch()
}

func (d *DeafMember) UserType() string { return RoleDeafMember }

func (d *DeafMember) Serialize() Record {
	d.mu.RLock()
	defer d.mu.RUnlock()
	rec := d.record(d.UserType())
	rec["preferredSignLanguage"] = d.signLanguage
	rec["accessibilitySettings"] = Record{
		"captionsEnabled":     d.settings.CaptionsEnabled,
		"vibrationAlerts":     d.settings.VibrationAlerts,
		"visualNotifications": d.settings.VisualNotifications,
	}
	return rec
}

// Instructor is a certified sign language instructor.
type Instructor struct {
	Member
	certifications  []string
	specializations []string
	yearsExperience int
}

// NewInstructor constructs an instructor from a plain record.
func NewInstructor(rec Record) *Instructor {
	return &Instructor{
		Member:          *NewMember(rec),
		certifications:  rec.stringsOr("certifications", nil),
		specializations: rec.stringsOr("specializations", nil),
		yearsExperience: rec.intOr("yearsOfExperience", 0),
	}
}

// Certifications returns a copy of the certification list.
func (i *Instructor) Certifications() []string {
	i.mu.RLock()
	defer i.mu.RUnlock()
	return copyStrings(i.certifications)
}

// Specializations returns a copy of the specialization list.
func (i *Instructor) Specializations() []string {
	i.mu.RLock()
	defer i.mu.RUnlock()
	return copyStrings(i.specializations)
}

func (i *Instructor) YearsOfExperience() int { return i.yearsExperience }

func (i *Instructor) AddCertification(cert string) {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.certifications = append(i.certifications, cert)
	i.touch()
}

func (i *Instructor) AddSpecialization(spec string) {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.specializations = append(i.specializations, spec)
	i.touch()
}

func (i *Instructor) UserType() string { return RoleInstructor }

// DisplayName appends the instructor suffix to the base name.
func (i *Instructor) DisplayName() string {
	i.mu.RLock()
	defer i.mu.RUnlock()
	return i.name + " (Instructor)"
}

func (i *Instructor) Serialize() Record {
	i.mu.RLock()
	defer i.mu.RUnlock()
	rec := i.record(i.UserType())
	rec["certifications"] = copyStrings(i.certifications)
	rec["specializations"] = copyStrings(i.specializations)
	rec["yearsOfExperience"] = i.yearsExperience
	return rec
}

func copyStrings(in []string) []string {
	out := make([]string, len(in))
	copy(out, in)
	return out
}
