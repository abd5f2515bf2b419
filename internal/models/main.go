// Package models defines the core data structures shared by the PalmLink
// client and the reference server: profiles, contact entries and scan history.
package models

// ContactType identifies the platform a contact entry points at.
type ContactType string

const (
	// Instagram handle.
	Instagram ContactType = "IG"
	// WhatsApp number.
	WhatsApp ContactType = "WA"
	// Facebook profile.
	Facebook ContactType = "FB"
	// X (formerly Twitter) handle.
	X ContactType = "X"
	// LinkedIn profile.
	LinkedIn ContactType = "LI"
	// Email address.
	Email ContactType = "EMAIL"
	// Phone number.
	Phone ContactType = "PHONE"
)

// ContactTypes lists every valid contact type.
var ContactTypes = []ContactType{Instagram, WhatsApp, Facebook, X, LinkedIn, Email, Phone}

// Valid reports whether t is one of the fixed contact types.
func (t ContactType) Valid() bool {
	for _, known := range ContactTypes {
		if t == known {
			return true
		}
	}
	return false
}

// Profile holds the account-owned profile fields. Any optional field may be
// empty and is rendered as a placeholder by consumers.
type Profile struct {
	// Email is the account email, never empty on an owned profile.
	Email string `json:"email"`
	// Username is the display name.
	Username string `json:"username"`
	// Bio is an optional free-form description.
	Bio string `json:"bio,omitempty"`
	// Company is the optional employer name.
	Company string `json:"company,omitempty"`
	// JobTitle is the optional role description.
	JobTitle string `json:"job_title,omitempty"`
	// ProfilePicture is a reference (URL or object key) served by the backend.
	ProfilePicture string `json:"profile_picture,omitempty"`
}

// Contact is a single shareable contact entry belonging to one profile.
// Value is never empty; Type is immutable after creation.
type Contact struct {
	// ID is empty until the server has created the entry.
	ID string `json:"contact_id,omitempty"`
	// Type is one of the fixed contact types.
	Type ContactType `json:"contact_type"`
	// Value is the handle, number or address for the given type.
	Value string `json:"contact_value"`
	// Notes is an optional free-form annotation.
	Notes string `json:"notes,omitempty"`
}

// TimeScannedLayout is the wire layout of scan timestamps.
const TimeScannedLayout = "2006-01-02T15:04:05"

// HistoryItem is an immutable record of one scan event: who was seen and
// what their profile and contacts looked like at that moment. It is a
// snapshot, not a live reference.
type HistoryItem struct {
	// TimeScanned is the scan timestamp in the backend's wire layout
	// (see view.TimeLayout).
	TimeScanned string `json:"time_scanned"`
	// Profile is the snapshot of the scanned user's profile.
	Profile ScannedProfile `json:"profile"`
	// Contacts is the snapshot of the scanned user's contact entries.
	Contacts []Contact `json:"contacts"`
}

// ScannedProfile is the reduced profile shape embedded in history snapshots
// and recognition results.
type ScannedProfile struct {
	Name           string `json:"name"`
	Bio            string `json:"bio,omitempty"`
	JobTitle       string `json:"job_title,omitempty"`
	Company        string `json:"company,omitempty"`
	ProfilePicture string `json:"profile_picture,omitempty"`
}

// User is the server-side account record. PasswordHash and PalmDigest never
// leave the server.
type User struct {
	ID             string
	Email          string
	Username       string
	PasswordHash   []byte
	PalmDigest     string
	Bio            string
	Company        string
	JobTitle       string
	ProfilePicture string
}

// OwnedProfile converts the account record into the profile shape returned
// to its owner.
func (u User) OwnedProfile() Profile {
	return Profile{
		Email:          u.Email,
		Username:       u.Username,
		Bio:            u.Bio,
		Company:        u.Company,
		JobTitle:       u.JobTitle,
		ProfilePicture: u.ProfilePicture,
	}
}

// Scanned converts the account record into the reduced shape embedded in
// scan results and history snapshots.
func (u User) Scanned() ScannedProfile {
	return ScannedProfile{
		Name:           u.Username,
		Bio:            u.Bio,
		JobTitle:       u.JobTitle,
		Company:        u.Company,
		ProfilePicture: u.ProfilePicture,
	}
}

// History holds both directions of the scan feed.
type History struct {
	WhoScannedMe []HistoryItem `json:"who_scanned_me"`
	WhoIScanned  []HistoryItem `json:"who_i_scanned"`
}

// ScanResult is the transient outcome of recognizing a palm: the matched
// user's profile plus the contacts captured by the scan. It is never
// persisted client-side.
type ScanResult struct {
	Profile  Profile
	Contacts []Contact
}
