package user

// Profile is the display data the profile service returns for a user.
type Profile struct {
	UserID        string
	Name          string
	ContactHandle string
	AvatarRef     string
}
