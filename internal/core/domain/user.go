package domain

// User is a Coding.net account as seen in listings.
type User struct {
	Login     string
	HTMLURL   string
	AvatarURL string
}

// IsEmpty reports whether no user was resolved, e.g. while a login
// is waiting for a two-factor code.
func (u User) IsEmpty() bool {
	return u.Login == ""
}

// UserPlan describes the billing plan of an account.
type UserPlan struct {
	Name         string
	PrivateRepos int64
}

// UserDetailed is the authenticated user with profile details.
type UserDetailed struct {
	User

	Name              string
	Email             string
	Type              string
	OwnedPrivateRepos int
	Plan              *UserPlan
}

// CanCreatePrivateRepo reports whether the plan leaves room for another private repository.
func (u UserDetailed) CanCreatePrivateRepo() bool {
	if u.Plan == nil {
		return true
	}
	return int64(u.OwnedPrivateRepos) < u.Plan.PrivateRepos
}
