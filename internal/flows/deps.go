package flows

// Deps groups flow dependency sets. The root engine builds this once and
// delegates request methods to the matching flow function.
type Deps struct {
	Refresh RefreshDeps
	Logout  LogoutDeps
}
