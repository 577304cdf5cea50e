// Package auth keeps the local user registry and the signed-in session.
//
// Session states:
//
//	Anonymous --Register/SignIn ok--> Authenticated --SignOut--> Anonymous
//
// Authenticated survives restarts because the current user is persisted.
// Credentials are matched exactly with no case folding. Passwords are
// stored as given unless a Bcrypt hasher is configured; this is a demo
// registry, not an authentication system.
package auth
