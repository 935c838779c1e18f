// Package accounts implements the identity and access-control subsystem of
// the users API: credential hashing, signed session tokens, role gated
// routes, and the email verification / password reset workflows.
//
// Account lifecycle:
//
//	self-service registration -> Active (verified immediately)
//	admin-issued creation     -> Pending (verification token + email)
//	VerifyEmail               -> Pending -> Active
//	ForgotPassword            -> Active -> ResetRequested (24h token)
//	ResetPassword             -> ResetRequested -> Active (token cleared)
//
// The first account ever created becomes the bootstrap admin; every
// subsequent self-registered account gets the plain user role.
package accounts
