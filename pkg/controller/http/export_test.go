package http

import "github.com/secmon-lab/buddyguard/pkg/usecase"

// Test-only accessor methods for UseCases
func (u *UseCases) Sessions() *usecase.SessionUseCase {
	return u.sessions
}

func (u *UseCases) Profiles() *usecase.ProfileUseCase {
	return u.profiles
}
