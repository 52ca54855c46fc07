package services

import (
	"errors"

	"github.com/jackc/pgx/v5"
)

var (
	ErrNotFound           = errors.New("not found")
	ErrAlreadyExists      = errors.New("already exists")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrInvalidRole        = errors.New("invalid role")
	ErrInvalidStatus      = errors.New("invalid status")
	ErrForbidden          = errors.New("forbidden")

	ErrInvalidHackathon     = errors.New("invalid hackathon")
	ErrInvalidTransition    = errors.New("invalid status transition")
	ErrHackathonNotOpen     = errors.New("hackathon is not open for registration")
	ErrHackathonNotEditable = errors.New("hackathon can no longer be edited")

	ErrAlreadyInTeam      = errors.New("already in a team for this hackathon")
	ErrTeamFull           = errors.New("team is full")
	ErrTeamTooSmall       = errors.New("team has fewer members than required")
	ErrTeamLocked         = errors.New("team is registered or suspended")
	ErrTeamNotRegistered  = errors.New("team is not registered")
	ErrTeamSuspended      = errors.New("team is suspended")
	ErrInvalidJoinCode    = errors.New("invalid join code")
	ErrCannotRemoveLeader = errors.New("cannot remove team leader")
	ErrMemberNotFound     = errors.New("member not found")
	ErrRequestNotPending  = errors.New("join request is not pending")

	ErrInvalidFile  = errors.New("resume must be a PDF")
	ErrFileTooLarge = errors.New("resume is too large")
)

func notFound(err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	return err
}

type rowScanner interface {
	Scan(dest ...any) error
}
