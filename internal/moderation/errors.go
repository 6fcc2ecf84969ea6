package moderation

import "errors"

// Validation errors are surfaced to the caller before any write happens.
var (
	ErrInvalidBanKind       = errors.New("punishment kind is not a ban")
	ErrMemberNotFound       = errors.New("member is not in the guild")
	ErrInvalidDuration      = errors.New("temporary punishment requires a duration of at least one second")
	ErrUnexpectedDuration   = errors.New("this punishment kind must not carry a duration")
	ErrPermanentBanExists   = errors.New("target already has a ban without expiry")
	ErrInvalidThreshold     = errors.New("warn threshold must be at least one")
	ErrInvalidWindow        = errors.New("rule window must be at least one second")
	ErrInvalidPunishment    = errors.New("punishment kind cannot be used in an escalation rule")
	ErrInvalidStrikeCount   = errors.New("strike count must be at least one")
	ErrDuplicateRuleTrigger = errors.New("an escalation rule with this threshold and window already exists")
	ErrDuplicateStrikeRule  = errors.New("a strike rule for this count already exists")
)
