package domain

import "errors"

var ErrInvalidCredentials = errors.New("invalid email or password")
var ErrValidation = errors.New("missing or invalid field")
var ErrUserNotFound = errors.New("user not found")
var ErrEmailTaken = errors.New("email already registered")
var ErrPermissionDenied = errors.New("permission denied")
var ErrAccountBlocked = errors.New("account is blocked")
var ErrSessionExpired = errors.New("session expired or revoked")
var ErrPlanNotFound = errors.New("nutrition plan not found")
var ErrPostNotFound = errors.New("post not found")
var ErrBackendUnavailable = errors.New("identity backend unavailable")
