package util

import "errors"

var (
	ErrUserNotFound    = errors.New("用户不存在")
	ErrEmailRegistered = errors.New("该邮箱已被注册")
	ErrUsernameTaken   = errors.New("username already taken")

	ErrSubjectNotFound       = errors.New("subject not found")
	ErrVocabularyNotFound    = errors.New("vocabulary term not found")
	ErrChallengeNotFound     = errors.New("challenge not found")
	ErrNoChallengesAvailable = errors.New("no challenges available for this subject")

	// 会话不存在、不属于调用者、或已结算，一律返回此错误，不向非属主泄露存在性
	ErrSessionNotFound = errors.New("active session not found")

	ErrChallengeAttempted = errors.New("challenge already attempted")
	ErrSessionCorrupted   = errors.New("session state corrupted")
)
