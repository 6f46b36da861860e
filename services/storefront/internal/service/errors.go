package service

import "errors"

var (
	ErrNotFound  = errors.New("not found")    // 404
	ErrEmptyCart = errors.New("empty cart")   // nothing billable
	ErrProcessor = errors.New("payment processor error")
)
