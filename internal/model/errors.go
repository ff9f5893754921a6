package model

import "errors"

// NoDataMessage is the error text rendered when a topic has no research data
const NoDataMessage = "No research data found for the specified topic"

// Sentinel errors shared across packages
var (
	ErrNoResearchData = errors.New("no research data found for topic")
	ErrInvalidConfig  = errors.New("invalid configuration")
	ErrInvalidInput   = errors.New("invalid input")
	ErrUnknownTopic   = errors.New("topic could not be determined")
)
