// Copyright the Vereinsbot contributors.
// SPDX-License-Identifier: MIT

// Package constants defines global constants used throughout the group lifecycle service.
package constants

// Service constants
const (
	// ServiceName is the name of this service
	ServiceName = "group-lifecycle"
)

// Messaging platform address domains
const (
	// UserAddressDomain is the canonical domain suffix for person addresses
	UserAddressDomain = "s.whatsapp.net"
	// GroupAddressDomain is the canonical domain suffix for group addresses
	GroupAddressDomain = "g.us"
	// LinkedDeviceAddressDomain is the domain suffix the platform uses for
	// opaque linked-device identities
	LinkedDeviceAddressDomain = "lid"
)

// Group category tags driving eligibility rules
const (
	// GroupTypeRJB marks groups that only admit legal representatives
	GroupTypeRJB = "RJB"
	// GroupTypeJB marks regular youth groups
	GroupTypeJB = "JB"
	// GroupTypeMB marks member groups
	GroupTypeMB = "MB"
)

// AuthorizationKeyDigits is the number of trailing phone digits used as
// the authorization join key. Country-code prefixes are inconsistently
// recorded upstream, so matching is done on the suffix only.
const AuthorizationKeyDigits = 8

// Environment variables
const (
	// EnvNATSURL is the environment variable for NATS server URL
	EnvNATSURL = "NATS_URL"
	// EnvWorkerID is the environment variable for the bot worker identity
	EnvWorkerID = "WORKER_ID"
)
