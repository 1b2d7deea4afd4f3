// Copyright the Vereinsbot contributors.
// SPDX-License-Identifier: MIT

package constants

const (
	// KVBucketNameMembershipRecords is the name of the KV bucket holding
	// group entry/exit records.
	KVBucketNameMembershipRecords = "group-membership-records"

	// KVBucketNameRequestStatus is the name of the KV bucket holding
	// per-request fulfillment status.
	KVBucketNameRequestStatus = "group-requests"

	// KVBucketNameAuthorizations is the name of the KV bucket holding
	// contact authorization records. Written by the authorization sweep,
	// read-only to this service.
	KVBucketNameAuthorizations = "contact-authorizations"
)
