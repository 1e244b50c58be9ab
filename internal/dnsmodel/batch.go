package dnsmodel

// BatchFailure records why one item in a batch operation failed,
// keyed by whatever identifier the caller supplied for it (a record
// name for create, a record id for update/delete).
type BatchFailure struct {
	Identifier string
	Reason     string
}

// BatchCreateResult is the uniform result of a batch record creation.
// Batch operations never short-circuit on first failure and
// never carry an atomicity guarantee.
type BatchCreateResult struct {
	SuccessCount int
	FailedCount  int
	Created      []DnsRecord
	Failures     []BatchFailure
}

// BatchUpdateResult is the uniform result of a batch record update.
type BatchUpdateResult struct {
	SuccessCount int
	FailedCount  int
	Updated      []DnsRecord
	Failures     []BatchFailure
}

// BatchDeleteResult is the uniform result of a batch record deletion.
type BatchDeleteResult struct {
	SuccessCount int
	FailedCount  int
	Failures     []BatchFailure
}

// BatchTagResult is the uniform result of a bulk tag operation.
type BatchTagResult struct {
	SuccessCount int
	FailedCount  int
	Failures     []BatchFailure
}
