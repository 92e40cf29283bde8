package errcodes

import "git.appkode.ru/pub/go/failure"

const (
	InternalServerError failure.ErrorCode = "InternalServerError"
	TimeoutExceeded     failure.ErrorCode = "TimeoutExceeded"
	Forbidden           failure.ErrorCode = "Forbidden"
	ValidationError     failure.ErrorCode = "ValidationError"
	NotFound            failure.ErrorCode = "NotFound"
	InvalidPaging       failure.ErrorCode = "InvalidPaging"
	InvalidURL          failure.ErrorCode = "InvalidURL"

	// Pipeline
	ProviderUnavailable failure.ErrorCode = "ProviderUnavailable" // rate limit, timeout, 5xx
	ProviderRejected    failure.ErrorCode = "ProviderRejected"    // 4xx other than 408/429
	MalformedResponse   failure.ErrorCode = "MalformedResponse"   // reply does not match the schema
	InvalidDeal         failure.ErrorCode = "InvalidDeal"         // price <= 0, empty description
	FetchFailed         failure.ErrorCode = "FetchFailed"
	ExtractionFailed    failure.ErrorCode = "ExtractionFailed"
	EstimationFailed    failure.ErrorCode = "EstimationFailed"
	PersistenceFailed   failure.ErrorCode = "PersistenceFailed"
	NotificationFailed  failure.ErrorCode = "NotificationFailed"
	ScanInProgress      failure.ErrorCode = "ScanInProgress"
	IndexUnavailable    failure.ErrorCode = "IndexUnavailable"
	ModelUnavailable    failure.ErrorCode = "ModelUnavailable"
)
