package errors

// ErrorCode represents a specific error code in the system.
type ErrorCode string

const (
	// GeneralInternalServerError represents a generic internal server error.
	GeneralInternalServerError ErrorCode = "general_internal_server_error"
	// GeneralBadRequestError represents a generic bad request error.
	GeneralBadRequestError ErrorCode = "general_bad_request_error"
	// GeneralNotFoundError represents a generic not found error.
	GeneralNotFoundError ErrorCode = "general_not_found_error"

	// SnapshotMarshalError represents a failure to serialize book state.
	SnapshotMarshalError ErrorCode = "snapshot_marshal_error"
	// SnapshotUnmarshalError represents a failure to parse stored book state.
	SnapshotUnmarshalError ErrorCode = "snapshot_unmarshal_error"
	// SnapshotReadError represents a failure to read stored book state.
	SnapshotReadError ErrorCode = "snapshot_read_error"
	// SnapshotWriteError represents a failure to write book state.
	SnapshotWriteError ErrorCode = "snapshot_write_error"
	// SnapshotInvalidError represents stored book state that fails validation.
	SnapshotInvalidError ErrorCode = "snapshot_invalid_error"

	// RedisConfigError represents an error when the Redis configuration is invalid or nil.
	RedisConfigError ErrorCode = "redis_config_error"
	// RedisConnectionError represents an error when connecting to Redis.
	RedisConnectionError ErrorCode = "redis_connection_error"
	// RedisPingError represents an error when pinging Redis.
	RedisPingError ErrorCode = "redis_pinging_error"
	// RedisGetError represents an error when getting a value from Redis.
	RedisGetError ErrorCode = "redis_get_error"
	// RedisSetError represents an error when setting a value in Redis.
	RedisSetError ErrorCode = "redis_set_error"

	// TradePublishError represents an error when publishing trade events.
	TradePublishError ErrorCode = "trade_publish_error"
	// OrderFeedReadError represents an error when reading order commands from the feed.
	OrderFeedReadError ErrorCode = "order_feed_read_error"
)

// ErrorDetails is a structured error carrying a code and the operation that failed.
type ErrorDetails struct {
	Message   string
	Code      string
	Operation string
}

// NewErrorDetails creates a new ErrorDetails with the provided message, code and operation.
func NewErrorDetails(message, code, operation string) *ErrorDetails {
	return &ErrorDetails{
		Message:   message,
		Code:      code,
		Operation: operation,
	}
}

func (e *ErrorDetails) Error() string {
	return e.Message
}
