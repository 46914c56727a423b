package errors

// 공통 에러 코드
const (
	ErrInternal        = "INTERNAL"
	ErrNotFound        = "NOT_FOUND"
	ErrInvalidArgument = "INVALID_ARGUMENT"
	ErrUnauthenticated = "UNAUTHENTICATED"
	ErrUnauthorized    = "UNAUTHORIZED"
	ErrConflict        = "CONFLICT"
	ErrUnavailable     = "UNAVAILABLE"
	// ErrUpstream은 외부 결제 제공자 호출 실패를 뜻합니다
	ErrUpstream = "UPSTREAM"
)
