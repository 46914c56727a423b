package errors

import (
	"net/http"

	"google.golang.org/grpc/codes"
)

// CodePair는 에러 코드별 HTTP/gRPC 코드 매핑입니다
type CodePair struct {
	HTTPStatus int
	GRPCCode   codes.Code
}

var codeMapping = map[string]CodePair{
	ErrInternal:        {http.StatusInternalServerError, codes.Internal},
	ErrNotFound:        {http.StatusNotFound, codes.NotFound},
	ErrInvalidArgument: {http.StatusBadRequest, codes.InvalidArgument},
	ErrUnauthenticated: {http.StatusUnauthorized, codes.Unauthenticated},
	ErrUnauthorized:    {http.StatusForbidden, codes.PermissionDenied},
	ErrConflict:        {http.StatusConflict, codes.AlreadyExists},
	ErrUnavailable:     {http.StatusServiceUnavailable, codes.Unavailable},
	ErrUpstream:        {http.StatusBadGateway, codes.Unavailable},
}

// GetCodeMapping은 에러 코드에 해당하는 HTTP 상태와 gRPC 코드를 반환합니다
func GetCodeMapping(code string) (int, codes.Code) {
	if pair, ok := codeMapping[code]; ok {
		return pair.HTTPStatus, pair.GRPCCode
	}
	return http.StatusInternalServerError, codes.Internal
}
