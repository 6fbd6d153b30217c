package errors

import (
	"context"
	goerrors "errors"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// MapToGRPCError translates domain failures into gRPC status errors.
// Validation problems come first because they may also carry a failure kind.
func MapToGRPCError(err error) error {
	if err == nil {
		return nil
	}
	if _, ok := status.FromError(err); ok && !isDomainError(err) {
		return err
	}
	switch {
	case goerrors.Is(err, ErrEmptyContent),
		goerrors.Is(err, ErrContentTooLong),
		goerrors.Is(err, ErrInvalidCounterpart),
		goerrors.Is(err, ErrNotDirectChannel),
		goerrors.Is(err, ErrInvalidPassword):
		return status.Error(codes.InvalidArgument, err.Error())
	case goerrors.Is(err, ErrUserAlreadyExists):
		return status.Error(codes.AlreadyExists, err.Error())
	case goerrors.Is(err, ErrNoActiveChannel):
		return status.Error(codes.FailedPrecondition, err.Error())
	case goerrors.Is(err, ErrChannelNotFound),
		goerrors.Is(err, ErrMessageNotFound),
		goerrors.Is(err, ErrProfileNotFound):
		return status.Error(codes.NotFound, err.Error())
	case goerrors.Is(err, ErrUnauthenticated),
		goerrors.Is(err, ErrInvalidCredentials):
		return status.Error(codes.Unauthenticated, err.Error())
	case goerrors.Is(err, ErrSubscription),
		goerrors.Is(err, ErrFetch),
		goerrors.Is(err, ErrSend):
		return status.Error(codes.Unavailable, err.Error())
	case goerrors.Is(err, context.DeadlineExceeded):
		return status.Error(codes.DeadlineExceeded, err.Error())
	case goerrors.Is(err, context.Canceled):
		return status.Error(codes.Canceled, err.Error())
	default:
		return status.Error(codes.Internal, err.Error())
	}
}

func isDomainError(err error) bool {
	for _, kind := range []error{
		ErrFetch, ErrSend, ErrResolve, ErrSubscription,
		ErrEmptyContent, ErrContentTooLong, ErrNoActiveChannel,
		ErrInvalidCounterpart, ErrChannelNotFound, ErrNotDirectChannel,
		ErrProfileNotFound, ErrMessageNotFound, ErrUnauthenticated,
		ErrInvalidPassword, ErrUserAlreadyExists, ErrInvalidCredentials,
	} {
		if goerrors.Is(err, kind) {
			return true
		}
	}
	return false
}
