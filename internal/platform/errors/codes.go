// Package errors provides structured error handling with gRPC status mapping.
package errors

import "google.golang.org/grpc/codes"

// Code is a machine-readable error code.
type Code string

const (
	// CodeUnknown represents an unknown error.
	CodeUnknown Code = "UNKNOWN"

	// Authorization errors
	CodeNotOwner Code = "NOT_OWNER"

	// Question errors
	CodeQuestionNotFound  Code = "QUESTION_NOT_FOUND"
	CodeQuestionInactive  Code = "QUESTION_INACTIVE"
	CodeInvalidDifficulty Code = "INVALID_DIFFICULTY"

	// Commitment errors
	CodeAlreadyCommitted  Code = "ALREADY_COMMITTED"
	CodeNoCommitment      Code = "NO_COMMITMENT"
	CodeCommitmentExpired Code = "COMMITMENT_EXPIRED"

	// Reveal errors
	CodeHashMismatch Code = "HASH_MISMATCH"

	// Token/pool errors
	CodeInsufficientFunds Code = "INSUFFICIENT_FUNDS"

	// Arithmetic errors
	CodeOverflow Code = "OVERFLOW"

	// Storage errors
	CodeNotFound Code = "NOT_FOUND"

	// Reserved codes. These are part of the published taxonomy but no
	// operation currently raises them: pool depletion defers the payout
	// instead of failing, and no duplicate-text or answer-length check is
	// enforced on any path.
	CodeInsufficientPool    Code = "INSUFFICIENT_POOL"
	CodeDuplicateQuestion   Code = "DUPLICATE_QUESTION"
	CodeInvalidAnswerLength Code = "INVALID_ANSWER_LENGTH"
)

// GRPCCode maps domain codes to gRPC status codes.
func (c Code) GRPCCode() codes.Code {
	switch c {
	// InvalidArgument - validation failures, bad input
	case CodeInvalidDifficulty,
		CodeHashMismatch,
		CodeInvalidAnswerLength:
		return codes.InvalidArgument

	// NotFound - missing entities
	case CodeQuestionNotFound,
		CodeNotFound:
		return codes.NotFound

	// AlreadyExists - live commitment conflicts
	case CodeAlreadyCommitted,
		CodeDuplicateQuestion:
		return codes.AlreadyExists

	// FailedPrecondition - state disallows the operation
	case CodeQuestionInactive,
		CodeNoCommitment,
		CodeCommitmentExpired,
		CodeInsufficientFunds,
		CodeInsufficientPool:
		return codes.FailedPrecondition

	// PermissionDenied - caller lacks admin rights
	case CodeNotOwner:
		return codes.PermissionDenied

	// Internal - arithmetic invariant violations
	case CodeOverflow:
		return codes.Internal

	default:
		return codes.Internal
	}
}
