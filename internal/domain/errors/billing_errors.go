package errors

import "errors"

var (
	// ErrCustomerNotFound indicates no BillingCustomer matches the given key
	ErrCustomerNotFound = errors.New("billing customer not found")

	// ErrDuplicatePayment indicates a payment with the same external id already exists
	ErrDuplicatePayment = errors.New("payment already recorded")

	// ErrNoSubscription indicates the customer has no linked subscription
	ErrNoSubscription = errors.New("no active subscription found")

	// ErrCancellationNotConfirmed indicates the user did not confirm a cancellation
	ErrCancellationNotConfirmed = errors.New("subscription cancellation was not confirmed")
)

// Webhook errors
var (
	// ErrInvalidPayload indicates the body is not a parseable event envelope
	ErrInvalidPayload = errors.New("invalid webhook payload")

	// ErrInvalidSignature indicates the signature header does not match the body
	ErrInvalidSignature = errors.New("invalid webhook signature")

	// ErrMalformedEvent indicates an authenticated event without a type or object
	ErrMalformedEvent = errors.New("malformed webhook event")

	// ErrInvalidEventObject indicates the event object could not be decoded
	// into the shape its type promises
	ErrInvalidEventObject = errors.New("invalid webhook event object")
)
