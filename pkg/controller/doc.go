// Package controller holds the state machine behind the prediction form.
//
// A Controller owns one FeatureSet and one RequestState. UpdateField coerces
// raw input and stores it; Submit moves the state to pending synchronously and
// performs the prediction on a goroutine. Every Submit bumps a generation
// counter and cancels the request it supersedes, so a slow response can never
// overwrite the result of a newer submission.
package controller
