// Package client talks to the remote price prediction service. HTTPClient
// posts the thirteen features as a JSON object to <baseURL>/predict and turns
// the response into a Prediction or an error; Message maps any error onto the
// text the form displays.
package client
