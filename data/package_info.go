// Package data loads the request payloads that tests send to the posts resource.
package data
