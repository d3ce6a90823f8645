// Package utils provides the coercion helpers used to turn provider-controlled
// attribute strings into typed values (flags, amounts, counts and timestamps).
package utils
