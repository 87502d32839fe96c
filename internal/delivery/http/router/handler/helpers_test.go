package handler

import "github.com/stretchr/testify/mock"

// mockAnything shortens the very common wildcard expectation.
var mockAnything = mock.Anything

type mockArguments = mock.Arguments
