// Package model defines the provider-agnostic abstractions for driving
// language models from the local development run service.
//
// Core goals:
//   - Unify streaming + non-streaming generation behind a single interface
//   - Keep request/response shapes minimal and transport independent
//   - Facilitate lightweight mocking for tests (MockModel)
//
// Providers (e.g. OpenAI, Anthropic) implement the Model interface from this
// package so the run service remains decoupled from vendor SDKs.
package model
