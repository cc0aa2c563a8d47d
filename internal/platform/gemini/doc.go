// Package gemini provides an implementation of the generation.Client interface
// backed by Google's Gemini API.
//
// This package is an infrastructure adapter: it translates composed generation
// requests into genai calls without exposing the external service to the
// orchestration core.
//
// Key components:
//
// 1. Client:
//   - Implements generation.Client
//   - Image mode calls Models.GenerateContent with the reference images as
//     request parts and returns the inline image outputs synchronously
//   - Video mode calls Models.GenerateVideos and returns the long-running
//     operation name as the task id
//   - QueryTaskStatus reads the operation through Operations.GetVideosOperation
//
// 2. Reference loading:
//   - gs:// URIs are passed through as file parts
//   - data: URLs are decoded locally
//   - http(s) URLs are downloaded and sent inline, with the MIME type sniffed
//     when the server does not declare one
//
// 3. Error handling:
//   - Submissions are retried with exponential backoff (cenkalti/backoff)
//   - Safety blocks and malformed responses are permanent and never retried
//   - Errors are translated to the generation package's sentinel errors
package gemini
