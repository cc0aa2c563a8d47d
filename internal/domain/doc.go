// Package domain contains the core entities of the storyboard generation
// service: asset libraries, generation targets, batch progress, asynchronous
// generation tasks and the reference sets that drive multi-image prompts.
// It is independent of any specific infrastructure or delivery mechanism.
package domain
