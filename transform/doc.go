// Package transform mutates the strings of decoded records in place. It is
// used by [apispec.Normalizer] implementations to tidy manifests before
// they are validated.
package transform
