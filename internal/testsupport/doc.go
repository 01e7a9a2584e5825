// Package testsupport provides shared fixtures for package tests: a config
// builder rooted in temp directories, a recording fake of the catalog API,
// PNG-sniffable image files, and state store helpers.
package testsupport
