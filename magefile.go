//go:build mage

package main

import (
	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

// Build compiles the vntranslate binary
func Build() error {
	return sh.RunV("go", "build", "-o", "vntranslate", "./cmd/vntranslate")
}

// Test runs all tests
func Test() error {
	return sh.RunV("go", "test", "./...")
}

// Vet runs go vet
func Vet() error {
	return sh.RunV("go", "vet", "./...")
}

// All builds after vetting and testing
func All() {
	mg.SerialDeps(Vet, Test, Build)
}

// Clean removes build artifacts
func Clean() error {
	return sh.Rm("vntranslate")
}
