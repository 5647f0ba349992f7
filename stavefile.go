//go:build stave

package main

import (
	"cmp"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/yaklabco/stave/pkg/sh"
	"github.com/yaklabco/stave/pkg/st"
	"github.com/yaklabco/stave/pkg/target"
)

// Default target runs build.
var Default = Build

// Aliases for common targets.
var Aliases = map[string]any{
	"b":      Build,
	"t":      Test.Default,
	"l":      Lint.Default,
	"c":      Check,
	"sample": Docs.Sample,
}

// Namespace types group related targets.
type (
	Test st.Namespace
	Lint st.Namespace
	Docs st.Namespace
)

const (
	binary = "bin/doxyrst"

	// fixtureXML is the Doxygen output the runner and CLI tests use.
	fixtureXML = "pkg/runner/testdata/xml"

	// sampleOutput receives the pages generated from fixtureXML.
	sampleOutput = "bin/sample-rst"
)

// Build compiles the doxyrst binary with version info.
// Skips recompilation when source files have not changed.
func Build() error {
	rebuild, err := target.Dir(binary, "cmd/", "pkg/", "internal/", "go.mod")
	if err != nil {
		return err
	}
	if !rebuild {
		fmt.Println(binary, "is up to date")
		return nil
	}
	fmt.Println("Building doxyrst...")
	return sh.RunV("go", "build", "-ldflags", ldflags(), "-o", binary, "./cmd/doxyrst")
}

// Install installs doxyrst to $GOBIN or $GOPATH/bin.
func Install() error {
	fmt.Println("Installing doxyrst...")
	return sh.RunV("go", "install", "-ldflags", ldflags(), "./cmd/doxyrst")
}

// Check formats, lints and tests.
func Check() {
	st.SerialDeps(Lint.Fmt, Lint.Vet, Lint.Default, Test.Default)
}

// Clean removes the binary, the sample pages and coverage output.
func Clean() error {
	for _, path := range []string{"bin", "coverage.out"} {
		if err := sh.Rm(path); err != nil {
			return err
		}
	}
	return nil
}

// Default runs all tests with gotestsum, race detection and coverage.
func (Test) Default() error {
	return gotestsum("./...", "-coverprofile=coverage.out", "-covermode=atomic")
}

// Integration runs the end-to-end CLI tests over the fixture XML.
func (Test) Integration() error {
	return gotestsum("./internal/cli/...", "-run", "Integration")
}

// Convert runs the builder, converter and runner tests, the packages that
// decide what the generated pages contain.
func (Test) Convert() error {
	return gotestsum("./pkg/rst/...", "./pkg/convert/...", "./pkg/runner/...", "./pkg/doxygen/...")
}

// Default runs golangci-lint with auto-fix.
func (Lint) Default() error {
	fmt.Println("Running linters...")
	return sh.RunV("golangci-lint", "run", "--fix", "./...")
}

// Fmt formats all Go code.
func (Lint) Fmt() error {
	return sh.RunV("gofmt", "-w", ".")
}

// Vet runs go vet.
func (Lint) Vet() error {
	return sh.RunV("go", "vet", "./...")
}

// Sample generates the pages of the fixture XML into bin/sample-rst,
// replacing what an earlier run left there.
func (Docs) Sample() error {
	st.Deps(Build)
	start := time.Now()
	if err := sh.RunV(binary, "generate",
		"--input", fixtureXML,
		"--output", sampleOutput,
		"--format", "summary",
	); err != nil {
		return err
	}
	fmt.Printf("Generated %s in %s\n", sampleOutput, time.Since(start).Round(time.Millisecond))
	return nil
}

// Watch regenerates the sample pages whenever the fixture XML changes.
func (Docs) Watch() error {
	st.Deps(Build)
	return sh.RunV(binary, "generate",
		"--input", fixtureXML,
		"--output", sampleOutput,
		"--keep-existing",
		"--watch",
	)
}

func gotestsum(args ...string) error {
	nCores := cmp.Or(os.Getenv("STAVE_NUM_PROCESSORS"), "4")
	cmdArgs := []string{
		"tool", "gotestsum",
		"-f", "pkgname-and-test-fails",
		"--",
		"-race",
		"-p", nCores,
		"-parallel", nCores,
	}
	return sh.RunV("go", append(cmdArgs, args...)...)
}

// gitOutput runs a git command and returns trimmed stdout, or empty on error.
func gitOutput(args ...string) string {
	out, err := sh.Output("git", args...)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(out)
}

// ldflags returns the linker flags for version injection.
func ldflags() string {
	version := cmp.Or(gitOutput("describe", "--tags", "--always", "--dirty"), "dev")
	commit := cmp.Or(gitOutput("rev-parse", "--short", "HEAD"), "none")
	date := time.Now().UTC().Format(time.RFC3339)
	return fmt.Sprintf(
		"-X main.version=%s -X main.commit=%s -X main.date=%s",
		version, commit, date,
	)
}
