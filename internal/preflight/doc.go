// Package preflight verifies that a deployment is ready to run before it is
// launched.
//
// Five checks run in a fixed order, each printing its own findings:
//   - Python Version: the interpreter reports a supported version
//   - Dependencies: every required module loads (no short-circuit)
//   - Files & Directories: expected paths exist with the right kind
//   - Application Syntax: the entry file compiles without errors
//   - Data Files: required data files exist; sample files are counted
//
// Use the Checker type to run the whole sequence:
//
//	checker := preflight.New(manifest, preflight.WithRoot(dir))
//	report, err := checker.Verify(ctx)
//	if err != nil {
//	    // interrupted or internal failure
//	}
//	os.Exit(report.ExitCode())
package preflight
