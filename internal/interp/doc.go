// Package interp probes the interpreter that will run the verified
// application. Every probe is a short subprocess started with the run's
// context; only its exit status, stdout and the last stderr line are
// observed, and no API of the probed libraries is exercised. Source files
// are compiled by the interpreter itself, never executed.
//
//	py := interp.NewPython("python3")
//	v, err := py.Version(ctx)
//	probe, err := py.ProbeModule(ctx, "pandas")
//	err = py.CompileFile(ctx, "app.py")
package interp
