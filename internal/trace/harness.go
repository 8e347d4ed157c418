package trace

// harnessSource is the Python program Record hands to the interpreter
// via -c. It runs the target script under cProfile in-process and
// serializes the per-function stats as JSON lines to the artifact
// path, one object per profiled function. cProfile's native dump
// format is CPython marshal data; emitting JSON here keeps the Go side
// free of any dependency on that format.
//
// The target script runs as __main__ with its own argv, and any
// exception it raises (including SystemExit) is swallowed after the
// profiler is disabled: recording is best-effort capture of whatever
// executed before the failure.
const harnessSource = `
import cProfile
import json
import runpy
import sys

script, artifact = sys.argv[1], sys.argv[2]
profiler = cProfile.Profile()
sys.argv = [script]
try:
    profiler.enable()
    try:
        runpy.run_path(script, run_name="__main__")
    finally:
        profiler.disable()
except BaseException:
    pass

profiler.create_stats()
with open(artifact, "w") as out:
    for (filename, line, name), (cc, nc, tt, ct, callers) in profiler.stats.items():
        out.write(json.dumps({
            "file": filename,
            "line": line,
            "name": name,
            "ncalls": nc,
            "primcalls": cc,
            "tottime": tt,
            "cumtime": ct,
        }))
        out.write("\n")
`
