// Package script runs Lua trial scripts against the listener registry.
//
// Experiment authors describe trials in Lua instead of recompiling the
// host. Scripts see a global `trialkey` table:
//
//	trialkey.request_response{
//	    callback = function(resp) print(resp.key, resp.rt) end,
//	    valid_responses = {"f", "j"},
//	    persist = false,
//	    priority = "normal",
//	}
//	trialkey.cancel(handle)
//	trialkey.cancel_all()
//	trialkey.compare_keys("A", "a")
//	trialkey.held_keys()
//
// The Lua state is sandboxed: only the base, table, string, and math
// libraries are opened, so scripts cannot touch the file system or spawn
// processes.
//
// gopher-lua's LState is not goroutine-safe. The Runner serializes script
// execution and response callbacks through one mutex, so callbacks fired by
// key dispatch wait for any running script chunk to finish.
package script
